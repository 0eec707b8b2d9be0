// Package errors defines the error taxonomy of the generation engine and a
// collector for per-item failures recorded during fan-out.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// FileError represents a failure of a single per-file operation.
type FileError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface
func (fe *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", fe.Op, fe.Path, fe.Err)
}

// Unwrap returns the underlying error.
func (fe *FileError) Unwrap() error {
	return fe.Err
}

// ErrorCollector collects per-item errors from concurrent workers.
type ErrorCollector struct {
	errors []FileError
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]FileError, 0),
	}
}

// Add records a failed operation on path. A nil err is ignored.
func (ec *ErrorCollector) Add(op, path string, err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, FileError{Path: path, Op: op, Err: err})
}

// Count returns the number of recorded failures.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	return ec.Count() > 0
}

// Errors returns a copy of the recorded failures ordered by path.
func (ec *ErrorCollector) Errors() []FileError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]FileError, len(ec.errors))
	copy(result, ec.errors)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// Err joins every recorded failure, or returns nil when there are none.
func (ec *ErrorCollector) Err() error {
	fileErrors := ec.Errors()
	if len(fileErrors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(fileErrors))
	for i := range fileErrors {
		errs = append(errs, &fileErrors[i])
	}
	return errors.Join(errs...)
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
