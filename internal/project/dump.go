package project

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
	"github.com/conneroisu/fpgagen/internal/workerpool"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// DumpOptions controls how a file set is written to disk.
type DumpOptions struct {
	// Rewrite removes an existing destination instead of failing.
	Rewrite bool
	Workers int
	Logger  logging.Logger
}

// DumpResult reports the outcome of a dump. Per-file failures do not abort
// the dump and are listed here instead.
type DumpResult struct {
	Path     string
	Written  int
	Failures []errors.FileError
}

// Failed returns the number of failed directory and file operations.
func (r *DumpResult) Failed() int {
	return len(r.Failures)
}

// Err joins every recorded failure into a single FileWrite error, or
// returns nil when the dump was complete.
func (r *DumpResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}

	collector := errors.NewErrorCollector()
	for _, failure := range r.Failures {
		collector.Add(failure.Op, failure.Path, failure.Err)
	}

	return errors.FileWrite(r.Path, collector.Err())
}

// Dump writes files under dir. The destination must not exist unless
// opts.Rewrite is set; one subdirectory is created per non-empty group.
func Dump(ctx context.Context, fs afero.Fs, files *Files, dir string, opts DumpOptions) (*DumpResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("dump")

	exists, err := afero.Exists(fs, dir)
	if err != nil {
		return nil, errors.FileWrite(dir, err)
	}
	if exists && !opts.Rewrite {
		return nil, errors.DestinationExists(dir)
	}

	start := time.Now()
	collector := errors.NewErrorCollector()

	_, groups := files.Groups()
	dirs := []string{dir}
	for _, group := range slices.Sorted(maps.Keys(groups)) {
		dirs = append(dirs, filepath.Join(dir, filepath.FromSlash(group)))
	}
	if failed := CreateDirs(ctx, fs, logger, collector, opts.Rewrite, dirs...); failed > 0 && hasFailure(collector, dir) {
		// Nothing can be written without the root directory.
		return &DumpResult{Path: dir, Failures: collector.Errors()}, nil
	}

	paths := files.Paths()
	results := workerpool.Run(ctx, opts.Workers, paths, func(ctx context.Context, p string) (struct{}, error) {
		content, _ := files.Get(p)
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return struct{}{}, err
		}
		if err := afero.WriteFile(fs, target, []byte(content), filePerm); err != nil {
			return struct{}{}, err
		}
		logger.Debug(ctx, "File written", "path", target)
		return struct{}{}, nil
	})

	written := 0
	for i, result := range results {
		if result.Err != nil {
			logger.Warn(ctx, result.Err, "File was not written", "path", paths[i])
			collector.Add("write", paths[i], result.Err)
			continue
		}
		written++
	}

	logger.Info(ctx, "Project dumped",
		"path", dir,
		"written", written,
		"failed", collector.Count(),
		"duration_ms", time.Since(start).Milliseconds())

	return &DumpResult{Path: dir, Written: written, Failures: collector.Errors()}, nil
}

// CreateDirs creates every path and returns the number of failures. An
// existing path is removed first when rewrite is set and is a failure
// otherwise.
func CreateDirs(ctx context.Context, fs afero.Fs, logger logging.Logger, collector *errors.ErrorCollector, rewrite bool, paths ...string) int {
	before := collector.Count()

	for _, p := range paths {
		exists, err := afero.Exists(fs, p)
		if err != nil {
			collector.Add("mkdir", p, err)
			continue
		}
		if exists {
			if !rewrite {
				logger.Debug(ctx, "Skip existing directory", "path", p)
				collector.Add("mkdir", p, errors.DestinationExists(p))
				continue
			}
			if err := fs.RemoveAll(p); err != nil {
				logger.Warn(ctx, err, "Cannot remove directory", "path", p)
				collector.Add("remove", p, err)
				continue
			}
		}
		if err := fs.MkdirAll(p, dirPerm); err != nil {
			logger.Warn(ctx, err, "Cannot create directory", "path", p)
			collector.Add("mkdir", p, err)
			continue
		}
		logger.Debug(ctx, "Directory created", "path", p)
	}

	return collector.Count() - before
}

func hasFailure(collector *errors.ErrorCollector, p string) bool {
	for _, failure := range collector.Errors() {
		if failure.Path == p {
			return true
		}
	}

	return false
}
