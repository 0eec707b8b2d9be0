// Package validation provides the project name predicate and path safety
// checks applied to user-supplied directories and archive entry names.
package validation

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidatePath validates a configured directory or file path to prevent path
// traversal and shell metacharacters.
func ValidatePath(p string) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(p))
	for _, segment := range strings.Split(cleanPath, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected: %s", p)
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\x00"}
	for _, char := range dangerousChars {
		if strings.Contains(p, char) {
			return fmt.Errorf("path contains dangerous character: %q", char)
		}
	}

	return nil
}

// ValidateEntryName validates a slash-separated archive entry or generated
// file name. Entries must be relative and stay inside the archive root.
func ValidateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if strings.Contains(name, "\\") {
		return fmt.Errorf("entry name contains backslash: %s", name)
	}
	if path.IsAbs(name) || filepath.IsAbs(name) {
		return fmt.Errorf("absolute entry name not allowed: %s", name)
	}

	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("entry escapes archive root: %s", name)
	}

	return nil
}

// ValidateFileExtension validates file extensions against an allowlist.
// Extensions are compared without the leading dot and case-insensitively.
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return fmt.Errorf("file must have an extension")
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.TrimPrefix(strings.ToLower(allowed), ".") {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed", ext)
}
