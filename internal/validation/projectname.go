package validation

import (
	"regexp"

	"github.com/conneroisu/fpgagen/internal/errors"
)

// ProjectNamePattern is the identifier rule applied to project names. The
// name ends up in file names and archive paths.
var ProjectNamePattern = regexp.MustCompile(`^[A-Za-z][0-9A-Za-z_]*$`)

// ValidProjectName reports whether name is an acceptable project name.
func ValidProjectName(name string) bool {
	return ProjectNamePattern.MatchString(name)
}

// ValidateProjectName returns an InvalidProjectName error carrying the
// offending name when it does not match ProjectNamePattern.
func ValidateProjectName(name string) error {
	if !ValidProjectName(name) {
		return errors.InvalidProjectName(name)
	}

	return nil
}
