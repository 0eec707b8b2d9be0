//go:build property
// +build property

package board

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/fpgagen/internal/errors"
)

// TestSetupProjectNameProperties checks the name setter against generated
// identifiers and non-identifiers.
func TestSetupProjectNameProperties(t *testing.T) {
	c, _ := newComposer(t, "marsohod2")
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("identifiers are accepted", prop.ForAll(
		func(name string) bool {
			return c.Setup(ctx, WithProjectName(name)) == nil && c.ProjectName() == name
		},
		gen.Identifier(),
	))

	properties.Property("a leading digit is rejected", prop.ForAll(
		func(digit rune, rest string) bool {
			err := c.Setup(ctx, WithProjectName(string(digit)+rest))
			return errors.Is(err, errors.ErrInvalidProjectName)
		},
		gen.NumChar(),
		gen.Identifier(),
	))

	properties.Property("a dash is rejected anywhere", prop.ForAll(
		func(head, tail string) bool {
			err := c.Setup(ctx, WithProjectName(head+"-"+tail))
			return errors.Is(err, errors.ErrInvalidProjectName)
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.Property("wrapped names are unwrapped before validation", prop.ForAll(
		func(name string) bool {
			err := c.Setup(ctx, WithProjectName([]interface{}{[]string{name, "ignored"}}))
			return err == nil && c.ProjectName() == name
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
