//go:build property
// +build property

package archive

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDetectProperties verifies format inference over generated names.
func TestDetectProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("plain names always become tar archives", prop.ForAll(
		func(name string) bool {
			path, format := Detect(name)
			return path == name+".tar" &&
				format == Tar
		},
		gen.Identifier(),
	))

	properties.Property("tar with a known codec keeps the destination", prop.ForAll(
		func(name string, codec string) bool {
			dest := name + ".tar." + codec
			path, format := Detect(dest)
			return path == dest &&
				format.Method == MethodTar &&
				format.Compression != CompressionNone
		},
		gen.Identifier(),
		gen.OneConstOf("gz", "gzip", "bz2", "bzip2", "xz"),
	))

	properties.Property("zip is detected regardless of case", prop.ForAll(
		func(name string) bool {
			_, format := Detect(name + ".ZIP")
			return format.Method == MethodZip && format.Compression == CompressionNone
		},
		gen.Identifier(),
	))

	properties.Property("the method is read from the file name only", prop.ForAll(
		func(dir, name string) bool {
			_, format := Detect(dir + ".zip/" + name + ".tar")
			return format.Method == MethodTar && !strings.HasSuffix(name, ".zip")
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
