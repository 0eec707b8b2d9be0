// Package archive writes a generated file set to a tar or zip archive and
// reads it back. The archive kind is inferred from the destination name.
package archive

import (
	"path/filepath"
	"strings"
)

// Method is the container format.
type Method string

const (
	MethodTar Method = "tar"
	MethodZip Method = "zip"
)

// Compression is the codec applied to the tar stream or to each zip entry.
type Compression string

const (
	CompressionNone    Compression = ""
	CompressionGzip    Compression = "gzip"
	CompressionBzip2   Compression = "bzip2"
	CompressionXZ      Compression = "xz"
	CompressionDeflate Compression = "deflate"
	CompressionLZMA    Compression = "lzma"
)

// Format is a method plus its compression.
type Format struct {
	Method      Method
	Compression Compression
}

func (f Format) String() string {
	if f.Compression == CompressionNone {
		return string(f.Method)
	}

	return string(f.Method) + "+" + string(f.Compression)
}

// Tar is the format of in-memory archives.
var Tar = Format{Method: MethodTar}

// Detect infers the format from the last two dot-separated segments of
// dest's file name, read as (method, compression). When the first of them
// is not a method the last one is the method and there is no compression.
// A destination without a method gets ".tar" appended. Compression hints
// are matched on their first letter: g, b and x for tar; d, b and l for
// zip. Any other hint leaves the archive uncompressed.
func Detect(dest string) (string, Format) {
	segments := strings.Split(strings.ToLower(filepath.Base(dest)), ".")

	method, hint := segments[len(segments)-1], ""
	if len(segments) > 2 && isMethod(segments[len(segments)-2]) {
		method, hint = segments[len(segments)-2], segments[len(segments)-1]
	}

	if len(segments) < 2 || !isMethod(method) {
		return dest + ".tar", Tar
	}

	format := Format{Method: Method(method)}
	if hint != "" {
		format.Compression = compressionFor(format.Method, hint[0])
	}

	return dest, format
}

func isMethod(s string) bool {
	return s == string(MethodTar) || s == string(MethodZip)
}

func compressionFor(method Method, hint byte) Compression {
	switch method {
	case MethodTar:
		switch hint {
		case 'g':
			return CompressionGzip
		case 'b':
			return CompressionBzip2
		case 'x':
			return CompressionXZ
		}
	case MethodZip:
		switch hint {
		case 'd':
			return CompressionDeflate
		case 'b':
			return CompressionBzip2
		case 'l':
			return CompressionLZMA
		}
	}

	return CompressionNone
}
