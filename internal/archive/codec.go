package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Zip method identifiers beyond those known to archive/zip.
const (
	zipMethodBzip2 uint16 = 12
	zipMethodLZMA  uint16 = 14

	// zipFlagLZMAEOS marks an LZMA entry terminated by an end-of-stream marker.
	zipFlagLZMAEOS uint16 = 0x2
)

// lzmaSDKVersion is written in front of the properties of a zip LZMA entry.
var lzmaSDKVersion = []byte{9, 20}

// nopWriteCloser lets an uncompressed stream share the codec code path.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// streamWriter wraps w with the codec for a compressed tar stream.
func streamWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case CompressionBzip2:
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	case CompressionXZ:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("compression %q is not supported for tar", c)
	}
}

// streamReader undoes streamWriter.
func streamReader(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionNone:
		return r, nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionBzip2:
		return bzip2.NewReader(r, nil)
	case CompressionXZ:
		return xz.NewReader(r)
	default:
		return nil, fmt.Errorf("compression %q is not supported for tar", c)
	}
}

// zipPayload is one zip entry compressed ahead of time.
type zipPayload struct {
	method uint16
	flags  uint16
	data   []byte
}

// compressEntry compresses content with the zip codec for c.
func compressEntry(content []byte, c Compression) (*zipPayload, error) {
	switch c {
	case CompressionNone:
		return &zipPayload{method: zip.Store, data: content}, nil
	case CompressionDeflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			return nil, err
		}
		if err := writeAndClose(w, content); err != nil {
			return nil, err
		}
		return &zipPayload{method: zip.Deflate, data: buf.Bytes()}, nil
	case CompressionBzip2:
		var buf bytes.Buffer
		w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return nil, err
		}
		if err := writeAndClose(w, content); err != nil {
			return nil, err
		}
		return &zipPayload{method: zipMethodBzip2, data: buf.Bytes()}, nil
	case CompressionLZMA:
		data, err := lzmaEntry(content)
		if err != nil {
			return nil, err
		}
		return &zipPayload{method: zipMethodLZMA, flags: zipFlagLZMAEOS, data: data}, nil
	default:
		return nil, fmt.Errorf("compression %q is not supported for zip", c)
	}
}

// lzmaEntry encodes content in the zip LZMA layout: SDK version, size of
// the properties, the five property bytes and the raw stream. The classic
// LZMA header produced by the encoder carries the same properties followed
// by an eight byte size that zip does not use.
func lzmaEntry(content []byte) ([]byte, error) {
	var classic bytes.Buffer
	w, err := lzma.NewWriter(&classic)
	if err != nil {
		return nil, err
	}
	if err := writeAndClose(w, content); err != nil {
		return nil, err
	}

	raw := classic.Bytes()
	if len(raw) < lzma.HeaderLen {
		return nil, fmt.Errorf("lzma stream too short")
	}

	out := make([]byte, 0, 4+len(raw)-8)
	out = append(out, lzmaSDKVersion...)
	out = binary.LittleEndian.AppendUint16(out, 5)
	out = append(out, raw[:5]...)
	out = append(out, raw[lzma.HeaderLen:]...)

	return out, nil
}

// lzmaDecompressor reads a zip LZMA entry by rebuilding the classic header
// with an unknown size.
func lzmaDecompressor(r io.Reader) io.ReadCloser {
	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return errReadCloser{err}
	}

	props := make([]byte, binary.LittleEndian.Uint16(prefix[2:]))
	if len(props) != 5 {
		return errReadCloser{fmt.Errorf("unexpected lzma properties size %d", len(props))}
	}
	if _, err := io.ReadFull(r, props); err != nil {
		return errReadCloser{err}
	}

	header := append(props, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	lr, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header), r))
	if err != nil {
		return errReadCloser{err}
	}

	return io.NopCloser(lr)
}

func bzip2Decompressor(r io.Reader) io.ReadCloser {
	br, err := bzip2.NewReader(r, nil)
	if err != nil {
		return errReadCloser{err}
	}

	return br
}

func deflateDecompressor(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// registerDecompressors teaches zr the codecs written by compressEntry.
func registerDecompressors(zr *zip.Reader) {
	zr.RegisterDecompressor(zip.Deflate, deflateDecompressor)
	zr.RegisterDecompressor(zipMethodBzip2, bzip2Decompressor)
	zr.RegisterDecompressor(zipMethodLZMA, lzmaDecompressor)
}

type errReadCloser struct{ err error }

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error             { return nil }

func writeAndClose(w io.WriteCloser, content []byte) error {
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}
