package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"hash/crc32"
	"io"
	"path"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
	"github.com/conneroisu/fpgagen/internal/validation"
	"github.com/conneroisu/fpgagen/internal/workerpool"
)

const entryMode = 0o644

// Entry is a file or a one-level directory of files. Children are stored
// under the entry's name as a prefix.
type Entry struct {
	Name     string
	Content  []byte
	Children []Entry
}

// File is a flattened archive member.
type File struct {
	Path    string
	Content []byte
}

// Flatten expands directory entries into files with prefixed paths.
func Flatten(entries []Entry) []File {
	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.Children == nil {
			files = append(files, File{Path: entry.Name, Content: entry.Content})
			continue
		}
		for _, child := range entry.Children {
			files = append(files, File{Path: path.Join(entry.Name, child.Name), Content: child.Content})
		}
	}

	return files
}

// Options controls a Write call.
type Options struct {
	// Rewrite replaces an existing destination instead of failing.
	Rewrite bool
	// ModTime is stamped on every member.
	ModTime time.Time
}

// Result reports the outcome of writing an archive.
type Result struct {
	Path     string
	Format   Format
	Added    int
	Failures []errors.FileError
}

// Failed returns the number of members that could not be added.
func (r *Result) Failed() int {
	return len(r.Failures)
}

// Archiver writes archives through an afero filesystem.
type Archiver struct {
	fs      afero.Fs
	logger  logging.Logger
	workers int
}

// New creates an Archiver. workers bounds the per-entry compression of zip
// archives.
func New(fs afero.Fs, logger logging.Logger, workers int) *Archiver {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Archiver{
		fs:      fs,
		logger:  logger.WithComponent("archive"),
		workers: workers,
	}
}

// Write stores entries in dest using the format inferred by Detect. An
// existing destination is left untouched and reported as
// ErrDestinationExists unless opts.Rewrite is set. Members that cannot be
// added are recorded in the result and do not abort the archive.
func (a *Archiver) Write(ctx context.Context, entries []Entry, dest string, opts Options) (*Result, error) {
	dest, format := Detect(dest)

	exists, err := afero.Exists(a.fs, dest)
	if err != nil {
		return nil, errors.FileWrite(dest, err)
	}
	if exists && !opts.Rewrite {
		a.logger.Warn(ctx, errors.ErrDestinationExists, "Archive destination exists", "path", dest)
		return nil, errors.DestinationExists(dest)
	}

	a.logger.Debug(ctx, "Archive format detected", "path", dest, "format", format.String())

	var buf bytes.Buffer
	result, err := a.encode(ctx, &buf, Flatten(entries), format, opts.ModTime)
	if err != nil {
		return nil, errors.FileWrite(dest, err)
	}
	result.Path = dest

	if err := afero.WriteFile(a.fs, dest, buf.Bytes(), entryMode); err != nil {
		return nil, errors.FileWrite(dest, err)
	}

	a.logger.Info(ctx, "Archive created",
		"path", dest,
		"format", format.String(),
		"added", result.Added,
		"failed", result.Failed())

	return result, nil
}

// Bytes builds an uncompressed tar archive in memory.
func (a *Archiver) Bytes(ctx context.Context, entries []Entry, modTime time.Time) ([]byte, *Result, error) {
	var buf bytes.Buffer
	result, err := a.encode(ctx, &buf, Flatten(entries), Tar, modTime)
	if err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), result, nil
}

func (a *Archiver) encode(ctx context.Context, w io.Writer, files []File, format Format, modTime time.Time) (*Result, error) {
	if modTime.IsZero() {
		modTime = time.Now()
	}

	switch format.Method {
	case MethodTar:
		return a.encodeTar(ctx, w, files, format.Compression, modTime)
	case MethodZip:
		return a.encodeZip(ctx, w, files, format.Compression, modTime)
	default:
		return nil, errors.UnsupportedArchive("", string(format.Method))
	}
}

func (a *Archiver) encodeTar(ctx context.Context, w io.Writer, files []File, compression Compression, modTime time.Time) (*Result, error) {
	stream, err := streamWriter(w, compression)
	if err != nil {
		return nil, err
	}

	collector := errors.NewErrorCollector()
	result := &Result{Format: Format{Method: MethodTar, Compression: compression}}
	tw := tar.NewWriter(stream)

	for _, file := range files {
		if err := validation.ValidateEntryName(file.Path); err != nil {
			a.logger.Warn(ctx, err, "Entry was not added", "entry", file.Path)
			collector.Add("add", file.Path, err)
			continue
		}

		header := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     file.Path,
			Mode:     entryMode,
			Size:     int64(len(file.Content)),
			ModTime:  modTime,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, err
		}
		if _, err := tw.Write(file.Content); err != nil {
			return nil, err
		}
		a.logger.Debug(ctx, "Entry added", "entry", file.Path)
		result.Added++
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, err
	}
	result.Failures = collector.Errors()

	return result, nil
}

// encodeZip compresses the entries concurrently and then appends them to
// the archive in input order.
func (a *Archiver) encodeZip(ctx context.Context, w io.Writer, files []File, compression Compression, modTime time.Time) (*Result, error) {
	payloads := workerpool.Run(ctx, a.workers, files, func(_ context.Context, file File) (*zipPayload, error) {
		if err := validation.ValidateEntryName(file.Path); err != nil {
			return nil, err
		}
		return compressEntry(file.Content, compression)
	})

	collector := errors.NewErrorCollector()
	result := &Result{Format: Format{Method: MethodZip, Compression: compression}}
	zw := zip.NewWriter(w)

	for i, payload := range payloads {
		file := files[i]
		if payload.Err != nil {
			a.logger.Warn(ctx, payload.Err, "Entry was not added", "entry", file.Path)
			collector.Add("add", file.Path, payload.Err)
			continue
		}

		header := &zip.FileHeader{
			Name:               file.Path,
			Method:             payload.Value.method,
			Flags:              payload.Value.flags,
			Modified:           modTime,
			CRC32:              crc32.ChecksumIEEE(file.Content),
			CompressedSize64:   uint64(len(payload.Value.data)),
			UncompressedSize64: uint64(len(file.Content)),
		}
		header.SetMode(entryMode)

		fw, err := zw.CreateRaw(header)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(payload.Value.data); err != nil {
			return nil, err
		}
		a.logger.Debug(ctx, "Entry added", "entry", file.Path)
		result.Added++
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	result.Failures = collector.Errors()

	return result, nil
}
