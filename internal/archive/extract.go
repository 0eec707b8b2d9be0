package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/validation"
)

const (
	fileMode os.FileMode = entryMode
	dirMode  os.FileMode = 0o755
)

// Read decodes every regular file of an archive in the given format, in
// archive order. Members with unsafe names are rejected.
func Read(r io.Reader, format Format) ([]File, error) {
	switch format.Method {
	case MethodTar:
		return readTar(r, format.Compression)
	case MethodZip:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return readZip(data)
	default:
		return nil, errors.UnsupportedArchive("", string(format.Method))
	}
}

// Extract reads the archive at src from the archiver's filesystem.
func (a *Archiver) Extract(ctx context.Context, src string) ([]File, error) {
	detected, format := Detect(src)
	if detected != src {
		return nil, errors.UnsupportedArchive(src, path.Ext(src))
	}

	f, err := a.fs.Open(src)
	if err != nil {
		return nil, errors.ConfigNotFound(src, err)
	}
	defer f.Close()

	files, err := Read(f, format)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "Archive read", "path", src, "format", format.String(), "files", len(files))

	return files, nil
}

// ExtractTo unpacks the archive at src into dir on dst and returns the
// number of files written.
func (a *Archiver) ExtractTo(ctx context.Context, src string, dst afero.Fs, dir string) (int, error) {
	files, err := a.Extract(ctx, src)
	if err != nil {
		return 0, err
	}

	for i, file := range files {
		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		if err := dst.MkdirAll(filepath.Dir(target), dirMode); err != nil {
			return i, errors.FileWrite(target, err)
		}
		if err := afero.WriteFile(dst, target, file.Content, fileMode); err != nil {
			return i, errors.FileWrite(target, err)
		}
	}

	a.logger.Info(ctx, "Archive extracted", "path", src, "destination", dir, "files", len(files))

	return len(files), nil
}

func readTar(r io.Reader, compression Compression) ([]File, error) {
	stream, err := streamReader(r, compression)
	if err != nil {
		return nil, err
	}

	var files []File
	tr := tar.NewReader(stream)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return files, nil
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := validation.ValidateEntryName(header.Name); err != nil {
			return nil, err
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: header.Name, Content: content})
	}
}

func readZip(data []byte) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	registerDecompressors(zr)

	files := make([]File, 0, len(zr.File))
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if err := validation.ValidateEntryName(member.Name); err != nil {
			return nil, err
		}

		content, err := readMember(member)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: member.Name, Content: content})
	}

	return files, nil
}

func readMember(member *zip.File) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
