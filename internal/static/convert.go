package static

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/errors"
)

// Convert re-encodes the structured document at src into format and writes
// it next to src with the new extension. It returns the written path.
// An existing destination is only replaced when rewrite is set.
func (s *Store) Convert(ctx context.Context, src string, format Format, rewrite bool) (string, error) {
	if FormatOf(src) == FormatRaw {
		return "", fmt.Errorf("convert %s: not a structured document", src)
	}

	loaded, err := s.Load(src)
	if err != nil {
		return "", err
	}
	doc := loaded.(map[string]interface{})

	data, err := Marshal(doc, format)
	if err != nil {
		return "", fmt.Errorf("encode %s as %s: %w", src, format, err)
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "." + string(format)
	if dst == src {
		return "", fmt.Errorf("convert %s: source is already %s", src, format)
	}

	exists, err := afero.Exists(s.fs, dst)
	if err != nil {
		return "", err
	}
	if exists && !rewrite {
		return "", errors.DestinationExists(dst)
	}

	if err := afero.WriteFile(s.fs, dst, data, 0o644); err != nil {
		return "", errors.FileWrite(dst, err)
	}

	s.logger.Info(ctx, "Converted static file", "source", src, "destination", dst, "format", string(format))

	return dst, nil
}
