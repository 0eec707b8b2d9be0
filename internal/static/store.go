// Package static locates and parses the versioned default configuration of
// boards and auxiliary cores. Documents are stored in one of several
// serialization formats and re-read from the backing filesystem on every call.
package static

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
)

// Format identifies a serialization format by its file extension.
type Format string

const (
	FormatYML    Format = "yml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatTOML   Format = "toml"
	FormatBinary Format = "bin"
	// FormatRaw covers every other extension; content is returned as bytes.
	FormatRaw Format = ""
)

// Extensions lists the suffixes tried by Resolve, in priority order.
var Extensions = []Format{FormatYML, FormatYAML, FormatJSON, FormatTOML, FormatBinary}

func init() {
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
}

// FormatOf returns the structured format of a path, or FormatRaw.
func FormatOf(p string) Format {
	ext := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), "."))
	for _, known := range Extensions {
		if ext == known {
			return ext
		}
	}

	return FormatRaw
}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(name), "."))
	for _, known := range Extensions {
		if f == known {
			return f, nil
		}
	}

	return FormatRaw, fmt.Errorf("unsupported format %q", name)
}

// Store resolves names relative to the root of its filesystem.
type Store struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewStore creates a store over fs. Paths handed to and returned by the
// store are slash-separated and relative to the root of fs.
func NewStore(fs afero.Fs, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Store{
		fs:     fs,
		logger: logger.WithComponent("static"),
	}
}

// NewDirStore creates a store rooted at an on-disk directory.
func NewDirStore(dir string, logger logging.Logger) *Store {
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir), logger)
}

// Fs exposes the backing filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Resolve returns the first existing path among name verbatim and name with
// each supported extension appended.
func (s *Store) Resolve(name string) (string, error) {
	candidates := make([]string, 0, len(Extensions)+1)
	candidates = append(candidates, name)
	for _, ext := range Extensions {
		candidates = append(candidates, name+"."+string(ext))
	}

	for _, candidate := range candidates {
		info, err := s.fs.Stat(candidate)
		if err == nil && !info.IsDir() {
			s.logger.Debug(context.Background(), "Resolved static file", "name", name, "path", candidate)
			return candidate, nil
		}
	}

	return "", errors.ConfigNotFound(name, nil)
}

// Load reads p and parses it according to its extension. Structured formats
// yield a map[string]interface{}; any other extension yields []byte.
func (s *Store) Load(p string) (interface{}, error) {
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(p, err)
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	format := FormatOf(p)
	if format == FormatRaw {
		return data, nil
	}

	doc, err := Unmarshal(data, format)
	if err != nil {
		return nil, errors.MalformedBoardDefaults(p, err.Error())
	}

	return doc, nil
}

// LoadStatic resolves name and loads the result.
func (s *Store) LoadStatic(name string) (interface{}, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	return s.Load(p)
}

// LoadDocument resolves name and requires a structured document.
func (s *Store) LoadDocument(name string) (map[string]interface{}, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	loaded, err := s.Load(p)
	if err != nil {
		return nil, err
	}

	doc, ok := loaded.(map[string]interface{})
	if !ok {
		return nil, errors.MalformedBoardDefaults(p, "not a structured document")
	}

	return doc, nil
}

// LoadAndDecode resolves name, reads it verbatim and decodes it from the
// named character encoding into a string.
func (s *Store) LoadAndDecode(name, encoding string) (string, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return "", err
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}

	if encoding == "" {
		return string(data), nil
	}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s as %s: %w", p, encoding, err)
	}

	return string(decoded), nil
}

// ListTree returns every regular file under dir as a path relative to dir,
// skipping entries matching any of the exclude patterns (doublestar syntax,
// matched against the relative path). The result is sorted.
func (s *Store) ListTree(dir string, exclude ...string) ([]string, error) {
	var files []string

	err := afero.Walk(s.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range exclude {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(dir, err)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	sort.Strings(files)

	return files, nil
}

// ReadFile returns the raw content of p.
func (s *Store) ReadFile(p string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(p, err)
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	return data, nil
}

// Join builds a store path from slash-separated elements.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// Unmarshal parses data in the given structured format.
func Unmarshal(data []byte, format Format) (map[string]interface{}, error) {
	doc := make(map[string]interface{})

	switch format {
	case FormatYML, FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		standard, err := hujson.Standardize(data)
		if err != nil {
			return nil, err
		}
		decoder := json.NewDecoder(bytes.NewReader(standard))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, err
		}
		doc = normalizeNumbers(doc).(map[string]interface{})
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatBinary:
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return doc, nil
}

// Marshal serializes a structured document in the given format.
func Marshal(doc map[string]interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatYML, FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatBinary:
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// normalizeNumbers replaces json.Number values with int64 or float64 so
// documents re-encode identically in every format.
func normalizeNumbers(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeNumbers(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return value
	}
}
