// Package project holds the result of a generate call and writes it to a
// directory tree.
package project

import (
	"bytes"
	"encoding/json"
	"maps"
	"path"
	"slices"
	"strings"
	"time"
)

// Files is an insertion-ordered mapping of slash-separated relative path
// to file content.
type Files struct {
	order   []string
	content map[string]string
}

// NewFiles returns an empty file set.
func NewFiles() *Files {
	return &Files{content: make(map[string]string)}
}

// Set stores content at p. Re-setting a path keeps its original position.
func (f *Files) Set(p, content string) {
	p = path.Clean(p)
	if _, ok := f.content[p]; !ok {
		f.order = append(f.order, p)
	}
	f.content[p] = content
}

// Get returns the content stored at p.
func (f *Files) Get(p string) (string, bool) {
	content, ok := f.content[path.Clean(p)]
	return content, ok
}

// Paths returns every path in insertion order.
func (f *Files) Paths() []string {
	return slices.Clone(f.order)
}

// Len returns the number of files.
func (f *Files) Len() int {
	return len(f.order)
}

// Map returns a copy of the content keyed by path.
func (f *Files) Map() map[string]string {
	return maps.Clone(f.content)
}

// Groups splits the paths into root files and per-directory groups keyed
// by the first path segment. Group members keep their full path.
func (f *Files) Groups() ([]string, map[string][]string) {
	var root []string
	groups := make(map[string][]string)

	for _, p := range f.order {
		dir, _, nested := strings.Cut(p, "/")
		if !nested {
			root = append(root, p)
			continue
		}
		groups[dir] = append(groups[dir], p)
	}

	return root, groups
}

// Clone returns an independent copy of f.
func (f *Files) Clone() *Files {
	return &Files{
		order:   slices.Clone(f.order),
		content: maps.Clone(f.content),
	}
}

// MarshalJSON encodes the files as a JSON object in insertion order.
func (f *Files) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.content[p])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Project is the in-memory result of one generate call.
type Project struct {
	Name    string    `json:"project_name"`
	Created time.Time `json:"created"`
	Files   *Files    `json:"files"`
}

// New creates an empty project.
func New(name string, created time.Time) *Project {
	return &Project{
		Name:    name,
		Created: created,
		Files:   NewFiles(),
	}
}
