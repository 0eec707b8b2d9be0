// Package testutils holds helpers shared by tests that write projects to a
// filesystem.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// ReadTree returns every regular file under dir keyed by its slash-separated
// path relative to dir.
func ReadTree(t *testing.T, fs afero.Fs, dir string) map[string]string {
	t.Helper()

	tree := map[string]string{}
	require.NoError(t, afero.Walk(fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	}))

	return tree
}

// WriteTree writes files under dir, creating parent directories.
func WriteTree(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, fs.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, afero.WriteFile(fs, target, []byte(content), 0o644))
	}
}

// AssertTree fails the test when the files under dir differ from want.
func AssertTree(t *testing.T, fs afero.Fs, dir string, want map[string]string) {
	t.Helper()

	if diff := cmp.Diff(want, ReadTree(t, fs, dir)); diff != "" {
		t.Fatalf("files under %s differ (-want +got):\n%s", dir, diff)
	}
}

// AssertFilePermissions checks the permission bits of a file on disk.
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode().Perm()
	require.Equal(t, expectedMode, actualMode,
		"File %s has incorrect permissions: got %o, want %o", path, actualMode, expectedMode)
}

// AssertDirectoryPermissions checks that path is a directory with the given
// permission bits.
func AssertDirectoryPermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir(), "Path %s is not a directory", path)

	actualMode := info.Mode().Perm()
	require.Equal(t, expectedMode, actualMode,
		"Directory %s has incorrect permissions: got %o, want %o", path, actualMode, expectedMode)
}
