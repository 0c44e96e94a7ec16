package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))
}

func TestListRecursiveSorted(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "b_room.3mf"))
	touch(t, filepath.Join(dir, "nested", "a_room.3mf"))
	touch(t, filepath.Join(dir, "ignored.glb"))
	touch(t, filepath.Join(dir, "notes.txt"))

	meshes, err := List(dir)
	require.NoError(t, err)
	assert.Equal([]string{
		filepath.Join(dir, "b_room.3mf"),
		filepath.Join(dir, "nested", "a_room.3mf"),
	}, meshes)
}

func TestListMissingDirectoryIsEmpty(t *testing.T) {
	meshes, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, err)
	assert.Empty(t, meshes)
}

func TestEnsureWithoutDownloadFails(t *testing.T) {
	_, err := Ensure(filepath.Join(t.TempDir(), "empty"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .3mf meshes found")
}

func TestEnsureDownloadsWhenEmpty(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "meshes")

	orig := fetchBundle
	defer func() { fetchBundle = orig }()
	var gotDir string
	fetchBundle = func(dst string, b Bundle) error {
		gotDir = dst
		touch(t, filepath.Join(dst, "room.3mf"))
		return nil
	}

	meshes, err := Ensure(dir, true)
	require.NoError(t, err)
	assert.Equal(dir, gotDir)
	assert.Equal([]string{filepath.Join(dir, "room.3mf")}, meshes)
}

func TestEnsureSkipsDownloadWhenPopulated(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "room.3mf"))

	orig := fetchBundle
	defer func() { fetchBundle = orig }()
	fetchBundle = func(string, Bundle) error {
		t.Fatal("download triggered despite populated directory")
		return nil
	}

	meshes, err := Ensure(dir, true)
	require.NoError(t, err)
	assert.Len(t, meshes, 1)
}

func TestEnsureFailsWhenDownloadYieldsNothing(t *testing.T) {
	orig := fetchBundle
	defer func() { fetchBundle = orig }()
	fetchBundle = func(string, Bundle) error { return nil }

	_, err := Ensure(filepath.Join(t.TempDir(), "meshes"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still found no")
}
