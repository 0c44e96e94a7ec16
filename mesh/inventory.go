package mesh

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the room mesh file extension the generator understands.
const Ext = ".3mf"

// fetchBundle is swapped out in tests.
var fetchBundle = DownloadBundle

// List recursively collects mesh files under dir, sorted for determinism.
// A missing directory is treated as an empty inventory, not an error.
func List(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), Ext) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing meshes under %q: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// Ensure returns the mesh inventory under dir. When the directory holds no
// meshes and download is allowed, the default room bundle is fetched first.
func Ensure(dir string, download bool) ([]string, error) {
	meshes, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(meshes) > 0 {
		return meshes, nil
	}
	if !download {
		return nil, fmt.Errorf(
			"no %s meshes found in %q: enable mesh.download_gibson or point mesh.mesh_dir at a populated directory",
			Ext, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating mesh directory: %w", err)
	}
	if err := fetchBundle(dir, DefaultBundle); err != nil {
		return nil, fmt.Errorf("downloading mesh bundle %s: %w", DefaultBundle.Name, err)
	}
	meshes, err = List(dir)
	if err != nil {
		return nil, err
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("downloaded bundle %s but still found no %s meshes under %q",
			DefaultBundle.Name, Ext, dir)
	}
	return meshes, nil
}
