package mesh

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Bundle identifies a remote room mesh asset bundle.
type Bundle struct {
	Name string
	URL  string
}

// DefaultBundle is the Gibson room set converted to 3MF. The fetch is
// all-or-nothing: the archive is downloaded completely before any mesh is
// written into the destination directory.
var DefaultBundle = Bundle{
	Name: "gibson-rooms-3mf",
	URL:  "https://data.audiblelight.org/meshes/gibson_rooms_3mf.zip",
}

// DownloadBundle fetches a bundle archive and extracts it under dir.
func DownloadBundle(dir string, b Bundle) error {
	tmp, err := os.CreateTemp("", "meshbundle_*.zip")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	resp, err := http.Get(b.URL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", b.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", b.URL, resp.Status)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("downloading %s: %w", b.URL, err)
	}

	return extractZip(tmp.Name(), dir)
}

func extractZip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening bundle archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		dest := filepath.Join(dir, filepath.Clean(f.Name))
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("bundle entry %q escapes destination directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := extractFile(f, dest); err != nil {
			return fmt.Errorf("extracting %q: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}
