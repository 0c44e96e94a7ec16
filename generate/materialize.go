package generate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// stemsByExt indexes the files with the given extension in dir by their
// filename stem.
func stemsByExt(dir, ext string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing render workspace: %w", err)
	}
	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		out[stem] = filepath.Join(dir, e.Name())
	}
	return out, nil
}

// materialize validates the rendered workspace and moves matched audio and
// metadata pairs into the final dataset layout. Microphone indices are
// reassigned densely in stem-sorted order, regardless of how the renderer
// named the files.
func materialize(workDir string, sceneIdx, wantPairs int, audioOut, metaOut string) error {
	wavs, err := stemsByExt(workDir, ".wav")
	if err != nil {
		return err
	}
	csvs, err := stemsByExt(workDir, ".csv")
	if err != nil {
		return err
	}

	var common []string
	for stem := range wavs {
		if _, ok := csvs[stem]; ok {
			common = append(common, stem)
		}
	}
	sort.Strings(common)

	if len(common) != wantPairs {
		return fmt.Errorf("expected %d wav/csv pairs, got %d (wavs=%d, csvs=%d) in %q",
			wantPairs, len(common), len(wavs), len(csvs), workDir)
	}

	for i, stem := range common {
		out := fmt.Sprintf("scene_%05d_mic%02d", sceneIdx, i)
		if err := moveFile(wavs[stem], filepath.Join(audioOut, out+".wav")); err != nil {
			return err
		}
		if err := moveFile(csvs[stem], filepath.Join(metaOut, out+".csv")); err != nil {
			return err
		}
	}
	return nil
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// rename crosses filesystems (the render workspace lives in the system temp
// directory).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
