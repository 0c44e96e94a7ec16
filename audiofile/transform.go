package audiofile

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListWAVs returns the .wav files directly under dir, sorted. The directory
// must exist.
func ListWAVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing audio files in %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ProcessDir resamples every WAV under inputDir to sampleRate, downmixes to
// mono and writes the result under outputDir with the same basename.
// Individual file failures are logged and skipped; the walk continues.
func ProcessDir(inputDir, outputDir string, sampleRate int) (processed int, err error) {
	files, err := ListWAVs(inputDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	log.Printf("found %d audio files to process", len(files))
	for _, file := range files {
		if err := processFile(file, outputDir, sampleRate); err != nil {
			log.Printf("warning: skipping %s: %v", file, err)
			continue
		}
		processed++
	}
	return processed, nil
}

func processFile(path, outputDir string, sampleRate int) error {
	samples, rate, err := ReadMono(path)
	if err != nil {
		return err
	}
	if rate != sampleRate {
		samples = Resample(samples, rate, sampleRate)
	}
	out := filepath.Join(outputDir, filepath.Base(path))
	return WriteWAV(out, [][]float64{samples}, sampleRate)
}
