package audiofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTone(t *testing.T, path string, rate, n int) {
	t.Helper()
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.25
	}
	require.NoError(t, WriteWAV(path, [][]float64{samples}, rate))
}

func TestListWAVsSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, filepath.Join(dir, "b.wav"), 24000, 10)
	writeTone(t, filepath.Join(dir, "a.WAV"), 24000, 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.wav"), 0755))

	files, err := ListWAVs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.WAV"),
		filepath.Join(dir, "b.wav"),
	}, files)
}

func TestListWAVsMissingDirectory(t *testing.T) {
	_, err := ListWAVs(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestProcessDirResamplesAndDownmixes(t *testing.T) {
	assert := assert.New(t)

	in := t.TempDir()
	out := t.TempDir()
	writeTone(t, filepath.Join(in, "one.wav"), 48000, 4800)
	left := make([]float64, 2400)
	right := make([]float64, 2400)
	for i := range left {
		left[i], right[i] = 0.6, 0.2
	}
	require.NoError(t, WriteWAV(filepath.Join(in, "two.wav"), [][]float64{left, right}, 24000))

	processed, err := ProcessDir(in, out, 24000)
	require.NoError(t, err)
	assert.Equal(2, processed)

	samples, rate, err := ReadMono(filepath.Join(out, "one.wav"))
	require.NoError(t, err)
	assert.Equal(24000, rate)
	assert.Len(samples, 2400)

	samples, rate, err = ReadMono(filepath.Join(out, "two.wav"))
	require.NoError(t, err)
	assert.Equal(24000, rate)
	require.Len(t, samples, 2400)
	assert.InDelta(0.4, samples[1200], 1.0/32767+1e-9)
}

func TestProcessDirSkipsUndecodableFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTone(t, filepath.Join(in, "good.wav"), 24000, 100)
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.wav"), []byte("not a wav"), 0644))

	processed, err := ProcessDir(in, out, 24000)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	_, err = os.Stat(filepath.Join(out, "good.wav"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "bad.wav"))
	assert.True(t, os.IsNotExist(err))
}
