package scene

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilippXXY/audiblelight-dataset-generator/audiofile"
	"github.com/PhilippXXY/audiblelight-dataset-generator/mesh"
)

// V is a shorthand constructor for pt.Vector.
func V(x, y, z float64) pt.Vector {
	return pt.Vector{X: x, Y: y, Z: z}
}

func vp(x, y, z float64) *pt.Vector {
	v := V(x, y, z)
	return &v
}

func testRoom() *mesh.Mesh {
	return mesh.NewBox(pt.Vector{}, V(6, 5, 3))
}

func testParams(m *mesh.Mesh) Params {
	return Params{
		Duration:       10,
		SampleRate:     24000,
		Mesh:           m,
		MaxOverlap:     2,
		BgNoiseFloorDB: -50,
		RNG:            rand.New(rand.NewSource(7)),
	}
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	m := testRoom()
	s, err := New(testParams(m), NewDirectBackend(m))
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadParams(t *testing.T) {
	assert := assert.New(t)
	m := testRoom()
	b := NewDirectBackend(m)

	p := testParams(m)
	p.Duration = 0
	_, err := New(p, b)
	assert.ErrorContains(err, "duration")

	p = testParams(m)
	p.SampleRate = 0
	_, err = New(p, b)
	assert.ErrorContains(err, "sample rate")

	p = testParams(m)
	p.Mesh = nil
	_, err = New(p, b)
	assert.ErrorContains(err, "mesh")

	p = testParams(m)
	p.RNG = nil
	_, err = New(p, b)
	assert.ErrorContains(err, "random")

	_, err = New(testParams(m), nil)
	assert.ErrorContains(err, "backend")
}

func TestAddMicrophoneInsideRoom(t *testing.T) {
	s := newTestScene(t)
	pos := V(3, 2.5, 1.5)
	require.NoError(t, s.AddMicrophone("eigenmike32", &pos))
	require.Len(t, s.Microphones(), 1)
	assert.Equal(t, "eigenmike32_000", s.Microphones()[0].Label)
	assert.Equal(t, pos, s.Microphones()[0].Position)
}

func TestAddMicrophoneOutsideRoomIsRejected(t *testing.T) {
	s := newTestScene(t)
	pos := V(20, 2, 1)
	err := s.AddMicrophone("mono", &pos)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.Empty(t, s.Microphones())
}

func TestAddMicrophoneUnknownType(t *testing.T) {
	s := newTestScene(t)
	pos := V(3, 2, 1)
	err := s.AddMicrophone("shotgun", &pos)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPlacement)
}

func TestMinimumSpacingEnforced(t *testing.T) {
	s := newTestScene(t)
	a := V(3, 2, 1)
	b := V(3.05, 2, 1)
	require.NoError(t, s.AddMicrophone("mono", &a))
	err := s.AddMicrophone("mono", &b)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestBackendChoosesPositionInsideRoom(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.AddMicrophone("mono", nil))
	pos := s.Microphones()[0].Position
	assert.True(t, s.Mesh().Contains(pos), "backend-chosen position %v must lie inside the room", pos)
}

func TestAddEventWindowMustFitScene(t *testing.T) {
	s := newTestScene(t)
	pos := V(3, 2, 1)
	err := s.AddEventStatic("a.wav", &pos, 8, 5, 10, 0)
	require.Error(t, err)
	// A window problem is a caller bug, not a placement rejection.
	assert.NotErrorIs(t, err, ErrInvalidPlacement)
}

func TestOverlapBudgetExhaustedIsRejection(t *testing.T) {
	s := newTestScene(t)
	positions := []pt.Vector{
		{X: 1, Y: 1, Z: 1},
		{X: 3, Y: 2, Z: 1},
		{X: 5, Y: 4, Z: 2},
	}
	require.NoError(t, s.AddEventStatic("a.wav", &positions[0], 1, 4, 10, 0))
	require.NoError(t, s.AddEventStatic("b.wav", &positions[1], 2, 4, 10, 0))

	// Third concurrent event exceeds MaxOverlap=2.
	err := s.AddEventStatic("c.wav", &positions[2], 3, 2, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.Len(t, s.Events(), 2)

	// Outside the busy window it still fits.
	require.NoError(t, s.AddEventStatic("c.wav", &positions[2], 7, 2, 10, 0))
}

func TestClassAutoUsesMapping(t *testing.T) {
	s := newTestScene(t)
	pos := V(3, 2, 1)
	require.NoError(t, s.AddEventStatic("dog_bark.wav", &pos, 0, 2, 10, ClassAuto))
	assert.Equal(t, 0, s.Events()[0].ClassID)

	require.NoError(t, s.AddEventStatic("dog_bark.wav", vp(1, 4, 2), 4, 2, 10, 131))
	assert.Equal(t, 131, s.Events()[1].ClassID)
}

func TestAddAmbienceOnlyOnce(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.AddAmbience("pink"))
	assert.ErrorContains(t, s.AddAmbience("white"), "already has ambience")
}

func TestAddAmbienceRejectsUnknownColor(t *testing.T) {
	s := newTestScene(t)
	assert.ErrorContains(t, s.AddAmbience("violet"), "unknown noise color")
}

// writeTestTone writes a short mono 16-bit PCM file of the given rate.
func writeTestTone(t *testing.T, path string, rate int, seconds float64) {
	t.Helper()
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
	}
	require.NoError(t, audiofile.WriteWAV(path, [][]float64{samples}, rate))
}

func TestGenerateWritesAudioAndMetadataPerMic(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	writeTestTone(t, src, 24000, 1.0)

	m := testRoom()
	p := testParams(m)
	p.Duration = 2
	p.FgDir = dir
	p.EventFade = 0.01
	s, err := New(p, NewDirectBackend(m))
	require.NoError(t, err)

	require.NoError(t, s.AddMicrophone("mono", vp(3, 2.5, 1.5)))
	require.NoError(t, s.AddMicrophone("ambisonic", vp(1, 1, 1)))
	require.NoError(t, s.AddEventStatic("tone.wav", vp(5, 4, 2), 0.5, 1, 10, 0))
	require.NoError(t, s.AddAmbience("brown"))

	out := t.TempDir()
	require.NoError(t, s.Generate(out, GenerateOptions{
		Audio:         true,
		MetadataDCASE: true,
		AudioFname:    "fold1_take0",
		MetadataFname: "fold1_take0",
	}))

	for _, mic := range s.Microphones() {
		wavPath := filepath.Join(out, "fold1_take0_"+mic.Label+".wav")
		samples, rate, err := audiofile.ReadMono(wavPath)
		require.NoError(t, err)
		assert.Equal(24000, rate)
		assert.Equal(48000, len(samples))

		_, err = os.Stat(filepath.Join(out, "fold1_take0_"+mic.Label+".csv"))
		assert.NoError(err)
	}
}

func TestDCASEMetadataRows(t *testing.T) {
	assert := assert.New(t)

	s := newTestScene(t)
	mic := V(1, 1, 1)
	require.NoError(t, s.AddMicrophone("mono", &mic))
	// Source 3 m along +X from the microphone: azimuth 0, elevation 0.
	require.NoError(t, s.AddEventStatic("a.wav", vp(4, 1, 1), 1.0, 0.55, 10, 4))

	out := t.TempDir()
	path := filepath.Join(out, "meta.csv")
	require.NoError(t, s.writeDCASE(path, s.Microphones()[0]))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// Frames 10..15 at 100 ms resolution.
	require.Len(t, records, 6)
	assert.Equal([]string{"10", "4", "0", "0", "0", "3.00"}, records[0])
	assert.Equal("15", records[len(records)-1][0])
}

func TestDCASEFramesClampToSceneEnd(t *testing.T) {
	s := newTestScene(t)
	require.NoError(t, s.AddMicrophone("mono", vp(3, 2, 1)))
	require.NoError(t, s.AddEventStatic("a.wav", vp(5, 4, 2), 9.5, 0.5, 10, 0))

	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, s.writeDCASE(path, s.Microphones()[0]))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "99", records[len(records)-1][0])
}

func TestSourceSamplesResolvesAgainstFgDir(t *testing.T) {
	dir := t.TempDir()
	writeTestTone(t, filepath.Join(dir, "tone.wav"), 24000, 0.25)

	m := testRoom()
	p := testParams(m)
	p.FgDir = dir
	s, err := New(p, NewDirectBackend(m))
	require.NoError(t, err)

	samples, err := s.sourceSamples("tone.wav")
	require.NoError(t, err)
	assert.Equal(t, 6000, len(samples))

	// Cached on second lookup.
	again, err := s.sourceSamples("tone.wav")
	require.NoError(t, err)
	assert.Same(t, &samples[0], &again[0])
}

func TestSourceSamplesResampleAndNormalize(t *testing.T) {
	dir := t.TempDir()
	writeTestTone(t, filepath.Join(dir, "tone.wav"), 48000, 0.5)

	m := testRoom()
	p := testParams(m)
	p.FgDir = dir
	s, err := New(p, NewDirectBackend(m))
	require.NoError(t, err)

	samples, err := s.sourceSamples("tone.wav")
	require.NoError(t, err)
	assert.Equal(t, 12000, len(samples))

	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	assert.InDelta(t, 1.0, rms, 1e-9)
}

func TestSourceSamplesMissingFile(t *testing.T) {
	s := newTestScene(t)
	_, err := s.sourceSamples("nope.wav")
	assert.ErrorContains(t, err, "event source")
}
