// Package audiofile provides the small amount of audio plumbing the
// generator needs: WAV decode/encode, offline resampling, mono downmix and
// edge fades.
package audiofile

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadMono decodes a WAV file, downmixes it to one channel by averaging and
// returns float64 samples in [-1, 1] plus the source sample rate.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %q: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return nil, 0, fmt.Errorf("decoding %q: missing format", path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	scale := float64(int(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c]) / scale
		}
		out[i] = sum / float64(channels)
	}
	return out, buf.Format.SampleRate, nil
}

// WriteWAV writes channels of float64 samples in [-1, 1] as interleaved
// 16-bit PCM. All channels must have equal length.
func WriteWAV(path string, channels [][]float64, sampleRate int) error {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return fmt.Errorf("writing %q: no samples", path)
	}
	frames := len(channels[0])
	for _, ch := range channels {
		if len(ch) != frames {
			return fmt.Errorf("writing %q: channel length mismatch", path)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	e := wav.NewEncoder(f, sampleRate, 16, len(channels), 1)
	data := make([]int, frames*len(channels))
	for i := 0; i < frames; i++ {
		for c, ch := range channels {
			data[i*len(channels)+c] = toInt16(ch[i])
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := e.Write(buf); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("finalizing %q: %w", path, err)
	}
	return f.Close()
}

func toInt16(v float64) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(math.Round(v * 32767))
}
