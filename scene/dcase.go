package scene

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
)

// DCASE metadata uses 100 ms frames.
const dcaseFrameSeconds = 0.1

type dcaseRow struct {
	frame   int
	class   int
	source  int
	azimuth int
	elev    int
	dist    float64
}

// writeDCASE writes the event metadata for one microphone as DCASE-style
// CSV: frame, class index, source index, azimuth and elevation in degrees
// relative to the microphone, distance in meters.
func (s *Scene) writeDCASE(path string, mic Microphone) error {
	lastFrame := int(s.duration/dcaseFrameSeconds) - 1

	var rows []dcaseRow
	for srcIdx, ev := range s.events {
		rel := ev.Position.Sub(mic.Position)
		azimuth := int(math.Round(math.Atan2(rel.Y, rel.X) * 180 / math.Pi))
		elev := int(math.Round(math.Atan2(rel.Z, math.Hypot(rel.X, rel.Y)) * 180 / math.Pi))
		dist := rel.Length()

		first := int(ev.Start / dcaseFrameSeconds)
		last := int((ev.Start + ev.Duration) / dcaseFrameSeconds)
		if last > lastFrame {
			last = lastFrame
		}
		for frame := first; frame <= last; frame++ {
			rows = append(rows, dcaseRow{
				frame:   frame,
				class:   ev.ClassID,
				source:  srcIdx,
				azimuth: azimuth,
				elev:    elev,
				dist:    dist,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].frame != rows[j].frame {
			return rows[i].frame < rows[j].frame
		}
		return rows[i].source < rows[j].source
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, r := range rows {
		record := []string{
			fmt.Sprint(r.frame),
			fmt.Sprint(r.class),
			fmt.Sprint(r.source),
			fmt.Sprint(r.azimuth),
			fmt.Sprint(r.elev),
			fmt.Sprintf("%.2f", r.dist),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
