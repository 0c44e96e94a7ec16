package generate

import (
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/fogleman/pt/pt"

	"github.com/PhilippXXY/audiblelight-dataset-generator/scene"
)

const (
	layoutSize   = 512
	layoutMargin = 24
)

// writeLayout renders a top-down (XY) view of the scene: the room's
// bounding box, microphones in red and events in blue.
func writeLayout(dir, stem string, sc *scene.Scene, bounds pt.Box) error {
	c := gg.NewContext(layoutSize, layoutSize)
	c.SetRGB(1, 1, 1)
	c.Clear()

	spanX := bounds.Max.X - bounds.Min.X
	spanY := bounds.Max.Y - bounds.Min.Y
	scale := math.Min(
		float64(layoutSize-2*layoutMargin)/math.Max(spanX, 1e-9),
		float64(layoutSize-2*layoutMargin)/math.Max(spanY, 1e-9),
	)
	project := func(v pt.Vector) (x, y float64) {
		return layoutMargin + (v.X-bounds.Min.X)*scale,
			layoutMargin + (v.Y-bounds.Min.Y)*scale
	}

	c.SetRGB(0, 0, 0)
	c.SetLineWidth(2)
	x0, y0 := project(bounds.Min)
	c.DrawRectangle(x0, y0, spanX*scale, spanY*scale)
	c.Stroke()

	c.SetRGB(0.8, 0.2, 0.2)
	for _, mic := range sc.Microphones() {
		x, y := project(mic.Position)
		c.DrawCircle(x, y, 5)
		c.Fill()
	}

	c.SetRGB(0.2, 0.2, 0.8)
	for _, ev := range sc.Events() {
		x, y := project(ev.Position)
		c.DrawCircle(x, y, 3)
		c.Fill()
	}

	return c.SavePNG(filepath.Join(dir, stem+"_layout.png"))
}
