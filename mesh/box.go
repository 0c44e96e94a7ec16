package mesh

import (
	"github.com/fogleman/pt/pt"
)

// NewBox builds a closed axis-aligned box room between min and max. Handy
// for tests and quick experiments that do not need a scanned mesh.
func NewBox(min, max pt.Vector) *Mesh {
	v := func(x, y, z float64) pt.Vector { return pt.Vector{X: x, Y: y, Z: z} }
	corners := [8]pt.Vector{
		v(min.X, min.Y, min.Z), v(max.X, min.Y, min.Z),
		v(max.X, max.Y, min.Z), v(min.X, max.Y, min.Z),
		v(min.X, min.Y, max.Z), v(max.X, min.Y, max.Z),
		v(max.X, max.Y, max.Z), v(min.X, max.Y, max.Z),
	}
	// Two triangles per face.
	faces := [12][3]int{
		{0, 2, 1}, {0, 3, 2}, // floor
		{4, 5, 6}, {4, 6, 7}, // ceiling
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}

	material := pt.Material{}
	triangles := make([]*pt.Triangle, 0, len(faces))
	for _, f := range faces {
		tri := &pt.Triangle{}
		tri.Material = &material
		tri.V1 = corners[f[0]]
		tri.V2 = corners[f[1]]
		tri.V3 = corners[f[2]]
		tri.FixNormals()
		triangles = append(triangles, tri)
	}
	return New("box", triangles)
}
