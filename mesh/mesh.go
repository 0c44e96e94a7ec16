// Package mesh discovers and loads 3MF room geometry for scene generation.
package mesh

import (
	"fmt"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

// 3MF stores vertices in millimeters; positions everywhere else are meters.
const SCALE = 1000

// Mesh is one room geometry, loaded from a 3MF file.
type Mesh struct {
	Path string
	m    *pt.Mesh
}

// Load parses a 3MF file into a compiled triangle mesh.
func Load(path string) (*Mesh, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh %q: %w", path, err)
	}
	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding mesh %q: %w", path, err)
	}

	material := pt.Material{}
	triangles := []*pt.Triangle{}
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			tri := &pt.Triangle{}
			tri.Material = &material
			tri.V1 = vertex(obj, t.V1)
			tri.V2 = vertex(obj, t.V2)
			tri.V3 = vertex(obj, t.V3)
			tri.FixNormals()
			triangles = append(triangles, tri)
		}
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh %q contains no triangles", path)
	}
	return New(path, triangles), nil
}

func vertex(obj *go3mf.Object, idx uint32) pt.Vector {
	v := obj.Mesh.Vertices.Vertex[idx]
	return pt.Vector{
		X: float64(v.X() / SCALE),
		Y: float64(v.Y() / SCALE),
		Z: float64(v.Z() / SCALE),
	}
}

// New builds a Mesh directly from triangles. Used by Load and by tests that
// construct synthetic rooms.
func New(path string, triangles []*pt.Triangle) *Mesh {
	m := pt.NewMesh(triangles)
	m.Compile()
	return &Mesh{Path: path, m: m}
}

// Bounds returns the axis-aligned bounding box corners in meters.
func (m *Mesh) Bounds() (min, max pt.Vector) {
	box := m.m.BoundingBox()
	return box.Min, box.Max
}

// containsDir is an arbitrary normalized direction chosen to avoid rays
// running parallel to axis-aligned walls.
var containsDir = pt.Vector{X: 0.2672612419124244, Y: 0.5345224838248488, Z: 0.8017837257372732}

// Contains reports whether p lies inside the room volume, by counting
// boundary crossings of a ray cast from p.
func (m *Mesh) Contains(p pt.Vector) bool {
	const eps = 1e-6
	crossings := 0
	origin := p
	// Each iteration advances past the previous hit. The cap guards against
	// degenerate geometry.
	for i := 0; i < 64; i++ {
		hit := m.m.Intersect(pt.Ray{Origin: origin, Direction: containsDir})
		if !hit.Ok() {
			break
		}
		crossings++
		origin = origin.Add(containsDir.MulScalar(hit.T + eps))
	}
	return crossings%2 == 1
}
