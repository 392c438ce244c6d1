package loaders

import (
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/pkg/errors"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Mesh holds raw triangle positions read from a model file, before any
// placement transform or material is applied.
type Mesh struct {
	Positions [][3]core.Vec3
}

// LoadMesh reads a triangle mesh from an OBJ, STL or PLY file. Only
// vertex positions are kept; normals are recomputed per face when the
// mesh is built.
func LoadMesh(path string) (*Mesh, error) {
	var loaded *fauxgl.Mesh
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		loaded, err = fauxgl.LoadOBJ(path)
	case ".stl":
		loaded, err = fauxgl.LoadSTL(path)
	case ".ply":
		loaded, err = fauxgl.LoadPLY(path)
	default:
		return nil, errors.Errorf("unsupported mesh format %q in %s", filepath.Ext(path), path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load mesh %s", path)
	}

	mesh := &Mesh{Positions: make([][3]core.Vec3, 0, len(loaded.Triangles))}
	for _, tri := range loaded.Triangles {
		mesh.Positions = append(mesh.Positions, [3]core.Vec3{
			vectorToVec3(tri.V1.Position),
			vectorToVec3(tri.V2.Position),
			vectorToVec3(tri.V3.Position),
		})
	}
	return mesh, nil
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Positions)
}

// Bounds returns the bounding box of the untransformed mesh
func (m *Mesh) Bounds() geometry.AABB {
	if len(m.Positions) == 0 {
		return geometry.AABB{}
	}

	bounds := geometry.NewAABBFromPoints(m.Positions[0][0], m.Positions[0][1], m.Positions[0][2])
	for _, tri := range m.Positions[1:] {
		bounds = bounds.Union(geometry.NewAABBFromPoints(tri[0], tri[1], tri[2]))
	}
	return bounds
}

// Build converts the mesh into renderable triangles, scaling about the
// origin and then translating. A zero scale means unscaled. Degenerate
// triangles are dropped since they have no face normal.
func (m *Mesh) Build(mat *material.Material, scale float64, translate core.Vec3) []geometry.Surface {
	if scale == 0 {
		scale = 1
	}

	surfaces := make([]geometry.Surface, 0, len(m.Positions))
	for _, tri := range m.Positions {
		v0 := tri[0].Multiply(scale).Add(translate)
		v1 := tri[1].Multiply(scale).Add(translate)
		v2 := tri[2].Multiply(scale).Add(translate)

		area := v1.Subtract(v0).Cross(v2.Subtract(v0)).LengthSquared()
		if area < 1e-24 {
			continue
		}

		surfaces = append(surfaces, geometry.NewTriangle(v0, v1, v2, mat))
	}
	return surfaces
}

func vectorToVec3(v fauxgl.Vector) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
