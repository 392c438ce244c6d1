package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

const quadOBJ = `# unit quad split into two triangles
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`

const triSTL = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 2 0 0
      vertex 0 2 0
    endloop
  endfacet
endsolid tri
`

// writeTestMesh drops mesh text into a temp dir and returns its path
func writeTestMesh(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test mesh: %v", err)
	}
	return path
}

func TestLoadMesh_OBJ(t *testing.T) {
	path := writeTestMesh(t, "quad.obj", quadOBJ)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("Failed to load OBJ: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	bounds := mesh.Bounds()
	if bounds.Min != core.NewVec3(0, 0, 0) || bounds.Max != core.NewVec3(1, 1, 0) {
		t.Errorf("Unexpected bounds: min=%v max=%v", bounds.Min, bounds.Max)
	}
}

func TestLoadMesh_STL(t *testing.T) {
	path := writeTestMesh(t, "tri.stl", triSTL)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("Failed to load STL: %v", err)
	}

	if mesh.TriangleCount() != 1 {
		t.Fatalf("Expected 1 triangle, got %d", mesh.TriangleCount())
	}

	bounds := mesh.Bounds()
	if bounds.Max != core.NewVec3(2, 2, 0) {
		t.Errorf("Unexpected bounds max: %v", bounds.Max)
	}
}

func TestMeshBuild(t *testing.T) {
	path := writeTestMesh(t, "quad.obj", quadOBJ)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("Failed to load OBJ: %v", err)
	}

	mat := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
	surfaces := mesh.Build(mat, 2, core.NewVec3(1, 0, 0))

	if len(surfaces) != 2 {
		t.Fatalf("Expected 2 surfaces, got %d", len(surfaces))
	}

	tri, ok := surfaces[0].(*geometry.Triangle)
	if !ok {
		t.Fatalf("Expected *geometry.Triangle, got %T", surfaces[0])
	}

	// Scale about the origin first, then translate
	if tri.V0 != core.NewVec3(1, 0, 0) || tri.V1 != core.NewVec3(3, 0, 0) || tri.V2 != core.NewVec3(3, 2, 0) {
		t.Errorf("Unexpected vertices: %v %v %v", tri.V0, tri.V1, tri.V2)
	}

	if tri.Material() != mat {
		t.Errorf("Material was not threaded through to the triangles")
	}
}

func TestMeshBuild_ZeroScaleMeansUnscaled(t *testing.T) {
	path := writeTestMesh(t, "quad.obj", quadOBJ)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("Failed to load OBJ: %v", err)
	}

	surfaces := mesh.Build(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)), 0, core.Vec3{})

	tri := surfaces[0].(*geometry.Triangle)
	if tri.V0 != core.NewVec3(0, 0, 0) || tri.V1 != core.NewVec3(1, 0, 0) {
		t.Errorf("Zero scale should leave vertices unchanged, got %v %v", tri.V0, tri.V1)
	}
}

func TestMeshBuild_DropsDegenerateTriangles(t *testing.T) {
	content := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
f 1 1 2
`
	path := writeTestMesh(t, "degenerate.obj", content)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("Failed to load OBJ: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("Expected 2 raw triangles, got %d", mesh.TriangleCount())
	}

	surfaces := mesh.Build(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)), 1, core.Vec3{})
	if len(surfaces) != 1 {
		t.Errorf("Expected degenerate triangle to be dropped, got %d surfaces", len(surfaces))
	}
}

func TestLoadMesh_Errors(t *testing.T) {
	if _, err := LoadMesh("model.gltf"); err == nil || !strings.Contains(err.Error(), "unsupported mesh format") {
		t.Errorf("Expected unsupported format error, got %v", err)
	}

	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
