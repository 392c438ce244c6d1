package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

const testSceneYAML = `name: Test Box
description: Loader test scene
group: Tests
max_bounces: 8
camera:
  width: 320
  height: 240
  fov: 60
  lookat: [0, 0.5, 0]
  orbit_center: [0, 1, 0]
  orbit_a: [0, 0, -4]
  orbit_b: [-4, 0, 0]
sky:
  up: [0.1, 0.2, 0.3]
  horizon: [0.4, 0.5, 0.6]
light:
  position: [2, 8, -3]
  intensity: 500
surfaces:
  - type: plane
    point: [0, -1, 0]
    normal: [0, 1, 0]
    material:
      albedo: [0.6, 0.6, 0.6]
  - type: sphere
    center: [0, 0, 0]
    radius: 0.5
    material:
      albedo: [0.8, 0.2, 0.2]
      fresnel: true
      r0: 0.04
  - type: quad
    corner: [-1, 2, -1]
    u: [2, 0, 0]
    v: [0, 0, 2]
    material:
      emission: [5, 5, 5]
  - type: triangle
    a: [0, 0, 2]
    b: [1, 0, 2]
    c: [0, 1, 2]
    material:
      albedo: [0.2, 0.6, 0.3]
`

// writeTestScene drops YAML into a temp dir and returns its path
func writeTestScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test scene: %v", err)
	}
	return path
}

func TestLoadYAMLScene(t *testing.T) {
	path := writeTestScene(t, "box.yaml", testSceneYAML)

	s, err := LoadYAMLScene(path)
	if err != nil {
		t.Fatalf("Failed to load scene: %v", err)
	}

	if s.Name != "Test Box" {
		t.Errorf("Name = %q, want %q", s.Name, "Test Box")
	}
	if s.GetPrimitiveCount() != 4 {
		t.Fatalf("Expected 4 surfaces, got %d", s.GetPrimitiveCount())
	}

	// Camera section overlays the defaults
	cam := s.CameraConfig
	if cam.Width != 320 || cam.Height != 240 || cam.FOV != 60 {
		t.Errorf("Camera = %dx%d fov %v, want 320x240 fov 60", cam.Width, cam.Height, cam.FOV)
	}
	if cam.LookAt != core.NewVec3(0, 0.5, 0) {
		t.Errorf("LookAt = %v", cam.LookAt)
	}
	if cam.OrbitCenter != core.NewVec3(0, 1, 0) || cam.OrbitA != core.NewVec3(0, 0, -4) {
		t.Errorf("Orbit = %v %v", cam.OrbitCenter, cam.OrbitA)
	}
	if cam.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Omitted up should keep its default, got %v", cam.Up)
	}

	// Tracer section
	tracer := s.TracerConfig
	if tracer.MaxBounces != 8 {
		t.Errorf("MaxBounces = %d, want 8", tracer.MaxBounces)
	}
	if tracer.LightPosition != core.NewVec3(2, 8, -3) || tracer.LightIntensity != 500 {
		t.Errorf("Light = %v x%v", tracer.LightPosition, tracer.LightIntensity)
	}
	if tracer.SkyUp != core.NewVec3(0.1, 0.2, 0.3) || tracer.SkyHorizon != core.NewVec3(0.4, 0.5, 0.6) {
		t.Errorf("Sky = %v / %v", tracer.SkyUp, tracer.SkyHorizon)
	}

	// Surfaces arrive in file order with their materials attached
	sphere, ok := s.Surfaces[1].(*geometry.Sphere)
	if !ok {
		t.Fatalf("Surface 1 is %T, want *geometry.Sphere", s.Surfaces[1])
	}
	if sphere.Radius != 0.5 {
		t.Errorf("Sphere radius = %v", sphere.Radius)
	}
	if !sphere.Mat.Fresnel || sphere.Mat.R0 != 0.04 {
		t.Errorf("Sphere material lost its specular lobe: %+v", sphere.Mat)
	}

	if emission := s.Surfaces[2].Material().Emission; emission != core.NewVec3(5, 5, 5) {
		t.Errorf("Quad emission = %v", emission)
	}

	// Scene is preprocessed and traceable
	if _, ok := s.NearestIntersection(core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1))); !ok {
		t.Errorf("Expected loaded scene to intersect rays")
	}
}

func TestLoadYAMLScene_NameFallsBackToFilename(t *testing.T) {
	path := writeTestScene(t, "my-little-box.yaml", "surfaces:\n  - type: sphere\n    radius: 1\n")

	s, err := LoadYAMLScene(path)
	if err != nil {
		t.Fatalf("Failed to load scene: %v", err)
	}
	if s.Name != "my-little-box" {
		t.Errorf("Name = %q, want filename stem", s.Name)
	}
}

func TestLoadYAMLScene_EmptyDocumentUsesDefaults(t *testing.T) {
	path := writeTestScene(t, "empty.yaml", "")

	s, err := LoadYAMLScene(path)
	if err != nil {
		t.Fatalf("Failed to load scene: %v", err)
	}

	if s.CameraConfig.Width != renderer.DefaultCameraConfig().Width {
		t.Errorf("Empty document should keep the default camera")
	}
	if s.TracerConfig.LightIntensity != 720 {
		t.Errorf("Empty document should keep the default light, got %v", s.TracerConfig.LightIntensity)
	}
	if s.GetPrimitiveCount() != 0 {
		t.Errorf("Expected an empty surface list")
	}
}

func TestLoadYAMLScene_CameraOverridesWin(t *testing.T) {
	path := writeTestScene(t, "box.yaml", testSceneYAML)

	s, err := LoadYAMLScene(path, renderer.CameraConfig{Width: 64, Height: 32})
	if err != nil {
		t.Fatalf("Failed to load scene: %v", err)
	}

	// CLI overrides beat the file, the file beats the defaults
	if s.CameraConfig.Width != 64 || s.CameraConfig.Height != 32 {
		t.Errorf("Resolution = %dx%d, want 64x32", s.CameraConfig.Width, s.CameraConfig.Height)
	}
	if s.CameraConfig.FOV != 60 {
		t.Errorf("FOV should still come from the file, got %v", s.CameraConfig.FOV)
	}
}

func TestLoadYAMLScene_MeshSurface(t *testing.T) {
	dir := t.TempDir()

	objContent := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(objContent), 0644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}

	sceneContent := `surfaces:
  - type: mesh
    path: tri.obj
    scale: 2
    translate: [0, 1, 0]
    material:
      albedo: [0.7, 0.7, 0.7]
`
	scenePath := filepath.Join(dir, "meshy.yaml")
	if err := os.WriteFile(scenePath, []byte(sceneContent), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := LoadYAMLScene(scenePath)
	if err != nil {
		t.Fatalf("Failed to load scene: %v", err)
	}

	if s.GetPrimitiveCount() != 1 {
		t.Fatalf("Expected 1 triangle, got %d", s.GetPrimitiveCount())
	}

	// Mesh path resolved relative to the scene file, transform applied
	tri := s.Surfaces[0].(*geometry.Triangle)
	if tri.V0 != core.NewVec3(0, 1, 0) || tri.V1 != core.NewVec3(2, 1, 0) {
		t.Errorf("Unexpected mesh placement: %v %v", tri.V0, tri.V1)
	}
}

func TestLoadYAMLScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown surface type",
			content: "surfaces:\n  - type: torus\n",
			wantErr: "unknown surface type",
		},
		{
			name:    "zero radius sphere",
			content: "surfaces:\n  - type: sphere\n",
			wantErr: "radius must be positive",
		},
		{
			name:    "degenerate plane",
			content: "surfaces:\n  - type: plane\n",
			wantErr: "normal must be non-zero",
		},
		{
			name:    "collinear triangle",
			content: "surfaces:\n  - type: triangle\n    a: [0, 0, 0]\n    b: [1, 0, 0]\n    c: [2, 0, 0]\n",
			wantErr: "collinear",
		},
		{
			name:    "mesh without path",
			content: "surfaces:\n  - type: mesh\n",
			wantErr: "needs a path",
		},
		{
			name:    "invalid yaml",
			content: "surfaces: [unclosed",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestScene(t, "bad.yaml", tt.content)
			_, err := LoadYAMLScene(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadYAMLScene_MissingFile(t *testing.T) {
	_, err := LoadYAMLScene(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Expected read error, got %v", err)
	}
}
