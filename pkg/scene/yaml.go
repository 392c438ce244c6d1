package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/loaders"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// sceneFile mirrors the YAML scene document. Omitted sections fall back
// to the defaults used by the built-in scenes.
type sceneFile struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Group       string        `yaml:"group"`
	MaxBounces  int           `yaml:"max_bounces"`
	Camera      *cameraFile   `yaml:"camera"`
	Light       *lightFile    `yaml:"light"`
	Sky         *skyFile      `yaml:"sky"`
	Surfaces    []surfaceFile `yaml:"surfaces"`
}

// Vector fields are pointers so an explicit origin is distinguishable
// from an omitted field.
type cameraFile struct {
	Width       int         `yaml:"width"`
	Height      int         `yaml:"height"`
	FOV         float64     `yaml:"fov"`
	LookAt      *[3]float64 `yaml:"lookat"`
	OrbitCenter *[3]float64 `yaml:"orbit_center"`
	OrbitA      *[3]float64 `yaml:"orbit_a"`
	OrbitB      *[3]float64 `yaml:"orbit_b"`
	LensRadius  float64     `yaml:"lens_radius"`
	FocusRatio  float64     `yaml:"focus_ratio"`
}

type lightFile struct {
	Position  [3]float64 `yaml:"position"`
	Intensity float64    `yaml:"intensity"`
}

type skyFile struct {
	Up      [3]float64 `yaml:"up"`
	Horizon [3]float64 `yaml:"horizon"`
}

type surfaceFile struct {
	Type      string       `yaml:"type"`
	Center    [3]float64   `yaml:"center"` // sphere
	Radius    float64      `yaml:"radius"`
	Point     [3]float64   `yaml:"point"` // plane
	Normal    [3]float64   `yaml:"normal"`
	Corner    [3]float64   `yaml:"corner"` // quad
	U         [3]float64   `yaml:"u"`
	V         [3]float64   `yaml:"v"`
	A         [3]float64   `yaml:"a"` // triangle
	B         [3]float64   `yaml:"b"`
	C         [3]float64   `yaml:"c"`
	Path      string       `yaml:"path"` // mesh
	Scale     float64      `yaml:"scale"`
	Translate [3]float64   `yaml:"translate"`
	Material  materialFile `yaml:"material"`
}

type materialFile struct {
	Albedo   [3]float64 `yaml:"albedo"`
	Emission [3]float64 `yaml:"emission"`
	Fresnel  bool       `yaml:"fresnel"`
	R0       float64    `yaml:"r0"`
}

// LoadYAMLScene reads a scene description from a YAML file. Mesh paths
// inside the file are resolved relative to the file's directory.
func LoadYAMLScene(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scene file %s", path)
	}

	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scene file %s", path)
	}

	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cameraConfig := renderer.DefaultCameraConfig()
	if file.Camera != nil {
		file.Camera.apply(&cameraConfig)
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	tracerConfig := integrator.DefaultConfig()
	if file.MaxBounces > 0 {
		tracerConfig.MaxBounces = file.MaxBounces
	}
	if file.Light != nil {
		tracerConfig.LightPosition = vec3Of(file.Light.Position)
		if file.Light.Intensity > 0 {
			tracerConfig.LightIntensity = file.Light.Intensity
		}
	}
	if file.Sky != nil {
		tracerConfig.SkyUp = vec3Of(file.Sky.Up)
		tracerConfig.SkyHorizon = vec3Of(file.Sky.Horizon)
	}

	s := &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		TracerConfig: tracerConfig,
	}

	for i, sf := range file.Surfaces {
		built, err := sf.build(filepath.Dir(path))
		if err != nil {
			return nil, errors.Wrapf(err, "surface %d in %s", i, path)
		}
		s.Surfaces = append(s.Surfaces, built...)
	}

	s.Preprocess()
	return s, nil
}

// apply overlays the file's camera settings on a config, leaving
// omitted fields alone
func (c *cameraFile) apply(config *renderer.CameraConfig) {
	if c.Width > 0 {
		config.Width = c.Width
	}
	if c.Height > 0 {
		config.Height = c.Height
	}
	if c.FOV > 0 {
		config.FOV = c.FOV
	}
	if c.LookAt != nil {
		config.LookAt = vec3Of(*c.LookAt)
	}
	if c.OrbitCenter != nil {
		config.OrbitCenter = vec3Of(*c.OrbitCenter)
	}
	if c.OrbitA != nil {
		config.OrbitA = vec3Of(*c.OrbitA)
	}
	if c.OrbitB != nil {
		config.OrbitB = vec3Of(*c.OrbitB)
	}
	if c.LensRadius > 0 {
		config.LensRadius = c.LensRadius
	}
	if c.FocusRatio > 0 {
		config.FocusRatio = c.FocusRatio
	}
}

func (m materialFile) build() *material.Material {
	return &material.Material{
		Albedo:   vec3Of(m.Albedo),
		Emission: vec3Of(m.Emission),
		Fresnel:  m.Fresnel,
		R0:       m.R0,
	}
}

// build turns one surface entry into geometry. Meshes expand to many
// surfaces; everything else maps one to one.
func (sf surfaceFile) build(baseDir string) ([]geometry.Surface, error) {
	mat := sf.Material.build()

	switch sf.Type {
	case "sphere":
		if sf.Radius <= 0 {
			return nil, errors.Errorf("sphere radius must be positive, got %v", sf.Radius)
		}
		return []geometry.Surface{geometry.NewSphere(vec3Of(sf.Center), sf.Radius, mat)}, nil

	case "plane":
		normal := vec3Of(sf.Normal)
		if normal.LengthSquared() == 0 {
			return nil, errors.New("plane normal must be non-zero")
		}
		return []geometry.Surface{geometry.NewPlane(vec3Of(sf.Point), normal, mat)}, nil

	case "quad":
		u, v := vec3Of(sf.U), vec3Of(sf.V)
		if u.Cross(v).LengthSquared() == 0 {
			return nil, errors.New("quad edge vectors must span a plane")
		}
		return []geometry.Surface{geometry.NewQuad(vec3Of(sf.Corner), u, v, mat)}, nil

	case "triangle":
		a, b, c := vec3Of(sf.A), vec3Of(sf.B), vec3Of(sf.C)
		if b.Subtract(a).Cross(c.Subtract(a)).LengthSquared() == 0 {
			return nil, errors.New("triangle vertices are collinear")
		}
		return []geometry.Surface{geometry.NewTriangle(a, b, c, mat)}, nil

	case "mesh":
		if sf.Path == "" {
			return nil, errors.New("mesh surface needs a path")
		}
		path := sf.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		mesh, err := loaders.LoadMesh(path)
		if err != nil {
			return nil, err
		}
		return mesh.Build(mat, sf.Scale, vec3Of(sf.Translate)), nil

	default:
		return nil, errors.Errorf("unknown surface type %q", sf.Type)
	}
}

func vec3Of(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}
