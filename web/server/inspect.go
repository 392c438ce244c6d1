package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-json-experiment/json"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
	"github.com/voxdump/go-orbit-tracer/pkg/scene"
)

// InspectResponse describes the first surface under a pixel
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	SurfaceType  string         `json:"surfaceType,omitempty"`
	MaterialType string         `json:"materialType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Properties   map[string]any `json:"properties,omitempty"`
}

// handleInspect casts a ray through a pixel and reports what it hits,
// so the UI can show object details on click
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	values := r.URL.Query()

	width, err := parseIntParam(values, "width", 0, 0, 4096)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntParam(values, "height", 0, 0, 4096)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	fov, err := parseFloatParam(values, "fov", 0, 0, 170)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	frame, err := parseIntParam(values, "frame", 0, 0, 100000)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	frames, err := parseIntParam(values, "frames", 0, 0, 100000)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	x, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := scene.Load(values.Get("scene"), renderer.CameraConfig{Width: width, Height: height, FOV: fov})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to load scene: %v", err))
		return
	}

	camera := sceneObj.GetCamera()
	camWidth, camHeight := camera.Resolution()
	if x < 0 || x >= camWidth || y < 0 || y >= camHeight {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	// The sampler reproduces the first pass's ray through this pixel,
	// so the probe lands on what the preview actually shows
	smp := core.NewSampler(frame, 0, y*camWidth+x, camWidth, camHeight)
	ray := camera.GetRay(x, y, frame, frames, &smp)

	hit, ok := sceneObj.NearestIntersection(ray)
	if !ok {
		w.WriteHeader(http.StatusOK)
		json.MarshalWrite(w, InspectResponse{Hit: false})
		return
	}

	point := ray.At(hit.T)
	normal := hit.Surface.NormalAt(point)

	materialType, materialProps := materialInfo(hit.Surface.Material())
	surfaceType, surfaceProps := surfaceInfo(hit.Surface)

	response := InspectResponse{
		Hit:          true,
		SurfaceType:  surfaceType,
		MaterialType: materialType,
		Point:        vec3Array(point),
		Normal:       vec3Array(normal),
		Distance:     hit.T,
		Properties: map[string]any{
			"material": materialProps,
			"geometry": surfaceProps,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.MarshalWrite(w, response)
}

// materialInfo classifies a material for display
func materialInfo(mat *material.Material) (string, map[string]any) {
	props := map[string]any{
		"albedo": vec3Array(mat.Albedo),
		"color":  hexColor(mat.Albedo),
	}

	switch {
	case mat.Emission.MaxComponent() > 0:
		props["emission"] = vec3Array(mat.Emission)
		props["color"] = hexColor(mat.Emission)
		return "emissive", props
	case mat.Fresnel:
		props["r0"] = mat.R0
		return "glossy", props
	default:
		return "diffuse", props
	}
}

// surfaceInfo extracts the defining parameters of a surface
func surfaceInfo(surface geometry.Surface) (string, map[string]any) {
	props := make(map[string]any)

	switch geom := surface.(type) {
	case *geometry.Sphere:
		props["center"] = vec3Array(geom.Center)
		props["radius"] = geom.Radius
		return "sphere", props

	case *geometry.Plane:
		props["point"] = vec3Array(geom.Point)
		props["normal"] = vec3Array(geom.Normal)
		return "plane", props

	case *geometry.Quad:
		props["corner"] = vec3Array(geom.Corner)
		props["u"] = vec3Array(geom.U)
		props["v"] = vec3Array(geom.V)
		return "quad", props

	case *geometry.Triangle:
		props["v0"] = vec3Array(geom.V0)
		props["v1"] = vec3Array(geom.V1)
		props["v2"] = vec3Array(geom.V2)
		return "triangle", props

	default:
		return "unknown", props
	}
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor renders a color vector as a CSS hex string, clamping HDR
// values into range
func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
