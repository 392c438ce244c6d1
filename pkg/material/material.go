package material

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
)

// Material describes how a surface responds to light. It is plain data;
// the integrator owns the scattering logic.
type Material struct {
	Albedo   core.Vec3 // Reflectance per channel in [0, 1]
	Emission core.Vec3 // Radiance added when a path reaches the surface
	Fresnel  bool      // Enables the specular lobe weighted by Schlick's approximation
	R0       float64   // Specular reflectance at normal incidence
}

// NewDiffuse creates a matte material with the given reflectance
func NewDiffuse(albedo core.Vec3) *Material {
	return &Material{Albedo: albedo}
}

// NewEmissive creates a light-emitting material. Its albedo is zero, so
// paths terminate on it after collecting the emission.
func NewEmissive(emission core.Vec3) *Material {
	return &Material{Emission: emission}
}

// NewGlossy creates a diffuse material with a Fresnel specular lobe.
// r0 is the reflectance looking straight at the surface; grazing angles
// approach a perfect mirror.
func NewGlossy(albedo core.Vec3, r0 float64) *Material {
	return &Material{Albedo: albedo, Fresnel: true, R0: r0}
}

// SchlickFresnel approximates the fraction of light reflected specularly
// for a ray meeting a surface: r0 + (1-r0)*(1-|n·d|)^5
func SchlickFresnel(normal, incident core.Vec3, r0 float64) float64 {
	p := 1 - math.Abs(normal.Dot(incident))
	p2 := p * p
	return r0 + (1-r0)*p2*p2*p
}
