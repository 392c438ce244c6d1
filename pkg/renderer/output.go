package renderer

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
)

// Output accumulates per-pixel radiance across passes and workers. Two
// workers can hold the same bucket for different sub-passes at the same
// time, so every channel stores float64 bit patterns that are added
// through compare-and-swap rather than plain writes.
type Output struct {
	width  int
	height int
	beauty []uint64
	normal []uint64
	albedo []uint64
	passes atomic.Int64
}

// NewOutput allocates zeroed accumulation buffers for the given image size
func NewOutput(width, height int) *Output {
	cells := width * height * 3
	return &Output{
		width:  width,
		height: height,
		beauty: make([]uint64, cells),
		normal: make([]uint64, cells),
		albedo: make([]uint64, cells),
	}
}

// Width returns the image width in pixels
func (o *Output) Width() int { return o.width }

// Height returns the image height in pixels
func (o *Output) Height() int { return o.height }

// Clear zeroes all channels and resets the pass counter. Not safe to
// call while workers are accumulating.
func (o *Output) Clear() {
	for i := range o.beauty {
		o.beauty[i] = 0
		o.normal[i] = 0
		o.albedo[i] = 0
	}
	o.passes.Store(0)
}

// AddSample adds one traced sample into the pixel's accumulators
func (o *Output) AddSample(pixel int, sample integrator.Sample) {
	base := pixel * 3
	addVec3(o.beauty, base, sample.Beauty)
	addVec3(o.normal, base, sample.Normal)
	addVec3(o.albedo, base, sample.Albedo)
}

// AddPasses records that n more passes have been fully accumulated
func (o *Output) AddPasses(n int) {
	o.passes.Add(int64(n))
}

// Passes returns the number of fully accumulated passes
func (o *Output) Passes() int {
	return int(o.passes.Load())
}

// SampleAt returns the raw accumulated sums for a pixel
func (o *Output) SampleAt(x, y int) integrator.Sample {
	base := (y*o.width + x) * 3
	return integrator.Sample{
		Beauty: loadVec3(o.beauty, base),
		Normal: loadVec3(o.normal, base),
		Albedo: loadVec3(o.albedo, base),
	}
}

// BeautyImage averages the beauty channel over completed passes and
// encodes it with gamma 2.0
func (o *Output) BeautyImage() *image.RGBA {
	return o.snapshot(o.beauty, 2.0)
}

// NormalImage averages the remapped first-hit normals, linear encoding
func (o *Output) NormalImage() *image.RGBA {
	return o.snapshot(o.normal, 1.0)
}

// AlbedoImage averages the first-hit albedo, linear encoding
func (o *Output) AlbedoImage() *image.RGBA {
	return o.snapshot(o.albedo, 1.0)
}

func (o *Output) snapshot(channel []uint64, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))

	passes := float64(o.Passes())
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			var value core.Vec3
			if passes > 0 {
				base := (y*o.width + x) * 3
				value = loadVec3(channel, base).Divide(passes)
			}
			img.SetRGBA(x, y, vec3ToColor(value, gamma))
		}
	}
	return img
}

// vec3ToColor converts a color vector to 8-bit RGBA with clamping and
// optional gamma correction
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	if gamma != 1.0 {
		colorVec = colorVec.GammaCorrect(gamma)
	}
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

func addVec3(channel []uint64, base int, v core.Vec3) {
	addFloat(&channel[base], v.X)
	addFloat(&channel[base+1], v.Y)
	addFloat(&channel[base+2], v.Z)
}

func loadVec3(channel []uint64, base int) core.Vec3 {
	return core.NewVec3(
		math.Float64frombits(atomic.LoadUint64(&channel[base])),
		math.Float64frombits(atomic.LoadUint64(&channel[base+1])),
		math.Float64frombits(atomic.LoadUint64(&channel[base+2])),
	)
}

// addFloat adds v into the float64 stored at cell, retrying until no
// other worker raced the update
func addFloat(cell *uint64, v float64) {
	for {
		oldBits := atomic.LoadUint64(cell)
		newBits := math.Float64bits(math.Float64frombits(oldBits) + v)
		if atomic.CompareAndSwapUint64(cell, oldBits, newBits) {
			return
		}
	}
}
