package core

import "math"

// haltonPrimes are the radical inverse bases, cycled per dimension.
var haltonPrimes = [6]uint64{2, 3, 5, 7, 11, 13}

// oneMinusEpsilon is the largest float64 strictly below 1.0
const oneMinusEpsilon = 1.0 - 0x1p-53

// Hash scrambles a 32-bit value with an avalanche mix so consecutive
// inputs land far apart. Used to decorrelate per-pixel sample sequences.
func Hash(x uint32) uint32 {
	x = (x ^ 12345391) * 2654435769
	x ^= (x << 6) ^ (x >> 26)
	x *= 2654435769
	x += (x << 5) ^ (x >> 12)
	return x
}

// UnitFromBits maps a 32-bit value onto [0, 1) by building the float
// 1.fraction directly from the top mantissa bits. Exactly v * 2^-32.
func UnitFromBits(v uint32) float64 {
	return math.Float64frombits(0x3FF0000000000000|uint64(v)<<20) - 1.0
}

// RadicalInverse reverses the digits of a in the given base and places
// them after the radix point, yielding the Halton sequence for prime
// bases. The result is clamped below 1.0.
func RadicalInverse(a, base uint64) float64 {
	invBase := 1.0 / float64(base)
	var reversed uint64
	invBaseN := 1.0
	for a > 0 {
		next := a / base
		digit := a - next*base
		reversed = reversed*base + digit
		invBaseN *= invBase
		a = next
	}
	return min(float64(reversed)*invBaseN, oneMinusEpsilon)
}

// WrapUnit adds two values in [0, 1) and wraps the sum back into [0, 1).
// This is the rotation that shifts a Halton point per pixel.
func WrapUnit(u, v float64) float64 {
	s := u + v
	if s < 1 {
		return s
	}
	return s - 1
}

// TriangleDist warps a uniform value in [0, 1) to a triangle-distributed
// value in (-1, 1) centered at 0, for tent-filtered pixel jitter.
func TriangleDist(v float64) float64 {
	orig := v*2 - 1
	if orig == 0 {
		return 0
	}
	t := orig / math.Sqrt(math.Abs(orig))
	if orig > 0 {
		return t - 1
	}
	return t + 1
}

// Sampler yields the deterministic sample sequence for a single pixel
// sample: Halton points indexed by pass, rotated per pixel by a hash of
// the frame and the pixel's linear index. Dimensions are consumed lazily
// in call order, so the camera and the integrator share one sequence.
type Sampler struct {
	pass     uint64
	rotation float64
	dim      int
}

// NewSampler creates the sequence for one sample of one pixel.
func NewSampler(frame, pass, pixelIndex, width, height int) Sampler {
	seed := uint32(frame*width*height + pixelIndex)
	return Sampler{
		pass:     uint64(pass),
		rotation: UnitFromBits(Hash(seed)),
	}
}

// Next1D returns the next dimension's sample in [0, 1).
func (s *Sampler) Next1D() float64 {
	base := haltonPrimes[s.dim]
	s.dim++
	if s.dim == len(haltonPrimes) {
		s.dim = 0
	}
	return WrapUnit(RadicalInverse(s.pass, base), s.rotation)
}

// Next2D returns the next two dimensions' samples.
func (s *Sampler) Next2D() (float64, float64) {
	u1 := s.Next1D()
	u2 := s.Next1D()
	return u1, u2
}

// CosineDirection returns a cosine-weighted direction in the hemisphere
// around normal, built by adding a uniform unit-sphere point to the normal.
func CosineDirection(normal Vec3, u1, u2 float64) Vec3 {
	a := 2 * math.Pi * u1
	s := 2 * math.Sqrt(math.Max(0, u2*(1-u2)))
	sphere := Vec3{X: math.Cos(a) * s, Y: math.Sin(a) * s, Z: 1 - 2*u2}
	return normal.Add(sphere).Normalize()
}

// DiscPoint maps two uniform samples onto a unit disc with uniform area
// density. Scaled by the lens radius for depth of field.
func DiscPoint(u1, u2 float64) (x, y float64) {
	r := math.Sqrt(u1)
	a := 2 * math.Pi * u2
	return r * math.Cos(a), r * math.Sin(a)
}
