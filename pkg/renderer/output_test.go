package renderer

import (
	"sync"
	"testing"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
)

func TestOutput_AccumulatesSamples(t *testing.T) {
	out := NewOutput(4, 4)

	sample := integrator.Sample{
		Beauty: core.NewVec3(0.5, 1.0, 1.5),
		Normal: core.NewVec3(0.5, 0.5, 1.0),
		Albedo: core.NewVec3(0.25, 0.25, 0.25),
	}
	out.AddSample(5, sample)
	out.AddSample(5, sample)

	got := out.SampleAt(1, 1) // pixel 5 in a 4-wide image
	if got.Beauty != core.NewVec3(1.0, 2.0, 3.0) {
		t.Errorf("Beauty sum: got %v", got.Beauty)
	}
	if got.Normal != core.NewVec3(1.0, 1.0, 2.0) {
		t.Errorf("Normal sum: got %v", got.Normal)
	}
	if got.Albedo != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Albedo sum: got %v", got.Albedo)
	}

	// Other pixels stay untouched
	if got := out.SampleAt(0, 0); got.Beauty != (core.Vec3{}) {
		t.Errorf("Pixel 0 should be empty, got %v", got.Beauty)
	}
}

func TestOutput_ConcurrentAccumulation(t *testing.T) {
	const workers = 8
	const addsPerWorker = 500

	out := NewOutput(2, 2)
	one := integrator.Sample{
		Beauty: core.NewVec3(1, 1, 1),
		Normal: core.NewVec3(1, 0, 0),
		Albedo: core.NewVec3(0, 1, 0),
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPerWorker; i++ {
				out.AddSample(3, one)
			}
		}()
	}
	wg.Wait()

	// Integer-valued additions are exact in float64, so a lost update
	// shows up as an exact shortfall
	want := float64(workers * addsPerWorker)
	got := out.SampleAt(1, 1)
	if got.Beauty.X != want || got.Beauty.Y != want || got.Beauty.Z != want {
		t.Errorf("Beauty sum after concurrent adds: got %v, expected %v", got.Beauty, want)
	}
	if got.Normal.X != want || got.Albedo.Y != want {
		t.Errorf("AOV sums after concurrent adds: normal %v albedo %v", got.Normal, got.Albedo)
	}
}

func TestOutput_Clear(t *testing.T) {
	out := NewOutput(2, 2)
	out.AddSample(0, integrator.Sample{Beauty: core.NewVec3(1, 2, 3)})
	out.AddPasses(4)

	out.Clear()

	if got := out.SampleAt(0, 0); got.Beauty != (core.Vec3{}) {
		t.Errorf("Beauty not cleared: %v", got.Beauty)
	}
	if out.Passes() != 0 {
		t.Errorf("Passes not reset: %d", out.Passes())
	}
}

func TestOutput_PassCounter(t *testing.T) {
	out := NewOutput(1, 1)
	out.AddPasses(2)
	out.AddPasses(3)
	if out.Passes() != 5 {
		t.Errorf("Passes: got %d, expected 5", out.Passes())
	}
}

func TestOutput_BeautyImageGamma(t *testing.T) {
	out := NewOutput(2, 1)
	out.AddSample(0, integrator.Sample{Beauty: core.NewVec3(1.0, 4.0, 16.0)})
	out.AddPasses(4)

	img := out.BeautyImage()

	// Averaged to (0.25, 1, 4), gamma 2.0 gives (0.5, 1, 2), clamped to 1
	got := img.RGBAAt(0, 0)
	if got.R != 127 || got.G != 255 || got.B != 255 || got.A != 255 {
		t.Errorf("Beauty pixel: got %v", got)
	}

	// A pixel that was never written stays black
	if empty := img.RGBAAt(1, 0); empty.R != 0 || empty.G != 0 || empty.B != 0 {
		t.Errorf("Empty pixel should be black, got %v", empty)
	}
}

func TestOutput_AOVImagesAreLinear(t *testing.T) {
	out := NewOutput(1, 1)
	out.AddSample(0, integrator.Sample{
		Normal: core.NewVec3(0.5, 0.5, 1.0),
		Albedo: core.NewVec3(0.25, 0.5, 1.0),
	})
	out.AddPasses(1)

	normal := out.NormalImage().RGBAAt(0, 0)
	if normal.R != 127 || normal.G != 127 || normal.B != 255 {
		t.Errorf("Normal pixel: got %v", normal)
	}

	albedo := out.AlbedoImage().RGBAAt(0, 0)
	if albedo.R != 63 || albedo.G != 127 || albedo.B != 255 {
		t.Errorf("Albedo pixel: got %v", albedo)
	}
}

func TestOutput_ImageBeforeAnyPassIsBlack(t *testing.T) {
	out := NewOutput(1, 1)
	out.AddSample(0, integrator.Sample{Beauty: core.NewVec3(1, 1, 1)})

	// No completed passes yet: the snapshot must not divide by zero
	got := out.BeautyImage().RGBAAt(0, 0)
	if got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Snapshot with zero passes should be black, got %v", got)
	}
}
