package renderer

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetTracerConfig() integrator.Config
	NearestIntersection(ray core.Ray) (geometry.Hit, bool)
	Clone() Scene
}

// Config contains rendering configuration
type Config struct {
	BucketSize int          // Square bucket edge in pixels
	Workers    int          // Worker goroutines; 0 uses all CPUs
	Frames     int          // Orbit animation steps; 0 locks the camera
	Logger     *slog.Logger // Render progress logging; nil uses the default logger
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		BucketSize: 32,
		Workers:    0,
		Frames:     0,
	}
}

// Renderer drives the path tracer over an image, one pass at a time,
// spreading buckets of pixels across worker goroutines
type Renderer struct {
	scene  Scene
	camera *Camera
	tracer *integrator.PathTracer
	output *Output
	config Config
	width  int
	height int
}

// NewRenderer creates a renderer for the scene at its camera resolution
func NewRenderer(scene Scene, config Config) (*Renderer, error) {
	camera := scene.GetCamera()
	if camera == nil {
		return nil, errors.New("scene has no camera")
	}
	width, height := camera.Resolution()
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid resolution %dx%d", width, height)
	}
	if config.BucketSize <= 0 {
		return nil, errors.Errorf("invalid bucket size %d", config.BucketSize)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Renderer{
		scene:  scene,
		camera: camera,
		tracer: integrator.NewPathTracer(scene.GetTracerConfig()),
		output: NewOutput(width, height),
		config: config,
		width:  width,
		height: height,
	}, nil
}

// Output returns the accumulation buffers the renderer writes into
func (r *Renderer) Output() *Output {
	return r.output
}

// Workers returns the number of worker goroutines a render will use
func (r *Renderer) Workers() int {
	if r.config.Workers > 0 {
		return r.config.Workers
	}
	return runtime.NumCPU()
}

// numBuckets returns the bucket grid dimensions, rounding up so edge
// pixels always land in a bucket
func (r *Renderer) numBuckets() (xBuckets, yBuckets int) {
	size := r.config.BucketSize
	return (r.width + size - 1) / size, (r.height + size - 1) / size
}

// RenderFrame accumulates subPasses new passes of the given frame into
// the output. Pass indices continue from basePass so outer progressive
// loops keep advancing the sample sequences.
func (r *Renderer) RenderFrame(ctx context.Context, frame, basePass, subPasses int) (RenderStats, error) {
	start := time.Now()

	xBuckets, yBuckets := r.numBuckets()
	control := NewPassControl(xBuckets * yBuckets * subPasses)

	g, ctx := errgroup.WithContext(ctx)
	workers := r.Workers()
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return r.RenderWorker(ctx, control, frame, basePass)
		})
	}
	if err := g.Wait(); err != nil {
		return RenderStats{}, err
	}

	r.output.AddPasses(subPasses)
	stats := r.frameStats(frame, subPasses, workers, time.Since(start))
	r.config.Logger.Debug("frame chunk rendered",
		"frame", frame, "passes", subPasses, "totalPasses", stats.TotalPasses,
		"elapsed", stats.Elapsed, "samplesPerSecond", int(stats.SamplesPerSecond))
	return stats, nil
}

// RenderWorker claims and renders work units until none remain. Each
// worker traverses its own scene clone; acceleration structures carry
// per-traversal state that must not be shared.
func (r *Renderer) RenderWorker(ctx context.Context, control *PassControl, frame, basePass int) error {
	scene := r.scene.Clone()
	size := r.config.BucketSize
	xBuckets, yBuckets := r.numBuckets()
	numBuckets := xBuckets * yBuckets

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		unit, ok := control.ClaimNext()
		if !ok {
			return nil
		}

		subPass := unit / numBuckets
		bucket := unit - subPass*numBuckets
		bucketY := bucket / xBuckets
		bucketX := bucket - bucketY*xBuckets

		x0 := bucketX * size
		y0 := bucketY * size
		x1 := min(x0+size, r.width)
		y1 := min(y0+size, r.height)

		pass := basePass + subPass
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				pixel := y*r.width + x
				smp := core.NewSampler(frame, pass, pixel, r.width, r.height)
				ray := r.camera.GetRay(x, y, frame, r.config.Frames, &smp)
				sample := r.tracer.Trace(ray, scene, &smp)
				r.output.AddSample(pixel, sample)
			}
		}
	}
}
