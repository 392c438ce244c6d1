package renderer

import "time"

// RenderStats contains statistics about one rendered chunk of passes
type RenderStats struct {
	Frame            int           // Frame the chunk belongs to
	SubPasses        int           // Passes accumulated by this chunk
	TotalPasses      int           // Cumulative passes now in the output
	TotalPixels      int           // Pixels in the image
	TotalSamples     int           // Pixel samples traced by this chunk
	Workers          int           // Worker goroutines used
	Elapsed          time.Duration // Wall time for the chunk
	SamplesPerSecond float64       // Throughput over the chunk
}

func (r *Renderer) frameStats(frame, subPasses, workers int, elapsed time.Duration) RenderStats {
	totalPixels := r.width * r.height
	totalSamples := totalPixels * subPasses

	samplesPerSecond := 0.0
	if elapsed > 0 {
		samplesPerSecond = float64(totalSamples) / elapsed.Seconds()
	}

	return RenderStats{
		Frame:            frame,
		SubPasses:        subPasses,
		TotalPasses:      r.output.Passes(),
		TotalPixels:      totalPixels,
		TotalSamples:     totalSamples,
		Workers:          workers,
		Elapsed:          elapsed,
		SamplesPerSecond: samplesPerSecond,
	}
}
