package renderer

import (
	"context"
	"image"

	"github.com/pkg/errors"
)

// ProgressiveConfig controls how a frame's passes are chunked into
// preview updates
type ProgressiveConfig struct {
	Passes  int // Total passes to accumulate for the frame
	Updates int // Number of snapshots to emit along the way
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		Passes:  32,
		Updates: 6,
	}
}

// targetPasses returns the cumulative pass count after a given update.
// The first update renders a single pass for a quick preview; the rest
// of the budget spreads evenly, with the final update absorbing any
// remainder.
func (pc ProgressiveConfig) targetPasses(update int) int {
	if pc.Updates == 1 {
		return pc.Passes
	}
	if update == 1 {
		return 1
	}

	perUpdate := (pc.Passes - 1) / (pc.Updates - 1)
	target := 1 + (update-1)*perUpdate
	if update == pc.Updates {
		target = pc.Passes
	}
	return target
}

// PassResult contains one progressive snapshot of the frame
type PassResult struct {
	Frame   int         // Frame being rendered
	Update  int         // 1-based update number
	Passes  int         // Cumulative passes in this snapshot
	Total   int         // Total passes planned for the frame
	Beauty  *image.RGBA // Averaged beauty channel
	Stats   RenderStats // Stats for the chunk that produced this update
	IsLast  bool        // True on the final update
}

// RenderProgressive renders a frame in chunks, emitting a snapshot on
// the results channel after each chunk. Both channels close when the
// frame completes or fails; a cancelled context surfaces on the error
// channel.
func (r *Renderer) RenderProgressive(ctx context.Context, frame int, config ProgressiveConfig) (<-chan PassResult, <-chan error) {
	results := make(chan PassResult, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		if config.Passes < 1 || config.Updates < 1 {
			errs <- errors.Errorf("invalid progressive config: %d passes over %d updates", config.Passes, config.Updates)
			return
		}

		done := 0
		for update := 1; update <= config.Updates; update++ {
			target := config.targetPasses(update)
			chunk := target - done
			if chunk <= 0 && update != config.Updates {
				continue
			}

			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			default:
			}

			stats, err := r.RenderFrame(ctx, frame, done, chunk)
			if err != nil {
				errs <- err
				return
			}
			done = target

			r.config.Logger.Info("render update",
				"frame", frame, "update", update, "passes", done, "total", config.Passes,
				"elapsed", stats.Elapsed)

			result := PassResult{
				Frame:  frame,
				Update: update,
				Passes: done,
				Total:  config.Passes,
				Beauty: r.output.BeautyImage(),
				Stats:  stats,
				IsLast: update == config.Updates,
			}

			select {
			case results <- result:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return results, errs
}
