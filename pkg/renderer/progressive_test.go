package renderer

import (
	"context"
	"testing"
)

func TestProgressiveConfig_TargetPasses(t *testing.T) {
	tests := []struct {
		name    string
		config  ProgressiveConfig
		targets []int
	}{
		{
			name:    "single update takes the whole budget",
			config:  ProgressiveConfig{Passes: 32, Updates: 1},
			targets: []int{32},
		},
		{
			name:    "first update is a one-pass preview",
			config:  ProgressiveConfig{Passes: 32, Updates: 6},
			targets: []int{1, 7, 13, 19, 25, 32},
		},
		{
			name:    "final update absorbs the remainder",
			config:  ProgressiveConfig{Passes: 10, Updates: 4},
			targets: []int{1, 4, 7, 10},
		},
		{
			name:    "more updates than passes",
			config:  ProgressiveConfig{Passes: 2, Updates: 5},
			targets: []int{1, 1, 1, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.targets {
				if got := tt.config.targetPasses(i + 1); got != want {
					t.Errorf("Update %d: got target %d, expected %d", i+1, got, want)
				}
			}
		})
	}
}

func TestRenderProgressive(t *testing.T) {
	r, err := NewRenderer(whiteSkyScene(32, 32), DefaultConfig())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	config := ProgressiveConfig{Passes: 5, Updates: 3}
	results, errs := r.RenderProgressive(context.Background(), 0, config)

	var got []PassResult
	for result := range results {
		got = append(got, result)
	}
	for err := range errs {
		t.Fatalf("RenderProgressive: %v", err)
	}

	wantPasses := []int{1, 3, 5}
	if len(got) != len(wantPasses) {
		t.Fatalf("Got %d updates, expected %d", len(got), len(wantPasses))
	}
	for i, result := range got {
		if result.Passes != wantPasses[i] {
			t.Errorf("Update %d: %d cumulative passes, expected %d", i+1, result.Passes, wantPasses[i])
		}
		if result.Total != 5 {
			t.Errorf("Update %d: total %d, expected 5", i+1, result.Total)
		}
		wantLast := i == len(wantPasses)-1
		if result.IsLast != wantLast {
			t.Errorf("Update %d: IsLast %v", i+1, result.IsLast)
		}

		bounds := result.Beauty.Bounds()
		if bounds.Dx() != 32 || bounds.Dy() != 32 {
			t.Errorf("Update %d: snapshot bounds %v", i+1, bounds)
		}
		// White sky averages to pure white no matter how many passes
		// have landed
		if px := result.Beauty.RGBAAt(16, 16); px.R != 255 || px.G != 255 || px.B != 255 {
			t.Errorf("Update %d: center pixel %v, expected white", i+1, px)
		}
	}

	if r.Output().Passes() != 5 {
		t.Errorf("Output pass counter: got %d, expected 5", r.Output().Passes())
	}
}

func TestRenderProgressive_SkipsEmptyChunks(t *testing.T) {
	r, err := NewRenderer(whiteSkyScene(16, 16), DefaultConfig())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	results, errs := r.RenderProgressive(context.Background(), 0, ProgressiveConfig{Passes: 2, Updates: 5})

	var got []PassResult
	for result := range results {
		got = append(got, result)
	}
	for err := range errs {
		t.Fatalf("RenderProgressive: %v", err)
	}

	// Only the preview and the final update add passes; the middle
	// updates have nothing to show
	if len(got) != 2 {
		t.Fatalf("Got %d updates, expected 2", len(got))
	}
	if got[0].Passes != 1 || got[1].Passes != 2 {
		t.Errorf("Cumulative passes %d, %d, expected 1, 2", got[0].Passes, got[1].Passes)
	}
	if !got[1].IsLast {
		t.Error("Final update should be marked last")
	}
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	r, err := NewRenderer(whiteSkyScene(16, 16), DefaultConfig())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := r.RenderProgressive(ctx, 0, DefaultProgressiveConfig())

	for range results {
	}
	if err := <-errs; err == nil {
		t.Error("Expected an error after cancellation")
	}
}

func TestRenderProgressive_InvalidConfig(t *testing.T) {
	r, err := NewRenderer(whiteSkyScene(16, 16), DefaultConfig())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	results, errs := r.RenderProgressive(context.Background(), 0, ProgressiveConfig{Passes: 0, Updates: 2})

	for range results {
	}
	if err := <-errs; err == nil {
		t.Error("Expected an error for a zero-pass config")
	}
}
