package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
	"github.com/voxdump/go-orbit-tracer/pkg/scene"
)

// RenderRequest holds the parsed query parameters for a render. Zero
// width, height, or fov keeps the scene's camera values; zero frames
// locks the orbit camera.
type RenderRequest struct {
	Scene   string  `json:"scene"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	FOV     float64 `json:"fov"`
	Passes  int     `json:"passes"`
	Updates int     `json:"updates"`
	Frame   int     `json:"frame"`
	Frames  int     `json:"frames"`
	AOVs    bool    `json:"aovs"`
}

// ProgressUpdate is one progressive refinement sent to the client
type ProgressUpdate struct {
	RenderID         string  `json:"renderId"`
	Update           int     `json:"update"`
	Passes           int     `json:"passes"`
	TotalPasses      int     `json:"totalPasses"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Workers          int     `json:"workers"`
	IsComplete       bool    `json:"isComplete"`
}

// AOVUpdate carries the auxiliary channels, sent once after the final
// progressive update when the client asked for them
type AOVUpdate struct {
	RenderID string `json:"renderId"`
	Normal   string `json:"normal"` // Base64 encoded PNG
	Albedo   string `json:"albedo"` // Base64 encoded PNG
}

// SSEEvent pairs an event name with its payload so a single goroutine
// can own all writes to the response
type SSEEvent struct {
	Type string
	Data string
}

// handleRender streams a progressive render as server-sent events:
// "console" events carry log lines, "progress" events carry preview
// images, and the stream ends with either "complete" or "error".
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())

	events := make(chan SSEEvent, 100)
	console := make(chan ConsoleMessage, 50)

	// Single writer goroutine. It drains events until the channel
	// closes, so producers can never block against a dead client.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(w, events)
	}()

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsole(ctx, console, events)
	}()

	defer func() {
		cancel()
		<-consoleDone // No more console sends after this
		close(events)
		<-writerDone
	}()

	req, err := parseRenderRequest(r)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	renderID := uuid.New().String()
	logger := slog.New(NewConsoleHandler(slog.LevelInfo, console))
	s.logger.Info("starting render", "renderId", renderID, "scene", req.Scene,
		"passes", req.Passes, "updates", req.Updates, "frame", req.Frame)

	sceneObj, err := scene.Load(req.Scene, renderer.CameraConfig{Width: req.Width, Height: req.Height, FOV: req.FOV})
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to load scene: %v", err)})
		return
	}

	config := renderer.DefaultConfig()
	config.Frames = req.Frames
	config.Logger = logger

	rend, err := renderer.NewRenderer(sceneObj, config)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to create renderer: %v", err)})
		return
	}

	progressive := renderer.ProgressiveConfig{Passes: req.Passes, Updates: req.Updates}
	start := time.Now()
	results, errs := rend.RenderProgressive(ctx, req.Frame, progressive)

	for result := range results {
		imageData, err := imageToBase64PNG(result.Beauty)
		if err != nil {
			sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode image: %v", err)})
			return
		}

		update := ProgressUpdate{
			RenderID:         renderID,
			Update:           result.Update,
			Passes:           result.Passes,
			TotalPasses:      result.Total,
			ImageData:        imageData,
			ElapsedMs:        time.Since(start).Milliseconds(),
			SamplesPerSecond: result.Stats.SamplesPerSecond,
			Workers:          result.Stats.Workers,
			IsComplete:       result.IsLast,
		}
		data, err := json.Marshal(update)
		if err != nil {
			sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode update: %v", err)})
			return
		}
		sendEvent(ctx, events, SSEEvent{Type: "progress", Data: string(data)})
	}

	if err := <-errs; err != nil {
		s.logger.Error("render failed", "renderId", renderID, "error", err)
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
		return
	}

	if req.AOVs {
		if err := sendAOVs(ctx, events, renderID, rend.Output()); err != nil {
			sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode AOVs: %v", err)})
			return
		}
	}

	s.logger.Info("render complete", "renderId", renderID, "elapsed", time.Since(start))
	sendEvent(ctx, events, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// parseRenderRequest extracts and validates render parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()

	req := &RenderRequest{
		Scene: values.Get("scene"),
		AOVs:  values.Get("aovs") == "true" || values.Get("aovs") == "1",
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 0, 4096); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, 0, 4096); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(values, "fov", 0, 0, 170); err != nil {
		return nil, err
	}
	if req.Passes, err = parseIntParam(values, "passes", 32, 1, 10000); err != nil {
		return nil, err
	}
	if req.Updates, err = parseIntParam(values, "updates", 6, 1, 100); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(values, "frames", 0, 0, 100000); err != nil {
		return nil, err
	}
	if req.Frame, err = parseIntParam(values, "frame", 0, 0, 100000); err != nil {
		return nil, err
	}
	return req, nil
}

// sendAOVs encodes the normal and albedo channels and emits them as one
// "aovs" event
func sendAOVs(ctx context.Context, events chan<- SSEEvent, renderID string, output *renderer.Output) error {
	normal, err := imageToBase64PNG(output.NormalImage())
	if err != nil {
		return err
	}
	albedo, err := imageToBase64PNG(output.AlbedoImage())
	if err != nil {
		return err
	}

	data, err := json.Marshal(AOVUpdate{RenderID: renderID, Normal: normal, Albedo: albedo})
	if err != nil {
		return err
	}
	sendEvent(ctx, events, SSEEvent{Type: "aovs", Data: string(data)})
	return nil
}

// sendEvent queues an event for the writer goroutine, giving up if the
// request is done
func sendEvent(ctx context.Context, events chan<- SSEEvent, event SSEEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// writeSSEEvents writes queued events to the response until the channel
// closes. After a write error it keeps draining so producers do not
// block, but stops touching the connection.
func writeSSEEvents(w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, ok := w.(http.Flusher)
	failed := !ok

	for event := range events {
		if failed {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			failed = true
			continue
		}
		flusher.Flush()
	}
}

// streamConsole forwards console messages as "console" SSE events until
// the request context is cancelled
func streamConsole(ctx context.Context, console <-chan ConsoleMessage, events chan<- SSEEvent) {
	for {
		select {
		case msg := <-console:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			sendEvent(ctx, events, SSEEvent{Type: "console", Data: string(data)})
		case <-ctx.Done():
			return
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// imageToBase64PNG encodes an image as a base64 PNG data URL
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
