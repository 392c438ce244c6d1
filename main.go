package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
	"github.com/voxdump/go-orbit-tracer/pkg/scene"
)

// renderOptions bundles everything a CLI render needs
type renderOptions struct {
	SceneID    string
	Width      int
	Height     int
	FOV        float64
	Passes     int
	Frames     int
	Frame      int
	Workers    int
	BucketSize int
	OutputDir  string
	AOVs       bool
	ThumbWidth int
	BucketURL  string
}

func main() {
	// Optional .env so deployments can configure without flags
	_ = godotenv.Load()

	sceneID := flag.String("scene", "orbit", "Scene id, .yaml scene file, or .obj/.stl/.ply model file")
	list := flag.Bool("list", false, "List available scenes and exit")
	sceneDir := flag.String("scenes", getEnv("SCENE_DIR", "scenes"), "Directory searched by -list")
	width := flag.Int("width", 0, "Override image width (0 keeps the scene's)")
	height := flag.Int("height", 0, "Override image height (0 keeps the scene's)")
	fov := flag.Float64("fov", 0, "Override horizontal field of view in degrees (0 keeps the scene's)")
	passes := flag.Int("passes", 64, "Render passes to accumulate per frame")
	frames := flag.Int("frames", 0, "Orbit animation length in frames (0 locks the camera)")
	frame := flag.Int("frame", -1, "Render only this frame (-1 renders the whole animation)")
	workers := flag.Int("workers", 0, "Worker goroutines (0 uses all CPUs)")
	bucketSize := flag.Int("bucket-size", 32, "Bucket edge length in pixels")
	outputDir := flag.String("output", "output", "Output directory")
	aovs := flag.Bool("aovs", false, "Also save normal and albedo channels")
	thumbWidth := flag.Int("thumb", 0, "Also save a thumbnail this many pixels wide (0 disables)")
	bucketURL := flag.String("upload", getEnv("ORBIT_UPLOAD_URL", ""), "Blob bucket URL to upload results to (file://, s3://)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)

	if *list {
		if err := printScenes(os.Stdout, *sceneDir); err != nil {
			logger.Error("scene listing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	opts := renderOptions{
		SceneID:    *sceneID,
		Width:      *width,
		Height:     *height,
		FOV:        *fov,
		Passes:     *passes,
		Frames:     *frames,
		Frame:      *frame,
		Workers:    *workers,
		BucketSize: *bucketSize,
		OutputDir:  *outputDir,
		AOVs:       *aovs,
		ThumbWidth: *thumbWidth,
		BucketURL:  *bucketURL,
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

// run renders the selected frames and saves (and optionally uploads)
// the results
func run(ctx context.Context, opts renderOptions, logger *slog.Logger) error {
	if opts.Passes < 1 {
		return errors.Errorf("passes must be positive, got %d", opts.Passes)
	}

	sceneObj, err := scene.Load(opts.SceneID, renderer.CameraConfig{Width: opts.Width, Height: opts.Height, FOV: opts.FOV})
	if err != nil {
		return err
	}

	config := renderer.DefaultConfig()
	config.BucketSize = opts.BucketSize
	config.Workers = opts.Workers
	config.Frames = opts.Frames
	config.Logger = logger

	rend, err := renderer.NewRenderer(sceneObj, config)
	if err != nil {
		return err
	}

	dir := filepath.Join(opts.OutputDir, sceneObj.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	width, height := sceneObj.GetCamera().Resolution()
	logger.Info("starting render", "scene", sceneObj.Name,
		"resolution", fmt.Sprintf("%dx%d", width, height),
		"passes", opts.Passes, "frames", opts.Frames, "workers", rend.Workers())

	var saved []string
	for _, f := range frameList(opts.Frames, opts.Frame) {
		files, err := renderFrame(ctx, rend, f, opts, dir, logger)
		if err != nil {
			return err
		}
		saved = append(saved, files...)
	}

	if opts.BucketURL != "" {
		if err := uploadFiles(ctx, opts.BucketURL, sceneObj.Name, saved, logger); err != nil {
			return err
		}
	}
	return nil
}

// renderFrame accumulates one frame from scratch and saves its images
func renderFrame(ctx context.Context, rend *renderer.Renderer, frame int, opts renderOptions, dir string, logger *slog.Logger) ([]string, error) {
	rend.Output().Clear()

	start := time.Now()
	stats, err := rend.RenderFrame(ctx, frame, 0, opts.Passes)
	if err != nil {
		return nil, err
	}

	base := frameBaseName(opts.Frames, frame)
	var saved []string

	beauty := rend.Output().BeautyImage()
	path := filepath.Join(dir, base+".png")
	if err := savePNG(path, beauty); err != nil {
		return nil, err
	}
	saved = append(saved, path)

	if opts.AOVs {
		normalPath := filepath.Join(dir, base+"_normal.png")
		if err := savePNG(normalPath, rend.Output().NormalImage()); err != nil {
			return nil, err
		}
		albedoPath := filepath.Join(dir, base+"_albedo.png")
		if err := savePNG(albedoPath, rend.Output().AlbedoImage()); err != nil {
			return nil, err
		}
		saved = append(saved, normalPath, albedoPath)
	}

	if opts.ThumbWidth > 0 {
		thumb := resize.Resize(uint(opts.ThumbWidth), 0, beauty, resize.Bilinear)
		thumbPath := filepath.Join(dir, base+"_thumb.png")
		if err := savePNG(thumbPath, thumb); err != nil {
			return nil, err
		}
		saved = append(saved, thumbPath)
	}

	logger.Info("frame rendered", "frame", frame, "passes", stats.TotalPasses,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"samplesPerSecond", int(stats.SamplesPerSecond), "file", path)
	return saved, nil
}

// frameList expands the frame selection into explicit frame indices
func frameList(frames, frame int) []int {
	if frame >= 0 {
		return []int{frame}
	}
	if frames <= 0 {
		return []int{0}
	}
	list := make([]int, frames)
	for i := range list {
		list[i] = i
	}
	return list
}

// frameBaseName names animation frames by index and static renders by
// timestamp so reruns don't clobber earlier output
func frameBaseName(frames, frame int) string {
	if frames > 0 {
		return fmt.Sprintf("frame_%04d", frame)
	}
	return "render_" + time.Now().Format("20060102_150405")
}

func savePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return nil
}

// uploadFiles copies rendered files into a blob bucket under the scene
// name
func uploadFiles(ctx context.Context, bucketURL, sceneName string, files []string, logger *slog.Logger) error {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}
	defer bucket.Close()

	for _, path := range files {
		key := sceneName + "/" + filepath.Base(path)
		if err := uploadFile(ctx, bucket, key, path); err != nil {
			return err
		}
		logger.Info("uploaded", "bucket", bucketURL, "key", key)
	}
	return nil
}

func uploadFile(ctx context.Context, bucket *blob.Bucket, key, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer src.Close()

	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create writer for %s", key)
	}
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return errors.Wrapf(err, "failed to upload %s", key)
	}
	return errors.Wrapf(w.Close(), "failed to finish upload of %s", key)
}

// printScenes writes the scene catalog grouped the way the web picker
// shows it
func printScenes(w io.Writer, sceneDir string) error {
	response, err := scene.ListAllScenes(sceneDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// getEnv reads an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
