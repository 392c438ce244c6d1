package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/voxdump/go-orbit-tracer/web/server"
)

// getEnv reads an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func main() {
	// Optional .env so deployments can configure without flags
	_ = godotenv.Load()

	port := flag.Int("port", getEnvInt("PORT", 8080), "Port to serve on")
	sceneDir := flag.String("scenes", getEnv("SCENE_DIR", "scenes"), "Directory with scene and model files")
	staticDir := flag.String("static", getEnv("STATIC_DIR", "web/static"), "Directory with UI assets")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	srv := server.NewServer(fmt.Sprintf(":%d", *port), *sceneDir, *staticDir, logger)

	logger.Info("web interface ready", "url", fmt.Sprintf("http://localhost:%d", *port))
	if err := srv.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
