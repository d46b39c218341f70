package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"questmap/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitAndRotate(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: filepath.Join(dir, "server.log"), Level: "INFO"},
		Requests: config.LogSettings{Path: filepath.Join(dir, "requests.log"), Level: "DEBUG"},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	slog.Info("hello from test")
	RequestLogger.Debug("request log line")
	cleanup()

	if _, err := os.Stat(cfg.Server.Path); err != nil {
		t.Errorf("Server log not created: %v", err)
	}
	if _, err := os.Stat(cfg.Requests.Path); err != nil {
		t.Errorf("Requests log not created: %v", err)
	}

	// Second Init rotates the previous run's logs to .old
	cleanup2, err := Init(cfg)
	if err != nil {
		t.Fatalf("Second Init failed: %v", err)
	}
	defer cleanup2()

	if _, err := os.Stat(cfg.Server.Path + ".old"); err != nil {
		t.Errorf("Expected rotated server log: %v", err)
	}
}
