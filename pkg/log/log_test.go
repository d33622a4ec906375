package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)

		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ask.log")

	logger, closer, err := New(path, "debug")

	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("dialog opened", "id", "abc")

	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "dialog opened") || !strings.Contains(string(data), "id=abc") {
		t.Errorf("unexpected log output %q", data)
	}
}
