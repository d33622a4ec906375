package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "ask.yaml",
			content: `
ui: terminal
timeout: 2m
max_images: 3
terminal:
  style: light
server:
  transport: sse
  addr: localhost:9000
`,
		},
		{
			name: "json",
			file: "ask.json",
			content: `{
  "ui": "terminal",
  "timeout": "2m",
  "max_images": 3,
  "terminal": {"style": "light"},
  "server": {"transport": "sse", "addr": "localhost:9000"}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			got, err := Parse(path)

			if err != nil {
				t.Fatal(err)
			}

			want := Default()
			want.Path = path
			want.UI = UITerminal
			want.Timeout = Duration(2 * time.Minute)
			want.MaxImages = 3
			want.Terminal.Style = "light"
			want.Server = Server{Transport: TransportSSE, Addr: "localhost:9000"}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	path := writeFile(t, "ask.yaml", "timeout: [soon\n")

	if _, err := Parse(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, "ask.yaml", "ui: terminal\n")

	t.Setenv("ASK_UI", "web")
	t.Setenv("ASK_TIMEOUT", "45s")
	t.Setenv("ASK_MAX_OPTIONS", "7")
	t.Setenv("ASK_BROWSER", "false")
	t.Setenv("ASK_LOG_LEVEL", "debug")

	c, err := Load(path)

	if err != nil {
		t.Fatal(err)
	}

	if c.UI != UIWeb || c.Timeout.Std() != 45*time.Second || c.MaxOptions != 7 || c.Log.Level != "debug" {
		t.Errorf("env overrides not applied: %+v", c)
	}

	if c.OpenBrowser() {
		t.Error("browser should be disabled")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	path := writeFile(t, "ask.yaml", "ui: web\n")

	t.Setenv("ASK_MAX_IMAGES", "many")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "ASK_MAX_IMAGES") {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"ui", func(c *Config) { c.UI = "gtk" }, "ui must be"},
		{"transport", func(c *Config) { c.Server.Transport = "ws" }, "transport"},
		{"timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }, "timeout"},
		{"options", func(c *Config) { c.MaxOptions = 0 }, "max_options"},
		{"images", func(c *Config) { c.MaxImages = 0 }, "max_images"},
		{"bytes", func(c *Config) { c.MaxImageBytes = 0 }, "max_image_bytes"},
		{"sse addr", func(c *Config) { c.Server = Server{Transport: TransportSSE} }, "addr"},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := c.Validate()

			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}
