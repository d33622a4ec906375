package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/question"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	UIWeb      = "web"
	UITerminal = "terminal"

	TransportStdio = "stdio"
	TransportSSE   = "sse"

	DefaultTimeout    = 10 * time.Minute
	DefaultServerAddr = "localhost:4200"
)

var Candidates = []string{".ask.yaml", ".ask.json", "ask.yaml", "ask.json"}

type Config struct {
	Path string `json:"-" yaml:"-"`

	UI      string   `json:"ui" yaml:"ui"`
	Timeout Duration `json:"timeout" yaml:"timeout"`

	MaxOptions    int `json:"max_options" yaml:"max_options"`
	MaxImages     int `json:"max_images" yaml:"max_images"`
	MaxImageBytes int `json:"max_image_bytes" yaml:"max_image_bytes"`

	Web      Web      `json:"web" yaml:"web"`
	Terminal Terminal `json:"terminal" yaml:"terminal"`

	Server Server `json:"server" yaml:"server"`
	Log    Log    `json:"log" yaml:"log"`
}

type Web struct {
	Addr string `json:"addr" yaml:"addr"`

	// Browser opens the question page automatically. The URL is always logged.
	Browser *bool `json:"browser,omitempty" yaml:"browser,omitempty"`
}

type Terminal struct {
	Device string `json:"device" yaml:"device"`
	Style  string `json:"style" yaml:"style"`
}

type Server struct {
	Transport string `json:"transport" yaml:"transport"`
	Addr      string `json:"addr" yaml:"addr"`
}

type Log struct {
	File  string `json:"file" yaml:"file"`
	Level string `json:"level" yaml:"level"`
}

func Default() *Config {
	return &Config{
		UI:      UIWeb,
		Timeout: Duration(DefaultTimeout),

		MaxOptions:    question.DefaultMaxOptions,
		MaxImages:     ask.DefaultMaxImages,
		MaxImageBytes: ask.DefaultMaxImageBytes,

		Web: Web{
			Addr: "127.0.0.1:0",
		},

		Terminal: Terminal{
			Device: "/dev/tty",
			Style:  "dark",
		},

		Server: Server{
			Transport: TransportStdio,
			Addr:      DefaultServerAddr,
		},

		Log: Log{
			Level: "info",
		},
	}
}

// Load reads .env, the given config file (or the first candidate found in the
// working directory) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	godotenv.Load()

	config := Default()

	if path == "" {
		for _, name := range Candidates {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		c, err := Parse(path)

		if err != nil {
			return nil, err
		}

		config = c
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return config, nil
}

// Parse reads a JSON or YAML config file on top of the defaults.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	config := Default()

	if err := json.Unmarshal(data, config); err == nil {
		config.Path = path
		return config, nil
	}

	config = Default()

	if err := yaml.Unmarshal(data, config); err == nil {
		config.Path = path
		return config, nil
	}

	return nil, errors.New("failed to parse config file " + path)
}

func (c *Config) Validate() error {
	switch c.UI {
	case UIWeb, UITerminal:
	default:
		return fmt.Errorf("ui must be %q or %q, got %q", UIWeb, UITerminal, c.UI)
	}

	switch c.Server.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("server transport must be %q or %q, got %q", TransportStdio, TransportSSE, c.Server.Transport)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if c.MaxOptions < 1 {
		return fmt.Errorf("max_options must be at least 1, got %d", c.MaxOptions)
	}

	if c.MaxImages < 1 {
		return fmt.Errorf("max_images must be at least 1, got %d", c.MaxImages)
	}

	if c.MaxImageBytes < 1 {
		return fmt.Errorf("max_image_bytes must be at least 1, got %d", c.MaxImageBytes)
	}

	if c.Server.Transport == TransportSSE && c.Server.Addr == "" {
		return errors.New("server addr must not be empty for sse")
	}

	return nil
}

func (c *Config) Limits() ask.Limits {
	return ask.Limits{
		MaxImages:     c.MaxImages,
		MaxImageBytes: c.MaxImageBytes,
	}
}

func (c *Config) OpenBrowser() bool {
	return c.Web.Browser == nil || *c.Web.Browser
}
