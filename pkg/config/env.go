package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func (c *Config) applyEnv() error {
	envStr("ASK_UI", &c.UI)

	envStr("ASK_WEB_ADDR", &c.Web.Addr)
	envStr("ASK_TERMINAL_DEVICE", &c.Terminal.Device)
	envStr("ASK_TERMINAL_STYLE", &c.Terminal.Style)

	envStr("ASK_TRANSPORT", &c.Server.Transport)
	envStr("ASK_ADDR", &c.Server.Addr)

	envStr("ASK_LOG_FILE", &c.Log.File)
	envStr("ASK_LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("ASK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fmt.Errorf("ASK_TIMEOUT: %w", err)
		}

		c.Timeout = Duration(d)
	}

	if v := os.Getenv("ASK_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("ASK_BROWSER: %w", err)
		}

		c.Web.Browser = &b
	}

	for name, dst := range map[string]*int{
		"ASK_MAX_OPTIONS":     &c.MaxOptions,
		"ASK_MAX_IMAGES":      &c.MaxImages,
		"ASK_MAX_IMAGE_BYTES": &c.MaxImageBytes,
	} {
		if err := envInt(name, dst); err != nil {
			return err
		}
	}

	return nil
}

func envStr(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)

	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	*dst = n

	return nil
}
