//go:build !tinygo

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Parse(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Unknown keys are rejected.
func Parse(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from NANOTERM_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("NANOTERM_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("NANOTERM_ENV"); v != "" {
		switch strings.ToLower(v) {
		case "dev", "development":
			c.Log.Mode = "dev"
		default:
			c.Log.Mode = "prod"
		}
	}
	if v := getenv("NANOTERM_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("NANOTERM_COMMANDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: NANOTERM_COMMANDS: %w", err)
		}
		c.Terminal.Commands = n
	}
	if v := getenv("NANOTERM_LINE_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: NANOTERM_LINE_BUFFER: %w", err)
		}
		c.Terminal.LineBuffer = n
	}
	if v := getenv("NANOTERM_IDLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: NANOTERM_IDLE_DELAY: %w", err)
		}
		c.Terminal.IdleDelay = d
	}
	if v := getenv("NANOTERM_COMPLETION"); v != "" {
		c.Terminal.Completion = strings.ToLower(v)
	}
	if v := getenv("NANOTERM_DEL_IS_BACKSPACE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: NANOTERM_DEL_IS_BACKSPACE: %w", err)
		}
		c.Terminal.DELIsBackspace = b
	}
	return nil
}
