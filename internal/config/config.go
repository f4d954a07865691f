// Package config reads the runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/pipeline"

	"github.com/rs/zerolog"
)

type Backend string

const (
	BackendImaging Backend = "imaging"
	BackendOpenCV  Backend = "opencv"
)

type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

const (
	DefaultPreviewSize   = pipeline.DefaultPreviewSize
	DefaultDebounceDelay = pipeline.DefaultDebounceDelay

	MinPreviewSize   = 16
	MaxPreviewSize   = 4096
	MaxDebounceDelay = 5 * time.Second
	MaxRenderWorkers = 256
)

type Config struct {
	LogLevel      zerolog.Level
	LogFormat     LogFormat
	PreviewSize   int
	DebounceDelay time.Duration
	RenderWorkers int
	Backend       Backend

	// Warnings collects every value that was ignored in favour of its
	// default. Load runs before the logger exists, so the caller logs them.
	Warnings []string
}

// Default takes the render settings from the coordinator's own defaults.
func Default() Config {
	opts := pipeline.DefaultOptions()
	return Config{
		LogLevel:      zerolog.InfoLevel,
		LogFormat:     LogFormatConsole,
		PreviewSize:   opts.PreviewSize,
		DebounceDelay: opts.DebounceDelay,
		RenderWorkers: opts.RenderWorkers,
		Backend:       BackendImaging,
	}
}

// Options converts the render settings for pipeline.NewCoordinator.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		PreviewSize:   c.PreviewSize,
		DebounceDelay: c.DebounceDelay,
		RenderWorkers: c.RenderWorkers,
	}
}

// Load builds a Config from the environment. Invalid values never fail the
// load; they fall back to defaults and are reported in Warnings.
func Load() Config {
	cfg := Default()

	cfg.LogLevel = determineLogLevel()

	if v, ok := lookup("DAS_LOG_FORMAT"); ok {
		switch LogFormat(strings.ToLower(v)) {
		case LogFormatConsole, LogFormatJSON:
			cfg.LogFormat = LogFormat(strings.ToLower(v))
		default:
			cfg.warn("DAS_LOG_FORMAT", v, string(cfg.LogFormat))
		}
	}

	if v, ok := lookup("DAS_BACKEND"); ok {
		switch Backend(strings.ToLower(v)) {
		case BackendImaging, BackendOpenCV:
			cfg.Backend = Backend(strings.ToLower(v))
		default:
			cfg.warn("DAS_BACKEND", v, string(cfg.Backend))
		}
	}

	cfg.PreviewSize = cfg.intVar("DAS_PREVIEW_SIZE", cfg.PreviewSize, MinPreviewSize, MaxPreviewSize)
	cfg.RenderWorkers = cfg.intVar("DAS_RENDER_WORKERS", cfg.RenderWorkers, 1, MaxRenderWorkers)

	ms := cfg.intVar("DAS_DEBOUNCE_MS", int(cfg.DebounceDelay/time.Millisecond), 0, int(MaxDebounceDelay/time.Millisecond))
	cfg.DebounceDelay = time.Duration(ms) * time.Millisecond

	return cfg
}

// Validate reports the first out-of-range value. Load never produces one;
// it guards configs assembled by hand.
func (c Config) Validate() error {
	if c.PreviewSize < MinPreviewSize || c.PreviewSize > MaxPreviewSize {
		return fmt.Errorf("preview size %d outside [%d, %d]", c.PreviewSize, MinPreviewSize, MaxPreviewSize)
	}
	if c.DebounceDelay < 0 || c.DebounceDelay > MaxDebounceDelay {
		return fmt.Errorf("debounce delay %s outside [0, %s]", c.DebounceDelay, MaxDebounceDelay)
	}
	if c.RenderWorkers < 1 || c.RenderWorkers > MaxRenderWorkers {
		return fmt.Errorf("render workers %d outside [1, %d]", c.RenderWorkers, MaxRenderWorkers)
	}
	switch c.Backend {
	case BackendImaging, BackendOpenCV:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Fields renders the config as logger fields.
func (c Config) Fields() map[string]interface{} {
	return map[string]interface{}{
		"log_level":      c.LogLevel.String(),
		"log_format":     string(c.LogFormat),
		"preview_size":   c.PreviewSize,
		"debounce_ms":    c.DebounceDelay.Milliseconds(),
		"render_workers": c.RenderWorkers,
		"backend":        string(c.Backend),
	}
}

func determineLogLevel() zerolog.Level {
	if v, ok := lookup("LOG_LEVEL"); ok {
		return logger.ParseLevel(v)
	}
	if os.Getenv("DEBUG") == "1" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (c *Config) intVar(name string, def, low, high int) int {
	v, ok := lookup(name)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < low || n > high {
		c.warn(name, v, strconv.Itoa(def))
		return def
	}
	return n
}

func (c *Config) warn(name, value, fallback string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s=%q, using %s", name, value, fallback))
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
