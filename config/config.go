// Package config loads engine settings from the environment.
//
// Variables (defaults in parentheses):
//
//	VSKEMA_ASYNC_TIMEOUT    timeout for async rules without timeoutMs (5s)
//	VSKEMA_MAX_CONCURRENCY  async fan-out bound per container, 0 = unbounded (0)
//	VSKEMA_LOG_LEVEL        debug, info, warn or error (info)
//	VSKEMA_LOG_FORMAT       text or json (text)
//	VSKEMA_LANG             default message language, en or ja (en)
//
// A .env file in the working directory is loaded first when present;
// variables already set in the process environment win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/i18n"
	"github.com/reoring/vskema/internal/logging"
)

// Config holds engine settings.
type Config struct {
	AsyncTimeout   time.Duration `env:"VSKEMA_ASYNC_TIMEOUT" envDefault:"5s"`
	MaxConcurrency int           `env:"VSKEMA_MAX_CONCURRENCY" envDefault:"0"`
	LogLevel       string        `env:"VSKEMA_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"VSKEMA_LOG_FORMAT" envDefault:"text"`
	Lang           string        `env:"VSKEMA_LANG" envDefault:"en"`
}

var defaultEnvLoaded sync.Once

// Load reads Config from the process environment after a best-effort .env load.
func Load() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})
	return parse(env.Options{})
}

// LoadEnv loads the given dotenv files into the process environment. Earlier
// files win over later ones, and the process environment wins over both.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// FromMap reads Config from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.AsyncTimeout <= 0 {
		return fmt.Errorf("%w: VSKEMA_ASYNC_TIMEOUT must be positive, got %s", ErrInvalidConfig, c.AsyncTimeout)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: VSKEMA_MAX_CONCURRENCY must be >= 0, got %d", ErrInvalidConfig, c.MaxConcurrency)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Lang {
	case "en", "ja":
	default:
		return fmt.Errorf("%w: VSKEMA_LANG must be en or ja, got %q", ErrInvalidConfig, c.Lang)
	}
	return nil
}

// Logger builds the logger described by LogLevel and LogFormat.
func (c Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.LogLevel)
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.New(level, format)
}

// EngineOptions converts c into engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithTimeout(c.AsyncTimeout),
		engine.WithMaxConcurrency(c.MaxConcurrency),
		engine.WithLogger(c.Logger()),
	}
}

// ApplyLanguage switches the default message language to Lang.
func (c Config) ApplyLanguage() { i18n.SetLanguage(c.Lang) }
