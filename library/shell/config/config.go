package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
	LogFormatOTel = "otel"

	// otelInstrumentationName is the scope name of the otel bridge logger.
	otelInstrumentationName = "github.com/AntonStoeckl/library-catalog-go"
)

// ErrInvalidConfig is returned when the environment holds a value that can't be used.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel  string `env:"LIBRARY_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LIBRARY_LOG_FORMAT" envDefault:"text"`

	RetryMaxAttempts int           `env:"LIBRARY_RETRY_MAX_ATTEMPTS" envDefault:"6"`
	RetryBaseDelay   time.Duration `env:"LIBRARY_RETRY_BASE_DELAY" envDefault:"10ms"`
}

// Load reads a .env file from the working directory if there is one, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFrom reads the configuration from the given variables only, the process environment is ignored.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON, LogFormatOTel:
	default:
		return fmt.Errorf("%w: LIBRARY_LOG_FORMAT must be one of text, json, otel", ErrInvalidConfig)
	}

	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("%w: LIBRARY_RETRY_MAX_ATTEMPTS must be at least 1", ErrInvalidConfig)
	}

	if c.RetryBaseDelay < 0 {
		return fmt.Errorf("%w: LIBRARY_RETRY_BASE_DELAY cannot be negative", ErrInvalidConfig)
	}

	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: LIBRARY_LOG_LEVEL must be one of debug, info, warn, error", ErrInvalidConfig)
	}

	return level, nil
}

// NewLogger builds the logger for LogFormat. Text and JSON write to w,
// otel hands the records to the global OpenTelemetry LoggerProvider with trace correlation from the context.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	switch c.LogFormat {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOptions))
	case LogFormatOTel:
		return otelslog.NewLogger(otelInstrumentationName)
	default:
		return slog.New(slog.NewTextHandler(w, handlerOptions))
	}
}

// RetryOptions converts the retry settings for shell.WithRetryOptions.
func (c *Config) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(c.RetryMaxAttempts),
		shell.WithBaseDelay(c.RetryBaseDelay),
	}
}
