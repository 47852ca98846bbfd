// Package config loads the application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
	// ErrInvalidLogLevel is returned for LOG_LEVEL values slog does not know.
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	// ErrInvalidLogFormat is returned for LOG_FORMAT values other than text or json.
	ErrInvalidLogFormat = errors.New("config: invalid log format")
	// ErrSecretKey is returned when SECRET_KEY is missing or too short to sign cookies.
	ErrSecretKey = errors.New("config: SECRET_KEY must be at least 32 characters")
)

// Config holds every setting the recipes application reads from the
// environment.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
	SecretKey       string        `env:"SECRET_KEY"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	DBMaxConns      int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBRetryAttempts int           `env:"DB_RETRY_ATTEMPTS" envDefault:"3"`
	DBRetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"2s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	UISchemaDir     string        `env:"UI_SCHEMA_DIR"`
	TemplatesDir    string        `env:"TEMPLATES_DIR"`
	ThemeVariant    string        `env:"THEME_VARIANT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ReadDotEnvFile  bool          `env:"READ_DOT_ENV_FILE" envDefault:"true"`
}

// Load reads .env (unless READ_DOT_ENV_FILE is false) and parses the process
// environment. Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("READ_DOT_ENV_FILE")), "false") {
		if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses settings from environ instead of the process environment.
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat))
	}
	return errors.Join(errs...)
}

// ValidateServe checks the settings only the HTTP server needs.
func (c Config) ValidateServe() error {
	if len(c.SecretKey) < minSecretKeyLength {
		return ErrSecretKey
	}
	return nil
}

// SlogLevel converts LogLevel into a slog.Level. Debug forces debug level.
func (c Config) SlogLevel() (slog.Level, error) {
	if c.Debug {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

// UseDatabase reports whether a Postgres database is configured.
func (c Config) UseDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}
