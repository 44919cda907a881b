package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds server settings. Environment variables provide the defaults
// and command-line flags override them.
type Config struct {
	APIHost     string `env:"CHECKERS_API_HOST" envDefault:"localhost"`
	APIPort     int    `env:"CHECKERS_API_PORT" envDefault:"8080"`
	Dev         bool   `env:"CHECKERS_DEV" envDefault:"false"`
	StoragePath string `env:"CHECKERS_STORAGE_PATH"`
	PIDPath     string `env:"CHECKERS_PID"`
	PIDLock     bool   `env:"CHECKERS_PID_LOCK" envDefault:"false"`
	LogLevel    string `env:"CHECKERS_LOG_LEVEL" envDefault:"info"`

	AIWorkers        int           `env:"CHECKERS_AI_WORKERS" envDefault:"2"`
	AITurnDelay      time.Duration `env:"CHECKERS_AI_TURN_DELAY" envDefault:"800ms"`
	AIJumpDelay      time.Duration `env:"CHECKERS_AI_JUMP_DELAY" envDefault:"600ms"`
	AISeed           uint64        `env:"CHECKERS_AI_SEED"` // 0 seeds from the clock
	MaxComputerGames int           `env:"CHECKERS_MAX_COMPUTER_GAMES" envDefault:"10"`
}

// Load parses the environment into a Config
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that flags or env could have set out of range
func (c Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("invalid api port: %d", c.APIPort)
	}
	if c.PIDLock && c.PIDPath == "" {
		return fmt.Errorf("pid lock requires a pid path")
	}
	if c.AIWorkers < 1 {
		return fmt.Errorf("ai workers must be at least 1, got %d", c.AIWorkers)
	}
	if c.AITurnDelay < 0 || c.AIJumpDelay < 0 {
		return fmt.Errorf("ai delays must not be negative")
	}
	if c.MaxComputerGames < 0 {
		return fmt.Errorf("max computer games must not be negative")
	}
	return nil
}

// Seed returns the configured AI seed or a clock-derived one
func (c Config) Seed() uint64 {
	if c.AISeed != 0 {
		return c.AISeed
	}
	return uint64(time.Now().UnixNano())
}

// SetupLogger configures the global zerolog logger. Pretty output is meant
// for development terminals.
func SetupLogger(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}
