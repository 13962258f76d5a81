package config

import (
	"fmt"
	"os"
	"strconv"

	"archon/agent"
	"archon/meta"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "ARCHON_LOG_LEVEL"
	EnvDifficulty = "ARCHON_DIFFICULTY"
	EnvSeed       = "ARCHON_SEED"
	EnvMaxTurns   = "ARCHON_MAX_TURNS"
	EnvMetricsDir = "ARCHON_METRICS_DIR"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel   zerolog.Level
	Difficulty agent.Difficulty
	Seed       uint64 // 0 picks a time based seed
	MaxTurns   int
	MetricsDir string
}

// Load reads the given env files (".env" when none are named) and then the
// environment. Variables already set in the environment win over files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		LogLevel:   zerolog.InfoLevel,
		MaxTurns:   meta.MAX_TURNS,
		MetricsDir: meta.DEFAULT_METRICS_DIR,
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	difficulty := meta.DEFAULT_DIFFICULTY
	if v := os.Getenv(EnvDifficulty); v != "" {
		difficulty = v
	}
	d, err := agent.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvDifficulty, err)
	}
	cfg.Difficulty = d

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	if v := os.Getenv(EnvMaxTurns); v != "" {
		turns, err := strconv.Atoi(v)
		if err != nil || turns <= 0 {
			return nil, fmt.Errorf("invalid %s: %q must be a positive number", EnvMaxTurns, v)
		}
		cfg.MaxTurns = turns
	}

	if v := os.Getenv(EnvMetricsDir); v != "" {
		cfg.MetricsDir = v
	}

	return cfg, nil
}
