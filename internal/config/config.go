package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string     `env:"PORT" envDefault:"8080"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeoutSec int        `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`

	ChannelsFile string `env:"CHANNELS_FILE"`
	ChannelsURL  string `env:"CHANNELS_URL"`
	FetchRetries int    `env:"CHANNELS_FETCH_RETRIES" envDefault:"2"`

	TimeHorizon     int    `env:"TIME_HORIZON" envDefault:"24"`
	MaxTimeHorizon  int    `env:"MAX_TIME_HORIZON" envDefault:"600"`
	MCIterations    int    `env:"MC_ITERATIONS" envDefault:"1000"`
	MCMaxIterations int    `env:"MC_MAX_ITERATIONS" envDefault:"100000"`
	MCSeed          uint64 `env:"MC_SEED"`
	Workers         int    `env:"WORKERS" envDefault:"4"`

	RunsDBPath string `env:"RUNS_DB_PATH"`

	OpexReserveMonths float64 `env:"OPEX_RESERVE_MONTHS" envDefault:"3"`
	JitterLeadsPct    float64 `env:"JITTER_LEADS_PCT" envDefault:"20"`
	JitterConvPct     float64 `env:"JITTER_CONVERSION_PCT" envDefault:"20"`
	JitterMarginPct   float64 `env:"JITTER_MARGIN_PCT" envDefault:"10"`
	JitterCACPct      float64 `env:"JITTER_CAC_PCT" envDefault:"15"`
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// FromEnv reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MCIterations < 1 {
		cfg.MCIterations = 1
	}
	return cfg, nil
}
