package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Bounding struct {
		Eps            float64       `env:"BOUND_EPS" envDefault:"0.01"`
		InitialPoints  int           `env:"BOUND_INITIAL_POINTS" envDefault:"200"`
		Solver         string        `env:"BOUND_SOLVER" envDefault:"bisect"`
		MaxRefinements int           `env:"BOUND_MAX_REFINEMENTS" envDefault:"64"`
		RequestTimeout time.Duration `env:"BOUND_REQUEST_TIMEOUT" envDefault:"10s"`
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	if cfg.Bounding.InitialPoints <= 2 {
		return nil, fmt.Errorf("BOUND_INITIAL_POINTS must exceed 2, got %d", cfg.Bounding.InitialPoints)
	}
	if cfg.Bounding.Eps <= 0 {
		return nil, fmt.Errorf("BOUND_EPS must be positive, got %g", cfg.Bounding.Eps)
	}

	return cfg, nil
}
