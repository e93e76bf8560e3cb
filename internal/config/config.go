// Package config loads the service configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`

	// TaxYear is used when a return omits its year.
	TaxYear int `yaml:"tax_year"`
}

type ServerConfig struct {
	Addr            string          `yaml:"addr"`
	AllowedOrigins  []string        `yaml:"allowed_origins"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	// Heartbeat is the SSE keep-alive interval.
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// RateLimitConfig bounds API requests per second. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			AllowedOrigins:  []string{"http://localhost:5173"},
			RateLimit:       RateLimitConfig{RPS: 20, Burst: 40},
			ShutdownTimeout: 10 * time.Second,
			Heartbeat:       15 * time.Second,
		},
		Storage: StorageConfig{Path: "taxengine.db"},
		Logging: LoggingConfig{Level: "info"},
		TaxYear: 2025,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("server.rate_limit.rps must be >= 0"))
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("server.rate_limit.burst must be >= 1 when rps is set"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Server.Heartbeat <= 0 {
		errs = append(errs, errors.New("server.heartbeat must be positive"))
	}
	for i, o := range c.Server.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Errorf("server.allowed_origins[%d] is empty", i))
		}
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	if !levels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug|info|warn|error", c.Logging.Level))
	}
	if c.TaxYear < 2000 || c.TaxYear > 2100 {
		errs = append(errs, fmt.Errorf("tax_year %d out of range", c.TaxYear))
	}
	return errors.Join(errs...)
}
