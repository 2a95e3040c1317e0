package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the API server configuration. The contract binary takes no
// configuration at all; everything here concerns the long-running mode.
type Config struct {
	Addr        string  `yaml:"addr"`
	DatabaseURL string  `yaml:"database_url"`
	RedisURL    string  `yaml:"redis_url"`
	LogLevel    string  `yaml:"log_level"`
	RateLimit   float64 `yaml:"rate_limit"` // solves per second
	RateBurst   int     `yaml:"rate_burst"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	Search SearchDefaults `yaml:"search"`
}

// SearchDefaults seed the engine knobs for requests that carry none.
type SearchDefaults struct {
	Seed          int64   `yaml:"seed"`
	MaxIterations int     `yaml:"max_iterations"`
	InitTemp      float64 `yaml:"init_temp"`
	Cooling       float64 `yaml:"cooling"`
}

func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		RateLimit:         5,
		RateBurst:         10,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Load reads an optional YAML file and applies environment overrides on top.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimit = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}
}
