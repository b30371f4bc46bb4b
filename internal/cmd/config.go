package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the kiosk configuration, loaded from YAML with environment
// overrides.
type Config struct {
	Backend struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"backend"`
	Session struct {
		WindowSec int `yaml:"window_sec"`
		GraceSec  int `yaml:"grace_sec"`
	} `yaml:"session"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

func defaultConfig() *Config {
	var cfg Config
	cfg.Backend.BaseURL = "http://localhost:8080/api"
	cfg.Backend.TimeoutSec = 30
	cfg.Session.WindowSec = 300
	cfg.Session.GraceSec = 7
	cfg.Storage.Path = "cabina-session.db"
	return &cfg
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Backend.BaseURL = getEnv("CABINA_BACKEND_URL", cfg.Backend.BaseURL)
	cfg.Backend.TimeoutSec = getEnvAsInt("CABINA_BACKEND_TIMEOUT_SEC", cfg.Backend.TimeoutSec)
	cfg.Session.WindowSec = getEnvAsInt("CABINA_SESSION_WINDOW_SEC", cfg.Session.WindowSec)
	cfg.Session.GraceSec = getEnvAsInt("CABINA_SESSION_GRACE_SEC", cfg.Session.GraceSec)
	cfg.Storage.Path = getEnv("CABINA_STORAGE_PATH", cfg.Storage.Path)

	return cfg, nil
}

func (c *Config) window() time.Duration {
	return time.Duration(c.Session.WindowSec) * time.Second
}

func (c *Config) grace() time.Duration {
	return time.Duration(c.Session.GraceSec) * time.Second
}

func (c *Config) backendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
