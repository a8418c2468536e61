package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Network   NetworkConfig   `yaml:"network"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NetworkConfig controls the connectivity probe behind offline queueing.
// An empty ProbeAddr means the server considers itself always online.
type NetworkConfig struct {
	ProbeAddr            string `yaml:"probe_addr"`
	ProbeIntervalSeconds int    `yaml:"probe_interval_seconds"`
}

// JobsConfig holds cron specs for background maintenance.
type JobsConfig struct {
	RecomputeSpec string `yaml:"recompute_spec"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "pipetally.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Network: NetworkConfig{
			ProbeIntervalSeconds: 15,
		},
		Jobs: JobsConfig{
			RecomputeSpec: "@every 5m",
		},
	}

	if path := os.Getenv("PIPETALLY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PIPETALLY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PIPETALLY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PIPETALLY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("PIPETALLY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PIPETALLY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("PIPETALLY_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabledStr := os.Getenv("PIPETALLY_AUTH_ENABLED"); enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PIPETALLY_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if addr := os.Getenv("PIPETALLY_PROBE_ADDR"); addr != "" {
		cfg.Network.ProbeAddr = addr
	}
	if spec := os.Getenv("PIPETALLY_RECOMPUTE_SPEC"); spec != "" {
		cfg.Jobs.RecomputeSpec = spec
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
