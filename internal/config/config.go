// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type VKConfig struct {
	Token      string  `yaml:"token"`
	GroupID    int64   `yaml:"group_id"`
	APIVersion string  `yaml:"api_version"`
	Workers    int     `yaml:"workers"` // long poll update workers
	AdminIDs   []int64 `yaml:"admin_ids"`
}

type VenueConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty falls back to the in-memory state store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StateTTL time.Duration `yaml:"state_ttl"`
}

type OpsConfig struct {
	Port int `yaml:"port"`
}

type FloodConfig struct {
	MaxPerMinute int `yaml:"max_per_minute"`
}

type Config struct {
	VK       VKConfig       `yaml:"vk"`
	Venue    VenueConfig    `yaml:"venue"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Ops      OpsConfig      `yaml:"ops"`
	Flood    FloodConfig    `yaml:"flood"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.VK.APIVersion == "" {
		cfg.VK.APIVersion = "5.199"
	}
	if cfg.VK.Workers <= 0 {
		cfg.VK.Workers = 8
	}
	if cfg.Venue.Timeout <= 0 {
		cfg.Venue.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.StateTTL <= 0 {
		cfg.Redis.StateTTL = 30 * time.Minute
	}
	if cfg.Ops.Port <= 0 {
		cfg.Ops.Port = 8080
	}
	if cfg.Flood.MaxPerMinute <= 0 {
		cfg.Flood.MaxPerMinute = 20
	}

	// Minimal validation
	if cfg.VK.Token == "" {
		return nil, errors.New("vk.token is required")
	}
	if cfg.VK.GroupID <= 0 {
		return nil, errors.New("vk.group_id is required")
	}
	if cfg.Venue.BaseURL == "" {
		return nil, errors.New("venue.base_url is required")
	}
	if cfg.Database.Path == "" {
		return nil, errors.New("database.path is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
