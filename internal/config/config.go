package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Sync    SyncConfig    `yaml:"sync"`
	Purge   PurgeConfig   `yaml:"purge"`
	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
}

type AppConfig struct {
	// Version is the build marker used when VersionSource is "build".
	Version       string `yaml:"version"`
	VersionSource string `yaml:"version_source"` // remote, build
}

type StorageConfig struct {
	Path       string `yaml:"path"` // ":memory:" keeps entries in process memory only
	QuotaBytes int64  `yaml:"quota_bytes"`
}

type RemoteConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"` // zero means no client-side timeout
}

type SyncConfig struct {
	RefreshCron string `yaml:"refresh_cron"` // empty disables periodic refresh
}

type PurgeConfig struct {
	Prefixes []string `yaml:"prefixes"`
	Keep     []string `yaml:"keep"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`
}

type BackendConfig struct {
	Port         string `yaml:"port"`
	Mode         string `yaml:"mode"` // debug, release, test
	DatabasePath string `yaml:"database_path"`
	Version      string `yaml:"version"`
	BuildTime    string `yaml:"build_time"`
}

// Duration reads "5s"-style strings from YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Version:       "0.0.0",
			VersionSource: "remote",
		},
		Storage: StorageConfig{
			Path:       "fleet-navigator.db",
			QuotaBytes: 5 * 1024 * 1024,
		},
		Remote: RemoteConfig{
			BaseURL: "http://localhost:2025",
		},
		Purge: PurgeConfig{
			Prefixes: []string{"fleet-navigator", "chaining"},
			Keep:     []string{"fleet-navigator-chat-cache", "fleet-navigator-selected-model"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Backend: BackendConfig{
			Port:         "2025",
			Mode:         "release",
			DatabasePath: "fleet-navigator-backend.db",
			Version:      "0.0.0",
		},
	}
}

// Load reads configPath over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FLEET_APP_VERSION"); v != "" {
		cfg.App.Version = v
	}
	if v := os.Getenv("FLEET_VERSION_SOURCE"); v != "" {
		cfg.App.VersionSource = v
	}
	if v := os.Getenv("FLEET_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("FLEET_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("FLEET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FLEET_REFRESH_CRON"); v != "" {
		cfg.Sync.RefreshCron = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Backend.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Backend.Mode = v
	}
	if v := os.Getenv("FLEET_DB_PATH"); v != "" {
		cfg.Backend.DatabasePath = v
	}
}

func (c *Config) Validate() error {
	switch c.App.VersionSource {
	case "remote", "build":
	default:
		return fmt.Errorf("app.version_source must be 'remote' or 'build', got %q", c.App.VersionSource)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must not be negative")
	}
	if c.Remote.Timeout.Duration < 0 {
		return fmt.Errorf("remote.timeout must not be negative")
	}
	return nil
}

// GetServerAddress returns the backend listen address.
func (c *Config) GetServerAddress() string {
	if _, err := strconv.Atoi(c.Backend.Port); err == nil {
		return ":" + c.Backend.Port
	}
	return c.Backend.Port
}
