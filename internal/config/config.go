package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"open-tower/internal/level"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "OPENTOWER_CONFIG"

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the local binary and the SSH server.
type Config struct {
	LogLevel string        `yaml:"log_level"` // debug, info, warn, error
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`

	// Starting loadout of levels created in the editor.
	Player level.PlayerStart `yaml:"player"`

	// Grid size of levels created in the editor.
	LevelWidth  int `yaml:"level_width"`
	LevelHeight int `yaml:"level_height"`
}

// ServerConfig configures the SSH front-end.
type ServerConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	HostKey     string `yaml:"host_key"` // PEM file, generated if absent
	MaxSessions int    `yaml:"max_sessions"`
	AllowEditor bool   `yaml:"allow_editor"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// StorageConfig selects and configures the level repository.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // file or postgres
	Dir      string         `yaml:"dir"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			BindAddress: "0.0.0.0",
			Port:        2222,
			HostKey:     "server_host_key",
			MaxSessions: 32,
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Dir:    "levels",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "opentower",
				Password: "opentower",
				DBName:   "opentower",
				SSLMode:  "disable",
				MaxConns: 8,
			},
		},
		Player:      level.DefaultPlayer(),
		LevelWidth:  11,
		LevelHeight: 11,
	}
}

// Path returns the config path to use: $OPENTOWER_CONFIG when set,
// otherwise fallback.
func Path(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

// Load reads config from a YAML file over the defaults. If the file doesn't
// exist, the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file driver"))
		}
	case DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, errors.New("server.max_sessions must be positive"))
	}
	if c.LevelWidth <= 0 || c.LevelHeight <= 0 {
		errs = append(errs, fmt.Errorf("level size %dx%d must be positive", c.LevelWidth, c.LevelHeight))
	}
	if _, err := c.Player.Stats(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if _, err := c.Player.Inventory(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
