package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Selected fields can be overridden from the environment (see the env tags).
type Config struct {
	API         APIConfig         `toml:"api"`
	Storage     StorageConfig     `toml:"storage"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Preferences PreferencesConfig `toml:"preferences"`
}

// APIConfig points the client at the travel API.
type APIConfig struct {
	BaseURL        string `toml:"base_url" env:"WANDRIX_API_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"WANDRIX_API_TIMEOUT"`
}

// StorageConfig contains local database settings. The database holds the auth token slot.
type StorageConfig struct {
	Path         string `toml:"path" env:"WANDRIX_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local stub API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" env:"WANDRIX_STUB_PORT"`
}

// LogConfig controls logger verbosity and the TUI log file.
type LogConfig struct {
	Level   string `toml:"level" env:"WANDRIX_LOG_LEVEL"`
	TUIFile string `toml:"tui_file"`
}

// PreferencesConfig holds the default travel preferences used when flags are omitted.
type PreferencesConfig struct {
	Budget         string   `toml:"budget"`
	TravelDuration int      `toml:"travel_duration"`
	Interests      []string `toml:"interests"`
	Season         string   `toml:"season"`
	TravelType     string   `toml:"travel_type"`
}

// Timeout returns the configured request timeout, or zero for none.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the host:port pair the stub server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values, and environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault loads the config at path if it exists, otherwise returns defaults with env overrides.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			return nil, err
		}
		return config, nil
	}
	return LoadConfig(path)
}

// ApplyEnv overrides config fields from WANDRIX_* environment variables.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: parse environment: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
