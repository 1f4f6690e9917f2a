package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Paths      PathsConfig      `toml:"paths"`
	Automation AutomationConfig `toml:"automation"`
	Supervisor SupervisorConfig `toml:"supervisor"`
	Extractor  ExtractorConfig  `toml:"extractor"`
}

// GeneralConfig contains run-wide settings.
type GeneralConfig struct {
	LogLevel             string `toml:"log_level"`
	MaxUploadsPerAccount int    `toml:"max_uploads_per_account"`
	UploadDelaySeconds   int    `toml:"upload_delay_seconds"`
	HashtagCount         int    `toml:"hashtag_count"`
	VideoRoot            string `toml:"video_root"`
}

// PathsConfig locates the persisted stores.
type PathsConfig struct {
	Ledger  string `toml:"ledger"`
	History string `toml:"history"`
	Catalog string `toml:"catalog"`
	Journal string `toml:"journal"`
}

// AutomationConfig contains browser automation settings.
type AutomationConfig struct {
	BaseURL            string `toml:"base_url"`
	Headless           bool   `toml:"headless"`
	StepTimeoutSeconds int    `toml:"step_timeout_seconds"`
	RecoveryRetries    int    `toml:"recovery_retries"`
}

// SupervisorConfig contains restart supervisor settings.
type SupervisorConfig struct {
	MaxRetries        int `toml:"max_retries"`
	RetryDelaySeconds int `toml:"retry_delay_seconds"`
}

// ExtractorConfig contains settings for the offline metadata extraction pipeline.
type ExtractorConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKeyEnv string `toml:"api_key_env"`
	Model     string `toml:"model"`
	BatchSize int    `toml:"batch_size"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
