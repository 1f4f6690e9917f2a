package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.General.MaxUploadsPerAccount != 50 {
		t.Errorf("Expected default max_uploads_per_account 50, got %d", config.General.MaxUploadsPerAccount)
	}
	if config.General.HashtagCount != 5 {
		t.Errorf("Expected default hashtag_count 5, got %d", config.General.HashtagCount)
	}
	if config.Paths.Ledger == "" || config.Paths.History == "" || config.Paths.Catalog == "" {
		t.Error("Default config must locate all stores")
	}
	if config.Automation.BaseURL == "" {
		t.Error("Default config missing automation base URL")
	}
	if config.Supervisor.MaxRetries != 15 {
		t.Errorf("Expected default max_retries 15, got %d", config.Supervisor.MaxRetries)
	}
	if config.Extractor.Model == "" {
		t.Error("Default config missing extractor model")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("ValidFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[general]
log_level = "debug"
max_uploads_per_account = 10
upload_delay_seconds = 2

[paths]
ledger = "custom/accounts.json"

[automation]
base_url = "https://staging.example.com"
headless = false
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.General.LogLevel != "debug" {
			t.Errorf("Expected log_level debug, got %s", config.General.LogLevel)
		}
		if config.General.MaxUploadsPerAccount != 10 {
			t.Errorf("Expected max_uploads_per_account 10, got %d", config.General.MaxUploadsPerAccount)
		}
		if config.Paths.Ledger != "custom/accounts.json" {
			t.Errorf("Expected custom ledger path, got %s", config.Paths.Ledger)
		}
		if config.Automation.BaseURL != "https://staging.example.com" {
			t.Errorf("Expected staging base URL, got %s", config.Automation.BaseURL)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("Expected error for missing config file")
		}
	})

	t.Run("InvalidTOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected error for invalid TOML")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("CreatesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile failed: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Created config should parse: %v", err)
		}
		if config.General.MaxUploadsPerAccount != 50 {
			t.Errorf("Created config should carry defaults, got %d", config.General.MaxUploadsPerAccount)
		}
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("# existing"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("Expected error when config already exists")
		}
	})
}
