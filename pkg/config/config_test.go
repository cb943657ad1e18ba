package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Dispatch.Workers != 5 {
		t.Errorf("Expected default workers to be 5, got %d", config.Dispatch.Workers)
	}

	if config.Dispatch.SubmitInterval != 50*time.Millisecond {
		t.Errorf("Expected default submit interval to be 50ms, got %s", config.Dispatch.SubmitInterval)
	}

	if config.Danbooru.BaseURL != "https://danbooru.donmai.us" {
		t.Errorf("Expected default base URL, got %s", config.Danbooru.BaseURL)
	}

	if config.Output.Directory != "./outputs" {
		t.Errorf("Expected default output directory to be ./outputs, got %s", config.Output.Directory)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestQueueCapacity(t *testing.T) {
	d := DispatchConfig{Workers: 4}
	if got := d.QueueCapacity(); got != 8 {
		t.Errorf("Expected derived queue capacity 8, got %d", got)
	}

	d.QueueSize = 3
	if got := d.QueueCapacity(); got != 3 {
		t.Errorf("Expected explicit queue capacity 3, got %d", got)
	}
}

func TestOutputPaths(t *testing.T) {
	o := DefaultConfig().Output
	o.Directory = "/tmp/run"

	if got := o.AcceptedPath(); got != "/tmp/run/general_tag_descriptions.txt" {
		t.Errorf("Unexpected accepted path %s", got)
	}
	if got := o.SkippedPath(); got != "/tmp/run/skipped_tags.txt" {
		t.Errorf("Unexpected skipped path %s", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAGSCRAPER_BASE_URL", "http://localhost:3000")
	t.Setenv("TAGSCRAPER_LOGIN", "alice")
	t.Setenv("TAGSCRAPER_API_KEY", "secret")
	t.Setenv("TAGSCRAPER_WORKERS", "8")
	t.Setenv("TAGSCRAPER_SUBMIT_INTERVAL", "10ms")
	t.Setenv("TAGSCRAPER_REQUEST_TIMEOUT", "3s")
	t.Setenv("TAGSCRAPER_OUTPUT_DIR", "/tmp/tag-out")
	t.Setenv("TAGSCRAPER_NOTIFICATIONS_ENABLED", "TRUE")
	t.Setenv("TAGSCRAPER_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Danbooru.BaseURL != "http://localhost:3000" {
		t.Errorf("Expected base URL from env, got %s", config.Danbooru.BaseURL)
	}
	if config.Danbooru.Login != "alice" || config.Danbooru.APIKey != "secret" {
		t.Errorf("Expected credentials from env, got %s/%s", config.Danbooru.Login, config.Danbooru.APIKey)
	}
	if config.Dispatch.Workers != 8 {
		t.Errorf("Expected workers to be 8, got %d", config.Dispatch.Workers)
	}
	if config.Dispatch.SubmitInterval != 10*time.Millisecond {
		t.Errorf("Expected submit interval 10ms, got %s", config.Dispatch.SubmitInterval)
	}
	if config.Danbooru.RequestTimeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %s", config.Danbooru.RequestTimeout)
	}
	if config.Output.Directory != "/tmp/tag-out" {
		t.Errorf("Expected output directory /tmp/tag-out, got %s", config.Output.Directory)
	}
	if !config.Notifications.Enabled {
		t.Error("Expected notifications to be enabled")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("TAGSCRAPER_SUBMIT_INTERVAL", "soon")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected error for invalid duration")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `danbooru:
  base_url: http://127.0.0.1:8080
  request_timeout: 5s
dispatch:
  workers: 12
  queue_size: 40
  submit_interval: 0s
output:
  directory: /tmp/from-file
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Danbooru.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("Unexpected base URL %s", config.Danbooru.BaseURL)
	}
	if config.Danbooru.RequestTimeout != 5*time.Second {
		t.Errorf("Unexpected timeout %s", config.Danbooru.RequestTimeout)
	}
	if config.Dispatch.Workers != 12 || config.Dispatch.QueueSize != 40 {
		t.Errorf("Unexpected dispatch config %+v", config.Dispatch)
	}
	if config.Dispatch.SubmitInterval != 0 {
		t.Errorf("Expected zero submit interval, got %s", config.Dispatch.SubmitInterval)
	}
	// Unset keys keep their defaults
	if config.Output.AcceptedFile != "general_tag_descriptions.txt" {
		t.Errorf("Expected default accepted file, got %s", config.Output.AcceptedFile)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Unexpected log level %s", config.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Dispatch.Workers = 0 },
			wantErr: "workers must be between 1 and 20",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Dispatch.Workers = 21 },
			wantErr: "workers must be between 1 and 20",
		},
		{
			name:   "max workers",
			mutate: func(c *Config) { c.Dispatch.Workers = 20 },
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.Danbooru.BaseURL = "danbooru.donmai.us" },
			wantErr: "invalid base URL",
		},
		{
			name:    "login without key",
			mutate:  func(c *Config) { c.Danbooru.Login = "alice" },
			wantErr: "login and API key must be set together",
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Dispatch.SubmitInterval = -time.Second },
			wantErr: "submit interval cannot be negative",
		},
		{
			name:    "same output files",
			mutate:  func(c *Config) { c.Output.SkippedFile = c.Output.AcceptedFile },
			wantErr: "must differ",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"workers":         10,
		"queue-size":      25,
		"submit-interval": 0 * time.Millisecond,
		"timeout":         2 * time.Second,
		"output":          "/tmp/flags",
		"base-url":        "http://example.test",
		"log-level":       "error",
		"notifications":   true,
	})

	if config.Dispatch.Workers != 10 {
		t.Errorf("Expected workers to be 10, got %d", config.Dispatch.Workers)
	}
	if config.Dispatch.QueueSize != 25 {
		t.Errorf("Expected queue size 25, got %d", config.Dispatch.QueueSize)
	}
	if config.Dispatch.SubmitInterval != 0 {
		t.Errorf("Expected zero submit interval, got %s", config.Dispatch.SubmitInterval)
	}
	if config.Danbooru.RequestTimeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %s", config.Danbooru.RequestTimeout)
	}
	if config.Output.Directory != "/tmp/flags" {
		t.Errorf("Expected output dir from flags, got %s", config.Output.Directory)
	}
	if config.Danbooru.BaseURL != "http://example.test" {
		t.Errorf("Expected base URL from flags, got %s", config.Danbooru.BaseURL)
	}
	if config.Logging.Level != "error" || !config.Notifications.Enabled {
		t.Errorf("Unexpected logging/notification config %+v %+v", config.Logging, config.Notifications)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Dispatch.Workers = 7
	config.Danbooru.Login = "alice"
	config.Danbooru.APIKey = "secret"
	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.Dispatch.Workers != 7 || loaded.Danbooru.Login != "alice" {
		t.Errorf("Reloaded config mismatch: %+v", loaded.Dispatch)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("dispatch:\n  workers: 3\noutput:\n  directory: /tmp/file\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("TAGSCRAPER_WORKERS", "4")

	config, err := Load(path, map[string]interface{}{"output": "/tmp/flag"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// env beats file, flags beat everything
	if config.Dispatch.Workers != 4 {
		t.Errorf("Expected env workers 4, got %d", config.Dispatch.Workers)
	}
	if config.Output.Directory != "/tmp/flag" {
		t.Errorf("Expected flag output dir, got %s", config.Output.Directory)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("Expected error for missing config file")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dispatch:\n  workers: 50\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("Expected validation error for 50 workers")
	}
}

func TestLoadRejectsExplicitZeroWorkers(t *testing.T) {
	t.Setenv("TAGSCRAPER_WORKERS", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dispatch:\n  workers: 4\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{"workers": 0})
	if config.Dispatch.Workers != 0 {
		t.Errorf("Expected explicit zero workers to be merged, got %d", config.Dispatch.Workers)
	}

	_, err := Load(path, map[string]interface{}{"workers": 0})
	if err == nil || !strings.Contains(err.Error(), "workers must be between 1 and 20") {
		t.Errorf("Expected worker range error, got %v", err)
	}

	// Flags that were not given leave the file value alone
	cfg, err := Load(path, map[string]interface{}{})
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Dispatch.Workers != 4 {
		t.Errorf("Expected workers from file, got %d", cfg.Dispatch.Workers)
	}
}
