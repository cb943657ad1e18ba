package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWorkers is the worker count used when none is configured
	DefaultWorkers = 5

	// MaxWorkers is the upper bound accepted for the worker count
	MaxWorkers = 20

	// DefaultBaseURL is the public Danbooru API host
	DefaultBaseURL = "https://danbooru.donmai.us"
)

// Config holds all configuration options for the tag scraper
type Config struct {
	// Remote API settings
	Danbooru DanbooruConfig `yaml:"danbooru" json:"danbooru"`

	// Worker pool and submission pacing
	Dispatch DispatchConfig `yaml:"dispatch" json:"dispatch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DanbooruConfig holds API endpoint and credential configuration
type DanbooruConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	Login          string        `yaml:"login" json:"login"`
	APIKey         string        `yaml:"api_key" json:"api_key"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// DispatchConfig holds worker pool configuration
type DispatchConfig struct {
	Workers        int           `yaml:"workers" json:"workers"`
	QueueSize      int           `yaml:"queue_size" json:"queue_size"`
	SubmitInterval time.Duration `yaml:"submit_interval" json:"submit_interval"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory    string `yaml:"directory" json:"directory"`
	AcceptedFile string `yaml:"accepted_file" json:"accepted_file"`
	SkippedFile  string `yaml:"skipped_file" json:"skipped_file"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Danbooru: DanbooruConfig{
			BaseURL:        DefaultBaseURL,
			UserAgent:      "tagscraper/1.0",
			RequestTimeout: 10 * time.Second,
		},
		Dispatch: DispatchConfig{
			Workers:        DefaultWorkers,
			QueueSize:      0, // 0 means 2x workers
			SubmitInterval: 50 * time.Millisecond,
		},
		Output: OutputConfig{
			Directory:    "./outputs",
			AcceptedFile: "general_tag_descriptions.txt",
			SkippedFile:  "skipped_tags.txt",
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnComplete: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// QueueCapacity returns the job queue size, deriving it from the worker
// count when it is not set explicitly
func (d DispatchConfig) QueueCapacity() int {
	if d.QueueSize > 0 {
		return d.QueueSize
	}
	return d.Workers * 2
}

// AcceptedPath returns the full path of the accepted-tags output file
func (o OutputConfig) AcceptedPath() string {
	return filepath.Join(o.Directory, o.AcceptedFile)
}

// SkippedPath returns the full path of the skipped-tags output file
func (o OutputConfig) SkippedPath() string {
	return filepath.Join(o.Directory, o.SkippedFile)
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// API settings
	if baseURL := os.Getenv("TAGSCRAPER_BASE_URL"); baseURL != "" {
		c.Danbooru.BaseURL = baseURL
	}
	if login := os.Getenv("TAGSCRAPER_LOGIN"); login != "" {
		c.Danbooru.Login = login
	}
	if apiKey := os.Getenv("TAGSCRAPER_API_KEY"); apiKey != "" {
		c.Danbooru.APIKey = apiKey
	}
	if userAgent := os.Getenv("TAGSCRAPER_USER_AGENT"); userAgent != "" {
		c.Danbooru.UserAgent = userAgent
	}
	if timeout := os.Getenv("TAGSCRAPER_REQUEST_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TAGSCRAPER_REQUEST_TIMEOUT: %w", err)
		}
		c.Danbooru.RequestTimeout = d
	}

	// Worker pool
	if workers := os.Getenv("TAGSCRAPER_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Dispatch.Workers = val
		}
	}
	if interval := os.Getenv("TAGSCRAPER_SUBMIT_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid TAGSCRAPER_SUBMIT_INTERVAL: %w", err)
		}
		c.Dispatch.SubmitInterval = d
	}

	// Output directory
	if outputDir := os.Getenv("TAGSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	// Notifications
	if notifEnabled := os.Getenv("TAGSCRAPER_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("TAGSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".tagscraper.yaml",
		".tagscraper.yml",
		filepath.Join(home, ".config", "tagscraper", "config.yaml"),
		filepath.Join(home, ".config", "tagscraper", "config.yml"),
		filepath.Join(home, ".tagscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// API settings
	if c.Danbooru.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	} else if u, err := url.Parse(c.Danbooru.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base URL: %q", c.Danbooru.BaseURL))
	}
	if c.Danbooru.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if (c.Danbooru.Login == "") != (c.Danbooru.APIKey == "") {
		errs = append(errs, errors.New("login and API key must be set together"))
	}

	// Worker pool
	if c.Dispatch.Workers < 1 || c.Dispatch.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d", MaxWorkers))
	}
	if c.Dispatch.QueueSize < 0 {
		errs = append(errs, errors.New("queue size cannot be negative"))
	}
	if c.Dispatch.SubmitInterval < 0 {
		errs = append(errs, errors.New("submit interval cannot be negative"))
	}

	// Output settings
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.AcceptedFile == "" || c.Output.SkippedFile == "" {
		errs = append(errs, errors.New("output file names are required"))
	} else if c.Output.AcceptedFile == c.Output.SkippedFile {
		errs = append(errs, errors.New("accepted and skipped output files must differ"))
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600 since the file may carry an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Danbooru.BaseURL = baseURL
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Danbooru.RequestTimeout = timeout
	}
	// An explicit worker count is always taken so Validate can reject it
	if workers, ok := flags["workers"].(int); ok {
		c.Dispatch.Workers = workers
	}
	if queueSize, ok := flags["queue-size"].(int); ok && queueSize > 0 {
		c.Dispatch.QueueSize = queueSize
	}
	if interval, ok := flags["submit-interval"].(time.Duration); ok {
		c.Dispatch.SubmitInterval = interval
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if enabled, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = enabled
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tagscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
