package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tagscraper/pkg/auth"
	"tagscraper/pkg/config"
	"tagscraper/pkg/ui"
)

const defaultConfigPath = ".tagscraper.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tagscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TAGSCRAPER_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write the default configuration to '.tagscraper.yaml' in the current
directory, or to the path given with --config. An existing file is never
overwritten.`,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. The API key is
masked.`,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	if !ui.IsQuietMode() {
		fmt.Fprintln(ui.Output(), "\nNext steps:")
		fmt.Fprintln(ui.Output(), "1. Run 'tagscraper auth login' or set danbooru.login and danbooru.api_key")
		fmt.Fprintln(ui.Output(), "2. Run 'tagscraper config validate' to check the configuration")
		fmt.Fprintln(ui.Output(), "3. Start a run with 'tagscraper scrape tags.txt'")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	display := *cfg
	if display.Danbooru.APIKey != "" {
		masked := auth.SanitizeAccount(&auth.Account{APIKey: display.Danbooru.APIKey})
		display.Danbooru.APIKey = masked.APIKey
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(ui.Output(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	if cfg.Danbooru.Login == "" || cfg.Danbooru.APIKey == "" {
		ui.PrintWarning("No Danbooru credentials configured; requests will be anonymous")
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Base URL", cfg.Danbooru.BaseURL)
	ui.PrintInfo("Workers", fmt.Sprintf("%d (queue %d)", cfg.Dispatch.Workers, cfg.Dispatch.QueueCapacity()))
	ui.PrintInfo("Output", cfg.Output.Directory)
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
