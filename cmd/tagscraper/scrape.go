package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tagscraper/pkg/auth"
	"tagscraper/pkg/config"
	"tagscraper/pkg/logger"
	"tagscraper/pkg/scraper"
	"tagscraper/pkg/ui"
	"tagscraper/pkg/ui/tui"
)

var (
	// Scrape command flags
	workers        int
	outputDir      string
	submitInterval time.Duration
	queueSize      int
	requestTimeout time.Duration
	baseURL        string
	useTUI         bool
	notify         bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <tag-list>",
	Short: "Classify every tag in a list and write descriptions",
	Long: `Read a tag list (one tag per line) and look each tag up on Danbooru.

General tags with a wiki description are written to
general_tag_descriptions.txt; everything else goes to skipped_tags.txt
with the reason. Both files are recreated on every run.

Credentials are optional. When configured (flags, TAGSCRAPER_LOGIN and
TAGSCRAPER_API_KEY, the config file, or 'tagscraper auth login') requests
are sent with HTTP basic auth.

Ctrl-C stops submitting new tags; tags already queued finish and are
written before the program exits.`,
	Example: `  # Classify tags.txt with the defaults (5 workers, ./outputs)
  tagscraper scrape tags.txt

  # Ten workers, custom output directory
  tagscraper scrape tags.txt --workers 10 --output ./descriptions

  # Interactive dashboard
  tagscraper scrape tags.txt --tui

  # Target a mirror with a slower submission pace
  tagscraper scrape tags.txt --base-url https://safebooru.donmai.us --submit-interval 200ms`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVarP(&workers, "workers", "w", config.DefaultWorkers, "number of concurrent workers (1-20)")
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ./outputs)")
	scrapeCmd.Flags().DurationVar(&submitInterval, "submit-interval", 0, "minimum delay between task submissions (default 50ms)")
	scrapeCmd.Flags().IntVar(&queueSize, "queue-size", 0, "job queue capacity (default 2x workers)")
	scrapeCmd.Flags().DurationVar(&requestTimeout, "timeout", 0, "per-request timeout (default 10s)")
	scrapeCmd.Flags().StringVar(&baseURL, "base-url", "", "Danbooru API base URL")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive dashboard")
	scrapeCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run finishes")
}

func scrapeFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("workers") {
		flags["workers"] = workers
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if cmd.Flags().Changed("submit-interval") {
		flags["submit-interval"] = submitInterval
	}
	if queueSize > 0 {
		flags["queue-size"] = queueSize
	}
	if requestTimeout > 0 {
		flags["timeout"] = requestTimeout
	}
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if cmd.Flags().Changed("notify") {
		flags["notifications"] = notify
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	inputPath := strings.TrimSpace(args[0])

	cfg, err := loadConfig(scrapeFlags(cmd))
	if err != nil {
		return err
	}
	applyStoredCredentials(&cfg.Danbooru)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI {
		return runScrapeTUI(ctx, cfg, inputPath)
	}

	ui.PrintBanner()
	ui.PrintInfo("Input", inputPath)
	ui.PrintInfo("Output", cfg.Output.Directory)
	if cfg.Danbooru.Login != "" {
		ui.PrintInfo("Account", cfg.Danbooru.Login)
	}

	s := scraper.NewFromConfig(cfg, logger.GetLogger())
	s.SetReporter(ui.NewTerminalProgressDisplay())

	_, err = s.Run(ctx, inputPath)
	return scrapeResult(err)
}

func runScrapeTUI(ctx context.Context, cfg *config.Config, inputPath string) error {
	closer, err := silenceConsoleLogs(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dashboard := tui.NewTUI(cancel)
	s := scraper.NewFromConfig(cfg, logger.GetLogger())
	s.SetReporter(dashboard)

	type outcome struct {
		summary scraper.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := s.Run(ctx, inputPath)
		done <- outcome{summary, err}
		// Wakes the dashboard if Run failed before reporting anything
		dashboard.Stop()
	}()

	if err := dashboard.Start(); err != nil {
		cancel()
		<-done
		return err
	}

	// The dashboard may exit first when the user quits; wait for the drain
	result := <-done
	if result.err == nil || errors.Is(result.err, context.Canceled) {
		ui.NewTerminalProgressDisplay().RunFinished(result.summary)
	}
	return scrapeResult(result.err)
}

// scrapeResult treats an interrupt as a clean exit
func scrapeResult(err error) error {
	if errors.Is(err, context.Canceled) {
		ui.PrintWarning("Interrupted: queued tags were written, remaining tags were not submitted")
		return nil
	}
	return err
}

// applyStoredCredentials fills in credentials from the keychain or the
// encrypted store when none were configured
func applyStoredCredentials(cfg *config.DanbooruConfig) {
	if cfg.Login != "" {
		return
	}
	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Debug("Credential manager unavailable")
		return
	}
	if manager.ApplyTo(cfg) {
		logger.WithField("login", cfg.Login).Debug("Using stored credentials")
	}
}
