package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tagscraper/pkg/danbooru"
	"tagscraper/pkg/logger"
	"tagscraper/pkg/scraper"
	"tagscraper/pkg/storage"
	"tagscraper/pkg/ui"
)

var (
	// Check command flags
	checkInput   string
	checkOutput  string
	checkWorkers int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [tag...]",
	Short: "Show the Danbooru category of tags",
	Long: `Look up the category of each tag (general, artist, copyright,
character, meta, or unknown when the tag does not exist).

Tags come from the arguments or, with --input, from a tag list. With
--output the results are also split into general_tags.txt and
non_general_tags.txt in that directory.`,
	Example: `  tagscraper check 1girl hatsune_miku
  tagscraper check --input tags.txt --output ./outputs`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "read tags from this file")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "write general_tags.txt and non_general_tags.txt here")
	checkCmd.Flags().IntVarP(&checkWorkers, "workers", "w", scraper.DefaultCheckWorkers, "concurrent lookups")
}

func runCheck(cmd *cobra.Command, args []string) error {
	tags := args
	if checkInput != "" {
		loaded, err := storage.LoadTags(checkInput)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		tags = append(tags, loaded...)
	}
	if len(tags) == 0 {
		return fmt.Errorf("no tags given: pass tags as arguments or use --input")
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	applyStoredCredentials(&cfg.Danbooru)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := danbooru.NewClientFromConfig(&cfg.Danbooru, logger.GetLogger())
	total := len(tags)

	results, err := scraper.CheckTags(ctx, client, tags, checkWorkers, func(n int, r scraper.CheckResult) {
		if ui.IsQuietMode() {
			return
		}
		label := r.CategoryName()
		if r.General() {
			label = ui.Green(label)
		} else {
			label = ui.Dim(label)
		}
		fmt.Fprintln(ui.Output(), ui.FormatProgressLine(n, total, r.Tag, label))
	})
	if err != nil {
		ui.PrintWarning("Interrupted", err)
	}

	general := 0
	for _, r := range results {
		if r.General() {
			general++
		}
	}
	ui.PrintSuccess(fmt.Sprintf("%d of %d tags are general", general, total))

	if checkOutput == "" {
		return nil
	}

	manager, err := storage.NewManager(checkOutput)
	if err != nil {
		return err
	}
	generalPath, otherPath, err := scraper.WriteCheckResults(manager, results)
	if err != nil {
		return err
	}
	ui.PrintInfo("General tags", generalPath)
	ui.PrintInfo("Non-general tags", otherPath)
	return nil
}

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split <tag-list>",
	Short: "Split a tag list into smaller files",
	Long: `Split a tag list into files of at most --chunk-size tags each, named
tags_part_0001.txt, tags_part_0002.txt, ... in the output directory.`,
	Example: `  tagscraper split tags.txt --chunk-size 500 --output parts`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSplit,
}

var (
	// Split command flags
	chunkSize int
	splitDir  string
)

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().IntVarP(&chunkSize, "chunk-size", "n", storage.DefaultChunkSize, "tags per file")
	splitCmd.Flags().StringVarP(&splitDir, "output", "o", "output_tags", "directory for the split files")
}

func runSplit(cmd *cobra.Command, args []string) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	tags, err := storage.LoadTags(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	manager, err := storage.NewManager(splitDir)
	if err != nil {
		return err
	}

	paths, err := manager.SplitTags(tags, chunkSize)
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"tags":  len(tags),
		"files": len(paths),
	}).Debug("Tag list split")
	ui.PrintSuccess(fmt.Sprintf("Split %d tags into %d files in %s", len(tags), len(paths), manager.OutputDir()))
	return nil
}
