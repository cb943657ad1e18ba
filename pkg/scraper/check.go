package scraper

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"tagscraper/pkg/danbooru"
	"tagscraper/pkg/storage"
)

const (
	// GeneralTagsFile lists tags whose category is general
	GeneralTagsFile = "general_tags.txt"

	// NonGeneralTagsFile lists every other tag, including unknown ones
	NonGeneralTagsFile = "non_general_tags.txt"

	// DefaultCheckWorkers is the concurrency used by CheckTags
	DefaultCheckWorkers = 10
)

// CategoryLookup resolves a tag's category
type CategoryLookup interface {
	LookupCategory(ctx context.Context, tag string) (int, bool)
}

// CheckResult is the category lookup outcome for one tag
type CheckResult struct {
	Tag      string
	Category int
	Found    bool
}

// General reports whether the tag is a known general tag
func (r CheckResult) General() bool {
	return r.Found && r.Category == danbooru.CategoryGeneral
}

// CategoryName returns the category label, or "unknown" for a lookup miss
func (r CheckResult) CategoryName() string {
	if !r.Found {
		return "unknown"
	}
	return danbooru.CategoryName(r.Category)
}

// CheckTags looks up the category of every tag using at most workers
// concurrent requests. Results keep input order. onResult, if set, is
// called once per tag in completion order with a running count.
func CheckTags(ctx context.Context, lookup CategoryLookup, tags []string, workers int, onResult func(n int, r CheckResult)) ([]CheckResult, error) {
	if workers <= 0 {
		workers = DefaultCheckWorkers
	}

	results := make([]CheckResult, len(tags))
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, tag := range tags {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			category, ok := lookup.LookupCategory(gctx, tag)
			r := CheckResult{Tag: tag, Category: category, Found: ok}
			results[i] = r

			mu.Lock()
			completed++
			n := completed
			if onResult != nil {
				onResult(n, r)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// WriteCheckResults writes general and non-general tag lists to the
// manager's directory and returns their paths
func WriteCheckResults(m *storage.Manager, results []CheckResult) (generalPath, otherPath string, err error) {
	var general, other strings.Builder
	for _, r := range results {
		if r.Tag == "" {
			continue
		}
		if r.General() {
			general.WriteString(r.Tag + "\n")
		} else {
			other.WriteString(r.Tag + "\n")
		}
	}

	if err := m.WriteFileAtomic(GeneralTagsFile, []byte(general.String())); err != nil {
		return "", "", err
	}
	if err := m.WriteFileAtomic(NonGeneralTagsFile, []byte(other.String())); err != nil {
		return "", "", err
	}
	return m.Path(GeneralTagsFile), m.Path(NonGeneralTagsFile), nil
}
