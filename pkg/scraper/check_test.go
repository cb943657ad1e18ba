package scraper

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tagscraper/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLookup struct {
	categories map[string]int
	active     atomic.Int32
	peak       atomic.Int32
}

func (m *mockLookup) LookupCategory(ctx context.Context, tag string) (int, bool) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	category, ok := m.categories[tag]
	return category, ok
}

func TestCheckTags(t *testing.T) {
	lookup := &mockLookup{categories: map[string]int{
		"1girl":        0,
		"hatsune_miku": 4,
		"vocaloid":     3,
		"highres":      5,
	}}
	tags := []string{"1girl", "hatsune_miku", "vocaloid", "highres", "not_a_tag", "1girl"}

	var (
		mu     sync.Mutex
		counts []int
	)
	results, err := CheckTags(context.Background(), lookup, tags, 2, func(n int, r CheckResult) {
		mu.Lock()
		defer mu.Unlock()
		counts = append(counts, n)
	})
	require.NoError(t, err)
	require.Len(t, results, len(tags))

	for i, tag := range tags {
		assert.Equal(t, tag, results[i].Tag, "results keep input order")
	}
	assert.True(t, results[0].General())
	assert.Equal(t, "character", results[1].CategoryName())
	assert.Equal(t, "copyright", results[2].CategoryName())
	assert.Equal(t, "meta", results[3].CategoryName())
	assert.False(t, results[4].Found)
	assert.False(t, results[4].General())
	assert.Equal(t, "unknown", results[4].CategoryName())

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, counts)
	assert.LessOrEqual(t, lookup.peak.Load(), int32(2))
}

func TestCheckTagsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckTags(ctx, &mockLookup{}, []string{"a", "b", "c"}, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteCheckResults(t *testing.T) {
	manager, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)

	results := []CheckResult{
		{Tag: "1girl", Category: 0, Found: true},
		{Tag: "hatsune_miku", Category: 4, Found: true},
		{Tag: "not_a_tag"},
		{Tag: "solo", Category: 0, Found: true},
	}

	generalPath, otherPath, err := WriteCheckResults(manager, results)
	require.NoError(t, err)

	general, err := os.ReadFile(generalPath)
	require.NoError(t, err)
	assert.Equal(t, "1girl\nsolo\n", string(general))

	other, err := os.ReadFile(otherPath)
	require.NoError(t, err)
	assert.Equal(t, "hatsune_miku\nnot_a_tag\n", string(other))
}
