package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultChunkSize is the number of tags per file produced by SplitTags
const DefaultChunkSize = 1000

// LoadTags reads one tag per line, trimming whitespace and skipping blank
// lines. Duplicates are kept.
func LoadTags(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tag list: %w", err)
	}
	defer file.Close()

	var tags []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if tag := strings.TrimSpace(scanner.Text()); tag != "" {
			tags = append(tags, tag)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tag list: %w", err)
	}

	return tags, nil
}

// ChunkFileName returns the name of the n-th (1-based) split file
func ChunkFileName(n int) string {
	return fmt.Sprintf("tags_part_%04d.txt", n)
}

// SplitTags writes tags into consecutive files of at most chunkSize tags
// each and returns the paths written
func (m *Manager) SplitTags(tags []string, chunkSize int) ([]string, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var paths []string
	for start := 0; start < len(tags); start += chunkSize {
		end := start + chunkSize
		if end > len(tags) {
			end = len(tags)
		}

		var b strings.Builder
		for _, tag := range tags[start:end] {
			b.WriteString(tag)
			b.WriteByte('\n')
		}

		name := ChunkFileName(len(paths) + 1)
		if err := m.WriteFileAtomic(name, []byte(b.String())); err != nil {
			return paths, err
		}
		paths = append(paths, m.Path(name))
	}

	return paths, nil
}
