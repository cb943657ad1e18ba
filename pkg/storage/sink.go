package storage

import (
	"fmt"
	"os"
)

// Sink is an append-only text file. Every append is flushed to disk before
// it returns. A Sink is not safe for concurrent use; the dispatcher gives
// each sink a single owner.
type Sink struct {
	file    *os.File
	path    string
	entries int
}

// NewSink creates or truncates path and writes header
func NewSink(path, header string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	s := &Sink{file: file, path: path}
	if err := s.write(header); err != nil {
		file.Close()
		return nil, err
	}
	return s, nil
}

// Append writes an entry and syncs the file
func (s *Sink) Append(entry string) error {
	if err := s.write(entry); err != nil {
		return err
	}
	s.entries++
	return nil
}

func (s *Sink) write(text string) error {
	if _, err := s.file.WriteString(text); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.path, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", s.path, err)
	}
	return nil
}

// Entries returns the number of entries appended so far
func (s *Sink) Entries() int {
	return s.entries
}

// Path returns the file path
func (s *Sink) Path() string {
	return s.path
}

// Close closes the underlying file
func (s *Sink) Close() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}
