package storage

import (
	"fmt"

	"tagscraper/pkg/classify"
)

// File headers, written once when a sink is created
const (
	AcceptedHeader = "General Tag Descriptions\n=========================\n\n"
	SkippedHeader  = "Skipped Tags\n============\n\n"
)

// FormatAccepted renders an accepted tag entry
func FormatAccepted(tag, description string) string {
	return fmt.Sprintf("%s: %s\n\n", tag, description)
}

// FormatSkippedCategory renders a tag skipped for its category
func FormatSkippedCategory(tag string, category int) string {
	return fmt.Sprintf("%s (category %d)\n", tag, category)
}

// FormatSkippedNoDescription renders a tag skipped for lacking a description
func FormatSkippedNoDescription(tag string) string {
	return fmt.Sprintf("%s (no description)\n", tag)
}

// FormatDecision renders d and reports whether it belongs in the accepted
// file rather than the skipped file
func FormatDecision(d classify.Decision) (entry string, accepted bool) {
	switch d.Kind {
	case classify.KindAccepted:
		return FormatAccepted(d.Tag, d.Description), true
	case classify.KindSkippedCategory:
		return FormatSkippedCategory(d.Tag, d.Category), false
	default:
		return FormatSkippedNoDescription(d.Tag), false
	}
}
