// Package classify decides, per tag, whether a tag is a general tag with a
// usable description or why it was skipped.
package classify

import (
	"context"
	"fmt"

	"tagscraper/pkg/danbooru"
)

// Kind is the outcome of classifying a single tag
type Kind int

const (
	KindAccepted Kind = iota
	KindSkippedCategory
	KindSkippedNoDescription
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case KindSkippedCategory:
		return "skipped_category"
	case KindSkippedNoDescription:
		return "skipped_no_description"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decision is the classification result for one tag. Category is only
// meaningful for KindSkippedCategory and Description only for KindAccepted.
type Decision struct {
	Tag         string
	Kind        Kind
	Category    int
	Description string
}

// Outcome renders the decision the way it appears in progress lines
func (d Decision) Outcome() string {
	switch d.Kind {
	case KindAccepted:
		return "accepted"
	case KindSkippedCategory:
		return fmt.Sprintf("skipped (category %d)", d.Category)
	case KindSkippedNoDescription:
		return "skipped (no description)"
	default:
		return d.Kind.String()
	}
}

// MetadataClient provides the two lookups a classification needs
type MetadataClient interface {
	LookupCategory(ctx context.Context, tag string) (int, bool)
	LookupDescription(ctx context.Context, tag string) (string, bool)
}

var _ MetadataClient = (*danbooru.Client)(nil)

// Classifier combines category and description lookups into a Decision
type Classifier struct {
	client MetadataClient
}

// New creates a Classifier backed by client
func New(client MetadataClient) *Classifier {
	return &Classifier{client: client}
}

// Classify looks up the tag's category and, unless it is known to be
// non-general, its description. A missing category does not skip the tag.
func (c *Classifier) Classify(ctx context.Context, tag string) Decision {
	if category, ok := c.client.LookupCategory(ctx, tag); ok && category != danbooru.CategoryGeneral {
		return Decision{Tag: tag, Kind: KindSkippedCategory, Category: category}
	}

	description, ok := c.client.LookupDescription(ctx, tag)
	if !ok || description == "" {
		return Decision{Tag: tag, Kind: KindSkippedNoDescription}
	}

	return Decision{Tag: tag, Kind: KindAccepted, Description: description}
}
