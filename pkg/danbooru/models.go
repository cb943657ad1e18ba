package danbooru

// Tag categories as reported by the tags endpoint
const (
	CategoryGeneral   = 0
	CategoryArtist    = 1
	CategoryCopyright = 3
	CategoryCharacter = 4
	CategoryMeta      = 5
)

// Tag is a single entry returned by /tags.json
type Tag struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Category  int    `json:"category"`
	PostCount int    `json:"post_count"`
}

// WikiPage is a single entry returned by /wiki_pages.json
type WikiPage struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	OtherNames []string `json:"other_names"`
	IsDeleted  bool     `json:"is_deleted"`
}

// CategoryName returns a human-readable name for a tag category code
func CategoryName(category int) string {
	switch category {
	case CategoryGeneral:
		return "general"
	case CategoryArtist:
		return "artist"
	case CategoryCopyright:
		return "copyright"
	case CategoryCharacter:
		return "character"
	case CategoryMeta:
		return "meta"
	default:
		return "unknown"
	}
}
