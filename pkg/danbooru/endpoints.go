package danbooru

import (
	"net/url"
	"strings"
)

const (
	// BaseURL is the public Danbooru host
	BaseURL = "https://danbooru.donmai.us"

	// TagsEndpoint searches tags by exact name
	TagsEndpoint = "/tags.json"

	// WikiPagesEndpoint searches wiki pages by exact title
	WikiPagesEndpoint = "/wiki_pages.json"
)

// TagSearchURL builds the tag lookup URL for name
func TagSearchURL(baseURL, name string) string {
	params := url.Values{}
	params.Set("search[name]", name)
	return strings.TrimRight(baseURL, "/") + TagsEndpoint + "?" + params.Encode()
}

// WikiSearchURL builds the wiki page lookup URL for title
func WikiSearchURL(baseURL, title string) string {
	params := url.Values{}
	params.Set("search[title]", title)
	return strings.TrimRight(baseURL, "/") + WikiPagesEndpoint + "?" + params.Encode()
}
