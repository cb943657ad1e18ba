// Package dtext cleans Danbooru wiki bodies written in DText markup into a
// short plain-text description.
package dtext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var (
	headingPattern  = regexp.MustCompile(`(?s)h4\..*?(\n\n|\z)`)
	wikiLinkPattern = regexp.MustCompile(`\[\[(.*?)(?:\|.*?)?\]\]`)
	templatePattern = regexp.MustCompile(`\{\{(.*?)(?:\|.*?)?\}\}(?:\s*\\)?`)
	sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]`)

	formattingReplacer = strings.NewReplacer("[b]", "", "[/b]", "", "[i]", "", "[/i]", "")
)

// Boilerplate notes Danbooru appends to automatically applied tags
var autotagNotes = []string{
	"Note: This tag is automatically added to images.",
	"Note: This tag is help:autotags added to images.",
}

// Clean converts a raw DText body into at most two sentences of plain text.
// The result never contains newlines or runs of whitespace, and cleaning it
// again with the same tag returns it unchanged.
func Clean(raw, tag string) string {
	text := headingPattern.ReplaceAllString(raw, "${1}")
	text = wikiLinkPattern.ReplaceAllString(text, "${1}")
	text = templatePattern.ReplaceAllString(text, "${1}")
	text = formattingReplacer.Replace(text)

	for _, note := range autotagNotes {
		text = strings.TrimSpace(strings.ReplaceAll(text, note, ""))
	}

	text = stripTagPrefix(text, tag)

	// Fields splits on Unicode whitespace, so NBSP and U+3000 runs collapse too
	text = strings.Join(strings.Fields(text), " ")

	return firstSentences(text)
}

// stripTagPrefix removes a leading occurrence of the tag name, compared with
// Unicode case folding, when it stands as a whole word. One colon following
// the name is dropped as well.
func stripTagPrefix(text, tag string) string {
	if tag == "" {
		return text
	}

	// Caser keeps internal state and is not safe to share between goroutines
	fold := cases.Fold()
	want := fold.String(tag)

	var folded strings.Builder
	end := len(text)
	for i, r := range text {
		if folded.Len() >= len(want) {
			end = i
			break
		}
		folded.WriteString(fold.String(string(r)))
	}
	if folded.String() != want {
		return text
	}

	rest := text[end:]
	if next, size := utf8.DecodeRuneInString(rest); size > 0 && (unicode.IsLetter(next) || unicode.IsDigit(next)) {
		return text
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}

func firstSentences(text string) string {
	sentences := sentencePattern.FindAllString(text, 2)
	switch len(sentences) {
	case 0:
		return text
	case 1:
		return strings.TrimSpace(sentences[0])
	default:
		return strings.TrimSpace(sentences[0] + sentences[1])
	}
}
