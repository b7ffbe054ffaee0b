// Package parser turns the semi-structured HTML/text blobs stored in the
// question database into discrete options and sub-questions.
//
// Nothing in this package returns an error: malformed input degrades to a
// partial or empty result.
package parser

import (
	"regexp"
	"strings"
)

// Option is one labelled answer choice, e.g. {A, "foo"}.
type Option struct {
	Label   string
	Content string
}

var (
	markupRe     = regexp.MustCompile(`<[^>]+>`)
	htmlOptionRe = regexp.MustCompile(`<[pP]>([A-Za-z])[.、](.+?)</[pP]>`)
	textOptionRe = regexp.MustCompile(`([A-Z])[.、]\s*([^\n\r]+)`)
)

// StripMarkup removes every <…> tag and trims surrounding whitespace.
// Answer blobs such as "<p>AC</p>" become "AC".
func StripMarkup(s string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(s, ""))
}

// ParseOptions extracts labelled choices from an options blob.
//
// Paragraph-wrapped entries (<p>A.foo</p>, <p>B、bar</p>) win when present and
// are returned in scan order without deduplication. Otherwise the blob is
// stripped of markup and scanned line by line for "A.foo" / "A、foo".
func ParseOptions(blob string) []Option {
	if strings.TrimSpace(blob) == "" {
		return []Option{}
	}

	options := []Option{}
	for _, m := range htmlOptionRe.FindAllStringSubmatch(blob, -1) {
		options = append(options, Option{
			Label:   strings.ToUpper(m[1]),
			Content: strings.TrimSpace(m[2]),
		})
	}
	if len(options) > 0 {
		return options
	}

	text := StripMarkup(blob)
	for _, m := range textOptionRe.FindAllStringSubmatch(text, -1) {
		content := strings.TrimSpace(m[2])
		if content == "" {
			continue
		}
		options = append(options, Option{Label: m[1], Content: content})
	}
	return options
}

// HasLabel reports whether label is one of the parsed options.
func HasLabel(options []Option, label string) bool {
	for _, o := range options {
		if o.Label == label {
			return true
		}
	}
	return false
}
