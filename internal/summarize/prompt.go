package summarize

import (
	"fmt"
	"strings"

	"newslens/internal/extract"
)

// Format is the output shape the model is instructed to produce
type Format string

const (
	// FormatObject asks for a single structured JSON object
	FormatObject Format = "object"
	// FormatList asks for a plain newline-delimited list with no envelope
	FormatList Format = "list"
)

// ParseFormat validates a configured format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatObject, FormatList:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown summary format: %s", s)
}

// Options carry the language/tone directives and the payload budget.
// These are configuration data, not logic.
type Options struct {
	Format   Format
	Language string
	Points   int
	Budget   int
}

const objectSchema = `Respond with exactly one JSON object and nothing else:
{"title": "translated title", "image": "the image token, unchanged", "summary": ["point 1", "point 2", ...], "reading_time_minutes": 3, "sentiment": "neutral"}
Do not add any prose before or after the object. Do not use markdown code fences. Do not wrap the object in an array. Copy placeholder tokens (such as I0 or L3) through unchanged.`

const listSchema = `Respond with one point per line and nothing else. No numbering, no bullet markers, no introduction, no code fences.`

// BuildArticle renders an extracted article into a single prompt string.
// The payload is truncated to the budget on line boundaries so that no
// placeholder token is ever split.
func BuildArticle(doc *extract.Document, opts Options) string {
	var payload strings.Builder
	payload.WriteString("Title: " + doc.Title + "\n")
	if len(doc.Images) > 0 {
		payload.WriteString("Image: " + doc.Images[0] + "\n")
	}
	for _, p := range doc.Paragraphs {
		payload.WriteString(p)
		payload.WriteString("\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following article in %s as %d concise bullet points.\n", opts.Language, opts.Points)
	if opts.Format == FormatObject {
		b.WriteString(objectSchema)
	} else {
		b.WriteString(listSchema)
	}
	b.WriteString("\n\nArticle:\n")
	b.WriteString(truncateLines(payload.String(), opts.Budget))
	return b.String()
}

// BuildListing renders listing text (headline lines with embedded link
// tokens) into a translation prompt using the list schema.
func BuildListing(listingText string, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following news headlines into %s.\n", opts.Language)
	b.WriteString("Keep one headline per line, preserve the leading indentation of each line, and copy every placeholder token (such as L0 or L12) through unchanged at the end of its line.\n")
	b.WriteString(listSchema)
	b.WriteString("\n\nHeadlines:\n")
	b.WriteString(truncateLines(listingText, opts.Budget))
	return b.String()
}

// truncateLines cuts the payload at the budget boundary, then backs up
// to the previous line break. Whole trailing lines are dropped, partial
// lines never survive.
func truncateLines(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	cut := s[:budget]
	if idx := strings.LastIndexByte(cut, '\n'); idx >= 0 {
		return cut[:idx+1]
	}
	// single oversized line with no break to fall back on: drop it all
	// rather than risk cutting a token in half
	return ""
}
