package extract

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// MinParagraphLen is the minimum trimmed length a text node must exceed
// to be kept as a paragraph. Shorter nodes are navigation/boilerplate.
const MinParagraphLen = 12

// ErrEmptyExtraction means no usable paragraphs were recovered. An
// empty extraction cannot be meaningfully summarized, so the pipeline
// must not continue past it.
var ErrEmptyExtraction = errors.New("extraction produced no usable paragraphs")

// Mode selects article or listing extraction rules
type Mode int

const (
	// ModeArticle extracts title, hero image and paragraph text
	ModeArticle Mode = iota
	// ModeListing additionally extracts headings and anchors, turning
	// each anchor into an internal article route behind a link token
	ModeListing
)

// Link is an extracted anchor: its visible label, its placeholder
// token, and the container nesting depth at which it appeared. Depth
// is advisory formatting only, used to indent listing text.
type Link struct {
	Label string
	Token string
	Depth int
}

// Document is the structured record produced by one extraction pass.
// Images and link targets hold placeholder tokens, never raw URLs.
type Document struct {
	Title      string
	Images     []string
	Paragraphs []string
	Links      []Link
}

// metadata properties that identify the social/hero image
var socialImageProps = map[string]bool{
	"og:image":          true,
	"og:image:url":      true,
	"twitter:image":     true,
	"twitter:image:src": true,
}

// container elements whose nesting depth is tracked in listing mode
var containerTags = map[string]bool{
	"ul": true, "ol": true, "li": true, "nav": true, "section": true, "article": true,
}

// Extract consumes the markup stream token by token and builds one
// Document plus one placeholder table. Absent title, image or links
// degrade to empty values; zero paragraphs is ErrEmptyExtraction.
func Extract(r io.Reader, base *url.URL, mode Mode) (*Document, *Placeholders, error) {
	doc := &Document{}
	ph := NewPlaceholders()

	z := html.NewTokenizer(r)

	var (
		titleBuf    strings.Builder
		paraBuf     strings.Builder
		anchorBuf   strings.Builder
		inTitle     bool
		inPara      bool
		inAnchor    bool
		anchorHref  string
		depth       int
		socialDone  bool
		bodyImgDone bool
	)

	flushParagraph := func() {
		text := collapseSpace(paraBuf.String())
		paraBuf.Reset()
		if len(text) > MinParagraphLen {
			doc.Paragraphs = append(doc.Paragraphs, text)
		}
	}

	flushAnchor := func() {
		label := collapseSpace(anchorBuf.String())
		anchorBuf.Reset()
		href := anchorHref
		anchorHref = ""
		if href == "" || len(label) <= MinParagraphLen {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		token := ph.AddLink(ArticleRoutePath(resolved))
		doc.Links = append(doc.Links, Link{Label: label, Token: token, Depth: depth})
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, nil, fmt.Errorf("tokenizing markup: %w", err)
			}
			doc.Title = collapseSpace(titleBuf.String())
			if len(doc.Paragraphs) == 0 && (mode != ModeListing || len(doc.Links) == 0) {
				return nil, nil, ErrEmptyExtraction
			}
			return doc, ph, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := tagWithAttrs(z)
			switch name {
			case "title":
				if tt == html.StartTagToken {
					inTitle = true
				}
			case "meta":
				if socialDone {
					break
				}
				prop := attrs["property"]
				if prop == "" {
					prop = attrs["name"]
				}
				if socialImageProps[prop] && attrs["content"] != "" {
					if resolved := resolveURL(base, attrs["content"]); resolved != nil {
						doc.Images = append(doc.Images, ph.AddImage(ProxyImagePath(resolved)))
						socialDone = true
					}
				}
			case "img":
				if bodyImgDone {
					break
				}
				src := attrs["src"]
				if src == "" {
					src = attrs["data-src"]
				}
				if src == "" || strings.HasPrefix(src, "data:") {
					break
				}
				if resolved := resolveURL(base, src); resolved != nil {
					doc.Images = append(doc.Images, ph.AddImage(ProxyImagePath(resolved)))
					bodyImgDone = true
				}
			case "p":
				if tt == html.StartTagToken {
					inPara = true
				}
			case "h2", "h3":
				if mode == ModeListing && tt == html.StartTagToken {
					inPara = true
				}
			case "a":
				if mode == ModeListing && tt == html.StartTagToken {
					inAnchor = true
					anchorHref = attrs["href"]
				}
			default:
				if mode == ModeListing && containerTags[name] && tt == html.StartTagToken {
					depth++
				}
			}

		case html.EndTagToken:
			name, _ := tagWithAttrs(z)
			switch name {
			case "title":
				inTitle = false
			case "p", "h2", "h3":
				if inPara {
					inPara = false
					flushParagraph()
				}
			case "a":
				if inAnchor {
					inAnchor = false
					flushAnchor()
				}
			default:
				if mode == ModeListing && containerTags[name] && depth > 0 {
					depth--
				}
			}

		case html.TextToken:
			text := string(z.Text())
			if inTitle {
				titleBuf.WriteString(text)
			}
			if inPara {
				paraBuf.WriteString(text)
			}
			if inAnchor {
				anchorBuf.WriteString(text)
			}
		}
	}
}

// ListingText renders the extracted links as indented prompt text, one
// line per link with its token embedded as a whole word.
func (d *Document) ListingText() string {
	var b strings.Builder
	for _, link := range d.Links {
		b.WriteString(strings.Repeat("  ", link.Depth))
		b.WriteString("- ")
		b.WriteString(link.Label)
		b.WriteString(" ")
		b.WriteString(link.Token)
		b.WriteString("\n")
	}
	return b.String()
}

// ProxyImagePath rewrites an absolute image URL into the internal
// image proxy route so the client never contacts third-party hosts.
func ProxyImagePath(u *url.URL) string {
	path := "/image/" + u.Host + u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

// ArticleRoutePath rewrites an absolute article URL into the internal
// article route. The query is stripped so route decorations collapse
// onto one path.
func ArticleRoutePath(u *url.URL) string {
	return "/article/" + u.Host + u.Path
}

func resolveURL(base *url.URL, ref string) *url.URL {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Host == "" {
		return nil
	}
	return parsed
}

// collapseSpace trims and folds internal whitespace runs to one space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func tagWithAttrs(z *html.Tokenizer) (string, map[string]string) {
	name, hasAttr := z.TagName()
	attrs := map[string]string{}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return string(name), attrs
}
