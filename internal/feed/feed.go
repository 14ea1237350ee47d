package feed

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Item represents a single listing entry from an upstream feed
type Item struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	GUID        string    `xml:"guid"`
	ParsedDate  time.Time `xml:"-"`
	Source      string    `xml:"-"`
}

// UniqueID returns the item's stable identifier
func (i *Item) UniqueID() string {
	if i.GUID != "" {
		return i.GUID
	}
	return i.Link
}

// Parse parses feed XML content, supporting both RSS 2.0 and RDF
func Parse(xmlContent string) ([]Item, error) {
	// Try RSS 2.0 format first
	var rss struct {
		Channel struct {
			Items []Item `xml:"item"`
		} `xml:"channel"`
	}

	if err := xml.Unmarshal([]byte(xmlContent), &rss); err == nil && len(rss.Channel.Items) > 0 {
		return rss.Channel.Items, nil
	}

	// Try RDF format (item elements directly under the root)
	var rdf struct {
		Items []Item `xml:"item"`
	}

	if err := xml.Unmarshal([]byte(xmlContent), &rdf); err == nil && len(rdf.Items) > 0 {
		return rdf.Items, nil
	}

	return nil, fmt.Errorf("unable to parse feed format")
}

// ParseDate parses the date formats feeds are known to emit
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse feed date: %s", dateStr)
}

// Unique removes duplicate items by unique ID, preserving order
func Unique(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	var unique []Item
	for _, item := range items {
		id := item.UniqueID()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, item)
	}
	return unique
}
