package summarize

import (
	"errors"
	"reflect"
	"testing"
)

func TestRepairObjectStripsSurroundingNoise(t *testing.T) {
	raw := "Sure, here is the summary:\n```json\n{\"title\": \"T\", \"summary\": [\"a\", \"b\"]}\n```\nHope that helps!"

	obj, err := RepairObject(raw)
	if err != nil {
		t.Fatalf("RepairObject failed: %v", err)
	}

	if obj["title"] != "T" {
		t.Errorf("Expected title 'T', got %v", obj["title"])
	}
	summary, ok := obj["summary"].([]interface{})
	if !ok || len(summary) != 2 {
		t.Errorf("Expected 2 summary items, got %v", obj["summary"])
	}
}

func TestRepairObjectNoBraces(t *testing.T) {
	_, err := RepairObject("the model refused to answer")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if perr.Raw != "the model refused to answer" {
		t.Errorf("ParseError must carry the raw text, got '%s'", perr.Raw)
	}
}

func TestRepairObjectMalformedJSON(t *testing.T) {
	_, err := RepairObject("{\"title\": unclosed")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
}

func TestRepairListStripsMarkers(t *testing.T) {
	raw := "- first point\n* second point\n1. third\nshort\n\n  • fourth with bullet glyph"

	got := RepairList(raw)
	want := []string{"first point", "second point", "third", "fourth with bullet glyph"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRepairListLengthCheckPrecedesMarkerStripping(t *testing.T) {
	// "1. third" is long enough as a line even though the point left
	// after numbering is short; a bare "short" line is not
	got := RepairList("1. third\nshort")
	want := []string{"third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRepairListNeverFails(t *testing.T) {
	if got := RepairList(""); len(got) != 0 {
		t.Errorf("Empty input must yield no points, got %v", got)
	}
	if got := RepairList("---\n**\n..."); len(got) != 0 {
		t.Errorf("Marker-only input must yield no points, got %v", got)
	}
	if got := RepairList("------"); len(got) != 0 {
		t.Errorf("A long marker-only line must yield no points, got %v", got)
	}
}

func TestDecodeResult(t *testing.T) {
	obj := map[string]interface{}{
		"title":                "Translated",
		"image":                "/image/example.com/a.png",
		"summary":              []interface{}{"one point", "", "another point"},
		"reading_time_minutes": float64(4),
		"sentiment":            "neutral",
		"unexpected":           true,
	}

	res := DecodeResult(obj)
	if res.Title != "Translated" {
		t.Errorf("Expected title 'Translated', got '%s'", res.Title)
	}
	if len(res.Summary) != 2 {
		t.Errorf("Expected blank point dropped, got %v", res.Summary)
	}
	if res.ReadingTime != 4 {
		t.Errorf("Expected reading time 4, got %d", res.ReadingTime)
	}
}

func TestDecodeResultMistypedFields(t *testing.T) {
	obj := map[string]interface{}{
		"title":   42,
		"summary": "not a list",
	}

	res := DecodeResult(obj)
	if res.Title != "" || res.Summary != nil {
		t.Errorf("Mistyped fields must degrade to zero values, got %+v", res)
	}
}
