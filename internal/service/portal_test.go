package service

import (
	"context"
	"testing"

	"newslens/internal/fetch"
	"newslens/internal/mocks"
	"newslens/internal/summarize"
)

const portalPage = `<html><head><title>Die Zeitung</title></head><body>
<ul>
<li><a href="https://example.de/politik/1">Erste wichtige Schlagzeile</a></li>
<li><a href="https://example.de/wirtschaft/2">Zweite wichtige Schlagzeile</a></li>
</ul>
</body></html>`

func TestPortalDisabledWithoutURL(t *testing.T) {
	svc := NewPortal(&mocks.MockFetcher{}, &mocks.MockModel{}, "", objectOpts())
	if svc.Enabled() {
		t.Error("Portal must be disabled when no URL is configured")
	}
}

func TestPortalProcess(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{
		"https://example.de/": mocks.HTMLPage(portalPage),
	}}
	// translated lines keep the token as the last word; the second line
	// lost its token
	model := &mocks.MockModel{Response: "First important headline L0\nSecond headline without its marker"}
	opts := summarize.Options{Format: summarize.FormatList, Language: "English", Budget: 30000}
	svc := NewPortal(fetcher, model, "https://example.de/", opts)

	if !svc.Enabled() {
		t.Fatal("Portal must be enabled")
	}

	view, err := svc.Process(context.Background())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if view.Title != "Die Zeitung" {
		t.Errorf("Expected portal title, got '%s'", view.Title)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %+v", len(view.Lines), view.Lines)
	}

	first := view.Lines[0]
	if first.Href != "/article/example.de/politik/1" {
		t.Errorf("Expected token resolved to article route, got '%s'", first.Href)
	}
	if first.Text != "First important headline" {
		t.Errorf("Token must be stripped from the visible text, got '%s'", first.Text)
	}
	if first.Depth != 2 {
		t.Errorf("Expected nesting depth preserved, got %d", first.Depth)
	}

	second := view.Lines[1]
	if second.Href != "" {
		t.Errorf("Line without a token must render as plain text, got href '%s'", second.Href)
	}
	if second.Text != "Second headline without its marker" {
		t.Errorf("Unexpected plain line text: '%s'", second.Text)
	}
}

func TestPortalModelFailureCarriesPrompt(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{
		"https://example.de/": mocks.HTMLPage(portalPage),
	}}
	model := &mocks.MockModel{Err: mocks.ErrFetch}
	svc := NewPortal(fetcher, model, "https://example.de/", objectOpts())

	_, err := svc.Process(context.Background())
	perr, ok := err.(*PipelineError)
	if !ok {
		t.Fatalf("Expected PipelineError, got %v", err)
	}
	if perr.Prompt == "" {
		t.Error("Model failure must carry the prompt that was sent")
	}
}
