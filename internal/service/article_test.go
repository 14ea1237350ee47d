package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"newslens/internal/cache"
	"newslens/internal/extract"
	"newslens/internal/fetch"
	"newslens/internal/mocks"
	"newslens/internal/summarize"
)

const articlePage = `<html><head>
<title>Original Title</title>
<meta property="og:image" content="https://cdn.example.com/hero.jpg">
</head><body>
<p>The first paragraph of the article, long enough to keep.</p>
<p>The second paragraph of the article, also long enough.</p>
</body></html>`

func objectOpts() summarize.Options {
	return summarize.Options{Format: summarize.FormatObject, Language: "English", Points: 3, Budget: 30000}
}

func TestArticleProcessObjectFormat(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{
		Response: `{"title": "Translated Title", "image": "I0", "summary": ["point one", "point two"], "reading_time_minutes": 2, "sentiment": "neutral"}`,
	}
	store := cache.NewMemorySummaryStore(time.Hour)
	svc := NewArticle(fetcher, model, store, objectOpts())

	view, err := svc.Process(context.Background(), "example.com", "story/1")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if view.Title != "Translated Title" {
		t.Errorf("Expected model title to win, got '%s'", view.Title)
	}
	if view.ImageURL != "/image/cdn.example.com/hero.jpg" {
		t.Errorf("Expected image token resolved to proxy path, got '%s'", view.ImageURL)
	}
	if len(view.Summary) != 2 {
		t.Errorf("Expected 2 summary points, got %v", view.Summary)
	}
	if view.FromCache {
		t.Error("First request must not report a cache hit")
	}
	if model.Calls != 1 {
		t.Errorf("Expected 1 model call, got %d", model.Calls)
	}
}

func TestArticleDurableHitSkipsModelNotExtraction(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{Response: `{"summary": ["fresh point"]}`}
	store := cache.NewMemorySummaryStore(time.Hour)

	key := cache.SummaryKey("https://example.com/story/1")
	if err := store.Set(context.Background(), key, []string{"cached point one", "cached point two"}); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	svc := NewArticle(fetcher, model, store, objectOpts())
	view, err := svc.Process(context.Background(), "example.com", "story/1")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if model.Calls != 0 {
		t.Errorf("Durable hit must skip the model, got %d calls", model.Calls)
	}
	if len(fetcher.Calls) != 1 {
		t.Errorf("Durable hit must still re-fetch and re-extract, got %d fetches", len(fetcher.Calls))
	}
	if !view.FromCache {
		t.Error("Expected FromCache to be set")
	}
	if view.Summary[0] != "cached point one" {
		t.Errorf("Expected cached points, got %v", view.Summary)
	}
	if view.Title != "Original Title" {
		t.Errorf("Title must come from live extraction, got '%s'", view.Title)
	}
	if view.ImageURL == "" {
		t.Error("Image must come from live extraction on a durable hit")
	}
}

func TestArticleEmptyExtractionFails(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/empty"] = mocks.HTMLPage("<html><body><div>nav</div></body></html>")
	model := &mocks.MockModel{Response: "unused"}
	svc := NewArticle(fetcher, model, cache.NewMemorySummaryStore(time.Hour), objectOpts())

	_, err := svc.Process(context.Background(), "example.com", "empty")
	if !errors.Is(err, extract.ErrEmptyExtraction) {
		t.Fatalf("Expected ErrEmptyExtraction, got %v", err)
	}
	if model.Calls != 0 {
		t.Error("Empty extraction must not reach the model")
	}
}

func TestArticleParseErrorCarriesPromptAndRaw(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{Response: "I cannot summarize this article."}
	svc := NewArticle(fetcher, model, cache.NewMemorySummaryStore(time.Hour), objectOpts())

	_, err := svc.Process(context.Background(), "example.com", "story/1")

	var perr *PipelineError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected PipelineError, got %v", err)
	}
	if perr.Prompt == "" || !strings.Contains(perr.Prompt, "Original Title") {
		t.Error("PipelineError must carry the prompt that was sent")
	}
	if perr.RawResponse != "I cannot summarize this article." {
		t.Errorf("PipelineError must carry the raw model text, got '%s'", perr.RawResponse)
	}
}

func TestArticleEmptySummaryNotCached(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{Response: `{"title": "T", "summary": []}`}
	store := cache.NewMemorySummaryStore(time.Hour)
	svc := NewArticle(fetcher, model, store, objectOpts())

	if _, err := svc.Process(context.Background(), "example.com", "story/1"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	key := cache.SummaryKey("https://example.com/story/1")
	if _, err := store.Get(context.Background(), key); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("Empty summary must never be cached, got %v", err)
	}
}

func TestArticleSuccessfulSummaryWrittenBack(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{Response: `{"summary": ["point one", "point two"]}`}
	store := cache.NewMemorySummaryStore(time.Hour)
	svc := NewArticle(fetcher, model, store, objectOpts())

	if _, err := svc.Process(context.Background(), "example.com", "story/1"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// the write-back is asynchronous
	key := cache.SummaryKey("https://example.com/story/1")
	deadline := time.Now().Add(2 * time.Second)
	for {
		if points, err := store.Get(context.Background(), key); err == nil {
			if len(points) != 2 {
				t.Errorf("Expected 2 cached points, got %v", points)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Summary was never written back to the durable cache")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestArticleListFormat(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{}}
	fetcher.Pages["https://example.com/story/1"] = mocks.HTMLPage(articlePage)
	model := &mocks.MockModel{Response: "- first summary point\n- second summary point"}
	opts := objectOpts()
	opts.Format = summarize.FormatList
	svc := NewArticle(fetcher, model, cache.NewMemorySummaryStore(time.Hour), opts)

	points, err := svc.Summarize(context.Background(), "example.com", "story/1")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(points) != 2 || points[0] != "first summary point" {
		t.Errorf("Unexpected points: %v", points)
	}
}

func TestCanonicalURL(t *testing.T) {
	if got := CanonicalURL("example.com", "a/b"); got != "https://example.com/a/b" {
		t.Errorf("Unexpected canonical URL: %s", got)
	}
	if got := CanonicalURL("example.com", "/a/b"); got != "https://example.com/a/b" {
		t.Errorf("Leading slash must not double: %s", got)
	}
}
