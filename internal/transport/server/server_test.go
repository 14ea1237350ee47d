package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newslens/internal/application"
	"newslens/internal/cache"
	"newslens/internal/feed"
	"newslens/internal/fetch"
	"newslens/internal/infrastructure"
	"newslens/internal/mocks"
	"newslens/internal/render"
	"newslens/internal/service"
	"newslens/internal/summarize"
	"newslens/internal/transport/handler"
)

const serverFeedXML = `<?xml version="1.0"?><rss version="2.0"><channel>
<item><title>Router test headline</title><link>https://example.com/1</link><pubDate>Mon, 02 Jan 2023 10:00:00 +0000</pubDate></item>
</channel></rss>`

func testApp(fetcher fetch.Fetcher) *application.Application {
	cfg := &infrastructure.Config{ArticleTTLHours: 24, FeedTTLMinutes: 10}
	opts := summarize.Options{Format: summarize.FormatObject, Language: "English", Points: 3, Budget: 30000}

	registry := feed.NewRegistry()
	registry.Register(feed.Source{Name: "test", DisplayName: "Test Feed", URL: "https://feeds.example.com/rss"})

	renderer := render.New()
	summaries := cache.NewMemorySummaryStore(time.Hour)
	model := &mocks.MockModel{Response: `{"summary": ["router point"]}`}

	articleSvc := service.NewArticle(fetcher, model, summaries, opts)
	listingSvc := service.NewListing(fetcher, registry)
	portalSvc := service.NewPortal(fetcher, model, "", opts)
	visitSvc := service.NewVisit(fetcher, model, summaries, opts)

	return &application.Application{
		Config:         cfg,
		Pages:          cache.NewMemoryPageStore(),
		HomeHandler:    handler.NewHome(listingSvc, portalSvc, renderer),
		FeedHandler:    handler.NewFeed(listingSvc, renderer),
		ArticleHandler: handler.NewArticle(articleSvc, renderer),
		SummaryHandler: handler.NewSummary(articleSvc),
		ImageHandler:   handler.NewImage(fetcher),
		VisitHandler:   handler.NewVisit(visitSvc, renderer),
		CacheHandler:   handler.NewCache(summaries),
	}
}

func TestHealthRoute(t *testing.T) {
	router := New(testApp(&mocks.MockFetcher{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestFrontPageBypassesEdgeCache(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{
		"https://feeds.example.com/rss": mocks.XMLPage(serverFeedXML),
	}}
	router := New(testApp(fetcher))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://news.local/", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://news.local/", nil))

	if len(fetcher.Calls) != 2 {
		t.Errorf("Front page must re-fetch sources on every request, got %d fetches", len(fetcher.Calls))
	}
}

func TestFeedRouteIsEdgeCached(t *testing.T) {
	fetcher := &mocks.MockFetcher{Pages: map[string]*fetch.Result{
		"https://feeds.example.com/rss": mocks.XMLPage(serverFeedXML),
	}}
	router := New(testApp(fetcher))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "http://news.local/feed/test", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", first.Code)
	}

	// the edge write is asynchronous
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "http://news.local/feed/test", nil))
		if rec.Header().Get("X-Cache") == "HIT" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Feed route was never served from the edge cache")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMethodRestrictions(t *testing.T) {
	router := New(testApp(&mocks.MockFetcher{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST /health, got %d", rec.Code)
	}
}
