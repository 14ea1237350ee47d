package application

import (
	"context"
	"fmt"
	"time"

	"newslens/internal/cache"
	"newslens/internal/feed"
	"newslens/internal/fetch"
	"newslens/internal/gemini"
	"newslens/internal/infrastructure"
	"newslens/internal/render"
	"newslens/internal/service"
	"newslens/internal/summarize"
	"newslens/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config *infrastructure.Config
	Pages  cache.PageStore
	Warmer *service.Warmer

	HomeHandler    *handler.Home
	FeedHandler    *handler.Feed
	ArticleHandler *handler.Article
	SummaryHandler *handler.Summary
	ImageHandler   *handler.Image
	VisitHandler   *handler.Visit
	CacheHandler   *handler.Cache

	cleanup func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context) (*Application, error) {
	// Load configuration
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	format, err := summarize.ParseFormat(cfg.SummaryFormat)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	opts := summarize.Options{
		Format:   format,
		Language: cfg.TargetLanguage,
		Points:   cfg.BulletPoints,
		Budget:   cfg.PromptBudget,
	}

	// Initialize cache tiers
	pages, err := cache.NewPageStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.EdgeCacheType)
	if err != nil {
		return nil, fmt.Errorf("creating edge cache: %w", err)
	}
	summaries, err := cache.NewSummaryStore(ctx, cfg.DurableCacheType, cfg.CacheBucket, time.Duration(cfg.DurableTTLHours)*time.Hour)
	if err != nil {
		pages.Close()
		return nil, fmt.Errorf("creating summary cache: %w", err)
	}

	// Shared clients
	fetcher := fetch.NewClient()
	model := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	registry := feed.NewRegistry()
	for _, src := range feed.DefaultSources() {
		registry.Register(src)
	}

	renderer := render.New()

	// Create services (business logic)
	articleService := service.NewArticle(fetcher, model, summaries, opts)
	listingService := service.NewListing(fetcher, registry)
	portalService := service.NewPortal(fetcher, model, cfg.PortalURL, opts)
	visitService := service.NewVisit(fetcher, model, summaries, opts)
	warmer := service.NewWarmer(listingService, renderer, pages, cfg.PublicHost, time.Duration(cfg.FeedTTLMinutes)*time.Minute)

	// Create handlers (HTTP layer)
	homeHandler := handler.NewHome(listingService, portalService, renderer)
	feedHandler := handler.NewFeed(listingService, renderer)
	articleHandler := handler.NewArticle(articleService, renderer)
	summaryHandler := handler.NewSummary(articleService)
	imageHandler := handler.NewImage(fetcher)
	visitHandler := handler.NewVisit(visitService, renderer)
	cacheHandler := handler.NewCache(summaries)

	// Cleanup function
	cleanup := func() error {
		pages.Close()
		return summaries.Close()
	}

	return &Application{
		Config:         cfg,
		Pages:          pages,
		Warmer:         warmer,
		HomeHandler:    homeHandler,
		FeedHandler:    feedHandler,
		ArticleHandler: articleHandler,
		SummaryHandler: summaryHandler,
		ImageHandler:   imageHandler,
		VisitHandler:   visitHandler,
		CacheHandler:   cacheHandler,
		cleanup:        cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
