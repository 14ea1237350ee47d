package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"newslens/internal/cache"
	"newslens/internal/render"
)

// Warmer pre-renders feed listing pages into the edge cache so the
// first visitor after a TTL expiry does not pay the fetch cost.
type Warmer struct {
	listing  *Listing
	renderer *render.Renderer
	pages    cache.PageStore
	host     string
	ttl      time.Duration
}

func NewWarmer(listing *Listing, renderer *render.Renderer, pages cache.PageStore, host string, ttl time.Duration) *Warmer {
	return &Warmer{
		listing:  listing,
		renderer: renderer,
		pages:    pages,
		host:     host,
		ttl:      ttl,
	}
}

// Run refreshes every registered feed. Failures are logged per feed and
// never abort the remaining ones.
func (w *Warmer) Run(ctx context.Context) {
	for _, name := range w.listing.Names() {
		if err := w.warmFeed(ctx, name); err != nil {
			log.Warn().Err(err).Str("feed", name).Msg("feed warm failed")
			continue
		}
		log.Debug().Str("feed", name).Msg("feed warmed")
	}
}

func (w *Warmer) warmFeed(ctx context.Context, name string) error {
	view, err := w.listing.Single(ctx, name)
	if err != nil {
		return err
	}

	body, err := w.renderer.Listing(view)
	if err != nil {
		return err
	}

	key := cache.RequestKey(w.host, "/feed/"+name, "", false)
	page := &cache.Page{Body: body, ContentType: "text/html; charset=utf-8"}
	return w.pages.Set(ctx, key, page, w.ttl)
}
