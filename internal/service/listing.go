package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"newslens/internal/extract"
	"newslens/internal/feed"
	"newslens/internal/fetch"
	"newslens/internal/render"
)

// Listing aggregates the registered feed sources into listing pages
type Listing struct {
	fetcher  fetch.Fetcher
	registry *feed.Registry
}

// NewListing creates the listing service
func NewListing(fetcher fetch.Fetcher, registry *feed.Registry) *Listing {
	return &Listing{fetcher: fetcher, registry: registry}
}

// Aggregate fans out one fetch per source concurrently and joins the
// results. A failing source contributes nothing instead of aborting
// the aggregate; items are merged and sorted newest first.
func (s *Listing) Aggregate(ctx context.Context) (*render.ListingView, error) {
	sources := s.registry.All()
	results := make([][]feed.Item, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			items, err := s.fetchSource(gctx, src)
			if err != nil {
				log.Warn().Str("source", src.Name).Err(err).Msg("source fetch failed, skipping")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	// workers never return errors, Wait is a join
	_ = g.Wait()

	var all []feed.Item
	for _, items := range results {
		all = append(all, items...)
	}
	all = feed.Unique(all)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ParsedDate.After(all[j].ParsedDate)
	})

	return &render.ListingView{Title: "newslens", Items: s.toListingItems(all)}, nil
}

// Single builds the listing page for one named source
func (s *Listing) Single(ctx context.Context, name string) (*render.ListingView, error) {
	src, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown feed: %s", name)
	}

	items, err := s.fetchSource(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", name, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ParsedDate.After(items[j].ParsedDate)
	})

	return &render.ListingView{Title: src.DisplayName, Items: s.toListingItems(items)}, nil
}

// Names returns the registered source names, for the warmer
func (s *Listing) Names() []string {
	var names []string
	for _, src := range s.registry.All() {
		names = append(names, src.Name)
	}
	return names
}

func (s *Listing) fetchSource(ctx context.Context, src feed.Source) ([]feed.Item, error) {
	res, err := s.fetcher.Get(ctx, src.URL, src.Headers)
	if err != nil {
		return nil, err
	}

	items, err := feed.Parse(string(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", src.Name, err)
	}

	for i := range items {
		items[i].Source = src.Name
		if items[i].PubDate != "" {
			if parsed, err := feed.ParseDate(items[i].PubDate); err == nil {
				items[i].ParsedDate = parsed
			}
		}
	}
	return items, nil
}

// toListingItems rewrites upstream links onto the internal article route
func (s *Listing) toListingItems(items []feed.Item) []render.ListingItem {
	out := make([]render.ListingItem, 0, len(items))
	for _, item := range items {
		u, err := url.Parse(item.Link)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, render.ListingItem{
			Title:     item.Title,
			Href:      extract.ArticleRoutePath(u),
			Source:    item.Source,
			Published: item.ParsedDate,
		})
	}
	return out
}
