package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"newslens/internal/cache"
	"newslens/internal/extract"
	"newslens/internal/fetch"
	"newslens/internal/render"
	"newslens/internal/summarize"
)

// Visit handles generic pages that are not known article markup: the
// main content is distilled with readability before entering the same
// summarize pipeline.
type Visit struct {
	fetcher   fetch.Fetcher
	model     Model
	summaries cache.SummaryStore
	opts      summarize.Options
}

// NewVisit creates the generic-site service
func NewVisit(fetcher fetch.Fetcher, model Model, summaries cache.SummaryStore, opts summarize.Options) *Visit {
	return &Visit{
		fetcher:   fetcher,
		model:     model,
		summaries: summaries,
		opts:      opts,
	}
}

// Process distills and summarizes an arbitrary page
func (s *Visit) Process(ctx context.Context, host, path string) (*render.ArticleView, error) {
	canonical := CanonicalURL(host, path)
	key := cache.SummaryKey(canonical)

	cachedPoints, err := s.summaries.Get(ctx, key)
	cacheHit := err == nil
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("durable cache read failed")
	}

	res, err := s.fetcher.Get(ctx, canonical, nil)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("fetching site: %w", err)}
	}

	base, err := url.Parse(canonical)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("parsing canonical URL: %w", err)}
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(res.Body), base)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("distilling %s: %w", canonical, err)}
	}

	doc, ph := documentFromReadability(&article, base)
	if len(doc.Paragraphs) == 0 {
		return nil, &PipelineError{Err: fmt.Errorf("distilling %s: %w", canonical, extract.ErrEmptyExtraction)}
	}

	view := &render.ArticleView{
		Title:        doc.Title,
		Paragraphs:   doc.Paragraphs,
		CanonicalURL: canonical,
	}
	if len(doc.Images) > 0 {
		view.ImageURL = ph.ResolveString(doc.Images[0])
	}

	if cacheHit {
		view.Summary = cachedPoints
		view.FromCache = true
		return view, nil
	}

	result, perr := runSummarize(ctx, s.model, doc, ph, s.opts)
	if perr != nil {
		return nil, perr
	}

	view.Summary = result.Summary
	view.ReadingTime = result.ReadingTime
	view.Sentiment = result.Sentiment
	if result.Title != "" {
		view.Title = result.Title
	}
	if result.Image != "" {
		view.ImageURL = result.Image
	}

	writeBack(s.summaries, key, result.Summary)

	return view, nil
}

// documentFromReadability adapts distilled output to the extractor's
// record shape so the summarize tail is shared
func documentFromReadability(article *readability.Article, base *url.URL) (*extract.Document, *extract.Placeholders) {
	doc := &extract.Document{Title: article.Title}
	ph := extract.NewPlaceholders()

	if article.Image != "" && !strings.HasPrefix(article.Image, "data:") {
		if u, err := url.Parse(article.Image); err == nil {
			if base != nil {
				u = base.ResolveReference(u)
			}
			if u.Host != "" {
				doc.Images = append(doc.Images, ph.AddImage(extract.ProxyImagePath(u)))
			}
		}
	}

	for _, line := range strings.Split(article.TextContent, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > extract.MinParagraphLen {
			doc.Paragraphs = append(doc.Paragraphs, line)
		}
	}

	return doc, ph
}
