package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"newslens/internal/cache"
	"newslens/internal/extract"
	"newslens/internal/fetch"
	"newslens/internal/render"
	"newslens/internal/summarize"
)

// Model sends a prompt to the generative endpoint and returns raw text
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Article runs the full pipeline for one article request:
// Fetch -> Extract -> Prompt -> Model -> Repair -> Resolve
type Article struct {
	fetcher   fetch.Fetcher
	model     Model
	summaries cache.SummaryStore
	opts      summarize.Options
}

// NewArticle creates the article pipeline service
func NewArticle(fetcher fetch.Fetcher, model Model, summaries cache.SummaryStore, opts summarize.Options) *Article {
	return &Article{
		fetcher:   fetcher,
		model:     model,
		summaries: summaries,
		opts:      opts,
	}
}

// CanonicalURL rebuilds the upstream article URL from route variables.
// Route query decorations are dropped so every path to the same article
// shares one durable cache entry.
func CanonicalURL(host, path string) string {
	return "https://" + host + "/" + strings.TrimPrefix(path, "/")
}

// Process runs the pipeline. A durable cache hit skips the model call
// but never skips re-extraction: title, image and paragraphs are not
// cached, only the summary points are.
func (s *Article) Process(ctx context.Context, host, path string) (*render.ArticleView, error) {
	canonical := CanonicalURL(host, path)
	key := cache.SummaryKey(canonical)

	cachedPoints, err := s.summaries.Get(ctx, key)
	cacheHit := err == nil
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("durable cache read failed")
	}

	res, err := s.fetcher.Get(ctx, canonical, nil)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("fetching source: %w", err)}
	}

	base, err := url.Parse(canonical)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("parsing canonical URL: %w", err)}
	}

	doc, ph, err := extract.Extract(bytes.NewReader(res.Body), base, extract.ModeArticle)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("extracting %s: %w", canonical, err)}
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
		log.Debug().Str("key", key).Msg("durable summary cache hit")
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

// Summarize returns only the summary points, for progressive client
// loading
func (s *Article) Summarize(ctx context.Context, host, path string) ([]string, error) {
	view, err := s.Process(ctx, host, path)
	if err != nil {
		return nil, err
	}
	return view.Summary, nil
}

// writeBack stores a non-degenerate result asynchronously; the request
// does not wait on it. Empty results are never cached so the next
// request can retry.
func writeBack(summaries cache.SummaryStore, key string, points []string) {
	if len(points) == 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := summaries.Set(bgCtx, key, points); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("durable cache write failed")
		}
	}()
}

// runSummarize is the shared Prompt -> Model -> Repair -> Resolve tail
// of the pipeline
func runSummarize(ctx context.Context, model Model, doc *extract.Document, ph *extract.Placeholders, opts summarize.Options) (*summarize.Result, *PipelineError) {
	prompt := summarize.BuildArticle(doc, opts)

	raw, err := model.Generate(ctx, prompt)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("generating summary: %w", err), Prompt: prompt}
	}

	switch opts.Format {
	case summarize.FormatObject:
		obj, err := summarize.RepairObject(raw)
		if err != nil {
			return nil, &PipelineError{Err: err, Prompt: prompt, RawResponse: raw}
		}
		resolved, _ := ph.Resolve(obj).(map[string]interface{})
		return summarize.DecodeResult(resolved), nil
	default:
		points := ph.ResolveStrings(summarize.RepairList(raw))
		return &summarize.Result{Summary: points}, nil
	}
}
