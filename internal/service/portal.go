package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"newslens/internal/extract"
	"newslens/internal/fetch"
	"newslens/internal/render"
	"newslens/internal/summarize"
)

// Portal renders a configured portal front page: its headline links
// are extracted behind placeholder tokens, the headline text is
// translated by the model, and the tokens are resolved back into
// internal article routes.
type Portal struct {
	fetcher   fetch.Fetcher
	model     Model
	portalURL string
	opts      summarize.Options
}

// NewPortal creates the portal service
func NewPortal(fetcher fetch.Fetcher, model Model, portalURL string, opts summarize.Options) *Portal {
	return &Portal{
		fetcher:   fetcher,
		model:     model,
		portalURL: portalURL,
		opts:      opts,
	}
}

// Enabled reports whether a portal URL is configured
func (s *Portal) Enabled() bool {
	return s.portalURL != ""
}

// Process fetches the portal page live (never edge-cached), extracts
// its listing and returns translated headline links.
func (s *Portal) Process(ctx context.Context) (*render.PortalView, error) {
	res, err := s.fetcher.Get(ctx, s.portalURL, nil)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("fetching portal: %w", err)}
	}

	base, err := url.Parse(s.portalURL)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("parsing portal URL: %w", err)}
	}

	doc, ph, err := extract.Extract(bytes.NewReader(res.Body), base, extract.ModeListing)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("extracting portal: %w", err)}
	}

	depthByToken := make(map[string]int, len(doc.Links))
	for _, link := range doc.Links {
		depthByToken[link.Token] = link.Depth
	}

	prompt := summarize.BuildListing(doc.ListingText(), s.opts)
	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return nil, &PipelineError{Err: fmt.Errorf("translating headlines: %w", err), Prompt: prompt}
	}

	view := &render.PortalView{Title: doc.Title}
	if view.Title == "" {
		view.Title = base.Host
	}

	// each translated line carries its link token as the last word;
	// lines whose token the model dropped render as plain text
	for _, line := range summarize.RepairList(raw) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if href, ok := ph.Lookup(last); ok {
			view.Lines = append(view.Lines, render.PortalLine{
				Text:  strings.Join(fields[:len(fields)-1], " "),
				Href:  href,
				Depth: depthByToken[last],
			})
			continue
		}
		view.Lines = append(view.Lines, render.PortalLine{Text: line})
	}

	return view, nil
}
