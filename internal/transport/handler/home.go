package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"newslens/internal/render"
	"newslens/internal/service"
)

// Home serves the front page: the configured portal when one is set,
// otherwise the aggregated feed listing. Either way the sources are
// re-fetched on every request; this route is never edge-cached.
type Home struct {
	listing  *service.Listing
	portal   *service.Portal
	renderer *render.Renderer
}

// NewHome creates the front page handler
func NewHome(listing *service.Listing, portal *service.Portal, renderer *render.Renderer) *Home {
	return &Home{listing: listing, portal: portal, renderer: renderer}
}

func (h *Home) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.portal.Enabled() {
		view, err := h.portal.Process(r.Context())
		if err != nil {
			writeDiagnostic(w, h.renderer, err)
			return
		}
		body, err := h.renderer.Portal(view)
		if err != nil {
			writeDiagnostic(w, h.renderer, err)
			return
		}
		writeHTML(w, body)
		return
	}

	view, err := h.listing.Aggregate(r.Context())
	if err != nil {
		writeDiagnostic(w, h.renderer, err)
		return
	}

	body, err := h.renderer.Listing(view)
	if err != nil {
		writeDiagnostic(w, h.renderer, err)
		return
	}

	writeHTML(w, body)
}

// Feed serves one named source's listing page; entries carry the short
// feed TTL in the edge tier and are refreshed by the warmer.
type Feed struct {
	listing  *service.Listing
	renderer *render.Renderer
}

// NewFeed creates the single-feed handler
func NewFeed(listing *service.Listing, renderer *render.Renderer) *Feed {
	return &Feed{listing: listing, renderer: renderer}
}

func (h *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.listing.Single(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	body, err := h.renderer.Listing(view)
	if err != nil {
		writeDiagnostic(w, h.renderer, err)
		return
	}

	writeHTML(w, body)
}
