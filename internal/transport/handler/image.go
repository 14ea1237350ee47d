package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"newslens/internal/fetch"
)

// Image proxies third-party images through this host so the client
// never contacts the upstream site. Only our own headers are written,
// which drops upstream cookies by construction.
type Image struct {
	fetcher fetch.Fetcher
}

// NewImage creates the image proxy handler
func NewImage(fetcher fetch.Fetcher) *Image {
	return &Image{fetcher: fetcher}
}

func (h *Image) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	upstream := "https://" + vars["host"] + "/" + vars["path"]
	if r.URL.RawQuery != "" {
		upstream += "?" + r.URL.RawQuery
	}

	headers := map[string]string{
		"Referer": "https://" + vars["host"] + "/",
		"Accept":  "image/avif,image/webp,image/png,image/jpeg,*/*;q=0.8",
	}

	res, err := h.fetcher.Get(r.Context(), upstream, headers)
	if err != nil {
		log.Debug().Err(err).Str("upstream", upstream).Msg("image fetch failed")
		w.Header().Set("Cache-Control", "no-store")
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	if res.ContentType != "" {
		w.Header().Set("Content-Type", res.ContentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(res.Body)
}
