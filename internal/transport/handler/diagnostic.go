package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"newslens/internal/render"
	"newslens/internal/service"
)

// writeDiagnostic renders the failure page carrying the last prompt
// and raw model response verbatim. It must never enter the edge tier,
// so it marks itself no-store.
func writeDiagnostic(w http.ResponseWriter, renderer *render.Renderer, err error) {
	view := &render.DiagnosticView{Message: err.Error()}

	var perr *service.PipelineError
	if errors.As(err, &perr) {
		view.Prompt = perr.Prompt
		view.RawResponse = perr.RawResponse
	}

	body, rerr := renderer.Diagnostic(view)
	if rerr != nil {
		log.Error().Err(rerr).Msg("rendering diagnostic page failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}

// writeHTML writes a successful rendered page
func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
