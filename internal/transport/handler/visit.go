package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"newslens/internal/render"
	"newslens/internal/service"
)

// Visit serves arbitrary pages through the readability-based pipeline
type Visit struct {
	service  *service.Visit
	renderer *render.Renderer
}

// NewVisit creates the generic-site handler
func NewVisit(svc *service.Visit, renderer *render.Renderer) *Visit {
	return &Visit{service: svc, renderer: renderer}
}

func (h *Visit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	view, err := h.service.Process(r.Context(), vars["host"], vars["path"])
	if err != nil {
		writeDiagnostic(w, h.renderer, err)
		return
	}

	body, err := h.renderer.Article(view)
	if err != nil {
		writeDiagnostic(w, h.renderer, err)
		return
	}

	writeHTML(w, body)
}
