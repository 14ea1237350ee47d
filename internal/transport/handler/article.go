package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"newslens/internal/render"
	"newslens/internal/service"
)

// Article serves the proxied, summarized article page
type Article struct {
	service  *service.Article
	renderer *render.Renderer
}

// NewArticle creates the article handler
func NewArticle(svc *service.Article, renderer *render.Renderer) *Article {
	return &Article{service: svc, renderer: renderer}
}

func (h *Article) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
