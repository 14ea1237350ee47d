package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"newslens/internal/service"
	"newslens/internal/transport/response"
)

// Summary returns only the summary points as JSON, for clients that
// render the article shell first and load the summary progressively
type Summary struct {
	service *service.Article
}

// NewSummary creates the summary handler
func NewSummary(svc *service.Article) *Summary {
	return &Summary{service: svc}
}

func (h *Summary) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	points, err := h.service.Summarize(r.Context(), vars["host"], vars["path"])
	if err != nil {
		var perr *service.PipelineError
		if errors.As(err, &perr) {
			response.WriteJSON(w, http.StatusInternalServerError, response.Response{
				Status: "error",
				Error:  err.Error(),
				Data: map[string]string{
					"prompt":       orNone(perr.Prompt),
					"raw_response": orNone(perr.RawResponse),
				},
			})
			return
		}
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]interface{}{"summary": points},
	})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
