package handler

import (
	"net/http"

	"newslens/internal/cache"
	"newslens/internal/transport/response"
)

// Cache exposes durable-tier statistics and purge operations
type Cache struct {
	summaries cache.SummaryStore
}

// NewCache creates the cache operations handler
func NewCache(summaries cache.SummaryStore) *Cache {
	return &Cache{summaries: summaries}
}

// Stats returns durable cache statistics
func (h *Cache) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.summaries.Stats(r.Context())
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, response.Response{Status: "success", Data: stats})
}

// Purge removes every durable cache entry
func (h *Cache) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.summaries.Purge(r.Context()); err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}
	response.WriteSuccess(w, "cache cleared", nil)
}
