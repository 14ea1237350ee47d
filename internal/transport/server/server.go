package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"newslens/internal/application"
	"newslens/internal/transport/middleware"
)

// New builds the route table. The front page deliberately carries no
// edge caching so it always reflects live source state; articles and
// single-feed listings are cached with their route's TTL.
func New(app *application.Application) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	articleTTL := time.Duration(app.Config.ArticleTTLHours) * time.Hour
	feedTTL := time.Duration(app.Config.FeedTTLMinutes) * time.Minute
	edge := middleware.EdgeCache(app.Pages, articleTTL, false)
	feedEdge := middleware.EdgeCache(app.Pages, feedTTL, false)

	r.HandleFunc("/health", healthHandler).Methods("GET")

	r.Handle("/", app.HomeHandler).Methods("GET")
	r.Handle("/feed/{name}", feedEdge(app.FeedHandler)).Methods("GET")
	r.Handle("/article/{host}/{path:.*}", edge(app.ArticleHandler)).Methods("GET")
	r.Handle("/summary/{host}/{path:.*}", app.SummaryHandler).Methods("GET")
	r.Handle("/image/{host}/{path:.*}", app.ImageHandler).Methods("GET")
	r.Handle("/visit/{host}/{path:.*}", edge(app.VisitHandler)).Methods("GET")

	r.HandleFunc("/cache/stats", app.CacheHandler.Stats).Methods("GET")
	r.HandleFunc("/cache", app.CacheHandler.Purge).Methods("DELETE")

	return r
}

// healthHandler provides the liveness endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
