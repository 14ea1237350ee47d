package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"newslens/internal/cache"
)

// EdgeCache serves rendered pages from the edge tier before the
// handler runs and writes successful renders back asynchronously; the
// request never waits on the write. Routes that must always reflect
// live source state simply do not mount this middleware.
func EdgeCache(store cache.PageStore, ttl time.Duration, keepQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cache.RequestKey(r.Host, r.URL.Path, r.URL.RawQuery, keepQuery)

			page, err := store.Get(r.Context(), key)
			if err == nil {
				w.Header().Set("Content-Type", page.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.Write(page.Body)
				return
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Warn().Err(err).Str("key", key).Msg("edge cache read failed")
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// only successful cacheable renders are stored; diagnostic
			// pages mark themselves no-store
			if rec.status != http.StatusOK || rec.buf.Len() == 0 {
				return
			}
			if rec.Header().Get("Cache-Control") == "no-store" {
				return
			}

			stored := &cache.Page{
				Body:        append([]byte(nil), rec.buf.Bytes()...),
				ContentType: rec.Header().Get("Content-Type"),
			}
			go func() {
				bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := store.Set(bgCtx, key, stored, ttl); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("edge cache write failed")
				}
			}()
		})
	}
}

// recorder tees the response body so it can be cached after serving
type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}
