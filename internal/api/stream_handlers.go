package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Headers forwarded from the storage backend to the player; everything
// else is dropped.
var streamHeaderWhitelist = []string{
	"Content-Type",
	"Content-Length",
	"Accept-Ranges",
	"Content-Range",
	"Etag",
	"Last-Modified",
	"Cache-Control",
}

func (s *Server) StreamTrackHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")
	if fileID == "" {
		http.Error(w, "Missing file id", http.StatusBadRequest)
		return
	}

	if s.config.Drive.APIKey == "" {
		http.Error(w, "Server is missing the Drive API key", http.StatusInternalServerError)
		return
	}

	resourceKey := r.URL.Query().Get("resourceKey")
	rangeHeader := r.Header.Get("Range")

	upstream, err := s.drive.OpenStream(r.Context(), fileID, resourceKey, rangeHeader)
	if err != nil {
		http.Error(w, "Failed to reach the storage backend", http.StatusBadGateway)
		return
	}
	defer upstream.Body.Close()

	if upstream.StatusCode >= 400 {
		// Mirror the upstream error as-is.
		if ct := upstream.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header().Set("Content-Type", "text/plain")
		}
		w.WriteHeader(upstream.StatusCode)
		io.Copy(w, upstream.Body)
		return
	}

	for _, h := range streamHeaderWhitelist {
		if v := upstream.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", s.config.Cache.StreamMaxAge))
	}

	w.WriteHeader(upstream.StatusCode)
	io.Copy(w, upstream.Body)
}
