package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"serwer-medytacji/internal/drive"
)

// The stale branch advertises a short shared-cache window; the freshness
// window of the listing itself is a separate, independently configured TTL.
const staleListMaxAge = 60

func (s *Server) ListLibraryHandler(w http.ResponseWriter, r *http.Request) {
	if s.config.Drive.APIKey == "" {
		http.Error(w, "Server is missing the Drive API key", http.StatusInternalServerError)
		return
	}

	folderParam := r.URL.Query().Get("folderId")
	if folderParam == "" {
		folderParam = r.URL.Query().Get("folder")
	}
	if folderParam == "" {
		http.Error(w, "Missing folderId (or folder URL)", http.StatusBadRequest)
		return
	}

	// refresh=1 is only honorable with the pre-shared warmer token; without
	// it the flag is a hard 401, not a silent downgrade.
	forceRefresh := r.URL.Query().Get("refresh") == "1"
	if forceRefresh {
		token := r.Header.Get("X-Warmer-Token")
		if s.config.Drive.WarmerToken == "" || token != s.config.Drive.WarmerToken {
			http.Error(w, "Unauthorized refresh", http.StatusUnauthorized)
			return
		}
	}

	folderID := drive.ExtractFolderID(folderParam)

	payload, _, err := s.library.GetLibrary(r.Context(), folderID, forceRefresh)
	if err != nil {
		var upstreamErr *drive.UpstreamError
		switch {
		case errors.Is(err, drive.ErrNotFound):
			http.Error(w, "Folder not found", http.StatusNotFound)
		case errors.Is(err, drive.ErrNotAFolder):
			http.Error(w, "The given ID does not point to a folder", http.StatusBadRequest)
		case errors.As(err, &upstreamErr):
			http.Error(w, "Storage backend error", http.StatusBadGateway)
		default:
			http.Error(w, "Failed to list the library", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if payload.Stale {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
			staleListMaxAge, s.config.Cache.ListStaleWhileRevalidate))
	} else if !payload.Cached {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
			s.config.Cache.ListMaxAge, s.config.Cache.ListStaleWhileRevalidate))
	}
	json.NewEncoder(w).Encode(payload)
}
