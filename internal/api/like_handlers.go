package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"serwer-medytacji/internal/database"
	"serwer-medytacji/internal/models"

	"github.com/go-chi/chi/v5"
)

// @Summary      Like a track
// @Description  Marks a track as liked by the authenticated user.
// @Tags         likes
// @Security     BearerAuth
// @Param        trackId  path  string  true  "Track (file) ID"
// @Success      204  {string}  string "No Content"
// @Failure      400  {string}  string "Missing track id"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      409  {string}  string "Already liked"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /tracks/{trackId}/like [post]
func (s *Server) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	trackID := chi.URLParam(r, "trackId")
	if trackID == "" {
		http.Error(w, "Missing track id", http.StatusBadRequest)
		return
	}

	err := s.store.AddLike(r.Context(), claims.UserID, trackID)
	if err != nil {
		if errors.Is(err, database.ErrLikeAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to like track", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Unlike a track
// @Description  Removes the authenticated user's like from a track. Unliking a track that was never liked is a no-op.
// @Tags         likes
// @Security     BearerAuth
// @Param        trackId  path  string  true  "Track (file) ID"
// @Success      204  {string}  string "No Content"
// @Failure      400  {string}  string "Missing track id"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /tracks/{trackId}/like [delete]
func (s *Server) UnlikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	trackID := chi.URLParam(r, "trackId")
	if trackID == "" {
		http.Error(w, "Missing track id", http.StatusBadRequest)
		return
	}

	_, err := s.store.RemoveLike(r.Context(), claims.UserID, trackID)
	if err != nil {
		http.Error(w, "Failed to unlike track", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      List liked tracks
// @Description  Returns the IDs of all tracks the authenticated user has liked, newest first.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   string
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /likes [get]
func (s *Server) ListLikesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	trackIDs, err := s.store.ListLikedTracks(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list likes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trackIDs)
}

type LikeCountsRequest struct {
	IDs []string `json:"ids"`
}

type LikeCountsResponse struct {
	Counts []models.LikeCount `json:"counts"`
}

// @Summary      Like counts for a set of tracks
// @Description  Returns the total like count per track. Tracks with zero likes are omitted. Public, no auth needed.
// @Tags         likes
// @Accept       json
// @Produce      json
// @Param        likeCountsRequest  body      LikeCountsRequest  true  "Track IDs to count"
// @Success      200                {object}  LikeCountsResponse
// @Failure      400                {string}  string "Invalid request body"
// @Failure      500                {string}  string "Internal Server Error"
// @Router       /like-counts [post]
func (s *Server) LikeCountsHandler(w http.ResponseWriter, r *http.Request) {
	var req LikeCountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if len(req.IDs) == 0 {
		json.NewEncoder(w).Encode(LikeCountsResponse{Counts: []models.LikeCount{}})
		return
	}

	counts, err := s.store.GetLikeCounts(r.Context(), req.IDs)
	if err != nil {
		http.Error(w, "Failed to count likes", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(LikeCountsResponse{Counts: counts})
}
