package api

import (
	"encoding/json"
	"net/http"
	"serwer-medytacji/internal/models"
)

// @Summary      Get the current streak
// @Description  Returns the authenticated user's meditation streak. A user who never checked in gets all-zero values.
// @Tags         streaks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Streak
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /streak [get]
func (s *Server) GetStreakHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	streak, err := s.store.GetStreak(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve streak", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(streak)
}

type CheckInResponse struct {
	OK     bool           `json:"ok"`
	Streak *models.Streak `json:"streak"`
}

// @Summary      Check in for today
// @Description  Records today's meditation session. Same-day repeats are idempotent, a consecutive day extends the streak and a gap resets it.
// @Tags         streaks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CheckInResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /streak/checkin [post]
func (s *Server) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	streak, err := s.store.CheckIn(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to record check-in", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CheckInResponse{OK: true, Streak: streak})
}
