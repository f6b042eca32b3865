package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// @Summary      List active sessions
// @Description  Returns every non-expired session of the authenticated user.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Session
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /sessions [get]
func (s *Server) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessions, err := s.store.ListSessionsForUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// @Summary      Terminate a session
// @Description  Logs the user out of a single device by deleting one session.
// @Tags         sessions
// @Security     BearerAuth
// @Param        sessionId  path  string  true  "Session ID (UUID)"
// @Success      204  {string}  string "No Content"
// @Failure      400  {string}  string "Invalid session id"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /sessions/{sessionId} [delete]
func (s *Server) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteSessionByID(r.Context(), sessionID, claims.UserID); err != nil {
		http.Error(w, "Failed to terminate session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Terminate all sessions
// @Description  Logs the user out everywhere by deleting all of their sessions.
// @Tags         sessions
// @Security     BearerAuth
// @Success      204  {string}  string "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /sessions [delete]
func (s *Server) TerminateAllSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	if err := s.store.DeleteAllSessionsForUser(r.Context(), claims.UserID); err != nil {
		http.Error(w, "Failed to terminate sessions", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
