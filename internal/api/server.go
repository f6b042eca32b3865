package api

import (
	"net/http"

	"serwer-medytacji/internal/config"
	"serwer-medytacji/internal/database"
	"serwer-medytacji/internal/drive"
	"serwer-medytacji/internal/library"
	"serwer-medytacji/internal/websocket"
)

type Server struct {
	config  *config.Config
	store   *database.PostgresStore
	library *library.Service
	drive   *drive.Client
	wsHub   *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.PostgresStore, libraryService *library.Service, driveClient *drive.Client, wsHub *websocket.Hub) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		library: libraryService,
		drive:   driveClient,
		wsHub:   wsHub,
	}
}

func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
