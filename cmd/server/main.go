// @title           Meditation Library API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"serwer-medytacji/internal/api"
	"serwer-medytacji/internal/config"
	"serwer-medytacji/internal/database"
	"serwer-medytacji/internal/drive"
	"serwer-medytacji/internal/library"
	"serwer-medytacji/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-medytacji/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	if cfg.Drive.APIKey == "" {
		log.Println("WARN: brak klucza Drive API - endpointy biblioteki będą zwracać błędy")
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)
	driveClient := drive.NewClient(cfg.Drive)
	libraryService := library.NewService(store, driveClient, wsHub, cfg.Cache.TTL())
	server := api.NewServer(cfg, store, libraryService, driveClient, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Range", "X-Warmer-Token"},
		ExposedHeaders:   []string{"Content-Range", "Accept-Ranges"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer medytacji działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Public endpoints: the player works without an account.
	r.Get("/api/v1/list", server.ListLibraryHandler)
	r.Get("/api/v1/stream/{fileId}", server.StreamTrackHandler)
	r.Post("/api/v1/like-counts", server.LikeCountsHandler)
	r.Post("/api/v1/auth/register", server.RegisterHandler)
	r.Post("/api/v1/auth/login", server.LoginHandler)
	r.Post("/api/v1/auth/refresh", server.RefreshHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/sessions", server.ListSessionsHandler)
		r.Delete("/sessions", server.TerminateAllSessionsHandler)
		r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
		r.Post("/tracks/{trackId}/like", server.LikeTrackHandler)
		r.Delete("/tracks/{trackId}/like", server.UnlikeTrackHandler)
		r.Get("/likes", server.ListLikesHandler)
		r.Get("/streak", server.GetStreakHandler)
		r.Post("/streak/checkin", server.CheckInHandler)
	})

	log.Println("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
