package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"photodedup/config"
	"photodedup/database"
	"photodedup/handlers"
	"photodedup/pipeline"
	"photodedup/realtime"
	"photodedup/thumbs"
	"photodedup/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.CacheDir, cfg.TrashDir, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	extractor := thumbs.New(cfg.CacheDir, cfg.ThumbnailMaxSize)

	// the fingerprint cache is an optimization; run without it if sqlite
	// cannot be opened
	var cache workers.FingerprintCache
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Printf("Warning: fingerprint cache unavailable, hashes will be recomputed every run: %v", err)
	} else {
		cache = database.NewFingerprintStore(db)
	}

	engine := workers.NewHashEngine(cfg.HashPoolSize(), cache)
	log.Printf("Hashing worker pool size: %d", engine.Workers)

	coordinator := pipeline.NewCoordinator(extractor, engine)
	streamer := realtime.NewProgressStreamer(coordinator)

	log.Printf("Thumbnail cache: %s (max size %dpx)", cfg.CacheDir, cfg.ThumbnailMaxSize)
	log.Printf("Trash directory: %s", cfg.TrashDir)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	scanHandler := &handlers.ScanHandler{Coordinator: coordinator, Cfg: cfg}
	groupHandler := &handlers.GroupHandler{Coordinator: coordinator}
	thumbnailHandler := &handlers.ThumbnailHandler{Extractor: extractor}
	deleteHandler := &handlers.DeleteHandler{TrashDir: cfg.TrashDir}
	folderHandler := &handlers.FolderHandler{}

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", scanHandler.StartScan)
		r.Get("/scan/status", scanHandler.Status)
		r.Post("/reset", scanHandler.Reset)
		r.Get("/ws/progress", streamer.ServeWS)

		r.Get("/groups", groupHandler.Groups)
		r.Get("/recommendations", groupHandler.Recommendations)

		r.Get("/thumbnail", thumbnailHandler.Get)
		r.Post("/delete", deleteHandler.Delete)

		r.Get("/pick-folder", folderHandler.PickFolder)
		r.Get("/browse", folderHandler.Browse)
		r.Get("/lightroom/catalogs", folderHandler.Catalogs)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8686"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
