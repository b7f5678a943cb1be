package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docshare/internal/auth"
	"docshare/internal/config"
	"docshare/internal/handler"
	"docshare/internal/middleware"
	"docshare/internal/repository/postgres"
	"docshare/internal/service"
	"docshare/internal/storage"
	"docshare/internal/uploads"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	courseRepo := postgres.NewCourseRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Load the upload policy (embedded, fails only on a bad build)
	uploadPolicy, err := uploads.LoadPolicy()
	if err != nil {
		log.Fatalf("Failed to load upload policy: %v", err)
	}

	// Create the Supabase storage client
	store := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket, logger)

	// Create services
	identityResolver := service.NewIdentityResolver(jwtVerifier, userRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	fileService := service.NewFileService(fileRepo, userRepo, store, uploadPolicy, logger)
	courseService := service.NewCourseService(courseRepo, fileRepo, userRepo, store, txManager, logger)

	// Create handlers
	authHandler := handler.NewAuthHandler(userService, logger)
	fileHandler := handler.NewFileHandler(fileService, uploadPolicy, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health)

	// Auth routes
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)

	// File routes
	mux.HandleFunc("GET /api/files", fileHandler.List)
	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.Get)
	mux.HandleFunc("PUT /api/files/{id}", fileHandler.Update)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	// Course routes
	mux.HandleFunc("GET /api/courses", courseHandler.List)
	mux.HandleFunc("POST /api/courses", courseHandler.Create)
	mux.HandleFunc("GET /api/courses/{id}", courseHandler.Get)
	mux.HandleFunc("PUT /api/courses/{id}", courseHandler.Update)
	mux.HandleFunc("DELETE /api/courses/{id}", courseHandler.Delete)
	mux.HandleFunc("POST /api/courses/{id}/enroll", courseHandler.Enroll)
	mux.HandleFunc("PUT /api/courses/{id}/progress", courseHandler.UpdateProgress)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Authenticate(identityResolver, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  60 * time.Second, // uploads can take a while on slow links
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
