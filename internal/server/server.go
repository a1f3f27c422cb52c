package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"linkstash/internal/ai"
	"linkstash/internal/database"
	"linkstash/internal/repositories"
	"linkstash/internal/services"
)

type Server struct {
	port            int
	httpServer      *http.Server
	db              database.Service
	bookmarkService services.BookmarkService
	tagService      services.TagService
	categorizer     *ai.Service
}

func NewServer() *Server {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			log.Fatal().Err(err).Str("port", portStr).Msg("Invalid PORT environment variable")
		}
		port = p
	}

	dbPath := os.Getenv("BOOKMARKS_DB")
	if dbPath == "" {
		dbPath = "linkstash.db"
	}
	db, err := database.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("Failed to open database")
	}

	cfg := ai.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid AI configuration")
	}

	var provider ai.Provider
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		p, err := ai.NewOpenAIProvider(apiKey, cfg.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create OpenAI provider")
		}
		provider = p
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, AI categorization runs in degraded heuristic mode")
	}
	categorizer := ai.NewService(cfg, provider)

	bookmarkRepo := repositories.NewBookmarkRepository(db)
	tagRepo := repositories.NewTagRepository(db)

	s := &Server{
		port:            port,
		db:              db,
		bookmarkService: services.NewBookmarkService(bookmarkRepo, tagRepo, categorizer),
		tagService:      services.NewTagService(tagRepo),
		categorizer:     categorizer,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
