package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkstash/internal/handlers"
	"linkstash/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.NewPrometheusMiddleware().Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerBookmarkRoutes(r)
	s.registerCategorizeRoutes(r)
	s.registerTagRoutes(r)
	s.registerWebhookRoutes(r)

	return r
}

func (s *Server) registerBookmarkRoutes(r *mux.Router) {
	bh := handlers.NewBookmarksHandler(s.bookmarkService)

	r.HandleFunc("/api/bookmarks", bh.GetBookmarks).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/bookmarks", bh.AddBookmark).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/bookmarks/recategorize", bh.RecategorizeBatch).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/bookmarks/{id}", bh.GetBookmarkByID).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/bookmarks/{id}", bh.UpdateBookmark).Methods("PUT", "OPTIONS")
	r.HandleFunc("/api/bookmarks/{id}", bh.DeleteBookmark).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/api/bookmarks/{id}/recategorize", bh.RecategorizeBookmark).Methods("POST", "OPTIONS")
}

func (s *Server) registerCategorizeRoutes(r *mux.Router) {
	ah := handlers.NewCategorizeHandler(s.categorizer)

	r.HandleFunc("/api/ai/categorize", ah.Categorize).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/ai/categorize", ah.Status).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/ai/stats", ah.Stats).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/ai/cache", ah.ClearCache).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerTagRoutes(r *mux.Router) {
	th := handlers.NewTagHandler(s.tagService)
	r.HandleFunc("/api/tags", th.GetTags).Methods("GET", "OPTIONS")
}

func (s *Server) registerWebhookRoutes(r *mux.Router) {
	wh := handlers.NewWebhookHandler(s.bookmarkService)
	r.HandleFunc("/api/webhook/save-bookmark", wh.SaveBookmark).Methods("GET", "OPTIONS")
}
