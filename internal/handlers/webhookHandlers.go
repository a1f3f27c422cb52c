package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"linkstash/internal/models"
	"linkstash/internal/services"
)

type WebhookHandler struct {
	service services.BookmarkService
}

func NewWebhookHandler(service services.BookmarkService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// SaveBookmark handles GET /api/webhook/save-bookmark, the browser
// integration entry point. Tags arrive as a comma-separated list.
func (h *WebhookHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var tags []string
	for _, tag := range strings.Split(q.Get("tags"), ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	req := models.CreateBookmarkRequest{
		URL:   q.Get("url"),
		Title: q.Get("title"),
		Tags:  tags,
	}
	if err := req.Validate(); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateURL) {
			respondError(w, err.Error(), http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("url", req.URL).Msg("Webhook save bookmark failed")
		respondError(w, "failed to save bookmark", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":      bm.ID,
		"url":     bm.URL,
		"title":   bm.Title,
		"message": "Bookmark saved successfully",
	})
}
