package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"linkstash/internal/services"
)

type TagHandler struct {
	service services.TagService
}

func NewTagHandler(service services.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error listing tags")
		respondError(w, "failed to list tags", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}
