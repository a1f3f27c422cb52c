package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"linkstash/internal/ai"
)

// maxBatchInputs caps how many bookmarks a single categorize request may
// carry.
const maxBatchInputs = 10

type CategorizeHandler struct {
	categorizer *ai.Service
}

func NewCategorizeHandler(categorizer *ai.Service) *CategorizeHandler {
	return &CategorizeHandler{categorizer: categorizer}
}

type batchCategorizeRequest struct {
	Bookmarks []ai.Input `json:"bookmarks"`
}

// Categorize handles POST /api/ai/categorize. The body is either a single
// bookmark input or {"bookmarks": [...]} with 1-10 entries.
func (h *CategorizeHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	if !h.categorizer.Configured() {
		respondError(w, "AI service not configured", http.StatusServiceUnavailable)
		return
	}

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var batch batchCategorizeRequest
	if err := json.Unmarshal(body, &batch); err == nil && batch.Bookmarks != nil {
		h.categorizeBatch(w, r, batch.Bookmarks)
		return
	}

	var single ai.Input
	if err := json.Unmarshal(body, &single); err != nil {
		respondError(w, "invalid request format", http.StatusBadRequest)
		return
	}
	if err := single.Validate(); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info().Str("url", single.URL).Msg("Processing single categorization")
	respondJSON(w, http.StatusOK, h.categorizer.Categorize(r.Context(), single))
}

func (h *CategorizeHandler) categorizeBatch(w http.ResponseWriter, r *http.Request, inputs []ai.Input) {
	if len(inputs) == 0 || len(inputs) > maxBatchInputs {
		respondError(w, fmt.Sprintf("bookmarks must contain between 1 and %d entries", maxBatchInputs), http.StatusBadRequest)
		return
	}
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			respondError(w, fmt.Sprintf("bookmarks[%d]: %s", i, err.Error()), http.StatusBadRequest)
			return
		}
	}

	log.Info().Int("count", len(inputs)).Msg("Processing batch categorization")
	results := h.categorizer.CategorizeBatch(r.Context(), inputs)
	respondJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// Status handles GET /api/ai/categorize.
func (h *CategorizeHandler) Status(w http.ResponseWriter, r *http.Request) {
	configured := h.categorizer.Configured()
	message := "AI categorization service is available"
	if !configured {
		message = "AI categorization service requires an API key configuration"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"configured": configured,
		"available":  configured,
		"message":    message,
	})
}

// Stats handles GET /api/ai/stats.
func (h *CategorizeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.categorizer.Stats())
}

// ClearCache handles DELETE /api/ai/cache.
func (h *CategorizeHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.categorizer.ClearCache()
	respondJSON(w, http.StatusOK, map[string]string{"message": "categorization cache cleared"})
}
