package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"linkstash/internal/models"
	"linkstash/internal/services"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type BookmarkHandler struct {
	service services.BookmarkService
}

func NewBookmarksHandler(service services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

func parseFilters(r *http.Request) (models.BookmarkFilters, error) {
	q := r.URL.Query()
	filters := models.BookmarkFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Page:     1,
		Limit:    defaultPageLimit,
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return filters, errors.New("page must be a positive integer")
		}
		filters.Page = page
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return filters, errors.New("limit must be an integer between 1 and 100")
		}
		filters.Limit = limit
	}
	return filters, nil
}

func bookmarkIDFromVars(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid bookmark ID")
	}
	return id, nil
}

func (h *BookmarkHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.service.List(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("Error getting bookmarks from service")
		respondError(w, "failed to list bookmarks", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
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
		log.Error().Err(err).Msg("Error adding bookmark via service")
		respondError(w, "failed to create bookmark", http.StatusInternalServerError)
		return
	}

	log.Info().Int64("bookmarkID", bm.ID).Msg("Successfully created bookmark")
	respondJSON(w, http.StatusCreated, bm)
}

func (h *BookmarkHandler) GetBookmarkByID(w http.ResponseWriter, r *http.Request) {
	id, err := bookmarkIDFromVars(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookmarkNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("bookmarkID", id).Msg("Error getting bookmark by ID")
		respondError(w, "failed to get bookmark", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := bookmarkIDFromVars(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookmarkNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case err.Error() == "no valid fields provided for update":
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Int64("bookmarkID", id).Msg("Error updating bookmark via service")
			respondError(w, "failed to update bookmark", http.StatusInternalServerError)
		}
		return
	}

	log.Info().Int64("bookmarkID", id).Msg("Bookmark updated successfully")
	respondJSON(w, http.StatusOK, bm)
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := bookmarkIDFromVars(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrBookmarkNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("bookmarkID", id).Msg("Error deleting bookmark via service")
		respondError(w, "failed to delete bookmark", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookmarkHandler) RecategorizeBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := bookmarkIDFromVars(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bm, err := h.service.Recategorize(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookmarkNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrAINotConfigured):
			respondError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			log.Error().Err(err).Int64("bookmarkID", id).Msg("Error re-categorizing bookmark")
			respondError(w, "failed to re-categorize bookmark", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, bm)
}

// RecategorizeBatch re-categorizes either an explicit ID list or, when the
// list is empty, one page of bookmarks still carrying the fallback category.
func (h *BookmarkHandler) RecategorizeBatch(w http.ResponseWriter, r *http.Request) {
	var req models.RecategorizeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var (
		bookmarks []models.Bookmark
		err       error
	)
	if len(req.IDs) > 0 {
		bookmarks, err = h.service.RecategorizeMany(r.Context(), req.IDs)
	} else {
		bookmarks, err = h.service.RecategorizeUncategorized(r.Context())
	}
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			respondError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		log.Error().Err(err).Msg("Error batch re-categorizing bookmarks")
		respondError(w, "failed to re-categorize bookmarks", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results": bookmarks,
		"count":   len(bookmarks),
	})
}
