package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"linkstash/internal/ai"
	"linkstash/internal/metrics"
	"linkstash/internal/models"
	"linkstash/internal/repositories"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrDuplicateURL     = errors.New("bookmark with this URL already exists")
	ErrAINotConfigured  = errors.New("AI service not configured")
)

// uncategorizedPageSize bounds a single "recategorize all" pass.
const uncategorizedPageSize = 50

type BookmarkService interface {
	List(ctx context.Context, filters models.BookmarkFilters) (*models.BookmarkPage, error)
	Create(ctx context.Context, req models.CreateBookmarkRequest) (*models.Bookmark, error)
	Get(ctx context.Context, id int64) (*models.Bookmark, error)
	Update(ctx context.Context, id int64, req models.UpdateBookmarkRequest) (*models.Bookmark, error)
	Delete(ctx context.Context, id int64) error
	Recategorize(ctx context.Context, id int64) (*models.Bookmark, error)
	RecategorizeMany(ctx context.Context, ids []int64) ([]models.Bookmark, error)
	RecategorizeUncategorized(ctx context.Context) ([]models.Bookmark, error)
}

type bookmarkServiceImpl struct {
	bookmarkRepo repositories.BookmarkRepository
	tagRepo      repositories.TagRepository
	categorizer  *ai.Service
}

func NewBookmarkService(bookmarkRepo repositories.BookmarkRepository, tagRepo repositories.TagRepository, categorizer *ai.Service) BookmarkService {
	return &bookmarkServiceImpl{
		bookmarkRepo: bookmarkRepo,
		tagRepo:      tagRepo,
		categorizer:  categorizer,
	}
}

// confidencePercent converts a [0.0, 1.0] confidence into the integer
// percentage stored in the database.
func confidencePercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

func (s *bookmarkServiceImpl) withTags(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	tags, err := s.tagRepo.ForBookmark(ctx, bm.ID)
	if err != nil {
		return nil, err
	}
	bm.Tags = tags
	return bm, nil
}

func (s *bookmarkServiceImpl) List(ctx context.Context, filters models.BookmarkFilters) (*models.BookmarkPage, error) {
	log.Debug().Interface("filters", filters).Msg("Attempting to retrieve bookmarks")

	total, err := s.bookmarkRepo.Count(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("Error counting bookmarks")
		return nil, err
	}

	bookmarks, err := s.bookmarkRepo.Find(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("Error finding bookmarks")
		return nil, err
	}

	for i := range bookmarks {
		if _, err := s.withTags(ctx, &bookmarks[i]); err != nil {
			return nil, err
		}
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}

	offset := (filters.Page - 1) * filters.Limit
	return &models.BookmarkPage{
		Bookmarks: bookmarks,
		Total:     total,
		Page:      filters.Page,
		Limit:     filters.Limit,
		HasMore:   int64(offset+filters.Limit) < total,
	}, nil
}

func (s *bookmarkServiceImpl) Create(ctx context.Context, req models.CreateBookmarkRequest) (*models.Bookmark, error) {
	log.Debug().Str("url", req.URL).Msg("Attempting to add bookmark")

	if _, err := s.bookmarkRepo.FindByURL(ctx, req.URL); err == nil {
		log.Warn().Str("url", req.URL).Msg("Bookmark with this URL already exists")
		return nil, ErrDuplicateURL
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	category := req.AICategory
	confidence := 0
	if category == "" {
		// Categorization never blocks creation: the service resolves every
		// failure to the fallback category internally.
		result := s.categorizer.Categorize(ctx, ai.Input{
			URL:         req.URL,
			Title:       req.Title,
			Description: req.Description,
		})
		category = result.Category
		confidence = confidencePercent(result.Confidence)
		log.Info().Str("url", req.URL).Str("category", category).Int("confidence", confidence).Msg("AI categorization result")
	}

	bm := &models.Bookmark{
		URL:          req.URL,
		Title:        req.Title,
		Description:  req.Description,
		FaviconURL:   req.FaviconURL,
		AICategory:   category,
		AIConfidence: confidence,
		Notes:        req.Notes,
	}

	created, err := s.bookmarkRepo.Create(ctx, bm)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Msg("Error inserting bookmark")
		return nil, err
	}

	if len(req.Tags) > 0 {
		if err := s.tagRepo.AttachToBookmark(ctx, created.ID, req.Tags); err != nil {
			log.Error().Err(err).Int64("bookmarkID", created.ID).Msg("Error attaching tags")
			return nil, err
		}
	}

	metrics.BookmarkCreatedTotal.Inc()
	log.Info().Int64("bookmarkID", created.ID).Msg("Bookmark added successfully")
	return s.withTags(ctx, created)
}

func (s *bookmarkServiceImpl) Get(ctx context.Context, id int64) (*models.Bookmark, error) {
	bm, err := s.bookmarkRepo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookmarkNotFound
		}
		log.Error().Err(err).Int64("bookmarkID", id).Msg("Error finding bookmark by ID")
		return nil, fmt.Errorf("failed to retrieve bookmark: %w", err)
	}
	return s.withTags(ctx, bm)
}

func (s *bookmarkServiceImpl) Update(ctx context.Context, id int64, req models.UpdateBookmarkRequest) (*models.Bookmark, error) {
	log.Debug().Int64("bookmarkID", id).Msg("Attempting to update bookmark")

	if _, err := s.bookmarkRepo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.FaviconURL != nil {
		fields["favicon_url"] = *req.FaviconURL
	}
	if req.AICategory != nil {
		fields["ai_category"] = *req.AICategory
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 && req.Tags == nil {
		log.Warn().Int64("bookmarkID", id).Msg("No valid fields provided for bookmark update")
		return nil, fmt.Errorf("no valid fields provided for update")
	}

	if len(fields) > 0 {
		if _, err := s.bookmarkRepo.Update(ctx, id, fields); err != nil {
			log.Error().Err(err).Int64("bookmarkID", id).Msg("Error updating bookmark")
			return nil, err
		}
	}

	if req.Tags != nil {
		if err := s.tagRepo.ReplaceForBookmark(ctx, id, *req.Tags); err != nil {
			log.Error().Err(err).Int64("bookmarkID", id).Msg("Error replacing bookmark tags")
			return nil, err
		}
	}

	log.Info().Int64("bookmarkID", id).Msg("Bookmark updated successfully")
	return s.Get(ctx, id)
}

func (s *bookmarkServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.bookmarkRepo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("bookmarkID", id).Msg("Error deleting bookmark")
		return err
	}
	if deleted == 0 {
		return ErrBookmarkNotFound
	}
	metrics.BookmarkDeletedTotal.Inc()
	log.Info().Int64("bookmarkID", id).Msg("Bookmark deleted successfully")
	return nil
}

func (s *bookmarkServiceImpl) Recategorize(ctx context.Context, id int64) (*models.Bookmark, error) {
	bm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.categorizer.Configured() {
		return nil, ErrAINotConfigured
	}

	log.Info().Int64("bookmarkID", id).Str("url", bm.URL).Msg("Re-categorizing bookmark")
	result := s.categorizer.Categorize(ctx, ai.Input{
		URL:         bm.URL,
		Title:       bm.Title,
		Description: bm.Description,
	})

	if err := s.bookmarkRepo.UpdateCategorization(ctx, id, result.Category, confidencePercent(result.Confidence)); err != nil {
		log.Error().Err(err).Int64("bookmarkID", id).Msg("Failed to persist re-categorization")
		return nil, err
	}

	metrics.RecategorizationsTotal.Inc()
	return s.Get(ctx, id)
}

// RecategorizeMany re-categorizes the identified bookmarks through the batch
// orchestrator. Unknown IDs are skipped; per-item categorization failures
// resolve to fallback results, so the batch always completes.
func (s *bookmarkServiceImpl) RecategorizeMany(ctx context.Context, ids []int64) ([]models.Bookmark, error) {
	if !s.categorizer.Configured() {
		return nil, ErrAINotConfigured
	}

	var bookmarks []models.Bookmark
	for _, id := range ids {
		bm, err := s.bookmarkRepo.FindByID(ctx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				log.Warn().Int64("bookmarkID", id).Msg("Skipping unknown bookmark in batch re-categorization")
				continue
			}
			return nil, err
		}
		bookmarks = append(bookmarks, *bm)
	}

	return s.recategorizeBatch(ctx, bookmarks)
}

// RecategorizeUncategorized runs one page of bookmarks still carrying the
// fallback category through the batch orchestrator.
func (s *bookmarkServiceImpl) RecategorizeUncategorized(ctx context.Context) ([]models.Bookmark, error) {
	if !s.categorizer.Configured() {
		return nil, ErrAINotConfigured
	}

	bookmarks, err := s.bookmarkRepo.FindByCategory(ctx, ai.FallbackCategory, uncategorizedPageSize)
	if err != nil {
		return nil, err
	}
	return s.recategorizeBatch(ctx, bookmarks)
}

func (s *bookmarkServiceImpl) recategorizeBatch(ctx context.Context, bookmarks []models.Bookmark) ([]models.Bookmark, error) {
	if len(bookmarks) == 0 {
		return []models.Bookmark{}, nil
	}

	inputs := make([]ai.Input, len(bookmarks))
	for i, bm := range bookmarks {
		inputs[i] = ai.Input{URL: bm.URL, Title: bm.Title, Description: bm.Description}
	}

	log.Info().Int("count", len(inputs)).Msg("Batch re-categorizing bookmarks")
	results := s.categorizer.CategorizeBatch(ctx, inputs)

	updated := make([]models.Bookmark, 0, len(bookmarks))
	for i, bm := range bookmarks {
		result := results[i]
		if err := s.bookmarkRepo.UpdateCategorization(ctx, bm.ID, result.Category, confidencePercent(result.Confidence)); err != nil {
			log.Error().Err(err).Int64("bookmarkID", bm.ID).Msg("Failed to persist batch re-categorization")
			return nil, err
		}
		metrics.RecategorizationsTotal.Inc()
		refreshed, err := s.Get(ctx, bm.ID)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *refreshed)
	}
	return updated, nil
}
