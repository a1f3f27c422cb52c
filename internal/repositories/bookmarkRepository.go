package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"linkstash/internal/database"
	"linkstash/internal/metrics"
	"linkstash/internal/models"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error)
	FindByID(ctx context.Context, id int64) (*models.Bookmark, error)
	FindByURL(ctx context.Context, url string) (*models.Bookmark, error)
	Find(ctx context.Context, filters models.BookmarkFilters) ([]models.Bookmark, error)
	Count(ctx context.Context, filters models.BookmarkFilters) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	UpdateCategorization(ctx context.Context, id int64, category string, confidence int) error
	FindByCategory(ctx context.Context, category string, limit int) ([]models.Bookmark, error)
}

type bookmarkRepository struct {
	db database.Service
}

func NewBookmarkRepository(db database.Service) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func bookmarkQueryTimer(queryType string, status *string) *prometheus.Timer {
	return prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		metrics.DBQueryDurationSeconds.WithLabelValues(queryType, "bookmark", *status).Observe(v)
	}))
}

const bookmarkColumns = "id, url, title, description, favicon_url, ai_category, ai_confidence, notes, created_at, updated_at"

func scanBookmark(row interface{ Scan(...any) error }) (*models.Bookmark, error) {
	var bm models.Bookmark
	err := row.Scan(&bm.ID, &bm.URL, &bm.Title, &bm.Description, &bm.FaviconURL,
		&bm.AICategory, &bm.AIConfidence, &bm.Notes, &bm.CreatedAt, &bm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &bm, nil
}

func (r *bookmarkRepository) Create(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	status := "success"
	defer bookmarkQueryTimer("create", &status).ObserveDuration()

	result, err := r.db.DB().ExecContext(ctx,
		`INSERT INTO bookmarks (url, title, description, favicon_url, ai_category, ai_confidence, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bm.URL, bm.Title, bm.Description, bm.FaviconURL, bm.AICategory, bm.AIConfidence, bm.Notes)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("create", "bookmark").Inc()
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("create", "bookmark").Inc()
		return nil, fmt.Errorf("failed to read inserted bookmark id: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *bookmarkRepository) FindByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	status := "success"
	defer bookmarkQueryTimer("findByID", &status).ObserveDuration()

	bm, err := scanBookmark(r.db.DB().QueryRowContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?", id))
	if err != nil {
		if err != sql.ErrNoRows {
			status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues("findByID", "bookmark").Inc()
		}
		return nil, err
	}
	return bm, nil
}

func (r *bookmarkRepository) FindByURL(ctx context.Context, url string) (*models.Bookmark, error) {
	status := "success"
	defer bookmarkQueryTimer("findByURL", &status).ObserveDuration()

	bm, err := scanBookmark(r.db.DB().QueryRowContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE url = ?", url))
	if err != nil {
		if err != sql.ErrNoRows {
			status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues("findByURL", "bookmark").Inc()
		}
		return nil, err
	}
	return bm, nil
}

func filterClause(filters models.BookmarkFilters) (string, []any) {
	var conditions []string
	var args []any

	if filters.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filters.Category != "" {
		conditions = append(conditions, "ai_category = ?")
		args = append(args, filters.Category)
	}
	if filters.DateFrom != "" {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filters.DateFrom)
	}
	if filters.DateTo != "" {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filters.DateTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *bookmarkRepository) Find(ctx context.Context, filters models.BookmarkFilters) ([]models.Bookmark, error) {
	status := "success"
	defer bookmarkQueryTimer("find", &status).ObserveDuration()

	where, args := filterClause(filters)
	query := "SELECT " + bookmarkColumns + " FROM bookmarks" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("find", "bookmark").Inc()
		return nil, fmt.Errorf("failed to retrieve bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows, &status, "find")
}

func (r *bookmarkRepository) Count(ctx context.Context, filters models.BookmarkFilters) (int64, error) {
	status := "success"
	defer bookmarkQueryTimer("count", &status).ObserveDuration()

	where, args := filterClause(filters)
	var total int64
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks"+where, args...).Scan(&total)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("count", "bookmark").Inc()
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return total, nil
}

func (r *bookmarkRepository) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	status := "success"
	defer bookmarkQueryTimer("update", &status).ObserveDuration()

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for column, value := range fields {
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	result, err := r.db.DB().ExecContext(ctx,
		"UPDATE bookmarks SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("update", "bookmark").Inc()
		return 0, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return result.RowsAffected()
}

func (r *bookmarkRepository) Delete(ctx context.Context, id int64) (int64, error) {
	status := "success"
	defer bookmarkQueryTimer("delete", &status).ObserveDuration()

	result, err := r.db.DB().ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("delete", "bookmark").Inc()
		return 0, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return result.RowsAffected()
}

func (r *bookmarkRepository) UpdateCategorization(ctx context.Context, id int64, category string, confidence int) error {
	status := "success"
	defer bookmarkQueryTimer("updateCategorization", &status).ObserveDuration()

	_, err := r.db.DB().ExecContext(ctx,
		"UPDATE bookmarks SET ai_category = ?, ai_confidence = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		category, confidence, id)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("updateCategorization", "bookmark").Inc()
		return fmt.Errorf("failed to update bookmark categorization: %w", err)
	}
	return nil
}

func (r *bookmarkRepository) FindByCategory(ctx context.Context, category string, limit int) ([]models.Bookmark, error) {
	status := "success"
	defer bookmarkQueryTimer("findByCategory", &status).ObserveDuration()

	rows, err := r.db.DB().QueryContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE ai_category = ? ORDER BY created_at DESC LIMIT ?",
		category, limit)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("findByCategory", "bookmark").Inc()
		return nil, fmt.Errorf("failed to retrieve bookmarks by category: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows, &status, "findByCategory")
}

func collectBookmarks(rows *sql.Rows, status *string, queryType string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	for rows.Next() {
		bm, err := scanBookmark(rows)
		if err != nil {
			*status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues(queryType, "bookmark").Inc()
			return nil, fmt.Errorf("error decoding bookmarks: %w", err)
		}
		bookmarks = append(bookmarks, *bm)
	}
	if err := rows.Err(); err != nil {
		*status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues(queryType, "bookmark").Inc()
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}
