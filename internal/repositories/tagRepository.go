package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"linkstash/internal/database"
	"linkstash/internal/metrics"
	"linkstash/internal/models"
)

type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	ForBookmark(ctx context.Context, bookmarkID int64) ([]models.Tag, error)
	AttachToBookmark(ctx context.Context, bookmarkID int64, names []string) error
	ReplaceForBookmark(ctx context.Context, bookmarkID int64, names []string) error
}

type tagRepository struct {
	db database.Service
}

func NewTagRepository(db database.Service) TagRepository {
	return &tagRepository{db: db}
}

func tagQueryTimer(queryType string, status *string) *prometheus.Timer {
	return prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		metrics.DBQueryDurationSeconds.WithLabelValues(queryType, "tag", *status).Observe(v)
	}))
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	status := "success"
	defer tagQueryTimer("getOrCreate", &status).ObserveDuration()

	if _, err := r.db.DB().ExecContext(ctx,
		"INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("getOrCreate", "tag").Inc()
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	var tag models.Tag
	err := r.db.DB().QueryRowContext(ctx,
		"SELECT id, name, color, created_at FROM tags WHERE name = ?", name).
		Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("getOrCreate", "tag").Inc()
		return nil, fmt.Errorf("failed to retrieve tag: %w", err)
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	status := "success"
	defer tagQueryTimer("list", &status).ObserveDuration()

	rows, err := r.db.DB().QueryContext(ctx,
		"SELECT id, name, color, created_at FROM tags ORDER BY name")
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("list", "tag").Inc()
		return nil, fmt.Errorf("failed to retrieve tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues("list", "tag").Inc()
			return nil, fmt.Errorf("error decoding tags: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) ForBookmark(ctx context.Context, bookmarkID int64) ([]models.Tag, error) {
	status := "success"
	defer tagQueryTimer("forBookmark", &status).ObserveDuration()

	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.created_at
		 FROM bookmark_tags bt INNER JOIN tags t ON bt.tag_id = t.id
		 WHERE bt.bookmark_id = ? ORDER BY t.name`, bookmarkID)
	if err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("forBookmark", "tag").Inc()
		return nil, fmt.Errorf("failed to retrieve bookmark tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues("forBookmark", "tag").Inc()
			return nil, fmt.Errorf("error decoding bookmark tags: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) AttachToBookmark(ctx context.Context, bookmarkID int64, names []string) error {
	status := "success"
	defer tagQueryTimer("attach", &status).ObserveDuration()

	for _, name := range names {
		tag, err := r.GetOrCreate(ctx, name)
		if err != nil {
			return err
		}
		if _, err := r.db.DB().ExecContext(ctx,
			"INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			bookmarkID, tag.ID); err != nil {
			status = "error"
			metrics.DBQueryErrorsTotal.WithLabelValues("attach", "tag").Inc()
			return fmt.Errorf("failed to attach tag %q: %w", name, err)
		}
	}
	return nil
}

func (r *tagRepository) ReplaceForBookmark(ctx context.Context, bookmarkID int64, names []string) error {
	status := "success"
	defer tagQueryTimer("replace", &status).ObserveDuration()

	if _, err := r.db.DB().ExecContext(ctx,
		"DELETE FROM bookmark_tags WHERE bookmark_id = ?", bookmarkID); err != nil {
		status = "error"
		metrics.DBQueryErrorsTotal.WithLabelValues("replace", "tag").Inc()
		return fmt.Errorf("failed to clear bookmark tags: %w", err)
	}
	if len(names) == 0 {
		return nil
	}
	return r.AttachToBookmark(ctx, bookmarkID, names)
}
