package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkstash/internal/ai"
	"linkstash/internal/database"
	"linkstash/internal/models"
	"linkstash/internal/repositories"
)

func testService(t *testing.T, provider ai.Provider) BookmarkService {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping service test in short mode")
	}
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := ai.DefaultConfig()
	cfg.BatchDelay = time.Millisecond
	categorizer := ai.NewService(cfg, provider)

	return NewBookmarkService(
		repositories.NewBookmarkRepository(db),
		repositories.NewTagRepository(db),
		categorizer,
	)
}

func TestCreateBookmarkHeuristicCategorization(t *testing.T) {
	// No provider configured: creation still succeeds via the heuristic.
	svc := testService(t, nil)
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{
		URL:   "https://github.com/x/y",
		Title: "X",
		Tags:  []string{"golang"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Development", bm.AICategory)
	assert.Equal(t, 60, bm.AIConfidence)
	require.Len(t, bm.Tags, 1)
	assert.Equal(t, "golang", bm.Tags[0].Name)
}

func TestCreateBookmarkExplicitCategorySkipsAI(t *testing.T) {
	svc := testService(t, ai.ProviderFunc(func(ctx context.Context, in ai.Input) (ai.Result, error) {
		t.Fatal("provider must not be called when a category is supplied")
		return ai.Result{}, nil
	}))

	bm, err := svc.Create(context.Background(), models.CreateBookmarkRequest{
		URL:        "https://x.example",
		AICategory: "Reference",
	})
	require.NoError(t, err)
	assert.Equal(t, "Reference", bm.AICategory)
	assert.Zero(t, bm.AIConfidence)
}

func TestCreateBookmarkDuplicateURL(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example"})
	assert.ErrorIs(t, err, ErrDuplicateURL)
}

func TestUpdateBookmark(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example", Title: "Old"})
	require.NoError(t, err)

	title := "New"
	tags := []string{"later"}
	updated, err := svc.Update(ctx, bm.ID, models.UpdateBookmarkRequest{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	require.Len(t, updated.Tags, 1)

	_, err = svc.Update(ctx, bm.ID, models.UpdateBookmarkRequest{})
	assert.Error(t, err, "empty update must be rejected")

	_, err = svc.Update(ctx, 9999, models.UpdateBookmarkRequest{Title: &title})
	assert.ErrorIs(t, err, ErrBookmarkNotFound)
}

func TestDeleteBookmark(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bm.ID))
	assert.ErrorIs(t, svc.Delete(ctx, bm.ID), ErrBookmarkNotFound)
	_, err = svc.Get(ctx, bm.ID)
	assert.ErrorIs(t, err, ErrBookmarkNotFound)
}

func TestRecategorizeRequiresConfiguredAI(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example"})
	require.NoError(t, err)

	_, err = svc.Recategorize(ctx, bm.ID)
	assert.ErrorIs(t, err, ErrAINotConfigured)

	_, err = svc.RecategorizeUncategorized(ctx)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestRecategorizeBookmark(t *testing.T) {
	svc := testService(t, ai.ProviderFunc(func(ctx context.Context, in ai.Input) (ai.Result, error) {
		return ai.Result{Category: "Technology", Confidence: 0.85, Reasoning: "tech content"}, nil
	}))
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example", AICategory: "Uncategorized"})
	require.NoError(t, err)

	updated, err := svc.Recategorize(ctx, bm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Technology", updated.AICategory)
	assert.Equal(t, 85, updated.AIConfidence)
}

func TestRecategorizeUncategorized(t *testing.T) {
	svc := testService(t, ai.ProviderFunc(func(ctx context.Context, in ai.Input) (ai.Result, error) {
		return ai.Result{Category: "Science", Confidence: 0.9}, nil
	}))
	ctx := context.Background()

	for _, url := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		_, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: url, AICategory: "Uncategorized"})
		require.NoError(t, err)
	}
	// Already categorized; must be left alone.
	keep, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://d.example", AICategory: "Reference"})
	require.NoError(t, err)

	updated, err := svc.RecategorizeUncategorized(ctx)
	require.NoError(t, err)
	assert.Len(t, updated, 3)
	for _, bm := range updated {
		assert.Equal(t, "Science", bm.AICategory)
		assert.Equal(t, 90, bm.AIConfidence)
	}

	unchanged, err := svc.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reference", unchanged.AICategory)
}

func TestRecategorizeManySkipsUnknownIDs(t *testing.T) {
	svc := testService(t, ai.ProviderFunc(func(ctx context.Context, in ai.Input) (ai.Result, error) {
		return ai.Result{Category: "News", Confidence: 0.8}, nil
	}))
	ctx := context.Background()

	bm, err := svc.Create(ctx, models.CreateBookmarkRequest{URL: "https://x.example", AICategory: "Uncategorized"})
	require.NoError(t, err)

	updated, err := svc.RecategorizeMany(ctx, []int64{bm.ID, 9999})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "News", updated[0].AICategory)
}
