package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func term(code, name string, items ...models.GradedItem) *models.Term {
	return &models.Term{Code: code, Name: name, Items: items}
}

func TestCatalogMemory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := NewCatalogMemory()

	in := term("cs-fall-2024", "Fall 2024",
		models.GradedItem{ID: "quiz1", Label: "Quiz 1", MaxScore: 5, Due: &due},
		models.GradedItem{ID: "hw1", Label: "Homework 1", Category: models.CategoryHomework, MaxScore: 100},
	)
	require.NoError(t, repo.Create(ctx, nil, in))
	assert.NotZero(t, in.ID)

	got, err := repo.GetByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[1].Position)
	assert.Equal(t, in.ID, got.Items[0].TermID)

	// stored values are isolated from both the input and previous reads
	*in.Items[0].Due = due.Add(time.Hour)
	*got.Items[0].Due = due.Add(48 * time.Hour)
	got.Items[0].Label = "changed"
	again, err := repo.GetByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)
	assert.Equal(t, "Quiz 1", again.Items[0].Label)
	assert.True(t, again.Items[0].Due.Equal(due))

	err = repo.Create(ctx, nil, term("cs-fall-2024", "again"))
	assert.ErrorIs(t, err, repositories.ErrTermAlreadyExists)

	_, err = repo.GetByCode(ctx, nil, "missing")
	assert.ErrorIs(t, err, repositories.ErrTermNotFound)
}

func TestCatalogMemory_List(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogMemory(
		term("cs-fall-2024", "Fall 2024"),
		term("cs-spring-2025", "Spring 2025"),
		term("math-fall-2024", "Calculus"),
	)

	all, total, err := repo.List(ctx, nil, repositories.TermFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"cs-fall-2024", "cs-spring-2025", "math-fall-2024"}, codes(all))

	found, total, err := repo.List(ctx, nil, repositories.TermFilters{Search: "FALL"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"cs-fall-2024", "math-fall-2024"}, codes(found))

	page, total, err := repo.List(ctx, nil, repositories.TermFilters{SortBy: "name", SortOrder: "desc", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"cs-spring-2025", "cs-fall-2024"}, codes(page))

	tail, _, err := repo.List(ctx, nil, repositories.TermFilters{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestCatalogMemory_ReplaceItemsAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogMemory(term("cs-fall-2024", "Fall 2024", models.GradedItem{ID: "quiz1", MaxScore: 5}))

	before, err := repo.GetByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceItems(ctx, nil, "cs-fall-2024", "", []models.GradedItem{
		{ID: "hw1", Category: models.CategoryHomework, MaxScore: 100},
		{ID: "hw2", Category: models.CategoryHomework, MaxScore: 100},
	}))

	after, err := repo.GetByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)
	require.Len(t, after.Items, 2)
	assert.Equal(t, "hw2", after.Items[1].ID)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
	assert.Equal(t, "Fall 2024", after.Name)

	require.NoError(t, repo.ReplaceItems(ctx, nil, "cs-fall-2024", "Fall 2024 (revised)", after.Items))
	renamed, err := repo.GetByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)
	assert.Equal(t, "Fall 2024 (revised)", renamed.Name)
	assert.Len(t, renamed.Items, 2)

	assert.ErrorIs(t, repo.ReplaceItems(ctx, nil, "missing", "", nil), repositories.ErrTermNotFound)

	exists, err := repo.ExistsByCode(ctx, nil, "cs-fall-2024")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, nil, "cs-fall-2024"))
	assert.ErrorIs(t, repo.Delete(ctx, nil, "cs-fall-2024"), repositories.ErrTermNotFound)
}

func codes(terms []*models.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Code
	}
	return out
}
