package grading

import (
	"math"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/grade-service/internal/errors"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiz(id string, droppable bool) models.GradedItem {
	return models.GradedItem{ID: id, Label: "Quiz " + id, Category: models.CategoryQuiz, MaxScore: 5, Droppable: droppable}
}

// testCatalog has six droppable 5 point quizzes, the 25 point syllabus quiz
// and one 100 point item in every other category.
func testCatalog() []models.GradedItem {
	items := []models.GradedItem{
		quiz("q1", true), quiz("q2", true), quiz("q3", true),
		quiz("q4", true), quiz("q5", true), quiz("q6", true),
		{ID: "syl", Label: "Syllabus Quiz", Category: models.CategoryQuiz, MaxScore: 25, Droppable: true},
		{ID: "pe1", Label: "Programming Exercise 01", Category: models.CategoryProgrammingExercise, MaxScore: 100},
		{ID: "hw1", Label: "Homework 01", Category: models.CategoryHomework, MaxScore: 100},
		{ID: "ex1", Label: "Exam 01", Category: models.CategoryExam, MaxScore: 100},
		{ID: "fin", Label: "Final Exam", Category: models.CategoryFinalExam, MaxScore: 100},
	}
	return items
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(testCatalog())
	require.NoError(t, err)
	assert.Equal(t, 11, r.Len())

	syl, ok := r.Item("syl")
	require.True(t, ok)
	assert.True(t, syl.IsSyllabus())
	assert.False(t, syl.Droppable, "syllabus quiz is never droppable")

	q3, ok := r.Item("q3")
	require.True(t, ok)
	assert.Equal(t, 2, q3.Position)

	_, ok = r.Item("missing")
	assert.False(t, ok)
}

func TestNewRegistryRejectsBadItems(t *testing.T) {
	tests := []struct {
		name  string
		items []models.GradedItem
		field string
	}{
		{
			name:  "duplicate id",
			items: []models.GradedItem{quiz("q1", true), quiz("q1", true)},
			field: "items[1].id",
		},
		{
			name:  "blank id",
			items: []models.GradedItem{quiz("  ", true)},
			field: "items[0].id",
		},
		{
			name:  "unknown category",
			items: []models.GradedItem{{ID: "x", Label: "x", Category: models.Category(42), MaxScore: 1}},
			field: "items[0].category",
		},
		{
			name:  "negative max",
			items: []models.GradedItem{{ID: "x", Label: "x", Category: models.CategoryHomework, MaxScore: -1}},
			field: "items[0].max_score",
		},
		{
			name:  "infinite max",
			items: []models.GradedItem{{ID: "x", Label: "x", Category: models.CategoryHomework, MaxScore: math.Inf(1)}},
			field: "items[0].max_score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.items)
			require.Error(t, err)

			var ve apperrors.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields(), tt.field)
		})
	}
}

func TestRegistryItemsIsACopy(t *testing.T) {
	due := time.Date(2024, time.August, 23, 16, 45, 0, 0, time.UTC)
	items := []models.GradedItem{{ID: "q1", Label: "Quiz 1", Category: models.CategoryQuiz, MaxScore: 5, Due: &due}}
	r := MustRegistry(items)

	items[0].Label = "changed"
	*items[0].Due = due.Add(time.Hour)

	got := r.Items()
	assert.Equal(t, "Quiz 1", got[0].Label)
	assert.Equal(t, due, *got[0].Due)

	got[0].MaxScore = 100
	again, _ := r.Item("q1")
	assert.Equal(t, 5.0, again.MaxScore)
}

func TestRegistrySortedByCategory(t *testing.T) {
	r := MustRegistry(testCatalog())

	var order []string
	for _, item := range r.SortedByCategory() {
		order = append(order, item.ID)
	}
	assert.Equal(t, []string{"ex1", "fin", "hw1", "pe1", "q1", "q2", "q3", "q4", "q5", "q6", "syl"}, order)
}

func TestRegistryEffectiveScore(t *testing.T) {
	r := MustRegistry(testCatalog())

	tests := []struct {
		entered float64
		want    float64
	}{
		{3, 3},
		{7, 5},
		{-2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		got, ok := r.EffectiveScore("q1", tt.entered)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "entered %v", tt.entered)
	}

	_, ok := r.EffectiveScore("nope", 3)
	assert.False(t, ok)
}
