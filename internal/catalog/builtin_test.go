package catalog

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFall2024Catalog(t *testing.T) {
	items := Fall2024Items()
	require.Len(t, items, 29)

	counts := make(map[models.Category]int)
	for _, item := range items {
		counts[item.Category]++
	}
	assert.Equal(t, map[models.Category]int{
		models.CategoryQuiz:                12,
		models.CategoryProgrammingExercise: 5,
		models.CategoryHomework:            9,
		models.CategoryExam:                3,
	}, counts)

	r, err := grading.NewRegistry(items)
	require.NoError(t, err)

	syllabus, ok := r.Item("peSyllabus")
	require.True(t, ok)
	assert.True(t, syllabus.IsSyllabus())
	assert.False(t, syllabus.Droppable)
	assert.Equal(t, 25.0, syllabus.MaxScore)

	quiz1, ok := r.Item("quiz1")
	require.True(t, ok)
	assert.True(t, quiz1.Droppable)

	hw1, ok := r.Item("hw1")
	require.True(t, ok)
	assert.False(t, hw1.Droppable)
}

func TestFall2024DueTimes(t *testing.T) {
	items := Fall2024Items()

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Due.Before(*items[i-1].Due), "%s is due before %s", items[i].ID, items[i-1].ID)
	}

	// 4:45pm EDT
	assert.True(t, items[0].Due.Equal(time.Date(2024, 8, 23, 20, 45, 0, 0, time.UTC)))
	// 8pm EST
	last := items[len(items)-1]
	assert.True(t, last.Due.Equal(time.Date(2024, 12, 4, 1, 0, 0, 0, time.UTC)))
}

func TestFall2024IsValid(t *testing.T) {
	assert.NoError(t, validator.New().Validate(Fall2024()))

	a, b := Fall2024Items(), Fall2024Items()
	*a[0].Due = a[0].Due.Add(time.Hour)
	assert.False(t, a[0].Due.Equal(*b[0].Due), "each call returns fresh due times")
}
