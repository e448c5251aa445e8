package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/cache"
	"github.com/SAP-F-2025/grade-service/internal/events"
	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/SAP-F-2025/grade-service/internal/repositories/memory"
	"github.com/SAP-F-2025/grade-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testTerm = "cs-test"

var testNow = time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)

func at(month time.Month, day int) *time.Time {
	t := time.Date(2024, month, day, 20, 0, 0, 0, time.UTC)
	return &t
}

func gradedQuiz(id string, due *time.Time) models.GradedItem {
	return models.GradedItem{ID: id, Label: "Quiz " + id, Category: models.CategoryQuiz, MaxScore: 5, Droppable: true, Due: due}
}

func testTermCatalog() *models.Term {
	return &models.Term{
		Code: testTerm,
		Name: "Test Term",
		Items: []models.GradedItem{
			gradedQuiz("q1", at(8, 23)), gradedQuiz("q2", at(8, 29)), gradedQuiz("q3", at(9, 7)),
			gradedQuiz("q4", at(9, 12)), gradedQuiz("q5", at(9, 14)), gradedQuiz("q6", at(9, 24)),
			{ID: "syl", Label: "Syllabus Quiz", Category: models.CategoryQuiz, MaxScore: 25, Due: at(8, 28)},
			{ID: "pe1", Label: "Programming Exercise 01", Category: models.CategoryProgrammingExercise, MaxScore: 100, Due: at(9, 4)},
			{ID: "hw1", Label: "Homework 01", Category: models.CategoryHomework, MaxScore: 100, Due: at(9, 1)},
			{ID: "ex1", Label: "Exam 01", Category: models.CategoryExam, MaxScore: 100, Due: at(10, 1)},
		},
	}
}

type gradeFixture struct {
	service   *gradeService
	repo      repositories.CatalogRepository
	publisher *events.MockEventPublisher
}

func newGradeFixture(t *testing.T, cacheService cache.CacheService, opts grading.Options) *gradeFixture {
	t.Helper()
	repo := memory.NewCatalogMemory(testTermCatalog())
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewGradeService(repo, cacheService, publisher, testLogger(), validator.New(), GradeSettings{
		Options:  opts,
		CacheTTL: time.Minute,
	}).(*gradeService)
	svc.now = func() time.Time { return testNow }
	return &gradeFixture{service: svc, repo: repo, publisher: publisher}
}

func included(id string, score float64) EntryRequest {
	yes := true
	return EntryRequest{ItemID: id, Score: models.LenientScore(score), Included: &yes}
}

func scenarioRequest() *GradeRequest {
	return &GradeRequest{Entries: []EntryRequest{
		included("q1", 5), included("q2", 5), included("q3", 4),
		included("q4", 2), included("q5", 1), included("q6", 3),
		included("syl", 20),
	}}
}

func TestGradeService_Calculate(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())

	resp, err := f.service.Calculate(context.Background(), testTerm, scenarioRequest())
	require.NoError(t, err)

	assert.Equal(t, testTerm, resp.TermCode)
	assert.False(t, resp.Cached)
	assert.Equal(t, "85.00%", resp.CurrentGradePercent)
	assert.Equal(t, []string{"Quiz q5", "Quiz q4", "Quiz q6"}, resp.DroppedItemLabels)
	assert.Equal(t, AppliedPolicies{
		DropPolicy:     "greedy-beneficial",
		InactivePolicy: "renormalize",
		Thresholds:     []int{90, 80, 70},
	}, resp.Policies)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventGradeCalculated, published[0].Type)
	data, ok := published[0].Data.(events.GradeCalculatedEvent)
	require.True(t, ok)
	assert.Equal(t, 7, data.EntryCount)
	assert.InDelta(t, 85.0, data.CurrentGrade, 1e-9)
}

func TestGradeService_CalculateDefaultInclusion(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
	ctx := context.Background()

	// ex1 is not due yet, so it only counts when asked for
	req := &GradeRequest{Entries: []EntryRequest{
		{ItemID: "hw1", Score: 80},
		{ItemID: "ex1", Score: 100},
	}}
	resp, err := f.service.Calculate(ctx, testTerm, req)
	require.NoError(t, err)
	assert.Equal(t, "80.00%", resp.CurrentGradePercent)
	assert.Equal(t, 0, resp.CategoryTotals[models.CategoryExam].Count)

	req.Entries[1] = included("ex1", 100)
	resp, err = f.service.Calculate(ctx, testTerm, req)
	require.NoError(t, err)
	assert.Equal(t, "96.15%", resp.CurrentGradePercent)

	no := false
	req.Entries[0].Included = &no
	resp, err = f.service.Calculate(ctx, testTerm, req)
	require.NoError(t, err)
	assert.Equal(t, "100.00%", resp.CurrentGradePercent)
}

func TestGradeService_CalculateRequestOverrides(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())

	req := scenarioRequest()
	req.InactivePolicy = "zero-count"
	resp, err := f.service.Calculate(context.Background(), testTerm, req)
	require.NoError(t, err)

	assert.Equal(t, "6.85%", resp.CurrentGradePercent)
	assert.Equal(t, "zero-count", resp.Policies.InactivePolicy)
}

func TestGradeService_CalculateTermThresholds(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
	ctx := context.Background()

	term := testTermCatalog()
	term.Code = "cs-thresholds"
	require.NoError(t, term.SetThresholds([]int{95, 60}))
	require.NoError(t, f.repo.Create(ctx, nil, term))

	resp, err := f.service.Calculate(ctx, "cs-thresholds", scenarioRequest())
	require.NoError(t, err)
	assert.Equal(t, []int{95, 60}, resp.Policies.Thresholds)
	require.Len(t, resp.Projections, 2)
	assert.Equal(t, "60", resp.Projections[1].Label)
}

func TestGradeService_CalculateUsesCache(t *testing.T) {
	store := newMapCache()
	f := newGradeFixture(t, store, grading.DefaultOptions())
	ctx := context.Background()

	first, err := f.service.Calculate(ctx, testTerm, scenarioRequest())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, store.len())

	// same snapshot in a different order
	req := scenarioRequest()
	req.Entries[0], req.Entries[6] = req.Entries[6], req.Entries[0]
	second, err := f.service.Calculate(ctx, testTerm, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.GradeResult, second.GradeResult)
	assert.Equal(t, 1, store.len())

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.True(t, published[1].Data.(events.GradeCalculatedEvent).Cached)
}

func TestGradeService_CalculateSurvivesCacheFailures(t *testing.T) {
	mockCache := new(MockCacheService)
	mockCache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(errors.New("connection refused"))

	f := newGradeFixture(t, mockCache, grading.DefaultOptions())
	resp, err := f.service.Calculate(context.Background(), testTerm, scenarioRequest())
	require.NoError(t, err)
	assert.Equal(t, "85.00%", resp.CurrentGradePercent)
	mockCache.AssertExpectations(t)
}

func TestGradeService_CalculateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown term", func(t *testing.T) {
		f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
		_, err := f.service.Calculate(ctx, "missing", &GradeRequest{})
		assert.True(t, IsNotFound(err))
	})

	t.Run("bad policy", func(t *testing.T) {
		f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
		_, err := f.service.Calculate(ctx, testTerm, &GradeRequest{DropPolicy: "drop-all"})
		var ve ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"drop_policy"}, ve.Fields())
	})

	t.Run("blank item id", func(t *testing.T) {
		f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
		_, err := f.service.Calculate(ctx, testTerm, &GradeRequest{Entries: []EntryRequest{{Score: 3}}})
		assert.True(t, IsValidation(err))
	})

	t.Run("missing category", func(t *testing.T) {
		opts := grading.DefaultOptions()
		opts.RequireEveryCategory = true
		f := newGradeFixture(t, cache.NewNoopCache(), opts)

		_, err := f.service.Calculate(ctx, testTerm, scenarioRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCategory)
		assert.True(t, IsBusinessRule(err))

		var bre *BusinessRuleError
		require.ErrorAs(t, err, &bre)
		assert.Equal(t, "require_every_category", bre.Rule)
		assert.Equal(t, []string{"PE", "HW", "Exam"}, bre.Context["missing"])
		assert.Empty(t, f.publisher.GetPublishedEvents())
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		repo.On("GetByCode", mock.Anything, mock.Anything, testTerm).Return(nil, errors.New("connection reset"))
		svc := NewGradeService(repo, cache.NewNoopCache(), events.NewMockEventPublisher(testLogger()), testLogger(), validator.New(), GradeSettings{})

		_, err := svc.Calculate(ctx, testTerm, &GradeRequest{})
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
		assert.False(t, IsValidation(err))
		repo.AssertExpectations(t)
	})
}

func TestGradeCacheKey(t *testing.T) {
	term := testTermCatalog()
	term.UpdatedAt = testNow
	registry := grading.MustRegistry(term.Items)
	opts := grading.DefaultOptions()

	entries := []models.ScoreEntry{
		{ItemID: "q1", Score: 4, Included: true},
		{ItemID: "hw1", Score: 90, Included: true},
	}
	key := GradeCacheKey(term, opts, registry, entries)
	assert.Contains(t, key, "grade:"+testTerm+":")

	reordered := []models.ScoreEntry{entries[1], entries[0], {ItemID: "ghost", Score: 1, Included: true}}
	assert.Equal(t, key, GradeCacheKey(term, opts, registry, reordered))

	clamped := []models.ScoreEntry{{ItemID: "q1", Score: 4, Included: true}, {ItemID: "hw1", Score: 90, Included: true}}
	withNegative := append(clamped, models.ScoreEntry{ItemID: "q2", Score: -3, Included: true})
	withZero := append(clamped, models.ScoreEntry{ItemID: "q2", Score: 0, Included: true})
	assert.Equal(t, GradeCacheKey(term, opts, registry, withNegative), GradeCacheKey(term, opts, registry, withZero))

	lowest := opts
	lowest.DropPolicy = grading.DropAlwaysLowestN
	assert.NotEqual(t, key, GradeCacheKey(term, lowest, registry, entries))

	changed := *term
	changed.UpdatedAt = term.UpdatedAt.Add(time.Second)
	assert.NotEqual(t, key, GradeCacheKey(&changed, opts, registry, entries))
}

func TestGradeService_Weights(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())
	w := f.service.Weights()

	assert.Equal(t, 3, w.MaxDrops)
	assert.Equal(t, 0.38, w.Weights[models.CategoryFinalExam])
	assert.Len(t, w.Weights, 5)
}

func TestGradeService_Report(t *testing.T) {
	f := newGradeFixture(t, cache.NewNoopCache(), grading.DefaultOptions())

	data, err := f.service.Report(context.Background(), testTerm, scenarioRequest())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Summary", "Categories", "Projections"}, wb.GetSheetList())

	summary, err := wb.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Term", testTerm}, summary[0])
	assert.Equal(t, []string{"Current Grade", "85.00%"}, summary[2])
	assert.Equal(t, []string{"Dropped Quizzes", "Quiz q5; Quiz q4; Quiz q6"}, summary[5])

	categories, err := wb.GetRows("Categories")
	require.NoError(t, err)
	require.Len(t, categories, 6)
	assert.Equal(t, "Quizzes", categories[1][0])
	assert.Equal(t, "Final Exam", categories[5][0])
	assert.Equal(t, models.NotApplicable, categories[5][2])
	assert.Equal(t, models.NotApplicable, categories[5][6])

	projections, err := wb.GetRows("Projections")
	require.NoError(t, err)
	require.Len(t, projections, 4)
	assert.Equal(t, []string{"90", "79.34%", "68.03%"}, []string{projections[1][0], projections[2][3], projections[3][3]})
	assert.Equal(t, "pass", projections[3][1])
}
