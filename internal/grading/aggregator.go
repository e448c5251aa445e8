package grading

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/grade-service/internal/models"
)

// ErrMissingCategory is returned when RequireEveryCategory is set and a
// coursework category has nothing included.
var ErrMissingCategory = errors.New("at least one item per category required")

// projectionTolerance absorbs float noise around the 0% and 100% bounds.
const projectionTolerance = 1e-9

// MissingCategoryError names the coursework categories with no included item.
type MissingCategoryError struct {
	Categories []models.Category
}

func (e *MissingCategoryError) Error() string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = c.Title()
	}
	return fmt.Sprintf("%s: missing %s", ErrMissingCategory, strings.Join(names, ", "))
}

func (e *MissingCategoryError) Unwrap() error {
	return ErrMissingCategory
}

// Aggregator computes grade results against one registry. It holds no
// per-call state and is safe for concurrent use.
type Aggregator struct {
	registry *Registry
	opts     Options
}

func NewAggregator(registry *Registry, opts Options) *Aggregator {
	return &Aggregator{registry: registry, opts: opts.Normalized()}
}

func (a *Aggregator) Options() Options {
	return a.opts.Normalized()
}

type quizScore struct {
	item  models.GradedItem
	score float64
}

// Calculate aggregates one snapshot of entered scores. Entries for unknown
// items are ignored; when an item appears twice the last entry wins.
func (a *Aggregator) Calculate(entries []models.ScoreEntry) (*models.GradeResult, error) {
	byID := make(map[string]models.ScoreEntry, len(entries))
	for _, e := range entries {
		byID[strings.TrimSpace(e.ItemID)] = e
	}

	totals := make(map[models.Category]models.CategoryTotals, len(models.Categories))
	var pool []quizScore

	for _, item := range a.registry.items {
		e, ok := byID[item.ID]
		if !ok {
			continue
		}
		syllabus := item.IsSyllabus()
		if !e.Included && !syllabus {
			continue
		}

		score := item.EffectiveScore(e.Score)
		t := totals[item.Category]
		t.Earned += score
		t.Max += item.MaxScore
		t.Count++
		totals[item.Category] = t

		if item.Category == models.CategoryQuiz && !syllabus {
			pool = append(pool, quizScore{item: item, score: score})
		}
	}

	if a.opts.RequireEveryCategory {
		var missing []models.Category
		for _, c := range models.CourseworkCategories {
			if totals[c].Count == 0 {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			return nil, &MissingCategoryError{Categories: missing}
		}
	}

	quiz, dropped := a.applyDrops(totals[models.CategoryQuiz], pool)
	totals[models.CategoryQuiz] = quiz

	fractions := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		// every category is reported, empty ones as zero totals
		t := totals[c]
		fractions[c] = safeDivide(t.Earned, t.Max)
		totals[c] = t
	}

	// A category emptied by drops has nothing left to weigh and is inactive
	// like one that was never entered.
	activeBase := 0.0
	active := make(map[models.Category]bool, len(models.CourseworkCategories))
	for _, c := range models.CourseworkCategories {
		if a.opts.InactivePolicy == InactiveZeroCount || (totals[c].Count > 0 && totals[c].Max > 0) {
			active[c] = true
			activeBase += BaseWeight(c)
		}
	}

	weights := make(map[models.Category]float64, len(models.CourseworkCategories))
	current := 0.0
	for _, c := range models.CourseworkCategories {
		if active[c] {
			weights[c] = safeDivide(BaseWeight(c), activeBase)
		} else {
			weights[c] = 0
		}
		current += fractions[c] * weights[c]
	}
	current *= 100

	result := &models.GradeResult{
		CurrentGrade:             current,
		CurrentGradePercent:      formatPercent(current),
		PerCategoryPercent:       make(map[models.Category]string, len(models.Categories)),
		CategoryTotals:           totals,
		ActiveWeights:            weights,
		RequiredFinalByThreshold: make(map[int]string, len(a.opts.Thresholds)),
		Projections:              make([]models.ThresholdProjection, 0, len(a.opts.Thresholds)),
		DroppedItemLabels:        dropped,
	}

	for _, c := range models.Categories {
		if c == models.CategoryFinalExam && totals[c].Max <= 0 {
			result.PerCategoryPercent[c] = models.NotApplicable
			continue
		}
		result.PerCategoryPercent[c] = formatPercent(fractions[c] * 100)
	}

	// Weights as they will stand once the final exam is graded.
	withFinalBase := activeBase + BaseWeight(models.CategoryFinalExam)
	finalWeight := safeDivide(BaseWeight(models.CategoryFinalExam), withFinalBase)
	completed := 0.0
	for _, c := range models.CourseworkCategories {
		if active[c] {
			completed += fractions[c] * safeDivide(BaseWeight(c), withFinalBase)
		}
	}

	for _, threshold := range a.opts.Thresholds {
		required := safeDivide(float64(threshold)/100-completed, finalWeight)
		p := models.ThresholdProjection{
			Threshold: threshold,
			Label:     thresholdLabel(threshold),
			Required:  required,
			Text:      projectionText(required),
		}
		result.Projections = append(result.Projections, p)
		result.RequiredFinalByThreshold[threshold] = p.Text
	}

	return result, nil
}

// applyDrops removes low quiz scores from the quiz totals according to the
// drop policy. The syllabus quiz never enters pool, so it always stays in
// the returned totals.
func (a *Aggregator) applyDrops(quiz models.CategoryTotals, pool []quizScore) (models.CategoryTotals, []string) {
	dropped := make([]string, 0, MaxDrops)

	var candidates []quizScore
	for _, q := range pool {
		if q.item.Droppable {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return quiz, dropped
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	earned, possible := quiz.Earned, quiz.Max
	for i := 0; i < len(candidates) && i < MaxDrops; i++ {
		c := candidates[i]
		newEarned := earned - c.score
		newPossible := possible - c.item.MaxScore

		if a.opts.DropPolicy == DropGreedyBeneficial {
			if newPossible <= 0 || newEarned/newPossible <= safeDivide(earned, possible) {
				break
			}
		}

		earned, possible = newEarned, newPossible
		dropped = append(dropped, c.item.Label)
	}

	quiz.Earned, quiz.Max = earned, possible
	return quiz, dropped
}

// safeDivide treats a zero denominator as 1.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return num
	}
	return num / den
}

func formatPercent(v float64) string {
	if v == 0 {
		v = 0 // no "-0.00%"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func projectionText(required float64) string {
	switch {
	case required > 1+projectionTolerance:
		return models.ProjectionNotPossible
	case required < -projectionTolerance:
		return models.ProjectionNotNeeded
	case required < 0:
		required = 0
	case required > 1:
		required = 1
	}
	return formatPercent(required * 100)
}

func thresholdLabel(threshold int) string {
	if threshold == models.PassThreshold {
		return "pass"
	}
	return fmt.Sprintf("%d", threshold)
}
