package grading

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/grade-service/internal/models"
)

// MaxDrops is the most quizzes a single calculation may drop.
const MaxDrops = 3

var baseWeights = [...]float64{
	models.CategoryQuiz:                0.05,
	models.CategoryProgrammingExercise: 0.05,
	models.CategoryHomework:            0.10,
	models.CategoryExam:                0.42,
	models.CategoryFinalExam:           0.38,
}

// BaseWeight returns the fixed course weight of a category.
func BaseWeight(c models.Category) float64 {
	if !c.Valid() {
		return 0
	}
	return baseWeights[c]
}

// BaseWeights returns a copy of the weight table.
func BaseWeights() map[models.Category]float64 {
	out := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = baseWeights[c]
	}
	return out
}

// DropPolicy decides which low quiz scores are removed.
type DropPolicy string

const (
	// DropGreedyBeneficial drops the lowest quizzes one at a time while each
	// drop raises the quiz average, stopping at the first one that does not.
	DropGreedyBeneficial DropPolicy = "greedy-beneficial"
	// DropAlwaysLowestN drops the lowest MaxDrops quizzes unconditionally.
	DropAlwaysLowestN DropPolicy = "always-lowest-n"
)

// InactiveCategoryPolicy decides what happens to categories with no entries.
type InactiveCategoryPolicy string

const (
	// InactiveRenormalize spreads an empty category's weight over the others.
	InactiveRenormalize InactiveCategoryPolicy = "renormalize"
	// InactiveZeroCount counts an empty category as 0%.
	InactiveZeroCount InactiveCategoryPolicy = "zero-count"
)

func ParseDropPolicy(s string) (DropPolicy, error) {
	switch p := DropPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DropGreedyBeneficial, nil
	case DropGreedyBeneficial, DropAlwaysLowestN:
		return p, nil
	default:
		return "", fmt.Errorf("unknown drop policy %q", s)
	}
}

func ParseInactiveCategoryPolicy(s string) (InactiveCategoryPolicy, error) {
	switch p := InactiveCategoryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return InactiveRenormalize, nil
	case InactiveRenormalize, InactiveZeroCount:
		return p, nil
	default:
		return "", fmt.Errorf("unknown inactive category policy %q", s)
	}
}

// Options tune a calculation. The zero value behaves like DefaultOptions.
type Options struct {
	DropPolicy     DropPolicy
	InactivePolicy InactiveCategoryPolicy
	// RequireEveryCategory fails a calculation when a coursework category
	// has no included item instead of returning a best-effort result.
	RequireEveryCategory bool
	// Thresholds are the target overall percentages; DefaultThresholds when empty.
	Thresholds []int
}

func DefaultOptions() Options {
	return Options{
		DropPolicy:     DropGreedyBeneficial,
		InactivePolicy: InactiveRenormalize,
		Thresholds:     append([]int(nil), models.DefaultThresholds...),
	}
}

// Normalized fills unset fields with their defaults and copies Thresholds.
func (o Options) Normalized() Options {
	if o.DropPolicy == "" {
		o.DropPolicy = DropGreedyBeneficial
	}
	if o.InactivePolicy == "" {
		o.InactivePolicy = InactiveRenormalize
	}
	if len(o.Thresholds) == 0 {
		o.Thresholds = models.DefaultThresholds
	}
	o.Thresholds = append([]int(nil), o.Thresholds...)
	return o
}
