package models

// Result text for projections that need no numeric score.
const (
	ProjectionNotPossible = "Not possible"
	ProjectionNotNeeded   = "Not needed"
	NotApplicable         = "N/A"
)

// CategoryTotals accumulates included scores for one category.
type CategoryTotals struct {
	Earned float64 `json:"earned"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// ThresholdProjection is the final-exam score needed for one target grade.
type ThresholdProjection struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
	// Required is the needed final-exam fraction before it is turned into text.
	Required float64 `json:"required"`
	Text     string  `json:"text"`
}

// GradeResult is the outcome of one calculation.
type GradeResult struct {
	CurrentGrade             float64                     `json:"current_grade"`
	CurrentGradePercent      string                      `json:"current_grade_percent"`
	PerCategoryPercent       map[Category]string         `json:"per_category_percent"`
	CategoryTotals           map[Category]CategoryTotals `json:"category_totals"`
	ActiveWeights            map[Category]float64        `json:"active_weights"`
	RequiredFinalByThreshold map[int]string              `json:"required_final_by_threshold"`
	Projections              []ThresholdProjection       `json:"projections"`
	DroppedItemLabels        []string                    `json:"dropped_item_labels"`
}
