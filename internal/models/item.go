package models

import (
	"strings"
	"time"
)

// SyllabusMarker identifies the syllabus quiz by label.
const SyllabusMarker = "syllabus quiz"

// GradedItem is one entry of a term catalog.
type GradedItem struct {
	TermID    uint       `json:"-" gorm:"primaryKey;autoIncrement:false"`
	ID        string     `json:"id" gorm:"primaryKey;size:64" validate:"required,max=64"`
	Label     string     `json:"label" gorm:"not null;size:200" validate:"required,max=200"`
	Category  Category   `json:"category" gorm:"type:varchar(32);not null;index" validate:"grade_category"`
	MaxScore  float64    `json:"max_score" gorm:"not null" validate:"min=0"`
	Droppable bool       `json:"droppable" gorm:"default:false"`
	DateLabel string     `json:"date,omitempty" gorm:"size:64"`
	Due       *time.Time `json:"due,omitempty"`
	Position  int        `json:"-" gorm:"not null;default:0"`
}

func (GradedItem) TableName() string {
	return "graded_items"
}

// IsSyllabus reports whether the item is the ungraded syllabus quiz, which
// is never droppable.
func (i GradedItem) IsSyllabus() bool {
	return i.Category == CategoryQuiz && strings.Contains(strings.ToLower(i.Label), SyllabusMarker)
}

// IncludedByDefault reports whether the item counts toward the grade when the
// caller did not say: anything already due is included.
func (i GradedItem) IncludedByDefault(now time.Time) bool {
	if i.Due == nil {
		return false
	}
	return !now.Before(*i.Due)
}

// ScoreEntry is one entered score for a catalog item.
type ScoreEntry struct {
	ItemID   string  `json:"item_id"`
	Score    float64 `json:"score"`
	Included bool    `json:"included"`
}

// EffectiveScore clamps an entered score to [0, MaxScore]. Non-finite input is 0.
func (i GradedItem) EffectiveScore(entered float64) float64 {
	entered = finiteOrZero(entered)
	switch {
	case entered < 0:
		return 0
	case entered > i.MaxScore:
		return i.MaxScore
	default:
		return entered
	}
}
