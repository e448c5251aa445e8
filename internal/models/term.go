package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DefaultThresholds are the target overall percentages projected for the final exam.
var DefaultThresholds = []int{90, 80, 70}

// PassThreshold is the threshold reported as "pass".
const PassThreshold = 70

// Term is a course offering and its catalog of graded items.
type Term struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"uniqueIndex;size:64;not null" validate:"required,max=64,excludesall= /?#"`
	Name string `json:"name" gorm:"size:200" validate:"max=200"`

	// Thresholds overrides DefaultThresholds; []int.
	Thresholds datatypes.JSON `json:"thresholds,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []GradedItem `json:"items" gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
}

func (Term) TableName() string {
	return "terms"
}

// ThresholdList decodes Thresholds, falling back to DefaultThresholds.
func (t *Term) ThresholdList() ([]int, error) {
	if len(t.Thresholds) == 0 || string(t.Thresholds) == "null" {
		return append([]int(nil), DefaultThresholds...), nil
	}
	var thresholds []int
	if err := json.Unmarshal(t.Thresholds, &thresholds); err != nil {
		return nil, err
	}
	if len(thresholds) == 0 {
		return append([]int(nil), DefaultThresholds...), nil
	}
	return thresholds, nil
}

// SetThresholds encodes thresholds into the JSON column. An empty list clears it.
func (t *Term) SetThresholds(thresholds []int) error {
	if len(thresholds) == 0 {
		t.Thresholds = nil
		return nil
	}
	data, err := json.Marshal(thresholds)
	if err != nil {
		return err
	}
	t.Thresholds = datatypes.JSON(data)
	return nil
}
