package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/grade-service/internal/errors"
	"github.com/SAP-F-2025/grade-service/internal/models"
)

// CatalogValidator checks term catalogs beyond what struct tags can express.
type CatalogValidator struct{}

func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// ValidateTerm checks item id uniqueness, syllabus placement and thresholds.
func (v *CatalogValidator) ValidateTerm(term *models.Term) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	seen := make(map[string]int, len(term.Items))
	for i, item := range term.Items {
		id := strings.TrimSpace(item.ID)
		if first, dup := seen[id]; dup && id != "" {
			errs.Add(fmt.Sprintf("items[%d].id", i), fmt.Sprintf("duplicates items[%d].id", first), "unique", id)
			continue
		}
		seen[id] = i

		if item.Category != models.CategoryQuiz && strings.Contains(strings.ToLower(item.Label), models.SyllabusMarker) {
			errs.Add(fmt.Sprintf("items[%d].category", i), "syllabus quiz must be in the Quiz category", "syllabus_category", item.Category.String())
		}
	}

	thresholds, err := term.ThresholdList()
	if err != nil {
		errs.Add("thresholds", "must be a list of whole percentages", "json", string(term.Thresholds))
		return errs
	}
	errs = append(errs, v.ValidateThresholds(thresholds)...)

	return errs
}

// ValidateThresholds requires distinct values in (0, 100].
func (v *CatalogValidator) ValidateThresholds(thresholds []int) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	seen := make(map[int]bool, len(thresholds))
	for i, t := range thresholds {
		field := fmt.Sprintf("thresholds[%d]", i)
		if t <= 0 || t > 100 {
			errs.Add(field, "must be between 1 and 100", "grade_threshold", t)
			continue
		}
		if seen[t] {
			errs.Add(field, "must be unique", "unique", t)
			continue
		}
		seen[t] = true
	}
	return errs
}
