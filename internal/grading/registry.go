// Package grading holds the term catalog and the weighted grade calculation.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/SAP-F-2025/grade-service/internal/errors"
	"github.com/SAP-F-2025/grade-service/internal/models"
)

// Registry is an immutable, ordered catalog of graded items.
type Registry struct {
	items []models.GradedItem
	index map[string]int
}

// NewRegistry validates and copies items. The syllabus quiz is always stored
// as non-droppable.
func NewRegistry(items []models.GradedItem) (*Registry, error) {
	r := &Registry{
		items: make([]models.GradedItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}

	var errs apperrors.ValidationErrors
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		item.ID = strings.TrimSpace(item.ID)

		switch {
		case item.ID == "":
			errs.Add(field+".id", "is required", "required", item.ID)
			continue
		case !item.Category.Valid():
			errs.Add(field+".category", "must be a valid category", "grade_category", uint8(item.Category))
			continue
		case item.MaxScore < 0 || math.IsNaN(item.MaxScore) || math.IsInf(item.MaxScore, 0):
			errs.Add(field+".max_score", "must be a non-negative number", "min", item.MaxScore)
			continue
		}
		if _, dup := r.index[item.ID]; dup {
			errs.Add(field+".id", "must be unique", "unique", item.ID)
			continue
		}

		if item.IsSyllabus() {
			item.Droppable = false
		}
		if item.Due != nil {
			due := *item.Due
			item.Due = &due
		}
		item.Position = len(r.items)

		r.index[item.ID] = len(r.items)
		r.items = append(r.items, item)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return r, nil
}

// MustRegistry is NewRegistry for catalogs known to be valid.
func MustRegistry(items []models.GradedItem) *Registry {
	r, err := NewRegistry(items)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.items)
}

// Item looks an item up by id.
func (r *Registry) Item(id string) (models.GradedItem, bool) {
	i, ok := r.index[id]
	if !ok {
		return models.GradedItem{}, false
	}
	return r.items[i], true
}

// Items returns a copy of the catalog in its original order.
func (r *Registry) Items() []models.GradedItem {
	out := make([]models.GradedItem, len(r.items))
	copy(out, r.items)
	return out
}

// SortedByCategory returns the items grouped by category name, keeping
// catalog order inside each group.
func (r *Registry) SortedByCategory() []models.GradedItem {
	out := r.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category.String() < out[j].Category.String()
	})
	return out
}

// EffectiveScore clamps entered for the item with the given id.
func (r *Registry) EffectiveScore(id string, entered float64) (float64, bool) {
	item, ok := r.Item(id)
	if !ok {
		return 0, false
	}
	return item.EffectiveScore(entered), true
}
