package repositories

import (
	"errors"

	"github.com/SAP-F-2025/grade-service/internal/models"
)

var (
	ErrTermNotFound      = errors.New("term not found")
	ErrTermAlreadyExists = errors.New("term already exists")
)

// ===== SHARED FILTER STRUCTS =====

type TermFilters struct {
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "code", "name", "created_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type TermSummary struct {
	Code       string                  `json:"code"`
	Name       string                  `json:"name"`
	ItemCount  int                     `json:"item_count"`
	ByCategory map[models.Category]int `json:"by_category"`
}

// Summarize counts the items of a term per category.
func Summarize(term *models.Term) TermSummary {
	s := TermSummary{
		Code:       term.Code,
		Name:       term.Name,
		ItemCount:  len(term.Items),
		ByCategory: make(map[models.Category]int, len(models.Categories)),
	}
	for _, item := range term.Items {
		s.ByCategory[item.Category]++
	}
	return s
}
