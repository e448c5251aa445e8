package postgres

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"gorm.io/gorm"
)

const defaultPageSize = 50

var termSortColumns = map[string]string{
	"code":       "code",
	"name":       "name",
	"created_at": "created_at",
}

// SharedHelpers holds query helpers used by every postgres repository.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// getDB prefers the caller's transaction.
func (h *SharedHelpers) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return h.db
}

// ApplyTermFilters applies the search filter to a terms query
func (h *SharedHelpers) ApplyTermFilters(query *gorm.DB, filters repositories.TermFilters) *gorm.DB {
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := fmt.Sprintf("%%%s%%", search)
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and ordering. Unknown sort
// columns fall back to code.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	column, ok := termSortColumns[sortBy]
	if !ok {
		column = "code"
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	query = query.Order(column + " " + direction)

	if limit <= 0 {
		limit = defaultPageSize
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
