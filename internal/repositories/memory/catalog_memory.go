// Package memory keeps term catalogs in process memory. It backs the
// service when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"gorm.io/gorm"
)

const defaultPageSize = 50

type CatalogMemory struct {
	mu     sync.RWMutex
	terms  map[string]*models.Term
	nextID uint
}

// NewCatalogMemory returns a repository holding copies of the seed terms.
// The transaction argument of every method is ignored.
func NewCatalogMemory(seed ...*models.Term) repositories.CatalogRepository {
	m := &CatalogMemory{terms: make(map[string]*models.Term, len(seed))}
	for _, term := range seed {
		_ = m.Create(context.Background(), nil, cloneTerm(term))
	}
	return m
}

func (m *CatalogMemory) Create(_ context.Context, _ *gorm.DB, term *models.Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.terms[term.Code]; exists {
		return fmt.Errorf("%w: %s", repositories.ErrTermAlreadyExists, term.Code)
	}

	m.nextID++
	now := time.Now()
	term.ID = m.nextID
	term.CreatedAt = now
	term.UpdatedAt = now
	term.Items = positioned(term.ID, term.Items)

	m.terms[term.Code] = cloneTerm(term)
	return nil
}

func (m *CatalogMemory) GetByCode(_ context.Context, _ *gorm.DB, code string) (*models.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term, ok := m.terms[code]
	if !ok {
		return nil, repositories.ErrTermNotFound
	}
	return cloneTerm(term), nil
}

func (m *CatalogMemory) Delete(_ context.Context, _ *gorm.DB, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.terms[code]; !ok {
		return repositories.ErrTermNotFound
	}
	delete(m.terms, code)
	return nil
}

func (m *CatalogMemory) List(_ context.Context, _ *gorm.DB, filters repositories.TermFilters) ([]*models.Term, int64, error) {
	m.mu.RLock()
	matched := make([]*models.Term, 0, len(m.terms))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, term := range m.terms {
		if search != "" &&
			!strings.Contains(strings.ToLower(term.Code), search) &&
			!strings.Contains(strings.ToLower(term.Name), search) {
			continue
		}
		matched = append(matched, cloneTerm(term))
	}
	m.mu.RUnlock()

	less := func(a, b *models.Term) bool { return a.Code < b.Code }
	switch filters.SortBy {
	case "name":
		less = func(a, b *models.Term) bool { return a.Name < b.Name }
	case "created_at":
		less = func(a, b *models.Term) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := strings.EqualFold(filters.SortOrder, "desc")
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := int64(len(matched))
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	start := filters.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *CatalogMemory) ReplaceItems(_ context.Context, _ *gorm.DB, code, name string, items []models.GradedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	term, ok := m.terms[code]
	if !ok {
		return repositories.ErrTermNotFound
	}
	term.Items = positioned(term.ID, items)
	if name != "" {
		term.Name = name
	}
	term.UpdatedAt = time.Now()
	return nil
}

func (m *CatalogMemory) ExistsByCode(_ context.Context, _ *gorm.DB, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.terms[code]
	return ok, nil
}

func positioned(termID uint, items []models.GradedItem) []models.GradedItem {
	out := make([]models.GradedItem, len(items))
	for i, item := range items {
		item.TermID = termID
		item.Position = i
		if item.Due != nil {
			due := *item.Due
			item.Due = &due
		}
		out[i] = item
	}
	return out
}

func cloneTerm(term *models.Term) *models.Term {
	c := *term
	c.Items = positioned(term.ID, term.Items)
	if term.Thresholds != nil {
		c.Thresholds = append(c.Thresholds[:0:0], term.Thresholds...)
	}
	return &c
}
