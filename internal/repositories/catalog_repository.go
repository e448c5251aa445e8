package repositories

import (
	"context"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository stores term catalogs. Items always come back in
// catalog order.
type CatalogRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, term *models.Term) error
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Term, error)
	Delete(ctx context.Context, tx *gorm.DB, code string) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters TermFilters) ([]*models.Term, int64, error)

	// Item management. A blank name keeps the stored one.
	ReplaceItems(ctx context.Context, tx *gorm.DB, code, name string, items []models.GradedItem) error

	// Validation helpers
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error)
}
