package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"gorm.io/gorm"
)

type CatalogPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewCatalogPostgreSQL(db *gorm.DB) repositories.CatalogRepository {
	return &CatalogPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts a term and its items in one transaction.
func (c *CatalogPostgreSQL) Create(ctx context.Context, tx *gorm.DB, term *models.Term) error {
	return c.helpers.getDB(tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := c.ExistsByCode(ctx, tx, term.Code)
		if err != nil {
			return fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", repositories.ErrTermAlreadyExists, term.Code)
		}

		items := term.Items
		term.Items = nil
		if err := tx.Create(term).Error; err != nil {
			term.Items = items
			return fmt.Errorf("failed to create term: %w", err)
		}

		term.Items = positioned(term.ID, items)
		if len(term.Items) == 0 {
			return nil
		}
		if err := tx.Create(&term.Items).Error; err != nil {
			return fmt.Errorf("failed to create term items: %w", err)
		}
		return nil
	})
}

// GetByCode retrieves a term with its items in catalog order
func (c *CatalogPostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Term, error) {
	var term models.Term
	err := c.helpers.getDB(tx).WithContext(ctx).
		Preload("Items", orderedItems).
		Where("code = ?", code).
		First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrTermNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term %s: %w", code, err)
	}
	return &term, nil
}

func (c *CatalogPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, code string) error {
	result := c.helpers.getDB(tx).WithContext(ctx).
		Where("code = ?", code).
		Delete(&models.Term{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete term %s: %w", code, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrTermNotFound
	}
	return nil
}

func (c *CatalogPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.TermFilters) ([]*models.Term, int64, error) {
	var terms []*models.Term
	var total int64

	query := c.helpers.getDB(tx).WithContext(ctx).Model(&models.Term{})
	query = c.helpers.ApplyTermFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count terms: %w", err)
	}

	query = c.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Preload("Items", orderedItems).Find(&terms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list terms: %w", err)
	}

	return terms, total, nil
}

// ReplaceItems swaps the whole item list of a term and renames it when name
// is not blank.
func (c *CatalogPostgreSQL) ReplaceItems(ctx context.Context, tx *gorm.DB, code, name string, items []models.GradedItem) error {
	return c.helpers.getDB(tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var term models.Term
		err := tx.Select("id").Where("code = ?", code).First(&term).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrTermNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get term %s: %w", code, err)
		}

		if err := tx.Where("term_id = ?", term.ID).Delete(&models.GradedItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete term items: %w", err)
		}

		if rows := positioned(term.ID, items); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to create term items: %w", err)
			}
		}

		updates := map[string]interface{}{"updated_at": gorm.Expr("NOW()")}
		if name != "" {
			updates["name"] = name
		}
		if err := tx.Model(&models.Term{}).Where("id = ?", term.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update term %s: %w", code, err)
		}
		return nil
	})
}

func (c *CatalogPostgreSQL) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	var count int64
	err := c.helpers.getDB(tx).WithContext(ctx).
		Model(&models.Term{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// positioned copies items with their owning term and catalog position set.
func positioned(termID uint, items []models.GradedItem) []models.GradedItem {
	out := make([]models.GradedItem, len(items))
	for i, item := range items {
		item.TermID = termID
		item.Position = i
		out[i] = item
	}
	return out
}
