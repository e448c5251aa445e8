package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
)

// GradeService calculates grades against stored term catalogs.
type GradeService interface {
	Weights() *WeightsResponse
	Calculate(ctx context.Context, termCode string, req *GradeRequest) (*GradeResponse, error)
	Report(ctx context.Context, termCode string, req *GradeRequest) ([]byte, error)
}

// CatalogService manages term catalogs and their spreadsheet form.
type CatalogService interface {
	List(ctx context.Context, filters repositories.TermFilters) (*TermListResponse, error)
	Get(ctx context.Context, termCode string) (*TermResponse, error)
	Create(ctx context.Context, req *CreateTermRequest) (*TermResponse, error)
	Delete(ctx context.Context, termCode string) error

	ImportCatalog(ctx context.Context, reader io.Reader, filename string, req *ImportCatalogRequest) (*ImportResult, error)
	ExportCatalog(ctx context.Context, termCode string) ([]byte, error)
}

// ===== REQUESTS =====

type GradeRequest struct {
	Entries        []EntryRequest `json:"entries" validate:"dive"`
	DropPolicy     string         `json:"drop_policy,omitempty" validate:"drop_policy"`
	InactivePolicy string         `json:"inactive_category_policy,omitempty" validate:"inactive_policy"`
}

// EntryRequest is one entered score. A nil Included means "included once due".
type EntryRequest struct {
	ItemID   string              `json:"item_id" validate:"required,max=64"`
	Score    models.LenientScore `json:"score"`
	Included *bool               `json:"included,omitempty"`
}

type CreateTermRequest struct {
	Code       string        `json:"code" validate:"required,max=64,excludesall= /?#"`
	Name       string        `json:"name" validate:"max=200"`
	Thresholds []int         `json:"thresholds,omitempty"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ItemRequest struct {
	ID        string     `json:"id" validate:"required,max=64"`
	Label     string     `json:"label" validate:"required,max=200"`
	Category  string     `json:"category" validate:"required,grade_category"`
	MaxScore  float64    `json:"max_score" validate:"min=0"`
	Droppable bool       `json:"droppable"`
	DateLabel string     `json:"date,omitempty" validate:"max=64"`
	Due       *time.Time `json:"due,omitempty"`
}

// ImportCatalogRequest names the term a spreadsheet is imported into. An
// existing term has its items replaced.
type ImportCatalogRequest struct {
	Code string `form:"code" json:"code" validate:"required,max=64,excludesall= /?#"`
	Name string `form:"name" json:"name" validate:"max=200"`
}

// ===== RESPONSES =====

type WeightsResponse struct {
	Weights  map[models.Category]float64 `json:"weights"`
	MaxDrops int                         `json:"max_drops"`
}

type AppliedPolicies struct {
	DropPolicy           string `json:"drop_policy"`
	InactivePolicy       string `json:"inactive_category_policy"`
	RequireEveryCategory bool   `json:"require_every_category"`
	Thresholds           []int  `json:"thresholds"`
}

type GradeResponse struct {
	TermCode string `json:"term_code"`
	*models.GradeResult
	Policies AppliedPolicies `json:"policies"`
	Cached   bool            `json:"cached"`
}

type ItemResponse struct {
	models.GradedItem
	Syllabus          bool `json:"syllabus"`
	IncludedByDefault bool `json:"included_by_default"`
}

type TermResponse struct {
	Code       string         `json:"code"`
	Name       string         `json:"name"`
	Thresholds []int          `json:"thresholds"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Items      []ItemResponse `json:"items"`
}

type TermListResponse struct {
	Terms []repositories.TermSummary `json:"terms"`
	Total int64                      `json:"total"`
}

type ImportResult struct {
	TermCode     string                        `json:"term_code"`
	Replaced     bool                          `json:"replaced"`
	TotalRows    int                           `json:"total_rows"`
	SuccessCount int                           `json:"success_count"`
	ErrorCount   int                           `json:"error_count"`
	Errors       []models.ImportValidationError `json:"errors,omitempty"`
}
