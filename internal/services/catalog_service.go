package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/cache"
	"github.com/SAP-F-2025/grade-service/internal/events"
	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/SAP-F-2025/grade-service/internal/validator"
)

type catalogService struct {
	repo      repositories.CatalogRepository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewCatalogService(
	repo repositories.CatalogRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) CatalogService {
	return &catalogService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    NewServiceLogger(logger, LogConfig{Service: "grade-service", Component: "catalog"}),
		validator: validator,
		now:       time.Now,
	}
}

// ===== CORE OPERATIONS =====

func (s *catalogService) List(ctx context.Context, filters repositories.TermFilters) (resp *TermListResponse, err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "list_terms", "", time.Since(start), err) }()

	terms, total, err := s.repo.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	resp = &TermListResponse{
		Terms: make([]repositories.TermSummary, 0, len(terms)),
		Total: total,
	}
	for _, term := range terms {
		resp.Terms = append(resp.Terms, repositories.Summarize(term))
	}
	return resp, nil
}

func (s *catalogService) Get(ctx context.Context, termCode string) (resp *TermResponse, err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "get_term", termCode, time.Since(start), err) }()

	term, err := s.repo.GetByCode(ctx, nil, termCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}
	return s.toTermResponse(term)
}

func (s *catalogService) Create(ctx context.Context, req *CreateTermRequest) (resp *TermResponse, err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "create_term", req.Code, time.Since(start), err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	term := &models.Term{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
	}
	if err := term.SetThresholds(req.Thresholds); err != nil {
		return nil, fmt.Errorf("failed to encode thresholds: %w", err)
	}
	for _, r := range req.Items {
		category, err := models.ParseCategory(r.Category)
		if err != nil {
			return nil, NewValidationError("category", err.Error(), r.Category)
		}
		term.Items = append(term.Items, models.GradedItem{
			ID:        strings.TrimSpace(r.ID),
			Label:     strings.TrimSpace(r.Label),
			Category:  category,
			MaxScore:  r.MaxScore,
			Droppable: r.Droppable,
			DateLabel: r.DateLabel,
			Due:       r.Due,
		})
	}

	if err := s.prepareTerm(term); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, term); err != nil {
		return nil, fmt.Errorf("failed to create term: %w", err)
	}

	s.logger.Debug(ctx, "Term created", slog.String("term_code", term.Code), slog.Int("items", len(term.Items)))
	return s.toTermResponse(term)
}

// Delete removes a term and every cached result computed against it.
func (s *catalogService) Delete(ctx context.Context, termCode string) (err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "delete_term", termCode, time.Since(start), err) }()

	if err := s.repo.Delete(ctx, nil, termCode); err != nil {
		return fmt.Errorf("failed to delete term: %w", err)
	}
	if err := s.cache.DeletePattern(ctx, gradeCachePattern(termCode)); err != nil {
		s.logger.Warn(ctx, "Grade cache invalidation failed", err, slog.String("term_code", termCode))
	}
	return nil
}

// prepareTerm validates a term and normalizes its items through a registry.
func (s *catalogService) prepareTerm(term *models.Term) error {
	if err := s.validator.Validate(term); err != nil {
		return err
	}
	registry, err := grading.NewRegistry(term.Items)
	if err != nil {
		return err
	}
	term.Items = registry.Items()
	return nil
}

func (s *catalogService) toTermResponse(term *models.Term) (*TermResponse, error) {
	registry, err := grading.NewRegistry(term.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, err.Error())
	}
	thresholds, err := term.ThresholdList()
	if err != nil {
		return nil, fmt.Errorf("%w: thresholds: %s", ErrInvalidCatalog, err.Error())
	}

	now := s.now()
	resp := &TermResponse{
		Code:       term.Code,
		Name:       term.Name,
		Thresholds: thresholds,
		UpdatedAt:  term.UpdatedAt,
		Items:      make([]ItemResponse, 0, registry.Len()),
	}
	for _, item := range registry.SortedByCategory() {
		resp.Items = append(resp.Items, ItemResponse{
			GradedItem:        item,
			Syllabus:          item.IsSyllabus(),
			IncludedByDefault: item.IncludedByDefault(now),
		})
	}
	return resp, nil
}
