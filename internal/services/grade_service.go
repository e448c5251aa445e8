package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
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

const gradeCachePrefix = "grade:"

// GradeSettings carries the configured calculation defaults.
type GradeSettings struct {
	Options  grading.Options
	CacheTTL time.Duration
}

type gradeService struct {
	repo      repositories.CatalogRepository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator
	settings  GradeSettings
	now       func() time.Time
}

func NewGradeService(
	repo repositories.CatalogRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	settings GradeSettings,
) GradeService {
	return &gradeService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    NewServiceLogger(logger, LogConfig{Service: "grade-service", Component: "grades"}),
		validator: validator,
		settings:  settings,
		now:       time.Now,
	}
}

func (s *gradeService) Weights() *WeightsResponse {
	return &WeightsResponse{
		Weights:  grading.BaseWeights(),
		MaxDrops: grading.MaxDrops,
	}
}

func (s *gradeService) Calculate(ctx context.Context, termCode string, req *GradeRequest) (resp *GradeResponse, err error) {
	start := time.Now()
	defer func() {
		var attrs []slog.Attr
		if resp != nil {
			attrs = append(attrs, slog.Bool("cached", resp.Cached), slog.Int("entries", len(req.Entries)))
		}
		s.logger.LogOperation(ctx, "calculate_grade", termCode, time.Since(start), err, attrs...)
	}()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	term, err := s.repo.GetByCode(ctx, nil, termCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}

	opts, err := s.resolveOptions(term, req)
	if err != nil {
		return nil, err
	}

	registry, err := grading.NewRegistry(term.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, err.Error())
	}

	entries := s.buildEntries(registry, req.Entries)
	key := GradeCacheKey(term, opts, registry, entries)

	resp = &GradeResponse{
		TermCode: term.Code,
		Policies: AppliedPolicies{
			DropPolicy:           string(opts.DropPolicy),
			InactivePolicy:       string(opts.InactivePolicy),
			RequireEveryCategory: opts.RequireEveryCategory,
			Thresholds:           opts.Thresholds,
		},
	}

	var cached models.GradeResult
	switch cacheErr := s.cache.Get(ctx, key, &cached); {
	case cacheErr == nil:
		resp.GradeResult = &cached
		resp.Cached = true
	case !errors.Is(cacheErr, cache.ErrCacheMiss):
		s.logger.Warn(ctx, "Grade cache lookup failed", cacheErr, slog.String("term_code", term.Code))
	}

	if resp.GradeResult == nil {
		result, err := grading.NewAggregator(registry, opts).Calculate(entries)
		if err != nil {
			return nil, missingCategoryRule(err)
		}
		resp.GradeResult = result

		if err := s.cache.Set(ctx, key, result, s.settings.CacheTTL); err != nil {
			s.logger.Warn(ctx, "Grade cache store failed", err, slog.String("term_code", term.Code))
		}
	}

	event := events.NewGradeCalculatedEvent(term.Code, resp.GradeResult, len(entries), resp.Cached)
	if err := s.publisher.PublishGradeEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Grade event not published", err, slog.String("event_id", event.ID))
	}

	return resp, nil
}

// resolveOptions layers term thresholds and request overrides on the
// configured defaults.
func (s *gradeService) resolveOptions(term *models.Term, req *GradeRequest) (grading.Options, error) {
	opts := s.settings.Options

	thresholds, err := term.ThresholdList()
	if err != nil {
		return opts, fmt.Errorf("%w: thresholds: %s", ErrInvalidCatalog, err.Error())
	}
	opts.Thresholds = thresholds

	if req.DropPolicy != "" {
		if opts.DropPolicy, err = grading.ParseDropPolicy(req.DropPolicy); err != nil {
			return opts, NewValidationError("drop_policy", err.Error(), req.DropPolicy)
		}
	}
	if req.InactivePolicy != "" {
		if opts.InactivePolicy, err = grading.ParseInactiveCategoryPolicy(req.InactivePolicy); err != nil {
			return opts, NewValidationError("inactive_category_policy", err.Error(), req.InactivePolicy)
		}
	}
	return opts.Normalized(), nil
}

// buildEntries converts request entries, filling in inclusion from the due
// date when the caller left it out.
func (s *gradeService) buildEntries(registry *grading.Registry, reqs []EntryRequest) []models.ScoreEntry {
	now := s.now()
	entries := make([]models.ScoreEntry, 0, len(reqs))
	for _, r := range reqs {
		id := strings.TrimSpace(r.ItemID)
		entry := models.ScoreEntry{ItemID: id, Score: float64(r.Score)}
		switch {
		case r.Included != nil:
			entry.Included = *r.Included
		default:
			if item, ok := registry.Item(id); ok {
				entry.Included = item.IncludedByDefault(now)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// gradeSnapshot is the canonical input of one calculation.
type gradeSnapshot struct {
	Term      string              `json:"term"`
	Version   int64               `json:"version"`
	Drop      string              `json:"drop"`
	Inactive  string              `json:"inactive"`
	Require   bool                `json:"require"`
	Threshold []int               `json:"thresholds"`
	Entries   []models.ScoreEntry `json:"entries"`
}

// GradeCacheKey digests everything a result depends on. Entries are reduced
// to one clamped entry per known item in catalog order, so reordering a
// request or sending out-of-range scores does not change the key.
func GradeCacheKey(term *models.Term, opts grading.Options, registry *grading.Registry, entries []models.ScoreEntry) string {
	byID := make(map[string]models.ScoreEntry, len(entries))
	for _, e := range entries {
		byID[strings.TrimSpace(e.ItemID)] = e
	}

	snap := gradeSnapshot{
		Term:      term.Code,
		Version:   term.UpdatedAt.UnixNano(),
		Drop:      string(opts.DropPolicy),
		Inactive:  string(opts.InactivePolicy),
		Require:   opts.RequireEveryCategory,
		Threshold: opts.Thresholds,
		Entries:   make([]models.ScoreEntry, 0, len(byID)),
	}
	for _, item := range registry.Items() {
		e, ok := byID[item.ID]
		if !ok {
			continue
		}
		snap.Entries = append(snap.Entries, models.ScoreEntry{
			ItemID:   item.ID,
			Score:    item.EffectiveScore(e.Score),
			Included: e.Included || item.IsSyllabus(),
		})
	}

	data, _ := json.Marshal(snap)
	sum := sha256.Sum256(data)
	return gradeCachePrefix + term.Code + ":" + hex.EncodeToString(sum[:])
}

// gradeCachePattern matches every cached result of a term.
func gradeCachePattern(termCode string) string {
	return gradeCachePrefix + termCode + ":*"
}
