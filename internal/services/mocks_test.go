package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/cache"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(ctx context.Context, tx *gorm.DB, term *models.Term) error {
	args := m.Called(ctx, tx, term)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Term, error) {
	args := m.Called(ctx, tx, code)
	term, _ := args.Get(0).(*models.Term)
	return term, args.Error(1)
}

func (m *MockCatalogRepository) Delete(ctx context.Context, tx *gorm.DB, code string) error {
	args := m.Called(ctx, tx, code)
	return args.Error(0)
}

func (m *MockCatalogRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.TermFilters) ([]*models.Term, int64, error) {
	args := m.Called(ctx, tx, filters)
	terms, _ := args.Get(0).([]*models.Term)
	return terms, args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, code, name string, items []models.GradedItem) error {
	args := m.Called(ctx, tx, code, name, items)
	return args.Error(0)
}

func (m *MockCatalogRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	args := m.Called(ctx, tx, code)
	return args.Bool(0), args.Error(1)
}

// MockCacheService is a mock implementation of CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// mapCache stores JSON in a map, like the redis cache does.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *mapCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
