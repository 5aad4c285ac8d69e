package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/qgen-labs/survey-logic-service/internal/cache"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// MockProjectRepository is a mock implementation of repositories.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) List(ctx context.Context, filters repositories.ProjectFilters) ([]*models.Project, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) GetByCreator(ctx context.Context, creatorID uint, filters repositories.ProjectFilters) ([]*models.Project, int64, error) {
	args := m.Called(ctx, creatorID, filters)
	return args.Get(0).([]*models.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) UpdateStatus(ctx context.Context, id uint, status models.ProjectStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProjectRepository) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) GetProjectStats(ctx context.Context, id uint) (*repositories.ProjectStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ProjectStats), args.Error(1)
}

// MockQuestionRepository is a mock implementation of repositories.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, record *models.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByQID(ctx context.Context, projectID uint, qid string) (*models.QuestionRecord, error) {
	args := m.Called(ctx, projectID, qid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionRecord), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, record *models.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, projectID uint, qid string) error {
	args := m.Called(ctx, projectID, qid)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListByProject(ctx context.Context, projectID uint) ([]models.QuestionRecord, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionRecord), args.Error(1)
}

func (m *MockQuestionRepository) ReplaceAll(ctx context.Context, projectID uint, records []models.QuestionRecord) error {
	args := m.Called(ctx, projectID, records)
	return args.Error(0)
}

func (m *MockQuestionRepository) Reorder(ctx context.Context, projectID uint, positions []repositories.QuestionPosition) error {
	args := m.Called(ctx, projectID, positions)
	return args.Error(0)
}

func (m *MockQuestionRepository) ExistsByQID(ctx context.Context, projectID uint, qid string, excludeID *uint) (bool, error) {
	args := m.Called(ctx, projectID, qid, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) CountByProject(ctx context.Context, projectID uint) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCache is an in-memory cache.CacheService used to observe caching
// behavior without Redis.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	sets    int
	hits    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	c.sets++
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes++
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := pattern
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		prefix = pattern[:n-1]
	}
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
			c.deletes++
		}
	}
	return nil
}
