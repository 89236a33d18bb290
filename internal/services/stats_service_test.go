package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alktbihd/mentalhealth/internal/cache"
	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/repositories"
)

// MockAssessmentRepository is a mock implementation of AssessmentRepository.
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) AverageScore(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockAssessmentRepository) ScoreDistribution(ctx context.Context) (*models.ScoreDistribution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreDistribution), args.Error(1)
}

func (m *MockAssessmentRepository) UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

func (m *MockAssessmentRepository) Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

func (m *MockAssessmentRepository) LatestAssessments(ctx context.Context, limit int) ([]*models.Assessment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCache is an in-memory CacheService for tests.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func newStatsFixture() (*MockAssessmentRepository, *memoryCache, StatsService) {
	repo := new(MockAssessmentRepository)
	cacheService := newMemoryCache()
	svc := NewStatsService(repo, cacheService, testLogger())
	return repo, cacheService, svc
}

func TestStatsService_Average_EmptyStore(t *testing.T) {
	repo, _, svc := newStatsFixture()
	repo.On("AverageScore", mock.Anything).Return(nil, nil)

	avg, err := svc.Average(context.Background())
	require.NoError(t, err)
	assert.Nil(t, avg)

	assert.Equal(t, DefaultAverageScore, svc.AverageOrDefault(context.Background()))
}

func TestStatsService_Average_StoreUnavailable(t *testing.T) {
	repo, _, svc := newStatsFixture()
	repo.On("AverageScore", mock.Anything).Return(nil, repositories.ErrStoreUnavailable)

	avg, err := svc.Average(context.Background())
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, float64(DefaultAverageScore), *avg)
}

func TestStatsService_Average_WithData(t *testing.T) {
	repo, _, svc := newStatsFixture()
	stored := 82.4
	repo.On("AverageScore", mock.Anything).Return(&stored, nil)

	avg, err := svc.Average(context.Background())
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 82.4, *avg, 0.001)

	assert.Equal(t, 82, svc.AverageOrDefault(context.Background()))
}

func TestStatsService_Average_CacheHit(t *testing.T) {
	repo, cacheService, svc := newStatsFixture()
	require.NoError(t, cacheService.Set(context.Background(), "stats:average", 91.0, time.Minute))

	avg, err := svc.Average(context.Background())
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 91.0, *avg, 0.001)

	repo.AssertNotCalled(t, "AverageScore", mock.Anything)
}

func TestStatsService_Distribution_StoreUnavailable(t *testing.T) {
	repo, _, svc := newStatsFixture()
	repo.On("ScoreDistribution", mock.Anything).Return(nil, repositories.ErrStoreUnavailable)

	dist, err := svc.Distribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.ScoreDistribution{}, dist)
}

func TestStatsService_Distribution_WithData(t *testing.T) {
	repo, _, svc := newStatsFixture()
	stored := &models.ScoreDistribution{Excellent: 2, Good: 5, Moderate: 1, Fair: 3, Poor: 1}
	repo.On("ScoreDistribution", mock.Anything).Return(stored, nil)

	dist, err := svc.Distribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, dist)
	assert.Equal(t, int64(12), dist.Total())
}

func TestStatsService_UserHistory_StoreUnavailable(t *testing.T) {
	repo, _, svc := newStatsFixture()
	repo.On("UserHistory", mock.Anything, "user-1").Return(nil, repositories.ErrStoreUnavailable)

	history, err := svc.UserHistory(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStatsService_Latest_StoreUnavailable(t *testing.T) {
	repo, _, svc := newStatsFixture()
	repo.On("Latest", mock.Anything, 0).Return(nil, repositories.ErrStoreUnavailable)

	latest, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestStatsService_InvalidateCache(t *testing.T) {
	repo, cacheService, svc := newStatsFixture()
	_ = repo

	require.NoError(t, cacheService.Set(context.Background(), "stats:average", 91.0, time.Minute))
	require.NoError(t, cacheService.Set(context.Background(), "stats:distribution", models.ScoreDistribution{Good: 1}, time.Minute))

	svc.InvalidateCache(context.Background())

	assert.Empty(t, cacheService.entries)
}
