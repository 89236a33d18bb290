package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/alktbihd/mentalhealth/internal/cache"
	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/repositories"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// DefaultAverageScore is substituted when the store is unreachable or holds
// no usable average for the calculate path.
const DefaultAverageScore = 75

const (
	cacheKeyAverage      = "stats:average"
	cacheKeyDistribution = "stats:distribution"
	statsCacheTTL        = 30 * time.Second
)

// StatsService aggregates stored assessments. Read paths prioritize
// availability: an unreachable store degrades to fixed defaults instead of
// failing the request.
type StatsService interface {
	// Average returns the mean stored score. It returns nil when the store
	// holds no records, and the default average when the store is
	// unreachable; neither case is an error.
	Average(ctx context.Context) (*float64, error)

	// AverageOrDefault returns the rounded mean, substituting
	// DefaultAverageScore when the store is empty or unreachable.
	AverageOrDefault(ctx context.Context) int

	// Distribution returns per-bucket counts, all zero when the store is
	// unreachable.
	Distribution(ctx context.Context) (*models.ScoreDistribution, error)

	// UserHistory returns one user's submissions, empty when unreachable.
	UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)

	// Latest returns the most recent submissions, empty when unreachable.
	Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error)

	// InvalidateCache drops cached aggregates after an insert.
	InvalidateCache(ctx context.Context)
}

type statsService struct {
	repo   repositories.AssessmentRepository
	cache  cache.CacheService
	logger utils.Logger
}

func NewStatsService(repo repositories.AssessmentRepository, cacheService cache.CacheService, logger utils.Logger) StatsService {
	return &statsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *statsService) Average(ctx context.Context) (*float64, error) {
	var cached float64
	if err := s.cache.Get(ctx, cacheKeyAverage, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("stats cache read failed", "key", cacheKeyAverage, "error", err)
	}

	avg, err := s.repo.AverageScore(ctx)
	if IsStoreUnavailable(err) {
		fallback := float64(DefaultAverageScore)
		return &fallback, nil
	}
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, cacheKeyAverage, *avg, statsCacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", "key", cacheKeyAverage, "error", err)
	}
	return avg, nil
}

func (s *statsService) AverageOrDefault(ctx context.Context) int {
	avg, err := s.Average(ctx)
	if err != nil {
		s.logger.LogError(err, "failed to fetch average score, using default")
		return DefaultAverageScore
	}
	if avg == nil {
		return DefaultAverageScore
	}
	return int(math.Round(*avg))
}

func (s *statsService) Distribution(ctx context.Context) (*models.ScoreDistribution, error) {
	var cached models.ScoreDistribution
	if err := s.cache.Get(ctx, cacheKeyDistribution, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("stats cache read failed", "key", cacheKeyDistribution, "error", err)
	}

	dist, err := s.repo.ScoreDistribution(ctx)
	if IsStoreUnavailable(err) {
		return &models.ScoreDistribution{}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKeyDistribution, dist, statsCacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", "key", cacheKeyDistribution, "error", err)
	}
	return dist, nil
}

func (s *statsService) UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	history, err := s.repo.UserHistory(ctx, userID)
	if IsStoreUnavailable(err) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return history, nil
}

func (s *statsService) Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	latest, err := s.repo.Latest(ctx, limit)
	if IsStoreUnavailable(err) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if latest == nil {
		latest = []models.HistoryEntry{}
	}
	return latest, nil
}

func (s *statsService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKeyAverage, cacheKeyDistribution); err != nil {
		s.logger.Warn("stats cache invalidation failed", "error", err)
	}
}
