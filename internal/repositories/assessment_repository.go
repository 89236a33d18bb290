package repositories

import (
	"context"
	"errors"

	"github.com/alktbihd/mentalhealth/internal/models"
)

// ErrStoreUnavailable is returned when the backing store is not in the
// connected state. Read paths treat it as a signal to fall back to defaults.
var ErrStoreUnavailable = errors.New("assessment store unavailable")

// DefaultLatestLimit bounds the latest-submissions query when the caller
// supplies no limit.
const DefaultLatestLimit = 10

// AssessmentRepository is the persistence contract for assessment records.
type AssessmentRepository interface {
	// Create inserts a new assessment record.
	Create(ctx context.Context, assessment *models.Assessment) error

	// AverageScore returns the arithmetic mean of all stored scores, or nil
	// when no records exist.
	AverageScore(ctx context.Context) (*float64, error)

	// ScoreDistribution returns per-bucket submission counts.
	ScoreDistribution(ctx context.Context) (*models.ScoreDistribution, error)

	// UserHistory returns score/timestamp pairs for one user, newest first.
	UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)

	// Latest returns the most recent score/timestamp pairs across all users,
	// truncated to limit.
	Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error)

	// LatestAssessments returns the most recent full records, for export.
	LatestAssessments(ctx context.Context, limit int) ([]*models.Assessment, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)
}
