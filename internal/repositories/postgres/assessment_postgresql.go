package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/repositories"
)

type AssessmentPostgreSQL struct {
	conn *repositories.Connection
}

func NewAssessmentPostgreSQL(conn *repositories.Connection) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{conn: conn}
}

// Create inserts a new assessment record.
func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	db, err := a.conn.DB()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// AverageScore returns the mean score across all records, nil when empty.
func (a *AssessmentPostgreSQL) AverageScore(ctx context.Context) (*float64, error) {
	db, err := a.conn.DB()
	if err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	row := db.WithContext(ctx).
		Model(&models.Assessment{}).
		Select("avg(score)").
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}

	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// ScoreDistribution counts records per score bucket in a single pass.
func (a *AssessmentPostgreSQL) ScoreDistribution(ctx context.Context) (*models.ScoreDistribution, error) {
	db, err := a.conn.DB()
	if err != nil {
		return nil, err
	}

	var dist models.ScoreDistribution
	err = db.WithContext(ctx).
		Model(&models.Assessment{}).
		Select(
			"count(*) FILTER (WHERE score >= 90) AS excellent, " +
				"count(*) FILTER (WHERE score >= 75 AND score < 90) AS good, " +
				"count(*) FILTER (WHERE score >= 60 AND score < 75) AS moderate, " +
				"count(*) FILTER (WHERE score >= 40 AND score < 60) AS fair, " +
				"count(*) FILTER (WHERE score < 40) AS poor",
		).
		Scan(&dist).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute score distribution: %w", err)
	}

	return &dist, nil
}

// UserHistory returns one user's submissions, newest first.
func (a *AssessmentPostgreSQL) UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	db, err := a.conn.DB()
	if err != nil {
		return nil, err
	}

	var history []models.HistoryEntry
	err = db.WithContext(ctx).
		Model(&models.Assessment{}).
		Select("score, timestamp").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Scan(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user history: %w", err)
	}

	return history, nil
}

// Latest returns the most recent submissions across all users.
func (a *AssessmentPostgreSQL) Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	db, err := a.conn.DB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = repositories.DefaultLatestLimit
	}

	var latest []models.HistoryEntry
	err = db.WithContext(ctx).
		Model(&models.Assessment{}).
		Select("score, timestamp").
		Order("timestamp DESC").
		Limit(limit).
		Scan(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest assessments: %w", err)
	}

	return latest, nil
}

// LatestAssessments returns the most recent full records, for export.
func (a *AssessmentPostgreSQL) LatestAssessments(ctx context.Context, limit int) ([]*models.Assessment, error) {
	db, err := a.conn.DB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = repositories.DefaultLatestLimit
	}

	var assessments []*models.Assessment
	err = db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest assessments: %w", err)
	}

	return assessments, nil
}

// Count returns the total number of stored records.
func (a *AssessmentPostgreSQL) Count(ctx context.Context) (int64, error) {
	db, err := a.conn.DB()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Assessment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}
	return count, nil
}
