package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alktbihd/mentalhealth/internal/events"
	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/repositories"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// CalculateRequest carries raw questionnaire answers for server-side scoring.
type CalculateRequest struct {
	Answers []models.Answer `json:"answers" validate:"required,min=1,dive"`
}

// CalculateResponse is the scored result returned to the caller, together
// with the population average for comparison.
type CalculateResponse struct {
	Score           int      `json:"score"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	AverageScore    int      `json:"averageScore"`
}

// SubmitRequest carries a client-pre-scored submission.
type SubmitRequest struct {
	Score     int             `json:"score" validate:"min=0,max=100"`
	Answers   []models.Answer `json:"answers" validate:"required,min=1,dive"`
	Timestamp *time.Time      `json:"timestamp"`
}

// AssessmentService covers the two submission paths: server-side calculation
// with detached persistence, and explicit submission with synchronous
// persistence.
type AssessmentService interface {
	Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResponse, error)
	Submit(ctx context.Context, req *SubmitRequest) (uint, error)
}

type assessmentService struct {
	repo      repositories.AssessmentRepository
	scoring   ScoringService
	stats     StatsService
	queue     *events.PersistenceQueue
	publisher events.EventPublisher
	validator *utils.Validator
	logger    utils.Logger
}

func NewAssessmentService(
	repo repositories.AssessmentRepository,
	scoring ScoringService,
	stats StatsService,
	queue *events.PersistenceQueue,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) AssessmentService {
	return &assessmentService{
		repo:      repo,
		scoring:   scoring,
		stats:     stats,
		queue:     queue,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Calculate scores the answers, attaches the population average, and hands
// the record to the persistence queue. The response never waits on, and is
// never affected by, the outcome of the write.
func (s *assessmentService) Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	result, err := s.scoring.ComputeResults(req.Answers)
	if err != nil {
		return nil, err
	}

	response := &CalculateResponse{
		Score:           result.Score,
		Description:     result.Description,
		Recommendations: result.Recommendations,
		AverageScore:    s.stats.AverageOrDefault(ctx),
	}

	event := &events.AssessmentSubmittedEvent{
		Score:     result.Score,
		Answers:   req.Answers,
		Timestamp: time.Now(),
		Source:    "calculate",
	}
	if err := s.queue.Enqueue(event); err != nil {
		s.logger.LogError(err, "failed to enqueue assessment for persistence")
	}

	return response, nil
}

// Submit persists a pre-scored submission synchronously. Unlike Calculate,
// a store failure here surfaces to the caller.
func (s *assessmentService) Submit(ctx context.Context, req *SubmitRequest) (uint, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	assessment := &models.Assessment{
		Score:   req.Score,
		Answers: models.AnswerList(req.Answers),
	}
	if req.Timestamp != nil {
		assessment.Timestamp = *req.Timestamp
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return 0, fmt.Errorf("failed to submit assessment: %w", err)
	}

	s.stats.InvalidateCache(ctx)

	event := &events.AssessmentSubmittedEvent{
		Score:     assessment.Score,
		UserID:    assessment.UserID,
		Answers:   req.Answers,
		Timestamp: assessment.Timestamp,
		Source:    "submit",
	}
	if err := s.publisher.PublishAssessmentSubmitted(ctx, event); err != nil {
		s.logger.LogError(err, "failed to mirror submitted assessment", "assessment_id", assessment.ID)
	}

	return assessment.ID, nil
}
