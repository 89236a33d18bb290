package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alktbihd/mentalhealth/internal/events"
	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type assessmentFixture struct {
	repo      *MockAssessmentRepository
	publisher *events.MockEventPublisher
	queue     *events.PersistenceQueue
	service   AssessmentService
	cancel    context.CancelFunc
}

func newAssessmentFixture(t *testing.T) *assessmentFixture {
	t.Helper()

	repo := new(MockAssessmentRepository)
	publisher := &events.MockEventPublisher{}
	logger := testLogger()
	stats := NewStatsService(repo, newMemoryCache(), logger)
	queue := events.NewPersistenceQueue(repo, stats, publisher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, queue.Start(ctx))
	t.Cleanup(func() {
		cancel()
		queue.Close()
	})

	service := NewAssessmentService(
		repo, NewScoringService(), stats, queue, publisher, utils.NewValidator(), logger)

	return &assessmentFixture{
		repo:      repo,
		publisher: publisher,
		queue:     queue,
		service:   service,
		cancel:    cancel,
	}
}

func TestAssessmentService_Calculate(t *testing.T) {
	f := newAssessmentFixture(t)

	created := make(chan *models.Assessment, 1)
	f.repo.On("AverageScore", mock.Anything).Return(nil, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created <- args.Get(1).(*models.Assessment)
	}).Return(nil)

	resp, err := f.service.Calculate(context.Background(), &CalculateRequest{
		Answers: answersWithValues(5, 5, 5, 5, 5, 5),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.Score)
	assert.Contains(t, resp.Description, "Excellent")
	assert.Equal(t, DefaultAverageScore, resp.AverageScore)

	// Persistence happens after the response, through the queue.
	select {
	case saved := <-created:
		assert.Equal(t, 100, saved.Score)
		assert.Len(t, saved.Answers, 6)
	case <-time.After(2 * time.Second):
		t.Fatal("assessment was never persisted")
	}
}

func TestAssessmentService_Calculate_EmptyAnswers(t *testing.T) {
	f := newAssessmentFixture(t)

	resp, err := f.service.Calculate(context.Background(), &CalculateRequest{})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAssessmentService_Calculate_AnswerValueOutOfRange(t *testing.T) {
	f := newAssessmentFixture(t)

	resp, err := f.service.Calculate(context.Background(), &CalculateRequest{
		Answers: answersWithValues(6),
	})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAssessmentService_Calculate_StoreDownStillResponds(t *testing.T) {
	// A dead store must not affect the computed response; the average falls
	// back to the default.
	f := newAssessmentFixture(t)
	f.repo.On("AverageScore", mock.Anything).Return(nil, ErrStoreUnavailable)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(ErrStoreUnavailable)

	resp, err := f.service.Calculate(context.Background(), &CalculateRequest{
		Answers: answersWithValues(3, 3, 3, 3, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.Score)
	assert.Equal(t, DefaultAverageScore, resp.AverageScore)
}

func TestAssessmentService_Submit(t *testing.T) {
	f := newAssessmentFixture(t)

	f.repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Assessment).ID = 42
	}).Return(nil)

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := f.service.Submit(context.Background(), &SubmitRequest{
		Score:     88,
		Answers:   answersWithValues(4, 5, 4, 5, 4),
		Timestamp: &ts,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, 88, f.publisher.Events[0].Score)
	assert.Equal(t, "submit", f.publisher.Events[0].Source)
}

func TestAssessmentService_Submit_StoreFailure(t *testing.T) {
	f := newAssessmentFixture(t)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	id, err := f.service.Submit(context.Background(), &SubmitRequest{
		Score:   50,
		Answers: answersWithValues(3, 3),
	})
	assert.Zero(t, id)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestAssessmentService_Submit_ScoreOutOfRange(t *testing.T) {
	f := newAssessmentFixture(t)

	id, err := f.service.Submit(context.Background(), &SubmitRequest{
		Score:   150,
		Answers: answersWithValues(5),
	})
	assert.Zero(t, id)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
