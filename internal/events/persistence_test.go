package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alktbihd/mentalhealth/internal/models"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// fakeRepo records Create calls and can be told to fail.
type fakeRepo struct {
	mu      sync.Mutex
	created []*models.Assessment
	fail    error
}

func (f *fakeRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.created = append(f.created, assessment)
	return nil
}

func (f *fakeRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeRepo) AverageScore(ctx context.Context) (*float64, error) { return nil, nil }
func (f *fakeRepo) ScoreDistribution(ctx context.Context) (*models.ScoreDistribution, error) {
	return &models.ScoreDistribution{}, nil
}
func (f *fakeRepo) UserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	return nil, nil
}
func (f *fakeRepo) Latest(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return nil, nil
}
func (f *fakeRepo) LatestAssessments(ctx context.Context, limit int) ([]*models.Assessment, error) {
	return nil, nil
}
func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) InvalidateCache(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeInvalidator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func startQueue(t *testing.T, repo *fakeRepo, inv *fakeInvalidator, pub EventPublisher) *PersistenceQueue {
	t.Helper()

	queue := NewPersistenceQueue(repo, inv, pub, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, queue.Start(ctx))
	t.Cleanup(func() {
		cancel()
		queue.Close()
	})
	return queue
}

func TestPersistenceQueue_PersistsEnqueuedSubmission(t *testing.T) {
	repo := &fakeRepo{}
	inv := &fakeInvalidator{}
	pub := &MockEventPublisher{}
	queue := startQueue(t, repo, inv, pub)

	event := &AssessmentSubmittedEvent{
		Score:     80,
		Answers:   []models.Answer{{QuestionID: 1, QuestionText: "q", AnswerText: "a", AnswerValue: 4}},
		Timestamp: time.Now(),
		Source:    "calculate",
	}
	require.NoError(t, queue.Enqueue(event))
	assert.NotEmpty(t, event.ID)

	require.Eventually(t, func() bool {
		return repo.createdCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	saved := repo.created[0]
	repo.mu.Unlock()
	assert.Equal(t, 80, saved.Score)
	assert.Len(t, saved.Answers, 1)

	require.Eventually(t, func() bool {
		return inv.callCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPersistenceQueue_StoreFailureIsDropped(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("store down")}
	inv := &fakeInvalidator{}
	pub := &MockEventPublisher{}
	queue := startQueue(t, repo, inv, pub)

	require.NoError(t, queue.Enqueue(&AssessmentSubmittedEvent{
		Score:  55,
		Source: "calculate",
	}))

	// The failed write is logged and dropped: no retry, no cache
	// invalidation, no mirrored event.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, repo.createdCount())
	assert.Zero(t, inv.callCount())
	assert.Empty(t, pub.Events)
}

func TestPersistenceQueue_MalformedPayloadIsDropped(t *testing.T) {
	repo := &fakeRepo{}
	inv := &fakeInvalidator{}
	queue := startQueue(t, repo, inv, &MockEventPublisher{})

	require.NoError(t, queue.pubsub.Publish(PersistTopic, message.NewMessage("bad", []byte("not json"))))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, repo.createdCount())
}
