package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/alktbihd/mentalhealth/internal/repositories"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// CacheInvalidator drops cached aggregates after a successful insert.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// PersistenceQueue decouples submission persistence from the request path.
// The calculate endpoint enqueues and returns immediately; a single
// subscriber drains the queue and writes to the store. Failed writes are
// logged and dropped — no retry, no durability guarantee.
type PersistenceQueue struct {
	pubsub    *gochannel.GoChannel
	repo      repositories.AssessmentRepository
	cache     CacheInvalidator
	publisher EventPublisher
	logger    utils.Logger
}

func NewPersistenceQueue(
	repo repositories.AssessmentRepository,
	cache CacheInvalidator,
	publisher EventPublisher,
	logger utils.Logger,
) *PersistenceQueue {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(utils.ToSlogLogger(logger)),
	)

	return &PersistenceQueue{
		pubsub:    pubsub,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Enqueue hands a submission to the background writer. The caller's response
// does not wait for, or depend on, the outcome.
func (q *PersistenceQueue) Enqueue(event *AssessmentSubmittedEvent) error {
	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment event: %w", err)
	}

	return q.pubsub.Publish(PersistTopic, message.NewMessage(event.ID, payload))
}

// Start launches the background writer. It returns once the subscription is
// established; consumption continues until ctx is cancelled.
func (q *PersistenceQueue) Start(ctx context.Context) error {
	messages, err := q.pubsub.Subscribe(ctx, PersistTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to persistence queue: %w", err)
	}

	go func() {
		for msg := range messages {
			q.handle(ctx, msg)
		}
	}()

	return nil
}

func (q *PersistenceQueue) handle(ctx context.Context, msg *message.Message) {
	// Acked unconditionally: the contract for this queue is logged, not
	// retried.
	defer msg.Ack()

	var event AssessmentSubmittedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		q.logger.LogError(err, "dropping malformed persistence event", "message_id", msg.UUID)
		return
	}

	if err := q.repo.Create(ctx, event.Assessment()); err != nil {
		q.logger.LogError(err, "best-effort assessment save failed", "event_id", event.ID)
		return
	}

	q.cache.InvalidateCache(ctx)

	if err := q.publisher.PublishAssessmentSubmitted(ctx, &event); err != nil {
		q.logger.LogError(err, "failed to mirror assessment event", "event_id", event.ID)
	}
}

// Close shuts the queue down. Buffered events that have not been consumed
// yet are discarded, consistent with the best-effort contract.
func (q *PersistenceQueue) Close() error {
	return q.pubsub.Close()
}
