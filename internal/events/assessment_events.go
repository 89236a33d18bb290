package events

import (
	"time"

	"github.com/alktbihd/mentalhealth/internal/models"
)

// PersistTopic is the in-process topic carrying submissions awaiting
// best-effort persistence.
const PersistTopic = "assessment.persist"

// AssessmentSubmittedEvent describes one completed questionnaire submission.
// The same payload feeds the in-process persistence queue and the optional
// external Kafka topic.
type AssessmentSubmittedEvent struct {
	ID        string          `json:"id"`
	Score     int             `json:"score"`
	UserID    string          `json:"user_id,omitempty"`
	Answers   []models.Answer `json:"answers"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"` // "calculate" or "submit"
}

// Assessment converts the event back into a persistable record.
func (e *AssessmentSubmittedEvent) Assessment() *models.Assessment {
	return &models.Assessment{
		Score:     e.Score,
		Answers:   models.AnswerList(e.Answers),
		Timestamp: e.Timestamp,
		UserID:    e.UserID,
	}
}
