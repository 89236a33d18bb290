package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is one normalized questionnaire response. Values are on a 1-5
// Likert scale; the range is enforced at ingestion.
type Answer struct {
	QuestionID   int    `json:"questionId" validate:"required,min=1"`
	QuestionText string `json:"questionText" validate:"required"`
	AnswerText   string `json:"answerText" validate:"required"`
	AnswerValue  int    `json:"answerValue" validate:"required,min=1,max=5"`
}

// AnswerList is the JSON document column holding a submission's ordered
// answers.
type AnswerList = datatypes.JSONSlice[Answer]

// Assessment is a persisted questionnaire submission. Records are immutable
// after creation; there is no update path.
type Assessment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Score     int        `json:"score" gorm:"not null" validate:"min=0,max=100"`
	Answers   AnswerList `json:"answers" gorm:"type:jsonb"`
	Timestamp time.Time  `json:"timestamp" gorm:"index"`
	UserID    string     `json:"userId" gorm:"size:64;index"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// BeforeCreate fills defaults the same way the submission path expects them:
// current time when the client sent none, and an anonymous pseudo-identity
// when no user is known.
func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if a.UserID == "" {
		a.UserID = NewAnonymousUserID()
	}
	return nil
}

// NewAnonymousUserID returns an opaque random token used when no
// authenticated identity is supplied. It is a pseudo-identity, not a
// security mechanism.
func NewAnonymousUserID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ScoreDistribution holds bucketed submission counts. The buckets are
// mutually exclusive and cover the whole [0,100] range.
type ScoreDistribution struct {
	Excellent int64 `json:"excellent"` // [90,100]
	Good      int64 `json:"good"`      // [75,90)
	Moderate  int64 `json:"moderate"`  // [60,75)
	Fair      int64 `json:"fair"`      // [40,60)
	Poor      int64 `json:"poor"`      // [0,40)
}

// Add places one score into its bucket.
func (d *ScoreDistribution) Add(score int) {
	switch {
	case score >= 90:
		d.Excellent++
	case score >= 75:
		d.Good++
	case score >= 60:
		d.Moderate++
	case score >= 40:
		d.Fair++
	default:
		d.Poor++
	}
}

// Total returns the sum over all buckets.
func (d *ScoreDistribution) Total() int64 {
	return d.Excellent + d.Good + d.Moderate + d.Fair + d.Poor
}

// HistoryEntry is the score/timestamp projection used by the history and
// latest-submissions queries.
type HistoryEntry struct {
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
