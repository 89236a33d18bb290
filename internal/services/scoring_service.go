package services

import (
	"math"

	"github.com/alktbihd/mentalhealth/internal/models"
)

// MaxAnswerValue is the top of the Likert scale used by the questionnaire.
const MaxAnswerValue = 5

// ScoreResult is the outcome of scoring one questionnaire submission.
type ScoreResult struct {
	Score           int      `json:"score"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

// scoreBand maps a minimum score to its wellbeing description. Bands are
// evaluated top-down; the first match wins.
type scoreBand struct {
	Min         int
	Description string
}

var scoreBands = []scoreBand{
	{90, "Excellent mental wellbeing. You appear to have strong coping mechanisms and healthy lifestyle habits."},
	{75, "Good mental wellbeing. You have many positive habits, though there may be areas for improvement."},
	{60, "Moderate mental wellbeing. Consider addressing specific areas that may be affecting your mental health."},
	{40, "Your mental wellbeing could benefit from attention. Consider speaking with a mental health professional."},
	{0, "Your responses suggest you may be experiencing significant mental health challenges. We strongly recommend consulting with a healthcare professional."},
}

// RecommendationRule fires an advisory when the answer at Position exists and
// scores at or below Threshold. Positions follow the fixed questionnaire
// order: 1 sleep, 2 physical activity, 3 social connections, 4 anxiety,
// 5 work-life balance.
type RecommendationRule struct {
	Position  int
	Threshold int
	Message   string
}

var recommendationRules = []RecommendationRule{
	{1, 3, "Improve your sleep habits by maintaining a regular sleep schedule and creating a relaxing bedtime routine."},
	{2, 3, "Increase your physical activity. Even 30 minutes of moderate exercise most days can significantly improve mental wellbeing."},
	{3, 3, "Strengthen your social connections. Reach out to friends or family, or consider joining community groups or activities."},
	{4, 2, "Practice stress-reduction techniques such as mindfulness, deep breathing, or meditation to manage anxiety."},
	{5, 3, "Improve your work-life balance by setting boundaries, taking breaks, and making time for activities you enjoy."},
}

// generalRecommendations are appended as a block whenever fewer than three
// positional rules fired. The whole block is always appended in order, so a
// submission with two fired rules ends up with five recommendations.
var generalRecommendations = []string{
	"Practice gratitude by regularly noting things you're thankful for.",
	"Limit screen time and social media consumption, especially before bed.",
	"Stay hydrated and maintain a balanced diet rich in fruits, vegetables, and whole grains.",
}

// ScoringService computes wellbeing scores and recommendations. It is pure:
// no state is retained between calls and no I/O is performed.
type ScoringService interface {
	ComputeResults(answers []models.Answer) (*ScoreResult, error)
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

func (s *scoringService) ComputeResults(answers []models.Answer) (*ScoreResult, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	total := 0
	for _, answer := range answers {
		total += answer.AnswerValue
	}

	maxPossible := len(answers) * MaxAnswerValue
	score := int(math.Round(float64(total) / float64(maxPossible) * 100))

	return &ScoreResult{
		Score:           score,
		Description:     describeScore(score),
		Recommendations: buildRecommendations(answers),
	}, nil
}

func describeScore(score int) string {
	for _, band := range scoreBands {
		if score >= band.Min {
			return band.Description
		}
	}
	return scoreBands[len(scoreBands)-1].Description
}

func buildRecommendations(answers []models.Answer) []string {
	recommendations := make([]string, 0, len(recommendationRules)+len(generalRecommendations))

	for _, rule := range recommendationRules {
		if rule.Position >= len(answers) {
			continue
		}
		if answers[rule.Position].AnswerValue <= rule.Threshold {
			recommendations = append(recommendations, rule.Message)
		}
	}

	if len(recommendations) < 3 {
		recommendations = append(recommendations, generalRecommendations...)
	}

	return recommendations
}
