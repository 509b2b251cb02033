package assessment

import (
	"strings"

	"assessment-system/internal/models"
)

// MatchPolicy decides whether a non-empty user answer matches the
// reference answer. The answer-matching rule is a policy point: exact
// normalized equality is the default, but callers can plug in a looser
// comparison without touching the scoring path.
type MatchPolicy func(userAnswer, referenceAnswer string) bool

// ExactMatch compares trimmed answers case-insensitively.
func ExactMatch(userAnswer, referenceAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(referenceAnswer))
}

type Evaluator struct {
	match MatchPolicy
}

func NewEvaluator(policy MatchPolicy) *Evaluator {
	if policy == nil {
		policy = ExactMatch
	}
	return &Evaluator{match: policy}
}

// Evaluate scores a submitted answer against the question's reference
// answer. It always produces a result: an empty or whitespace-only
// answer is never correct, and incorrect answers score zero. TimeSpent
// is left for the caller to fill in.
func (e *Evaluator) Evaluate(userAnswer string, question models.Question) models.Answer {
	answer := models.Answer{
		QuestionID: question.ID,
		UserAnswer: userAnswer,
	}

	if strings.TrimSpace(userAnswer) == "" {
		return answer
	}

	if e.match(userAnswer, question.CorrectAnswer) {
		answer.IsCorrect = true
		answer.Points = question.Points
	}
	return answer
}
