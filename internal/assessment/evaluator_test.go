package assessment

import (
	"strings"
	"testing"

	"assessment-system/internal/models"

	"github.com/stretchr/testify/assert"
)

var evalQuestion = models.Question{
	ID:            "q1",
	Domain:        "Web Development",
	Level:         models.LevelFresher,
	Question:      "Which CSS property controls the text size?",
	CorrectAnswer: "font-size",
	Points:        10,
}

func TestEvaluateCorrectAnswer(t *testing.T) {
	e := NewEvaluator(nil)

	tests := []struct {
		name   string
		answer string
	}{
		{"exact", "font-size"},
		{"upper case", "FONT-SIZE"},
		{"mixed case", "Font-Size"},
		{"surrounding whitespace", "  font-size\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := e.Evaluate(tt.answer, evalQuestion)
			assert.True(t, answer.IsCorrect)
			assert.Equal(t, 10, answer.Points)
			assert.Equal(t, "q1", answer.QuestionID)
			assert.Equal(t, tt.answer, answer.UserAnswer)
		})
	}
}

func TestEvaluateWrongAnswer(t *testing.T) {
	e := NewEvaluator(nil)

	answer := e.Evaluate("line-height", evalQuestion)
	assert.False(t, answer.IsCorrect)
	assert.Equal(t, 0, answer.Points)
}

func TestEvaluateEmptyAnswerNeverCorrect(t *testing.T) {
	e := NewEvaluator(nil)

	for _, input := range []string{"", "   ", "\t\n"} {
		answer := e.Evaluate(input, evalQuestion)
		assert.False(t, answer.IsCorrect, "input %q must not be correct", input)
		assert.Equal(t, 0, answer.Points)
	}
}

func TestEvaluateEmptyAnswerBypassesPolicy(t *testing.T) {
	// Even a policy that accepts everything must not score a blank answer.
	e := NewEvaluator(func(user, ref string) bool { return true })

	answer := e.Evaluate("   ", evalQuestion)
	assert.False(t, answer.IsCorrect)
	assert.Equal(t, 0, answer.Points)
}

func TestEvaluateCustomPolicy(t *testing.T) {
	contains := func(user, ref string) bool {
		return strings.Contains(strings.ToLower(user), strings.ToLower(ref))
	}
	e := NewEvaluator(contains)

	answer := e.Evaluate("I would use the font-size property", evalQuestion)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 10, answer.Points)
}

func TestEvaluateTimeoutSentinelIsIncorrect(t *testing.T) {
	e := NewEvaluator(nil)

	answer := e.Evaluate(TimeoutAnswer, evalQuestion)
	assert.False(t, answer.IsCorrect)
	assert.Equal(t, 0, answer.Points)
}
