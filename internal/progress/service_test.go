package progress

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"assessment-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSession(id string, score, questions, correct int) *models.Session {
	now := time.Now()
	session := &models.Session{
		ID:             id,
		Level:          models.LevelFresher,
		Domain:         "Web Development",
		TotalQuestions: questions,
		TotalScore:     score,
		StartTime:      now.Add(-time.Minute),
		EndTime:        &now,
	}
	for i := 0; i < questions; i++ {
		answer := models.Answer{
			SessionID:  id,
			QuestionID: fmt.Sprintf("%s-q%d", id, i),
			UserAnswer: "answer",
			TimeSpent:  5,
		}
		if i < correct {
			answer.IsCorrect = true
			answer.Points = 10
		}
		session.Answers = append(session.Answers, answer)
	}
	session.CurrentQuestionIndex = len(session.Answers)
	return session
}

func TestFoldSessionRollup(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.FoldSession(completedSession("s1", 10, 5, 1), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	_, err = svc.FoldSession(completedSession("s2", 30, 5, 3), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	p, err := svc.FoldSession(completedSession("s3", 20, 5, 2), "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, 3, p.TotalSessions)
	assert.Equal(t, 30, p.BestScore)
	assert.Equal(t, 20, p.AverageScore)
	assert.Equal(t, 15, p.TotalQuestions)
	assert.Equal(t, 6, p.CorrectAnswers)
	assert.Equal(t, 40, p.Accuracy)
}

func TestFoldSessionIsIdempotentPerSessionID(t *testing.T) {
	svc := NewService(nil, nil)

	session := completedSession("s1", 30, 5, 3)
	_, err := svc.FoldSession(session, "Jane", "jane@example.com")
	require.NoError(t, err)

	// Folding the same session again must not double-count.
	p, err := svc.FoldSession(session, "Jane", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalSessions)
	assert.Equal(t, 30, p.BestScore)
	assert.Equal(t, 5, p.TotalQuestions)
}

func TestAccuracyComputation(t *testing.T) {
	svc := NewService(nil, nil)

	// No questions answered: accuracy stays 0, no division error.
	p, err := svc.FoldSession(completedSession("empty", 0, 0, 0), "Jane", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Accuracy)
	assert.Equal(t, 0, p.AverageScore)

	svc2 := NewService(nil, nil)
	_, err = svc2.FoldSession(completedSession("a", 40, 5, 4), "Joe", "joe@example.com")
	require.NoError(t, err)
	p2, err := svc2.FoldSession(completedSession("b", 30, 5, 3), "Joe", "joe@example.com")
	require.NoError(t, err)
	assert.Equal(t, 10, p2.TotalQuestions)
	assert.Equal(t, 7, p2.CorrectAnswers)
	assert.Equal(t, 70, p2.Accuracy)
}

func TestFoldSeparatesUsers(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.FoldSession(completedSession("s1", 50, 5, 5), "Jane", "jane@example.com")
	require.NoError(t, err)
	_, err = svc.FoldSession(completedSession("s2", 10, 5, 1), "Joe", "joe@example.com")
	require.NoError(t, err)

	jane, ok := svc.GetUserProgress("jane@example.com")
	require.True(t, ok)
	assert.Equal(t, 50, jane.BestScore)

	joe, ok := svc.GetUserProgress("joe@example.com")
	require.True(t, ok)
	assert.Equal(t, 10, joe.BestScore)

	assert.Len(t, svc.GetAllUserProgress(), 2)

	_, ok = svc.GetUserProgress("nobody@example.com")
	assert.False(t, ok)
}

func TestConcurrentFoldsFromSameUser(t *testing.T) {
	svc := NewService(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := completedSession(fmt.Sprintf("s%d", i), 10, 5, 1)
			_, err := svc.FoldSession(session, "Jane", "jane@example.com")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, ok := svc.GetUserProgress("jane@example.com")
	require.True(t, ok)
	assert.Equal(t, 20, p.TotalSessions, "no folds may be lost under concurrency")
	assert.Equal(t, 100, p.TotalQuestions)
}

func TestTrackLoginHistoryMostRecentFirst(t *testing.T) {
	svc := NewService(nil, nil)

	first := svc.TrackLogin("jane@example.com", "Jane", "10.0.0.1", true)
	second := svc.TrackLogin("joe@example.com", "Joe", "10.0.0.2", false)
	third := svc.TrackLogin("jane@example.com", "Jane", "10.0.0.1", true)

	history := svc.GetLoginHistory()
	require.Len(t, history, 3)
	assert.Equal(t, third.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, first.ID, history[2].ID)

	assert.False(t, history[1].Success)
	assert.Equal(t, "10.0.0.2", history[1].IPAddress)
}

func TestTrackLoginIndependentOfFolding(t *testing.T) {
	svc := NewService(nil, nil)

	svc.TrackLogin("jane@example.com", "Jane", "", true)
	assert.Len(t, svc.GetLoginHistory(), 1)

	// No rollup is created by a login alone.
	_, ok := svc.GetUserProgress("jane@example.com")
	assert.False(t, ok)
}

func TestLeaderboardFallbackOrdersByBestScore(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.FoldSession(completedSession("s1", 20, 5, 2), "Jane", "jane@example.com")
	require.NoError(t, err)
	_, err = svc.FoldSession(completedSession("s2", 40, 5, 4), "Joe", "joe@example.com")
	require.NoError(t, err)

	entries := svc.Leaderboard()
	require.Len(t, entries, 2)
	assert.Equal(t, "Joe", entries[0].UserName)
	assert.Equal(t, 40, entries[0].BestScore)
	assert.Equal(t, "Jane", entries[1].UserName)
}
