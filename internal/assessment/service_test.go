package assessment

import (
	"sync"
	"testing"
	"time"

	"assessment-system/internal/models"
	"assessment-system/internal/questionbank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFolder struct {
	mu    sync.Mutex
	folds []*models.Session
}

func (f *fakeFolder) FoldSession(session *models.Session, userName, email string) (*models.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folds = append(f.folds, session)
	return &models.UserProgress{UserID: email, UserName: userName}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) SendToSession(sessionID, messageType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, messageType)
}

func (n *fakeNotifier) count(messageType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, m := range n.messages {
		if m == messageType {
			count++
		}
	}
	return count
}

func testBank() *questionbank.Bank {
	return questionbank.NewBank([]models.Question{
		{ID: "q1", Domain: "Web Development", Level: models.LevelFresher, Question: "one", CorrectAnswer: "alpha", Points: 10},
		{ID: "q2", Domain: "Web Development", Level: models.LevelFresher, Question: "two", CorrectAnswer: "bravo", Points: 10},
		{ID: "q3", Domain: "Web Development", Level: models.LevelFresher, Question: "three", CorrectAnswer: "charlie", Points: 10},
		{ID: "q4", Domain: "Web Development", Level: models.LevelFresher, Question: "four", CorrectAnswer: "delta", Points: 10},
		{ID: "q5", Domain: "Web Development", Level: models.LevelFresher, Question: "five", CorrectAnswer: "echo", Points: 10},
	})
}

func newTestService(folder Folder, notifier Notifier) *Service {
	svc := NewService(testBank(), NewEvaluator(nil), folder, nil, notifier)
	svc.startTimers = false
	return svc
}

func assertInvariants(t *testing.T, session *models.Session) {
	t.Helper()
	assert.Equal(t, len(session.Answers), session.CurrentQuestionIndex,
		"currentQuestionIndex must equal answer count")
	sum := 0
	for _, a := range session.Answers {
		sum += a.Points
	}
	assert.Equal(t, sum, session.TotalScore, "totalScore must equal sum of answer points")
	assert.Equal(t, session.Completed(), session.CurrentQuestionIndex == session.TotalQuestions,
		"endTime must be set exactly on completion")
}

func TestStartAssessmentNoQuestions(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelExperienced, "Data Science", "Jane", "jane@example.com")
	assert.ErrorIs(t, err, questionbank.ErrNoQuestionsAvailable)
	assert.Nil(t, session)
}

func TestFullAssessmentLifecycle(t *testing.T) {
	folder := &fakeFolder{}
	notifier := &fakeNotifier{}
	svc := newTestService(folder, notifier)

	session, first, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	require.Len(t, session.Questions, 5)
	assert.Equal(t, session.Questions[0].ID, first.ID)
	assert.Empty(t, first.CorrectAnswer, "client question must not carry the reference answer")
	assert.False(t, session.StartTime.IsZero())
	assertInvariants(t, session)

	// Answer the first three correctly, the last two wrong.
	for i, q := range session.Questions {
		text := q.CorrectAnswer
		if i >= 3 {
			text = "wrong"
		}
		updated, next, err := svc.SubmitAnswer(session.ID, q.ID, text, i+2)
		require.NoError(t, err)
		assertInvariants(t, updated)
		assert.Equal(t, i+1, updated.CurrentQuestionIndex)
		assert.Equal(t, i+2, updated.Answers[i].TimeSpent)

		if i < 4 {
			require.NotNil(t, next)
			assert.Equal(t, session.Questions[i+1].ID, next.ID)
			assert.False(t, updated.Completed())
		} else {
			assert.Nil(t, next)
			assert.True(t, updated.Completed())
			require.NotNil(t, updated.EndTime)
		}
	}

	final, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, final.TotalScore)

	// Completed session was folded exactly once.
	require.Len(t, folder.folds, 1)
	assert.Equal(t, session.ID, folder.folds[0].ID)
	assert.Equal(t, 1, notifier.count("session_complete"))

	report, err := svc.Report(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalQuestions)
	assert.Equal(t, 3, report.CorrectAnswers)
	assert.Equal(t, 60, report.Percentage)
	assert.Equal(t, Eligible, report.Eligibility)
}

func TestSubmitAnswerSessionNotFound(t *testing.T) {
	svc := newTestService(nil, nil)

	_, _, err := svc.SubmitAnswer("session_missing", "q1", "alpha", 5)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession("session_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.UpdateSession("session_missing", SessionPatch{})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.AddAnswer("session_missing", models.Answer{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswerStaleQuestion(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	q0 := session.Questions[0]
	_, _, err = svc.SubmitAnswer(session.ID, q0.ID, q0.CorrectAnswer, 3)
	require.NoError(t, err)

	// A second submission for the already-answered question is rejected
	// instead of double-recording.
	_, _, err = svc.SubmitAnswer(session.ID, q0.ID, q0.CorrectAnswer, 3)
	assert.ErrorIs(t, err, ErrQuestionExpired)

	updated, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Answers, 1)
}

func TestSubmitAnswerAfterCompletion(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)
	for _, q := range session.Questions {
		_, _, err = svc.SubmitAnswer(session.ID, q.ID, "whatever", 1)
		require.NoError(t, err)
	}

	_, _, err = svc.SubmitAnswer(session.ID, "", "late", 1)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestTimeoutAutoSubmitsSentinelExactlyOnce(t *testing.T) {
	folder := &fakeFolder{}
	notifier := &fakeNotifier{}
	svc := newTestService(folder, notifier)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	svc.mu.Lock()
	timer := svc.entries[session.ID].timer
	svc.mu.Unlock()
	require.NotNil(t, timer)

	// Drive past the 30-second budget; extra ticks on the spent timer
	// must not produce a second submission.
	for i := 0; i < 45; i++ {
		timer.tick()
	}

	updated, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	require.Len(t, updated.Answers, 1)
	assert.Equal(t, TimeoutAnswer, updated.Answers[0].UserAnswer)
	assert.Equal(t, 30, updated.Answers[0].TimeSpent)
	assert.False(t, updated.Answers[0].IsCorrect)
	assert.Equal(t, 0, updated.Answers[0].Points)
	assertInvariants(t, updated)
}

func TestTimeoutSubmitsDraftText(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	correct := session.Questions[0].CorrectAnswer
	svc.SetDraft(session.ID, correct)

	svc.mu.Lock()
	timer := svc.entries[session.ID].timer
	svc.mu.Unlock()
	for i := 0; i < 30; i++ {
		timer.tick()
	}

	updated, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	require.Len(t, updated.Answers, 1)
	assert.Equal(t, correct, updated.Answers[0].UserAnswer)
	assert.True(t, updated.Answers[0].IsCorrect, "a typed draft goes through normal evaluation")
	assert.Equal(t, 10, updated.Answers[0].Points)
}

func TestQuestionChangeArmsFreshTimer(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	svc.mu.Lock()
	firstTimer := svc.entries[session.ID].timer
	svc.mu.Unlock()

	_, _, err = svc.SubmitAnswer(session.ID, session.Questions[0].ID, "x", 4)
	require.NoError(t, err)

	svc.mu.Lock()
	secondTimer := svc.entries[session.ID].timer
	svc.mu.Unlock()

	require.NotNil(t, secondTimer)
	assert.NotSame(t, firstTimer, secondTimer)
	assert.Equal(t, 30, secondTimer.Remaining(), "countdown resets for the new question")
	assert.Equal(t, 0, secondTimer.Elapsed(), "stopwatch resets for the new question")

	// The superseded timer is dead: ticking it does nothing.
	for i := 0; i < 40; i++ {
		firstTimer.tick()
	}
	updated, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Answers, 1)
}

func TestAddAnswerPrimitiveCompletesSession(t *testing.T) {
	folder := &fakeFolder{}
	svc := newTestService(folder, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		updated, err := svc.AddAnswer(session.ID, models.Answer{
			QuestionID: session.Questions[i].ID,
			UserAnswer: "a",
			IsCorrect:  true,
			Points:     10,
			TimeSpent:  1,
		})
		require.NoError(t, err)
		assertInvariants(t, updated)
	}

	final, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.True(t, final.Completed())
	assert.Equal(t, 50, final.TotalScore)
	assert.Len(t, folder.folds, 1)
}

func TestUpdateSessionSetsEndTime(t *testing.T) {
	svc := newTestService(nil, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)
	assert.False(t, session.Completed())

	now := time.Now()
	updated, err := svc.UpdateSession(session.ID, SessionPatch{EndTime: &now})
	require.NoError(t, err)
	assert.True(t, updated.Completed())
	assert.Equal(t, now, *updated.EndTime)
}

func TestDiscardDropsSessionWithoutFold(t *testing.T) {
	folder := &fakeFolder{}
	svc := newTestService(folder, nil)

	session, _, err := svc.StartAssessment(models.LevelFresher, "Web Development", "Jane", "jane@example.com")
	require.NoError(t, err)

	svc.Discard(session.ID)

	_, err = svc.GetSession(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, folder.folds)
}
