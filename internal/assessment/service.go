package assessment

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"assessment-system/internal/models"
	"assessment-system/internal/questionbank"
	"assessment-system/pkg/cache"
)

var (
	// ErrSessionNotFound indicates a stale or unknown session reference.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCompleted is returned when an answer arrives after the
	// session already reached its terminal state.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrQuestionExpired is returned when a submission names a question
	// that is no longer the current one, e.g. a manual submit racing the
	// timeout auto-submit for the same question.
	ErrQuestionExpired = errors.New("question already answered")
)

// Folder receives completed sessions for aggregation into per-user
// rollups.
type Folder interface {
	FoldSession(session *models.Session, userName, email string) (*models.UserProgress, error)
}

// Notifier pushes events to the client attached to a session.
type Notifier interface {
	SendToSession(sessionID, messageType string, data interface{})
}

type sessionEntry struct {
	session  *models.Session
	userName string
	email    string
	draft    string
	timer    *QuestionTimer
}

// Service owns the assessment session lifecycle: creation, sequential
// answer intake with per-question timers, and completion. Active
// sessions live in the service's own map rather than any package-level
// state; they are handed to the Folder once completed.
type Service struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry

	bank      *questionbank.Bank
	evaluator *Evaluator
	folder    Folder
	cache     *cache.RedisCache
	notifier  Notifier

	questionCount int
	timeBudget    int
	tickInterval  time.Duration
	startTimers   bool
}

func NewService(bank *questionbank.Bank, evaluator *Evaluator, folder Folder, redis *cache.RedisCache, notifier Notifier) *Service {
	return &Service{
		entries:       make(map[string]*sessionEntry),
		bank:          bank,
		evaluator:     evaluator,
		folder:        folder,
		cache:         redis,
		notifier:      notifier,
		questionCount: questionbank.DefaultQuestionCount,
		timeBudget:    models.DefaultTimeLimit,
		tickInterval:  time.Second,
		startTimers:   true,
	}
}

// StartAssessment selects the question set and creates the session. The
// selector runs first: with no matching questions the session is never
// created and ErrNoQuestionsAvailable surfaces to the caller.
func (s *Service) StartAssessment(level, domain, userName, email string) (*models.Session, models.QuestionDTO, error) {
	questions, err := s.bank.Select(level, domain, s.questionCount)
	if err != nil {
		return nil, models.QuestionDTO{}, err
	}

	session := &models.Session{
		ID:             generateSessionID(),
		Level:          level,
		Domain:         domain,
		StartTime:      time.Now(),
		UserEmail:      email,
		TotalQuestions: len(questions),
		Questions:      questions,
	}

	entry := &sessionEntry{
		session:  session,
		userName: userName,
		email:    email,
	}

	s.mu.Lock()
	s.entries[session.ID] = entry
	s.beginQuestion(entry)
	s.mu.Unlock()

	log.Printf("Session %s started: %s/%s, %d questions", session.ID, level, domain, len(questions))
	s.cacheSession(session)
	s.pushQuestion(session)

	return session, questions[0].ToDTO(false), nil
}

// SubmitAnswer records a manually submitted answer for the session's
// current question and advances or completes the session. timeSpent is
// the caller's elapsed-seconds reading; when absent the server-side
// stopwatch value is used.
func (s *Service) SubmitAnswer(sessionID, questionID, answerText string, timeSpent int) (*models.Session, *models.QuestionDTO, error) {
	return s.submit(sessionID, questionID, answerText, timeSpent, false)
}

// autoSubmit is the timeout path. It synthesizes a submission from the
// latest draft text, or the sentinel answer when nothing was typed, and
// routes it through the same evaluate-and-append path as a manual
// submission.
func (s *Service) autoSubmit(sessionID, questionID string, elapsed int) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	text := entry.draft
	s.mu.Unlock()

	if text == "" {
		text = TimeoutAnswer
	}

	log.Printf("Session %s: question %s timed out after %ds, auto-submitting", sessionID, questionID, elapsed)
	if _, _, err := s.submit(sessionID, questionID, text, elapsed, true); err != nil {
		log.Printf("Session %s: auto-submit failed: %v", sessionID, err)
	}
}

func (s *Service) submit(sessionID, questionID, answerText string, timeSpent int, auto bool) (*models.Session, *models.QuestionDTO, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, ErrSessionNotFound
	}
	session := entry.session
	if session.Completed() {
		s.mu.Unlock()
		return nil, nil, ErrSessionCompleted
	}

	current, _ := session.CurrentQuestion()
	if questionID != "" && questionID != current.ID {
		s.mu.Unlock()
		return nil, nil, ErrQuestionExpired
	}

	if !auto && entry.timer != nil {
		stopwatch := entry.timer.Stop()
		if timeSpent <= 0 {
			timeSpent = stopwatch
		}
	}
	if timeSpent < 0 {
		timeSpent = 0
	}

	answer := s.evaluator.Evaluate(answerText, current)
	answer.TimeSpent = timeSpent
	answer.SessionID = session.ID

	session.Answers = append(session.Answers, answer)
	session.CurrentQuestionIndex = len(session.Answers)
	session.TotalScore += answer.Points
	entry.draft = ""

	completed := session.CurrentQuestionIndex == session.TotalQuestions
	var nextDTO *models.QuestionDTO
	if completed {
		now := time.Now()
		session.EndTime = &now
		entry.timer = nil
	} else {
		s.beginQuestion(entry)
		next := session.Questions[session.CurrentQuestionIndex]
		dto := next.ToDTO(false)
		nextDTO = &dto
	}
	userName, email := entry.userName, entry.email
	s.mu.Unlock()

	s.cacheSession(session)
	if completed {
		log.Printf("Session %s completed with score %d", session.ID, session.TotalScore)
		s.fold(session, userName, email)
		if s.notifier != nil {
			s.notifier.SendToSession(session.ID, "session_complete", BuildReport(session))
		}
	} else {
		s.pushQuestion(session)
	}

	return session, nextDTO, nil
}

// AddAnswer appends a pre-evaluated answer to the session: the raw state
// transition without timers or notifications. The session completes
// itself when the answer count reaches the selected question count.
func (s *Service) AddAnswer(sessionID string, answer models.Answer) (*models.Session, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	session := entry.session
	if session.Completed() {
		s.mu.Unlock()
		return nil, ErrSessionCompleted
	}

	answer.SessionID = session.ID
	session.Answers = append(session.Answers, answer)
	session.CurrentQuestionIndex = len(session.Answers)
	session.TotalScore += answer.Points
	completed := session.CurrentQuestionIndex == session.TotalQuestions
	if completed {
		now := time.Now()
		session.EndTime = &now
	}
	userName, email := entry.userName, entry.email
	s.mu.Unlock()

	s.cacheSession(session)
	if completed {
		s.fold(session, userName, email)
	}
	return session, nil
}

// SessionPatch is the merge-patch shape accepted by UpdateSession. Only
// the end time is patchable; everything else is owned by the state
// machine.
type SessionPatch struct {
	EndTime *time.Time `json:"endTime"`
}

// UpdateSession applies a merge-patch to the session. Kept for callers
// that drive completion externally.
func (s *Service) UpdateSession(sessionID string, patch SessionPatch) (*models.Session, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if patch.EndTime != nil {
		entry.session.EndTime = patch.EndTime
	}
	session := entry.session
	s.mu.Unlock()

	s.cacheSession(session)
	return session, nil
}

func (s *Service) GetSession(sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Report builds the scored summary for a session.
func (s *Service) Report(sessionID string) (*Report, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return BuildReport(session), nil
}

// SetDraft stores the text currently typed for the session's open
// question; the timeout path submits it in place of an empty answer.
func (s *Service) SetDraft(sessionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[sessionID]; ok {
		entry.draft = text
	}
}

// Discard drops an in-flight session without folding it, mirroring the
// user restarting an attempt.
func (s *Service) Discard(sessionID string) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if ok {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(s.entries, sessionID)
	}
	s.mu.Unlock()

	if ok && s.cache != nil {
		if err := s.cache.DeleteSession(sessionID); err != nil {
			log.Printf("Error evicting session %s from cache: %v", sessionID, err)
		}
	}
}

func (s *Service) Domains() []string {
	return s.bank.Domains()
}

// beginQuestion arms a fresh timer for the session's current question.
// The previous timer, if any, is stopped first so it can never fire into
// the new question's state. Caller holds s.mu.
func (s *Service) beginQuestion(entry *sessionEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	question, ok := entry.session.CurrentQuestion()
	if !ok {
		return
	}
	sessionID := entry.session.ID
	entry.timer = NewQuestionTimer(question.ID, s.timeBudget, s.tickInterval,
		func(questionID string, remaining, elapsed int) {
			if s.notifier != nil {
				s.notifier.SendToSession(sessionID, "timer", map[string]interface{}{
					"questionId": questionID,
					"remaining":  remaining,
					"elapsed":    elapsed,
				})
			}
		},
		func(questionID string, elapsed int) {
			s.autoSubmit(sessionID, questionID, elapsed)
		})
	if s.startTimers {
		entry.timer.Start()
	}
}

func (s *Service) pushQuestion(session *models.Session) {
	if s.notifier == nil {
		return
	}
	s.mu.Lock()
	question, ok := session.CurrentQuestion()
	index := session.CurrentQuestionIndex
	total := session.TotalQuestions
	s.mu.Unlock()
	if !ok {
		return
	}
	s.notifier.SendToSession(session.ID, "question", map[string]interface{}{
		"question": question.ToDTO(false),
		"index":    index,
		"total":    total,
	})
}

func (s *Service) cacheSession(session *models.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSession(session); err != nil {
		log.Printf("Error caching session %s: %v", session.ID, err)
	}
}

func (s *Service) fold(session *models.Session, userName, email string) {
	if s.folder == nil {
		return
	}
	if _, err := s.folder.FoldSession(session, userName, email); err != nil {
		log.Printf("Error folding session %s into progress: %v", session.ID, err)
	}
}

func generateSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}
