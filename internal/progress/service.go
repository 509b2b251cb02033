package progress

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"assessment-system/internal/models"
	"assessment-system/pkg/cache"
)

// Service folds completed sessions into per-user rollups and keeps the
// append-only login log. Rollup scalars are always recomputed from the
// accumulated session list, never adjusted incrementally, so they cannot
// drift from the sessions they summarize.
type Service struct {
	mu        sync.Mutex
	repo      *Repository
	cache     *cache.RedisCache
	progress  map[string]*models.UserProgress
	folded    map[string]bool
	userLocks map[string]*sync.Mutex
	logins    []models.LoginAttempt
}

// NewService builds the aggregator. repo and redis may be nil, in which
// case the aggregator is purely in-memory.
func NewService(repo *Repository, redis *cache.RedisCache) *Service {
	return &Service{
		repo:      repo,
		cache:     redis,
		progress:  make(map[string]*models.UserProgress),
		folded:    make(map[string]bool),
		userLocks: make(map[string]*sync.Mutex),
	}
}

// Hydrate loads previously persisted rollups and login history so the
// admin view survives restarts. Active sessions are deliberately not
// restored: an unfolded session dies with the process.
func (s *Service) Hydrate() {
	if s.repo == nil {
		return
	}

	all, err := s.repo.AllProgress()
	if err != nil {
		log.Printf("Error hydrating user progress: %v", err)
	} else {
		s.mu.Lock()
		for i := range all {
			p := all[i]
			s.progress[p.UserID] = &p
			for _, sess := range p.Sessions {
				s.folded[sess.ID] = true
			}
		}
		s.mu.Unlock()
		log.Printf("Hydrated progress for %d users", len(all))
	}

	logins, err := s.repo.LoginHistoryAscending()
	if err != nil {
		log.Printf("Error hydrating login history: %v", err)
	} else {
		s.mu.Lock()
		s.logins = logins
		s.mu.Unlock()
		log.Printf("Hydrated %d login records", len(logins))
	}
}

// userLock returns the per-user mutex serializing fold operations for
// one email, so concurrent completions from the same user cannot lose
// updates.
func (s *Service) userLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[email]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[email] = lock
	}
	return lock
}

// FoldSession incorporates a completed session into the user's rollup.
// Folding is idempotent per session id: a duplicate fold returns the
// existing rollup without double-counting.
func (s *Service) FoldSession(session *models.Session, userName, email string) (*models.UserProgress, error) {
	if session == nil {
		return nil, fmt.Errorf("nil session")
	}

	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	if s.folded[session.ID] {
		existing := s.progress[email]
		s.mu.Unlock()
		log.Printf("Session %s already folded, skipping", session.ID)
		return existing, nil
	}

	p, ok := s.progress[email]
	if !ok {
		p = &models.UserProgress{
			UserID:           email,
			UserName:         userName,
			Email:            email,
			RegistrationDate: s.registrationDate(email),
		}
		s.progress[email] = p
	}
	if userName != "" {
		p.UserName = userName
	}

	p.Sessions = append(p.Sessions, *session)
	p.LastLoginDate = time.Now()
	recompute(p)
	s.folded[session.ID] = true
	snapshot := *p
	s.mu.Unlock()

	s.persistFold(session, &snapshot)
	return p, nil
}

// recompute derives every rollup scalar from the session list. Averages
// and accuracy default to zero on empty data instead of dividing by it.
func recompute(p *models.UserProgress) {
	p.TotalSessions = len(p.Sessions)

	best, scoreSum, totalQuestions, correct := 0, 0, 0, 0
	for _, s := range p.Sessions {
		if s.TotalScore > best {
			best = s.TotalScore
		}
		scoreSum += s.TotalScore
		totalQuestions += len(s.Answers)
		for _, a := range s.Answers {
			if a.IsCorrect {
				correct++
			}
		}
	}

	p.BestScore = best
	p.TotalQuestions = totalQuestions
	p.CorrectAnswers = correct
	p.AverageScore = 0
	if p.TotalSessions > 0 {
		p.AverageScore = int(float64(scoreSum)/float64(p.TotalSessions) + 0.5)
	}
	p.Accuracy = 0
	if totalQuestions > 0 {
		p.Accuracy = int(float64(correct)/float64(totalQuestions)*100 + 0.5)
	}
}

func (s *Service) persistFold(session *models.Session, p *models.UserProgress) {
	if s.repo != nil {
		if err := s.repo.SaveFoldedSession(session); err != nil {
			log.Printf("Error persisting session %s: %v", session.ID, err)
		}
		if err := s.repo.SaveProgress(p); err != nil {
			log.Printf("Error persisting progress for %s: %v", p.Email, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.UpdateLeaderboardEntry(p.UserName, p.BestScore); err != nil {
			log.Printf("Error updating leaderboard for %s: %v", p.UserName, err)
		}
	}
}

func (s *Service) registrationDate(email string) time.Time {
	if s.repo != nil {
		if date, err := s.repo.UserRegistrationDate(email); err == nil {
			return date
		}
	}
	return time.Now()
}

// TrackLogin appends an attempt to the login log. Independent of session
// folding; failed attempts are recorded too.
func (s *Service) TrackLogin(email, userName, ip string, success bool) models.LoginAttempt {
	attempt := models.LoginAttempt{
		ID:        generateLoginID(),
		Email:     email,
		UserName:  userName,
		LoginTime: time.Now(),
		Success:   success,
		IPAddress: ip,
	}

	s.mu.Lock()
	s.logins = append(s.logins, attempt)
	if p, ok := s.progress[email]; ok && success {
		p.LastLoginDate = attempt.LoginTime
	}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.AppendLoginAttempt(&attempt); err != nil {
			log.Printf("Error persisting login attempt for %s: %v", email, err)
		}
	}

	log.Printf("Login tracked: %s success=%t", email, success)
	return attempt
}

// GetUserProgress returns the rollup for one user.
func (s *Service) GetUserProgress(email string) (*models.UserProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[email]
	if !ok {
		return nil, false
	}
	snapshot := *p
	return &snapshot, true
}

// GetAllUserProgress returns every user rollup.
func (s *Service) GetAllUserProgress() []models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.UserProgress, 0, len(s.progress))
	for _, p := range s.progress {
		all = append(all, *p)
	}
	return all
}

// GetLoginHistory returns login attempts most recent first.
func (s *Service) GetLoginHistory() []models.LoginAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]models.LoginAttempt, len(s.logins))
	for i, attempt := range s.logins {
		history[len(s.logins)-1-i] = attempt
	}
	return history
}

// Leaderboard returns users ranked by best score, redis-first with an
// in-memory fallback.
func (s *Service) Leaderboard() []models.LeaderboardEntry {
	if s.cache != nil {
		if entries, err := s.cache.GetLeaderboard(); err == nil {
			return entries
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.LeaderboardEntry, 0, len(s.progress))
	for _, p := range s.progress {
		entries = append(entries, models.LeaderboardEntry{UserName: p.UserName, BestScore: p.BestScore})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].BestScore > entries[j].BestScore
	})
	return entries
}

func generateLoginID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("login_%d_%s", time.Now().UnixMilli(), suffix)
}
