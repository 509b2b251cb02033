package models

import (
	"time"
)

// Experience levels a question bank entry can target.
const (
	LevelFresher     = "fresher"
	LevelExperienced = "experienced"
)

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	FullName         string    `json:"fullName" gorm:"not null"`
	Email            string    `json:"email" gorm:"unique;not null"`
	Password         string    `json:"-" gorm:"not null"`
	RegistrationDate time.Time `json:"registrationDate"`
	Approved         bool      `json:"approved" gorm:"default:true"`
	IPAddress        string    `json:"ipAddress,omitempty"`
}

// Question is a static bank record. The bank is loaded once at startup
// and never mutated, so questions are plain values, not database rows.
type Question struct {
	ID            string `json:"id"`
	Domain        string `json:"domain"`
	Level         string `json:"level"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	Points        int    `json:"points"`
}

// Answer is one scored response inside a session. Immutable once created.
type Answer struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	SessionID  string `json:"-" gorm:"index"`
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
	Points     int    `json:"points"`
	TimeSpent  int    `json:"timeSpent"`
}

// Session is one assessment attempt. Active sessions live in memory and
// are only written to the database when folded into user progress.
//
// Invariants: CurrentQuestionIndex == len(Answers), TotalScore is the sum
// of answer points, and EndTime is set exactly when every question in the
// selected set has been answered.
type Session struct {
	ID                   string     `json:"id" gorm:"primaryKey"`
	Level                string     `json:"level"`
	Domain               string     `json:"domain"`
	Answers              []Answer   `json:"answers" gorm:"foreignKey:SessionID"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	TotalScore           int        `json:"totalScore"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              *time.Time `json:"endTime,omitempty"`
	UserEmail            string     `json:"-" gorm:"index"`
	TotalQuestions       int        `json:"-"`

	// Questions is the selected set for this attempt, held server-side
	// only. Never serialized: it carries the reference answers.
	Questions []Question `json:"-" gorm:"-"`
}

// Completed reports whether the session has reached its terminal state.
func (s *Session) Completed() bool {
	return s.EndTime != nil
}

// CurrentQuestion returns the question awaiting an answer, or false once
// the session is complete.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.CurrentQuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// UserProgress is the per-user rollup over completed sessions. Every
// scalar field is recomputed from the session list on each fold; nothing
// is mutated independently.
type UserProgress struct {
	UserID           string    `json:"userId" gorm:"primaryKey;column:user_id"`
	UserName         string    `json:"userName"`
	Email            string    `json:"email"`
	Sessions         []Session `json:"sessions" gorm:"-"`
	TotalSessions    int       `json:"totalSessions"`
	BestScore        int       `json:"bestScore"`
	AverageScore     int       `json:"averageScore"`
	TotalQuestions   int       `json:"totalQuestions"`
	CorrectAnswers   int       `json:"correctAnswers"`
	Accuracy         int       `json:"accuracy"`
	LastLoginDate    time.Time `json:"lastLoginDate"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// LoginAttempt is an append-only log entry; records are never updated or
// deleted.
type LoginAttempt struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index"`
	UserName  string    `json:"userName"`
	LoginTime time.Time `json:"loginTime"`
	Success   bool      `json:"success"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

type LeaderboardEntry struct {
	UserName  string `json:"userName"`
	BestScore int    `json:"bestScore"`
}
