package progress

import (
	"log"
	"time"

	"assessment-system/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveFoldedSession persists a completed session and its answers. The
// primary key makes a duplicate fold a conflict, which is ignored: the
// first fold wins.
func (r *Repository) SaveFoldedSession(session *models.Session) error {
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(session).Error
	if err != nil {
		log.Printf("Error saving session %s: %v", session.ID, err)
		return err
	}
	return nil
}

func (r *Repository) SaveProgress(p *models.UserProgress) error {
	return r.db.Save(p).Error
}

func (r *Repository) AppendLoginAttempt(attempt *models.LoginAttempt) error {
	return r.db.Create(attempt).Error
}

// LoginHistoryAscending returns login attempts oldest first, matching
// the in-memory append order.
func (r *Repository) LoginHistoryAscending() ([]models.LoginAttempt, error) {
	var attempts []models.LoginAttempt
	err := r.db.Order("login_time asc").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// AllProgress loads every rollup with its folded sessions and answers.
func (r *Repository) AllProgress() ([]models.UserProgress, error) {
	var all []models.UserProgress
	if err := r.db.Find(&all).Error; err != nil {
		return nil, err
	}

	for i := range all {
		sessions, err := r.SessionsForUser(all[i].Email)
		if err != nil {
			log.Printf("Error loading sessions for %s: %v", all[i].Email, err)
			continue
		}
		all[i].Sessions = sessions
	}
	return all, nil
}

func (r *Repository) SessionsForUser(email string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Preload("Answers").
		Where("user_email = ?", email).
		Order("start_time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UserRegistrationDate looks up when the user registered.
func (r *Repository) UserRegistrationDate(email string) (time.Time, error) {
	var user models.User
	err := r.db.Select("registration_date").Where("email = ?", email).First(&user).Error
	if err != nil {
		return time.Time{}, err
	}
	return user.RegistrationDate, nil
}
