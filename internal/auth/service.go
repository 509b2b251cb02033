package auth

import (
	"errors"
	"strings"
	"time"

	"assessment-system/internal/models"
	"assessment-system/internal/notify"
	"assessment-system/internal/progress"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service struct {
	repo      *Repository
	jwtSecret []byte
	tracker   *progress.Service
	relay     *notify.Relay
}

func NewService(repo *Repository, jwtSecret string, tracker *progress.Service, relay *notify.Relay) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tracker:   tracker,
		relay:     relay,
	}
}

// Login verifies credentials and issues a token. Every attempt, failed
// or not, lands in the login log; the notification email is fired and
// forgotten.
func (s *Service) Login(email, password, ip string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		s.trackLogin(email, "", ip, false)
		return "", nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.trackLogin(email, user.FullName, ip, false)
		return "", nil, ErrInvalidCredentials
	}

	s.trackLogin(email, user.FullName, ip, true)
	if s.relay != nil {
		go s.relay.SendLoginNotification(user, ip)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}

func (s *Service) Register(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if _, err := s.repo.GetUserByEmail(user.Email); err == nil {
		return ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	user.RegistrationDate = time.Now()
	if err := s.repo.CreateUser(user); err != nil {
		return err
	}

	if s.relay != nil {
		go s.relay.SendRegistrationNotification(user)
	}
	return nil
}

func (s *Service) trackLogin(email, userName, ip string, success bool) {
	if s.tracker != nil {
		s.tracker.TrackLogin(email, userName, ip, success)
	}
}
