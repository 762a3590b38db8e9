package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/card-entry-service/internal/binlookup"
	"github.com/Dan9191/card-entry-service/internal/config"
	"github.com/Dan9191/card-entry-service/internal/models"
	"github.com/Dan9191/card-entry-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Alerter notifies operators about sustained verification failures
type Alerter interface {
	SendVerificationOutageAlert(failures int, lastErr error) error
}

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	verifier binlookup.Verifier
	alerts   Alerter
	log      *logrus.Logger
	config   *config.Config

	mu         sync.Mutex
	sessions   map[string]*session
	failStreak int
	alerted    bool
}

// NewService initializes a new service
func NewService(repo *repository.Repository, verifier binlookup.Verifier, alerts Alerter, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		alerts:   alerts,
		log:      log,
		config:   cfg,
		sessions: make(map[string]*session),
	}
}

// Register creates a new integrator account with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("Integrator registered: %s", user.Email)
	return user, nil
}

// Login authenticates an integrator and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Integrator logged in: %s", user.Email)
	return tokenString, nil
}
