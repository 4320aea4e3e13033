package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errBadCredentials = apperr.New(apperr.KindUnauthorized, "Invalid email or password", nil)

type Service struct {
	store  Store
	secret string
	ttl    time.Duration
	cost   int
	log    *zap.Logger
}

func NewService(store Store, secret string, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, cost: bcrypt.DefaultCost, log: log}
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a user and signs them in.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("sign up lookup failed", zap.Error(err))
		return nil, apperr.Persistence("Failed to create account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Persistence("Failed to create account", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email is already registered")
		}
		s.log.Error("sign up insert failed", zap.Error(err))
		return nil, apperr.Persistence("Failed to create account", err)
	}

	s.log.Info("user registered", zap.Stringer("user", user.ID))
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		s.log.Error("login lookup failed", zap.Error(err))
		return nil, apperr.Persistence("Failed to sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return s.session(user)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	user, err := s.store.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Persistence("Failed to fetch user", err)
	}
	return user, nil
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := GenerateToken(s.secret, s.ttl, user)
	if err != nil {
		return nil, apperr.Persistence("Failed to issue token", err)
	}
	return &Session{Token: token, User: user}, nil
}
