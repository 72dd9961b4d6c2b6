package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gerobak/map-svc/internal/backend"
	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/session"

	"github.com/sirupsen/logrus"
)

var ErrMissingCredentials = errors.New("email and password are required")

type AuthService struct {
	backend  AuthBackend
	sessions SessionStorage
}

func NewAuthService(backend AuthBackend, sessions SessionStorage) *AuthService {
	return &AuthService{backend: backend, sessions: sessions}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	sess, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("logging in: %w", err)
	}
	return s.persist(ctx, sess)
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	sess, err := s.backend.Register(ctx, email, password, strings.TrimSpace(fullName))
	if err != nil {
		return domain.User{}, fmt.Errorf("registering: %w", err)
	}
	return s.persist(ctx, sess)
}

func (s *AuthService) persist(ctx context.Context, sess domain.Session) (domain.User, error) {
	if err := s.sessions.SetSession(ctx, sess.AccessToken, sess.User); err != nil {
		return domain.User{}, fmt.Errorf("saving session: %w", err)
	}
	logrus.WithField("user_id", sess.User.UserID).Info("session started")
	return sess.User, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// CurrentUser returns the stored user, or session.ErrNoSession.
func (s *AuthService) CurrentUser(ctx context.Context) (domain.User, error) {
	return s.sessions.User(ctx)
}

// Refresh reloads the user record from the backend. An expired token clears
// the session and returns session.ErrNoSession.
func (s *AuthService) Refresh(ctx context.Context) (domain.User, error) {
	token, err := s.sessions.Token(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if token == "" {
		return domain.User{}, session.ErrNoSession
	}

	user, err := s.backend.Me(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			_ = s.sessions.Clear(ctx)
			return domain.User{}, session.ErrNoSession
		}
		return domain.User{}, fmt.Errorf("loading profile: %w", err)
	}

	if err := s.sessions.SetSession(ctx, token, user); err != nil {
		return domain.User{}, fmt.Errorf("saving session: %w", err)
	}
	return user, nil
}
