package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/events"
)

// AuthService owns the single active session.
type AuthService struct {
	state    *State
	tokenMgr *auth.TokenManager
	events   publisher
}

// Profile is the active session plus the name of the assigned unit. UnitName
// is empty when no unit is assigned or the unit no longer exists.
type Profile struct {
	Session  domain.AuthState
	UnitName string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, state *State, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		state:    state,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		events:   publisher{dispatcher: dispatcher, logger: state.logger, now: state.now},
	}
}

// Login reports whether the credentials matched. A failed attempt leaves the
// current session as it was; err only reports storage failures.
func (s *AuthService) Login(ctx context.Context, username, password string) (bool, error) {
	_, ok, err := s.Authenticate(ctx, username, password)
	return ok, err
}

// Authenticate replaces the session with a snapshot of the matching account
// and returns it. Usernames are trimmed; both fields are case-sensitive.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.AuthState, bool, error) {
	username = strings.TrimSpace(username)

	s.state.mu.Lock()
	idx := domain.FindUser(s.state.users, username)
	if idx < 0 || !auth.MatchPassword(s.state.users[idx].Password, password) {
		s.state.mu.Unlock()
		s.state.logger.Info("login rejected", zap.String("username", username))
		return domain.AuthState{}, false, nil
	}
	session := domain.SessionFor(s.state.users[idx], uuid.NewString(), s.state.now())
	err := s.state.setSession(ctx, session)
	s.state.mu.Unlock()
	if err != nil {
		return domain.AuthState{}, false, err
	}

	s.state.logger.Info("session started", zap.String("username", session.Username), zap.String("role", string(session.Role)))
	s.events.publish(ctx, events.Event{
		Type:    events.EventSessionStarted,
		Subject: session.SessionID,
		Actor:   actorOf(session),
	})
	return session, true, nil
}

// Logout resets the session to the logged-out default.
func (s *AuthService) Logout(ctx context.Context) error {
	s.state.mu.Lock()
	previous := s.state.session
	err := s.state.setSession(ctx, domain.LoggedOut())
	s.state.mu.Unlock()
	if err != nil {
		return err
	}

	if previous.IsLoggedIn {
		s.state.logger.Info("session ended", zap.String("username", previous.Username))
		s.events.publish(ctx, events.Event{
			Type:    events.EventSessionEnded,
			Subject: previous.SessionID,
			Actor:   actorOf(previous),
		})
	}
	return nil
}

// CurrentSession returns the active session.
func (s *AuthService) CurrentSession() domain.AuthState {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.session
}

// Profile returns the active session together with its unit name.
func (s *AuthService) Profile() Profile {
	return s.ProfileOf(s.CurrentSession())
}

// ProfileOf resolves the unit name of session.
func (s *AuthService) ProfileOf(session domain.AuthState) Profile {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	profile := Profile{Session: session}
	if unit, ok := domain.FindUnit(s.state.units, session.AssignedUnitID); ok {
		profile.UnitName = unit.Name
	}
	return profile
}

// IssueToken signs a bearer token bound to session.
func (s *AuthService) IssueToken(session domain.AuthState) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(session)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
