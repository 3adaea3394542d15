package service

import (
	"context"
	"errors"
	"time"

	"holidaze/internal/domain"
	"holidaze/internal/events"
	"holidaze/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// ErrSessionExpired reports a token whose exp claim is already in the
// past. Surfaced instead of firing a request that is certain to fail.
var ErrSessionExpired = errors.New("Your session has expired. Please /login again")

// AuthService owns the session lifecycle: anonymous -> authenticated on
// login, back to anonymous on logout. The session is exactly the persisted
// token+name+manager triple; there is no refresh, a rejected token fails
// the next authenticated request.
type AuthService struct {
	authAPI  domain.AuthAPI
	sessions domain.SessionRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAuthService(authAPI domain.AuthAPI, sessions domain.SessionRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		authAPI:  authAPI,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Session returns the persisted session for a chat, or nil when anonymous.
// A storage error degrades to anonymous rather than failing the flow.
func (s *AuthService) Session(ctx context.Context, chatID int64) *models.Session {
	session, err := s.sessions.GetSession(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to read session")
		return nil
	}
	return session
}

func (s *AuthService) Login(ctx context.Context, chatID int64, email, password string) (*models.AuthUser, error) {
	user, err := s.authAPI.Login(ctx, models.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:        user.AccessToken,
		Name:         user.Name,
		VenueManager: user.VenueManager,
	}
	if err := s.sessions.SetSession(ctx, chatID, session); err != nil {
		return nil, err
	}

	s.publishSession(events.EventLoggedIn, session)
	return user, nil
}

// Register creates an account. When the API returns a token with the
// registration response the session is persisted immediately and the
// second return value is true; otherwise the caller must prompt an
// explicit login.
func (s *AuthService) Register(ctx context.Context, chatID int64, input models.RegisterInput) (*models.AuthUser, bool, error) {
	user, err := s.authAPI.Register(ctx, input)
	if err != nil {
		return nil, false, err
	}

	s.publishSession(events.EventRegistered, &models.Session{Name: user.Name, VenueManager: user.VenueManager})

	if user.AccessToken == "" {
		return user, false, nil
	}

	session := &models.Session{
		Token:        user.AccessToken,
		Name:         user.Name,
		VenueManager: user.VenueManager,
	}
	if err := s.sessions.SetSession(ctx, chatID, session); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) Logout(ctx context.Context, chatID int64) error {
	session := s.Session(ctx, chatID)
	if err := s.sessions.ClearSession(ctx, chatID); err != nil {
		return err
	}
	if session != nil {
		s.publishSession(events.EventLoggedOut, session)
	}
	return nil
}

// SetVenueManager updates the persisted manager flag so manager-only
// affordances reflect a profile change immediately, before any re-fetch.
func (s *AuthService) SetVenueManager(ctx context.Context, chatID int64, manager bool) error {
	session, err := s.sessions.GetSession(ctx, chatID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	session.VenueManager = manager
	return s.sessions.SetSession(ctx, chatID, session)
}

// Expired reports whether the session carries a token already past its
// exp claim. A token without a readable exp claim counts as live; the
// API stays the authority on rejection either way.
func (s *AuthService) Expired(session *models.Session) bool {
	if !session.IsAuthenticated() {
		return false
	}
	exp, ok := TokenExpiry(session.Token)
	return ok && exp.Before(time.Now())
}

// TokenExpiry inspects the bearer token without verifying it and returns
// the exp claim when present. Purely advisory; the API stays the source of
// truth for rejection.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *AuthService) publishSession(eventType string, session *models.Session) {
	if s.eventBus == nil {
		return
	}
	payload := events.SessionEventPayload{Name: session.Name, VenueManager: session.VenueManager}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
