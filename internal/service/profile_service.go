package service

import (
	"context"

	"holidaze/internal/api"
	"holidaze/internal/domain"
	"holidaze/internal/events"
	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// ProfileService implements profile reads and the avatar/banner/manager
// update flow.
type ProfileService struct {
	profiles domain.ProfileAPI
	sessions domain.SessionManager
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewProfileService(profiles domain.ProfileAPI, sessions domain.SessionManager, eventBus domain.EventPublisher, logger *zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Get fetches the current user's profile with bookings and venues.
func (s *ProfileService) Get(ctx context.Context, session *models.Session) (*models.Profile, error) {
	if !session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	return s.profiles.GetProfile(api.WithToken(ctx, session.Token), session.Name)
}

// Update validates the URLs, submits the partial payload, then re-fetches
// the full profile so server-computed fields (venue/booking counts) are
// reconciled. The manager flag is persisted into the session immediately
// so manager-only navigation reflects it without a new login.
func (s *ProfileService) Update(ctx context.Context, chatID int64, session *models.Session, input models.ProfileInput) (*models.Profile, error) {
	if !session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	fieldErrs := make(FieldErrors)
	if input.Avatar != nil && input.Avatar.URL != "" && !IsValidURL(input.Avatar.URL) {
		fieldErrs["avatar"] = "Please enter a valid URL."
	}
	if input.Banner != nil && input.Banner.URL != "" && !IsValidURL(input.Banner.URL) {
		fieldErrs["banner"] = "Please enter a valid URL."
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	authedCtx := api.WithToken(ctx, session.Token)
	if _, err := s.profiles.UpdateProfile(authedCtx, session.Name, input); err != nil {
		return nil, err
	}

	if input.VenueManager != nil {
		if err := s.sessions.SetVenueManager(ctx, chatID, *input.VenueManager); err != nil {
			s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to persist manager flag")
		}
	}

	profile, err := s.profiles.GetProfile(authedCtx, session.Name)
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.SessionEventPayload{Name: profile.Name, VenueManager: profile.VenueManager}
		if err := s.eventBus.PublishJSON(events.EventProfileUpdated, payload); err != nil {
			s.logger.Error().Err(err).Msg("publish event error")
		}
	}
	return profile, nil
}

// RemoveBooking drops a booking from the profile snapshot by id, exactly
// once. Called only after the delete call succeeded.
func RemoveBooking(profile *models.Profile, bookingID string) bool {
	if profile == nil {
		return false
	}
	for i, booking := range profile.Bookings {
		if booking.ID == bookingID {
			profile.Bookings = append(profile.Bookings[:i], profile.Bookings[i+1:]...)
			return true
		}
	}
	return false
}
