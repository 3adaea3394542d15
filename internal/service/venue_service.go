package service

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"

	"holidaze/internal/api"
	"holidaze/internal/domain"
	"holidaze/internal/events"
	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

var ErrManagerRequired = errors.New("Only venue managers can manage venues")

// FieldErrors maps form fields to their inline validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(e))
	for _, field := range fields {
		messages = append(messages, e[field])
	}
	return strings.Join(messages, "\r\n")
}

// ValidateVenueInput runs the client-side checks a venue form performs
// before any network call. Messages match the original form copy.
func ValidateVenueInput(input models.VenueInput) error {
	fieldErrs := make(FieldErrors)

	if strings.TrimSpace(input.Name) == "" {
		fieldErrs["name"] = "Please enter a venue name."
	} else if len([]rune(input.Name)) > models.MaxVenueNameLength {
		fieldErrs["name"] = "The venue name can't be longer than 30 characters."
	}
	if strings.TrimSpace(input.Description) == "" {
		fieldErrs["description"] = "Please enter a description."
	}
	if input.Price <= 0 {
		fieldErrs["price"] = "Please enter a positive number."
	}
	if input.MaxGuests <= 0 {
		fieldErrs["maxGuests"] = "Please enter the max number of guests."
	}
	if input.Rating < 0 || input.Rating > models.MaxRating {
		fieldErrs["rating"] = "Rating must be between 0 and 5."
	}

	if strings.TrimSpace(input.Location.Address) == "" {
		fieldErrs["location.address"] = "Please enter an address."
	}
	if strings.TrimSpace(input.Location.City) == "" {
		fieldErrs["location.city"] = "Please enter a city."
	}
	if strings.TrimSpace(input.Location.Zip) == "" {
		fieldErrs["location.zip"] = "Please enter a zip code."
	}
	if strings.TrimSpace(input.Location.Country) == "" {
		fieldErrs["location.country"] = "Please enter a country."
	}

	for _, media := range input.Media {
		if !IsValidURL(media.URL) {
			fieldErrs["media"] = "Please enter a valid URL."
			break
		}
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// IsValidURL accepts absolute http(s) URLs only.
func IsValidURL(raw string) bool {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// VenueService implements manager venue CRUD plus venue detail reads.
type VenueService struct {
	venues   domain.VenueAPI
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewVenueService(venues domain.VenueAPI, eventBus domain.EventPublisher, logger *zerolog.Logger) *VenueService {
	return &VenueService{
		venues:   venues,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Get fetches a venue with owner and bookings included. Anonymous users
// can view venues; only mutation requires a session.
func (s *VenueService) Get(ctx context.Context, id string) (*models.Venue, error) {
	return s.venues.GetVenue(ctx, id)
}

// Create validates and creates a venue for a manager. On failure the
// caller keeps the form populated for correction.
func (s *VenueService) Create(ctx context.Context, session *models.Session, input models.VenueInput) (*models.Venue, error) {
	if !session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	if !session.VenueManager {
		return nil, ErrManagerRequired
	}
	if err := ValidateVenueInput(input); err != nil {
		return nil, err
	}

	venue, err := s.venues.CreateVenue(api.WithToken(ctx, session.Token), input)
	if err != nil {
		return nil, err
	}

	s.publishVenue(events.EventVenueCreated, venue, session.Name)
	return venue, nil
}

// Update submits a full replacement payload; the returned snapshot
// replaces the in-memory venue detail.
func (s *VenueService) Update(ctx context.Context, session *models.Session, id string, input models.VenueInput) (*models.Venue, error) {
	if !session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	if !session.VenueManager {
		return nil, ErrManagerRequired
	}
	if err := ValidateVenueInput(input); err != nil {
		return nil, err
	}

	venue, err := s.venues.UpdateVenue(api.WithToken(ctx, session.Token), id, input)
	if err != nil {
		return nil, err
	}

	s.publishVenue(events.EventVenueUpdated, venue, session.Name)
	return venue, nil
}

// Delete removes a venue after explicit confirmation, then trims it from
// the chat's held listing. The venue is not optimistically removed: a
// failed delete leaves it in place.
func (s *VenueService) Delete(ctx context.Context, session *models.Session, id string, listing *Listing) error {
	if !session.IsAuthenticated() {
		return ErrLoginRequired
	}
	if !session.VenueManager {
		return ErrManagerRequired
	}

	if err := s.venues.DeleteVenue(api.WithToken(ctx, session.Token), id); err != nil {
		return err
	}

	if listing != nil {
		listing.RemoveVenue(id)
	}
	s.publishVenue(events.EventVenueDeleted, &models.Venue{ID: id}, session.Name)
	return nil
}

func (s *VenueService) publishVenue(eventType string, venue *models.Venue, owner string) {
	if s.eventBus == nil || venue == nil {
		return
	}
	payload := events.VenueEventPayload{
		VenueID:   venue.ID,
		Name:      venue.Name,
		Price:     venue.Price,
		MaxGuests: venue.MaxGuests,
		Owner:     owner,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("venue_id", venue.ID).Msg("publish event error")
	}
}
