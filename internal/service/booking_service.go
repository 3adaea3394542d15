package service

import (
	"context"
	"errors"
	"time"

	"holidaze/internal/api"
	"holidaze/internal/domain"
	"holidaze/internal/events"
	"holidaze/internal/models"

	"github.com/rs/zerolog"
)

// Validation failures, resolved locally before any network call. The
// messages are shown to the user verbatim.
var (
	ErrGuestsRequired   = errors.New("Please fill out number of guests")
	ErrInvalidDateRange = errors.New("Please select a valid date range")
	ErrTooManyGuests    = errors.New("Guest count exceeds venue capacity")
	ErrDatesBlocked     = errors.New("Selected dates include unavailable days")
	ErrLoginRequired    = errors.New("Please log in to book a venue")

	// ErrDatesUnavailable is the server-side conflict, distinct from a
	// generic failure: someone booked the dates after the client last saw
	// the venue. The server is the sole authority on overlaps.
	ErrDatesUnavailable = errors.New("These dates are no longer available")
)

const dateKey = "2006-01-02"

// BookingForm is the user's pending booking selection.
type BookingForm struct {
	VenueID  string
	DateFrom time.Time
	DateTo   time.Time
	Guests   int
}

// BookingService implements the booking availability and submission flow:
// blocked-date expansion from known bookings, guest clamping, price math
// and the create/cancel calls.
type BookingService struct {
	bookings domain.BookingAPI
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(bookings domain.BookingAPI, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// ExpandBookingsToDates returns the set of calendar days occupied by the
// given bookings, inclusive of both endpoints, keyed YYYY-MM-DD. The set
// steers the user away from conflicts; the API still has the final word.
func ExpandBookingsToDates(bookings []models.Booking) map[string]bool {
	blocked := make(map[string]bool)
	for _, booking := range bookings {
		from := booking.DateFrom
		to := booking.DateTo
		if to.Before(from) {
			continue
		}
		for day := truncateDay(from); !day.After(truncateDay(to)); day = day.AddDate(0, 0, 1) {
			blocked[day.Format(dateKey)] = true
		}
	}
	return blocked
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BlockedDates computes the disabled-date set for a venue's booking form.
func (s *BookingService) BlockedDates(venue *models.Venue) map[string]bool {
	if venue == nil {
		return map[string]bool{}
	}
	return ExpandBookingsToDates(venue.Bookings)
}

// IsDateSelectable reports whether a calendar day can be picked: not
// before today and not in the blocked set.
func (s *BookingService) IsDateSelectable(blocked map[string]bool, day time.Time) bool {
	today := truncateDay(s.now())
	if truncateDay(day).Before(today) {
		return false
	}
	return !blocked[day.Format(dateKey)]
}

// ClampGuests keeps the guest count inside [1, maxGuests]. Decrement at 1
// and increment at maxGuests are no-ops by construction.
func ClampGuests(guests, maxGuests int) int {
	if guests < 1 {
		return 1
	}
	if maxGuests >= 1 && guests > maxGuests {
		return maxGuests
	}
	return guests
}

// TotalPrice is nights x price per night; zero when no valid range is
// selected, in which case submission must be rejected.
func TotalPrice(dateFrom, dateTo time.Time, price float64) float64 {
	nights := models.DaysBetween(dateFrom, dateTo)
	if nights <= 0 {
		return 0
	}
	return float64(nights) * price
}

// Validate resolves the client-side checks. No network call is made when
// any of them fails.
func (s *BookingService) Validate(form BookingForm, venue *models.Venue) error {
	if form.Guests == 0 {
		return ErrGuestsRequired
	}
	if form.Guests < 1 || (venue != nil && form.Guests > venue.MaxGuests) {
		return ErrTooManyGuests
	}
	if form.DateFrom.IsZero() || form.DateTo.IsZero() {
		return ErrInvalidDateRange
	}
	if models.DaysBetween(form.DateFrom, form.DateTo) <= 0 {
		return ErrInvalidDateRange
	}

	blocked := s.BlockedDates(venue)
	for day := truncateDay(form.DateFrom); !day.After(truncateDay(form.DateTo)); day = day.AddDate(0, 0, 1) {
		if !s.IsDateSelectable(blocked, day) {
			return ErrDatesBlocked
		}
	}
	return nil
}

// Book validates and submits the booking for an authenticated user.
func (s *BookingService) Book(ctx context.Context, session *models.Session, form BookingForm, venue *models.Venue) (*models.Booking, error) {
	if !session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	if err := s.Validate(form, venue); err != nil {
		return nil, err
	}

	input := models.BookingInput{
		DateFrom: form.DateFrom,
		DateTo:   form.DateTo,
		Guests:   form.Guests,
		VenueID:  form.VenueID,
	}
	booking, err := s.bookings.CreateBooking(api.WithToken(ctx, session.Token), input)
	if err != nil {
		if api.IsConflict(err) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}

	s.publishBooking(events.EventBookingCreated, booking, session.Name, form.VenueID)
	return booking, nil
}

// Cancel deletes a booking owned by the current user. The deletion runs
// first; only after it succeeds does the caller drop the booking from its
// local list.
func (s *BookingService) Cancel(ctx context.Context, session *models.Session, booking *models.Booking) error {
	if !session.IsAuthenticated() {
		return ErrLoginRequired
	}
	if err := s.bookings.DeleteBooking(api.WithToken(ctx, session.Token), booking.ID); err != nil {
		return err
	}

	s.publishBooking(events.EventBookingCancelled, booking, session.Name, "")
	return nil
}

func (s *BookingService) publishBooking(eventType string, booking *models.Booking, customer, venueID string) {
	if s.eventBus == nil || booking == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		VenueID:   venueID,
		Customer:  customer,
		DateFrom:  booking.DateFrom,
		DateTo:    booking.DateTo,
		Guests:    booking.Guests,
	}
	if booking.Venue != nil {
		payload.VenueID = booking.Venue.ID
		payload.VenueName = booking.Venue.Name
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
