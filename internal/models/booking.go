package models

import "time"

type Booking struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Venue    *Venue    `json:"venue,omitempty"`
	Customer *Profile  `json:"customer,omitempty"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// BookingInput is the payload for booking creation.
type BookingInput struct {
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	VenueID  string    `json:"venueId"`
}

// Nights returns the number of occupied nights, dateFrom..dateTo half-open.
func (b Booking) Nights() int {
	return DaysBetween(b.DateFrom, b.DateTo)
}

// DaysBetween counts whole calendar days from a to b, ignoring time of day.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(truncateDay(b).Sub(truncateDay(a)) / (24 * time.Hour))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
