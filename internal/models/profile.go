package models

type Profile struct {
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       Media     `json:"avatar"`
	Banner       Media     `json:"banner"`
	VenueManager bool      `json:"venueManager"`
	Bookings     []Booking `json:"bookings,omitempty"`
	Venues       []Venue   `json:"venues,omitempty"`
}

// ProfileInput is the partial payload for profile updates. Nil fields are
// omitted so server-side values stay untouched.
type ProfileInput struct {
	Avatar       *Media `json:"avatar,omitempty"`
	Banner       *Media `json:"banner,omitempty"`
	VenueManager *bool  `json:"venueManager,omitempty"`
}
