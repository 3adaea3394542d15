package models

import "time"

// Media is an image reference with accessible alt text.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// VenueMeta lists the amenities a venue offers.
type VenueMeta struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Meta        VenueMeta `json:"meta"`
	Location    Location  `json:"location"`
	Owner       *Profile  `json:"owner,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// VenueInput is the payload for venue create and full-replacement update.
type VenueInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media,omitempty"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating,omitempty"`
	Meta        VenueMeta `json:"meta"`
	Location    Location  `json:"location"`
}
