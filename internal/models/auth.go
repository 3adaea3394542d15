package models

// LoginInput carries credentials for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the registration payload for POST /auth/register.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	VenueManager bool   `json:"venueManager"`
}

// AuthUser is the authenticated identity the API returns from login (and,
// depending on the API version, registration).
type AuthUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       Media  `json:"avatar"`
	Banner       Media  `json:"banner"`
	AccessToken  string `json:"accessToken"`
	VenueManager bool   `json:"venueManager"`
}
