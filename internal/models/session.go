package models

// Session is the persisted client-side credential set: the bearer token,
// the active user name and the manager flag. Cleared together on logout.
type Session struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	VenueManager bool   `json:"venue_manager"`
}

// IsAuthenticated reports whether a token and user name pair is present.
// The lifecycle is anonymous -> authenticated -> anonymous; there is no
// refresh state, a rejected token simply fails the next request.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.Name != ""
}
