package models

const (
	// PageSize is the fixed venue listing page size.
	PageSize = 9

	// ListingSort matches the listing order: creation time descending.
	ListingSort      = "created"
	ListingSortOrder = "desc"

	// MaxVenueNameLength caps the venue name on create/update.
	MaxVenueNameLength = 30

	// MaxRating is the upper bound of the venue rating scale.
	MaxRating = 5
)

// Conversation steps for the bot wizards.
const (
	StepIdle           = "idle"
	StepSearchQuery    = "search_query"
	StepLoginEmail     = "login_email"
	StepLoginPassword  = "login_password"
	StepRegisterName   = "register_name"
	StepRegisterEmail  = "register_email"
	StepRegisterPass   = "register_password"
	StepBookingGuests  = "booking_guests"
	StepBookingFrom    = "booking_date_from"
	StepBookingTo      = "booking_date_to"
	StepBookingConfirm = "booking_confirm"
	StepVenueName      = "venue_name"
	StepVenueDesc      = "venue_description"
	StepVenuePrice     = "venue_price"
	StepVenueGuests    = "venue_max_guests"
	StepVenueRating    = "venue_rating"
	StepVenueAddress   = "venue_address"
	StepVenueCity      = "venue_city"
	StepVenueZip       = "venue_zip"
	StepVenueCountry   = "venue_country"
	StepVenueMedia     = "venue_media"
	StepVenueAmenities = "venue_amenities"
	StepVenueConfirm   = "venue_confirm"
	StepProfileAvatar  = "profile_avatar"
	StepProfileBanner  = "profile_banner"
	StepDeleteVenue    = "delete_venue_confirm"
	StepCancelBooking  = "cancel_booking_confirm"
)

const (
	// DefaultSessionTTL keeps sessions long-lived; the original UI left its
	// "remember me" checkbox inert, here persistence duration is explicit.
	DefaultSessionTTL = 30 * 24 * 60 * 60 // seconds

	// DefaultStateTTL is how long an abandoned wizard survives.
	DefaultStateTTL = 24 * 60 * 60 // seconds

	// ToastTTL is how long an ephemeral notification stays visible.
	ToastTTLSeconds = 4

	// RateLimitMessages / RateLimitWindow bound messages per chat.
	RateLimitMessages = 20
	RateLimitWindow   = 60 // seconds
)
