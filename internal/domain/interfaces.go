package domain

import (
	"context"
	"time"

	"holidaze/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// VenueAPI is the remote venue surface the flows depend on. The concrete
// implementation is the REST client; tests substitute mocks.
type VenueAPI interface {
	GetVenues(ctx context.Context, page int, query string) ([]models.Venue, models.PageMeta, error)
	GetVenue(ctx context.Context, id string) (*models.Venue, error)
	CreateVenue(ctx context.Context, input models.VenueInput) (*models.Venue, error)
	UpdateVenue(ctx context.Context, id string, input models.VenueInput) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id string) error
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type ProfileAPI interface {
	GetProfile(ctx context.Context, name string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, name string, input models.ProfileInput) (*models.Profile, error)
}

type AuthAPI interface {
	Login(ctx context.Context, input models.LoginInput) (*models.AuthUser, error)
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthUser, error)
}

// SessionRepository persists the per-chat session (token, user name,
// manager flag). All three values are written and cleared together.
type SessionRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SetSession(ctx context.Context, chatID int64, session *models.Session) error
	ClearSession(ctx context.Context, chatID int64) error
}

// StateRepository persists bot conversation state and rate-limit counters.
type StateRepository interface {
	GetState(ctx context.Context, chatID int64) (*models.ChatState, error)
	SetState(ctx context.Context, state *models.ChatState) error
	ClearState(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type SessionManager interface {
	Session(ctx context.Context, chatID int64) *models.Session
	Expired(session *models.Session) bool
	Login(ctx context.Context, chatID int64, email, password string) (*models.AuthUser, error)
	Register(ctx context.Context, chatID int64, input models.RegisterInput) (*models.AuthUser, bool, error)
	Logout(ctx context.Context, chatID int64) error
	SetVenueManager(ctx context.Context, chatID int64, manager bool) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier is the ephemeral feedback channel: success or error toasts
// shown after async operations and dismissed automatically.
type Notifier interface {
	Success(chatID int64, message string)
	Error(chatID int64, message string)
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
