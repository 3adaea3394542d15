package bot

import (
	"context"
	"os"
	"time"

	"holidaze/internal/config"
	"holidaze/internal/domain"
	"holidaze/internal/events"
	"holidaze/internal/metrics"
	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Bot is the interactive Holidaze front-end: venue browsing, search,
// booking, venue management and profile editing over Telegram.
type Bot struct {
	tgService      domain.TelegramService
	config         *config.Config
	stateService   *service.StateService
	authService    domain.SessionManager
	listingService *service.ListingService
	bookingService *service.BookingService
	venueService   *service.VenueService
	profileService *service.ProfileService
	notifier       domain.Notifier
	eventBus       domain.EventPublisher
	logger         *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService *service.StateService,
	authService domain.SessionManager,
	listingService *service.ListingService,
	bookingService *service.BookingService,
	venueService *service.VenueService,
	profileService *service.ProfileService,
	notifier domain.Notifier,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:      tgService,
		config:         config,
		stateService:   stateService,
		authService:    authService,
		listingService: listingService,
		bookingService: bookingService,
		venueService:   venueService,
		profileService: profileService,
		notifier:       notifier,
		eventBus:       eventBus,
		logger:         logger,
	}, nil
}

// Start consumes updates until the context is cancelled. Each update gets
// its own deadline so one slow API call never wedges the loop for good.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

			requestID := uuid.New().String()
			l := b.logger.With().Str("request_id", requestID).Logger()
			updateCtx = l.WithContext(updateCtx)

			switch {
			case update.CallbackQuery != nil:
				metrics.IncBotUpdate("callback")
				b.handleCallbackQuery(updateCtx, update)
			case update.Message != nil:
				metrics.IncBotUpdate("message")
				b.handleMessage(updateCtx, update)
			}
			cancel()
		}
	}
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}
