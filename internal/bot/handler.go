package bot

import (
	"context"
	"strings"
	"time"

	"holidaze/internal/models"
	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = `🏝 *Holidaze* — find your place in the world.

/venues — browse venues
/search — search venues
/profile — your profile and bookings
/login — log in
/register — create an account
/addvenue — list a new venue (managers)
/export — download your bookings
/logout — log out
/cancel — abort the current dialog`

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	allowed, err := b.stateService.CheckRateLimit(ctx, chatID,
		b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
	if err == nil && !allowed {
		return
	}

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	state, err := b.stateService.GetChatState(ctx, chatID)
	if err != nil || state == nil || state.Step == "" || state.Step == models.StepIdle {
		b.sendMarkdown(chatID, welcomeText)
		return
	}

	b.handleStep(ctx, chatID, state, strings.TrimSpace(update.Message.Text))
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	args := strings.TrimSpace(update.Message.CommandArguments())

	switch update.Message.Command() {
	case "start", "help":
		b.sendMarkdown(chatID, welcomeText)
	case "venues":
		b.showListing(ctx, chatID, 0, 1, "")
	case "search":
		if args != "" {
			b.showListing(ctx, chatID, 0, 1, args)
			return
		}
		b.setStep(ctx, chatID, models.StepSearchQuery, nil)
		b.sendMessage(chatID, "What are you looking for? Send a search term.")
	case "venue":
		if args == "" {
			b.sendMessage(chatID, "Usage: /venue <id>")
			return
		}
		b.showVenue(ctx, chatID, args)
	case "profile":
		b.showProfile(ctx, chatID)
	case "login":
		b.startLogin(ctx, chatID)
	case "register":
		b.startRegister(ctx, chatID)
	case "logout":
		b.handleLogout(ctx, chatID)
	case "addvenue":
		b.startVenueWizard(ctx, chatID, "")
	case "export":
		b.handleExport(ctx, chatID)
	case "cancel":
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.sendMessage(chatID, "Dialog cancelled.")
	default:
		b.sendMessage(chatID, "Unknown command. Try /help.")
	}
}

// handleStep routes free-text input to the wizard that is waiting for it.
func (b *Bot) handleStep(ctx context.Context, chatID int64, state *models.ChatState, text string) {
	switch state.Step {
	case models.StepSearchQuery:
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.showListing(ctx, chatID, 0, 1, text)
	case models.StepLoginEmail, models.StepLoginPassword,
		models.StepRegisterName, models.StepRegisterEmail, models.StepRegisterPass:
		b.handleAuthStep(ctx, chatID, state, text)
	case models.StepBookingGuests:
		b.handleBookingGuestsInput(ctx, chatID, state, text)
	case models.StepVenueName, models.StepVenueDesc, models.StepVenuePrice,
		models.StepVenueGuests, models.StepVenueRating, models.StepVenueAddress,
		models.StepVenueCity, models.StepVenueZip, models.StepVenueCountry,
		models.StepVenueMedia:
		b.handleVenueWizardStep(ctx, chatID, state, text)
	case models.StepProfileAvatar, models.StepProfileBanner:
		b.handleProfileURLStep(ctx, chatID, state, text)
	default:
		b.sendMarkdown(chatID, welcomeText)
	}
}

// sessionExpired short-circuits authenticated flows whose token is
// already past its exp claim, pointing the user back to /login instead
// of firing a request that is certain to be rejected.
func (b *Bot) sessionExpired(chatID int64, session *models.Session) bool {
	if !b.authService.Expired(session) {
		return false
	}
	b.notifier.Error(chatID, service.ErrSessionExpired.Error())
	b.sendMessage(chatID, "Use /login to sign in again.")
	return true
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	if _, err := b.tgService.SendMarkdown(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func (b *Bot) setStep(ctx context.Context, chatID int64, step string, data map[string]interface{}) {
	if err := b.stateService.SetChatState(ctx, chatID, step, data); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Str("step", step).Msg("set chat state failed")
	}
}
