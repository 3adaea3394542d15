package bot

import (
	"context"
	"strconv"
	"strings"

	"holidaze/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleCallbackQuery routes inline-button taps. Every callback is
// answered so the Telegram client stops its spinner, even when the data
// is stale or malformed.
func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	if callback.Message == nil {
		_ = b.tgService.AnswerCallback(callback.ID, "")
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("answer callback failed")
	}

	action, arg := data, ""
	if i := strings.Index(data, ":"); i >= 0 {
		action, arg = data[:i], data[i+1:]
	}

	state, err := b.stateService.GetChatState(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("get chat state failed")
	}

	switch action {
	case "noop":
		return

	case "page":
		page, err := strconv.Atoi(arg)
		if err != nil || page < 1 {
			return
		}
		query := b.listingService.ForChat(chatID).State().Query
		b.showListing(ctx, chatID, messageID, page, query)

	case "venue":
		b.showVenue(ctx, chatID, arg)

	case "book":
		b.startBooking(ctx, chatID, arg)

	case "day":
		b.handleBookingDay(ctx, chatID, messageID, state, arg)

	case "calnav":
		b.handleCalendarNav(ctx, chatID, messageID, state, arg)

	case "bkconfirm":
		b.handleBookingConfirm(ctx, chatID, state)

	case "bkcancel":
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.sendMessage(chatID, "Booking cancelled. The venue is still there when you change your mind.")

	case "amn":
		b.handleAmenityToggle(ctx, chatID, messageID, state, arg)

	case "vconfirm":
		b.handleVenueConfirm(ctx, chatID, state)

	case "vcancel":
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.sendMessage(chatID, "Venue form discarded.")

	case "vedit":
		b.startVenueWizard(ctx, chatID, arg)

	case "vdel":
		b.setStep(ctx, chatID, models.StepDeleteVenue, map[string]interface{}{"venue_id": arg})
		b.confirmDeleteVenue(chatID, messageID, arg)

	case "vdelyes":
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.handleDeleteVenue(ctx, chatID, arg)

	case "bdel":
		b.setStep(ctx, chatID, models.StepCancelBooking, map[string]interface{}{"booking_id": arg})
		b.confirmCancelBooking(chatID, messageID, arg)

	case "bdelyes":
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.handleCancelBooking(ctx, chatID, arg)

	case "pedit":
		switch arg {
		case "avatar", "banner":
			b.startProfileURLEdit(ctx, chatID, arg)
		case "mgr":
			b.handleManagerToggle(ctx, chatID)
		}
	}
}
