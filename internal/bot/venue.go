package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// showVenue renders a single venue with owner and booking detail. The
// action row depends on who is looking: everyone can book, the owner can
// edit and delete.
func (b *Bot) showVenue(ctx context.Context, chatID int64, venueID string) {
	venue, err := b.venueService.Get(ctx, venueID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("venue_id", venueID).Msg("load venue failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("🏝 *%s*\n%s\n\n", venue.Name, formatLocation(venue.Location)))
	if venue.Description != "" {
		message.WriteString(venue.Description + "\n\n")
	}
	message.WriteString(fmt.Sprintf("💰 %s per night\n", formatPrice(venue.Price)))
	message.WriteString(fmt.Sprintf("👥 Up to %d guests\n", venue.MaxGuests))
	message.WriteString(formatRating(venue.Rating) + "\n")
	message.WriteString(formatAmenities(venue.Meta) + "\n")
	if venue.Owner != nil && venue.Owner.Name != "" {
		message.WriteString(fmt.Sprintf("\nHosted by %s\n", venue.Owner.Name))
	}
	if len(venue.Media) > 0 && venue.Media[0].URL != "" {
		message.WriteString("\n" + venue.Media[0].URL)
	}

	keyboard := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("📅 Book this venue", "book:"+venue.ID)},
	}

	session := b.authService.Session(ctx, chatID)
	if session.IsAuthenticated() && venue.Owner != nil && venue.Owner.Name == session.Name {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", "vedit:"+venue.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "vdel:"+venue.ID),
		})
	}

	listing := b.listingService.ForChat(chatID).State()
	if len(listing.Venues) > 0 {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to venues", pageCallback(listing.Page)),
		})
	}

	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.tgService.Send(msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send venue failed")
	}
}
