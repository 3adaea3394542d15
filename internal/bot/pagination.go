package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showListing loads one venue page and renders it. messageID != 0 edits
// the existing listing message in place (pagination taps), otherwise a
// new message is sent. Page navigation is driven by the server's PageMeta,
// the client never recomputes offsets itself.
func (b *Bot) showListing(ctx context.Context, chatID int64, messageID, page int, query string) {
	listing := b.listingService.ForChat(chatID)
	state, err := listing.Load(ctx, page, query)
	b.renderListingResult(chatID, messageID, state, err)
}

// reloadListing refetches the current page and query after a mutation
// invalidated the listing (venue created or deleted) and redraws it.
func (b *Bot) reloadListing(ctx context.Context, chatID int64) {
	listing := b.listingService.ForChat(chatID)
	state, err := listing.Reload(ctx)
	b.renderListingResult(chatID, 0, state, err)
}

func (b *Bot) renderListingResult(chatID int64, messageID int, state service.ListingState, err error) {
	if errors.Is(err, service.ErrStaleResponse) {
		// A newer load already drew the screen.
		return
	}
	if err != nil {
		b.renderListingError(chatID, messageID, state)
		return
	}

	title := "🏝 *Venues*"
	if state.Query != "" {
		title = fmt.Sprintf("🔎 *Search:* %s", state.Query)
	}

	var message strings.Builder
	message.WriteString(title + "\n\n")

	if len(state.Venues) == 0 {
		message.WriteString("No venues found.")
	} else if state.Meta.PageCount > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", state.Meta.CurrentPage, state.Meta.PageCount))
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, venue := range state.Venues {
		message.WriteString(fmt.Sprintf("%d. *%s* — %s\n   %s · up to %d guests · %s\n\n",
			i+1, venue.Name, formatLocation(venue.Location),
			formatPrice(venue.Price), venue.MaxGuests, formatRating(venue.Rating)))
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", i+1, venue.Name),
				"venue:"+venue.ID,
			),
		})
	}

	var navButtons []tgbotapi.InlineKeyboardButton
	if !state.Meta.IsFirstPage && state.Meta.CurrentPage > 1 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Previous", pageCallback(state.Meta.CurrentPage-1)))
	}
	if !state.Meta.IsLastPage && state.Meta.NextPage != nil {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", pageCallback(*state.Meta.NextPage)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}

	b.renderOrEdit(chatID, messageID, message.String(), tgbotapi.NewInlineKeyboardMarkup(keyboard...))
}

// renderListingError shows the failure panel. Distinct from "no venues
// found": the fetch itself failed, previously loaded venues stay held.
func (b *Bot) renderListingError(chatID int64, messageID int, state service.ListingState) {
	text := "⚠️ Could not load venues. Please try again."
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", pageCallback(state.Page)),
		},
	)
	b.renderOrEdit(chatID, messageID, text, keyboard)
}

func (b *Bot) renderOrEdit(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if messageID != 0 {
		if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("edit message failed")
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}

func pageCallback(page int) string {
	return "page:" + strconv.Itoa(page)
}
