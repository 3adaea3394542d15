package bot

import (
	"context"
	"fmt"
	"strings"

	"holidaze/internal/models"
	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// showProfile renders the logged-in user's profile: avatar and banner,
// manager status, upcoming bookings and owned venues, each with their
// own action buttons.
func (b *Bot) showProfile(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.sendMessage(chatID, "You are not logged in. Use /login or /register.")
		return
	}
	if b.sessionExpired(chatID, session) {
		return
	}

	profile, err := b.profileService.Get(ctx, session)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("load profile failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	b.renderProfile(chatID, profile)
}

// renderProfile draws a profile snapshot, fetched or locally trimmed.
func (b *Bot) renderProfile(chatID int64, profile *models.Profile) {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("👤 *%s*\n", profile.Name))
	if profile.Email != "" {
		message.WriteString(profile.Email + "\n")
	}
	if profile.VenueManager {
		message.WriteString("🏠 Venue manager\n")
	}
	if profile.Bio != "" {
		message.WriteString("\n" + profile.Bio + "\n")
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton

	if len(profile.Bookings) > 0 {
		message.WriteString("\n*Your bookings*\n")
		for _, booking := range profile.Bookings {
			venueName := "Unknown venue"
			if booking.Venue != nil {
				venueName = booking.Venue.Name
			}
			message.WriteString(fmt.Sprintf("· %s, %s — %s, %d guests\n",
				venueName, formatDate(booking.DateFrom), formatDate(booking.DateTo), booking.Guests))
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("❌ Cancel %s (%s)", venueName, formatDate(booking.DateFrom)),
					"bdel:"+booking.ID,
				),
			})
		}
	} else {
		message.WriteString("\nNo upcoming bookings.\n")
	}

	if profile.VenueManager && len(profile.Venues) > 0 {
		message.WriteString("\n*Your venues*\n")
		for _, venue := range profile.Venues {
			message.WriteString(fmt.Sprintf("· %s — %s\n", venue.Name, formatPrice(venue.Price)))
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData("✏️ "+venue.Name, "vedit:"+venue.ID),
				tgbotapi.NewInlineKeyboardButtonData("🗑", "vdel:"+venue.ID),
			})
		}
	}

	managerLabel := "Become a venue manager"
	if profile.VenueManager {
		managerLabel = "Stop being a venue manager"
	}
	keyboard = append(keyboard,
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🖼 Change avatar", "pedit:avatar"),
			tgbotapi.NewInlineKeyboardButtonData("🖼 Change banner", "pedit:banner"),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(managerLabel, "pedit:mgr"),
		},
	)

	b.renderOrEdit(chatID, 0, message.String(), tgbotapi.NewInlineKeyboardMarkup(keyboard...))
}

// startProfileURLEdit prompts for a new avatar or banner URL.
func (b *Bot) startProfileURLEdit(ctx context.Context, chatID int64, field string) {
	step := models.StepProfileAvatar
	label := "avatar"
	if field == "banner" {
		step = models.StepProfileBanner
		label = "banner"
	}
	b.setStep(ctx, chatID, step, nil)
	b.sendMessage(chatID, fmt.Sprintf("Send the new %s image URL:", label))
}

// handleProfileURLStep applies an avatar or banner URL. Validation happens
// in the service so the inline message matches the form copy.
func (b *Bot) handleProfileURLStep(ctx context.Context, chatID int64, state *models.ChatState, text string) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		_ = b.stateService.ClearChatState(ctx, chatID)
		b.notifier.Error(chatID, service.ErrLoginRequired.Error())
		return
	}

	media := &models.Media{URL: strings.TrimSpace(text), Alt: session.Name}
	input := models.ProfileInput{}
	if state.Step == models.StepProfileBanner {
		input.Banner = media
	} else {
		input.Avatar = media
	}

	if _, err := b.profileService.Update(ctx, chatID, session, input); err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	_ = b.stateService.ClearChatState(ctx, chatID)
	b.notifier.Success(chatID, "Profile updated!")
	b.showProfile(ctx, chatID)
}

// handleManagerToggle flips the venue manager flag on the server and in
// the session.
func (b *Bot) handleManagerToggle(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.notifier.Error(chatID, service.ErrLoginRequired.Error())
		return
	}

	manager := !session.VenueManager
	input := models.ProfileInput{VenueManager: &manager}
	if _, err := b.profileService.Update(ctx, chatID, session, input); err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	if manager {
		b.notifier.Success(chatID, "You are now a venue manager!")
	} else {
		b.notifier.Success(chatID, "You are no longer a venue manager.")
	}
	b.showProfile(ctx, chatID)
}

// confirmCancelBooking asks before a booking is cancelled.
func (b *Bot) confirmCancelBooking(chatID int64, messageID int, bookingID string) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, cancel it", "bdelyes:"+bookingID),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep it", "noop"),
		},
	)
	b.renderOrEdit(chatID, messageID, "Cancel this booking?", keyboard)
}

// handleCancelBooking deletes the booking remotely first; the local
// profile view only drops it after the server confirmed.
func (b *Bot) handleCancelBooking(ctx context.Context, chatID int64, bookingID string) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.notifier.Error(chatID, service.ErrLoginRequired.Error())
		return
	}

	profile, profileErr := b.profileService.Get(ctx, session)

	booking := &models.Booking{ID: bookingID}
	if err := b.bookingService.Cancel(ctx, session, booking); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("booking_id", bookingID).Msg("cancel booking failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	b.notifier.Success(chatID, "Booking cancelled.")

	// Server confirmed; drop the booking from the held snapshot instead
	// of refetching the whole profile.
	if profileErr == nil && service.RemoveBooking(profile, bookingID) {
		b.renderProfile(chatID, profile)
		return
	}
	b.showProfile(ctx, chatID)
}

// confirmDeleteVenue asks before a venue is removed.
func (b *Bot) confirmDeleteVenue(chatID int64, messageID int, venueID string) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete it", "vdelyes:"+venueID),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep it", "noop"),
		},
	)
	b.renderOrEdit(chatID, messageID, "Delete this venue? This cannot be undone.", keyboard)
}

// handleDeleteVenue removes a venue. The current listing drops it only
// after the server confirmed the deletion.
func (b *Bot) handleDeleteVenue(ctx context.Context, chatID int64, venueID string) {
	session := b.authService.Session(ctx, chatID)
	listing := b.listingService.ForChat(chatID)

	if err := b.venueService.Delete(ctx, session, venueID, listing); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("venue_id", venueID).Msg("delete venue failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	b.notifier.Success(chatID, "Venue deleted.")
	b.reloadListing(ctx, chatID)
}
