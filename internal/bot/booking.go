package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"holidaze/internal/models"
	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// startBooking opens the date-selection dialog for a venue. Requires an
// authenticated session up front so the user never fills a form they
// cannot submit.
func (b *Bot) startBooking(ctx context.Context, chatID int64, venueID string) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.notifier.Error(chatID, service.ErrLoginRequired.Error())
		b.sendMessage(chatID, "Use /login to sign in or /register to create an account.")
		return
	}
	if b.sessionExpired(chatID, session) {
		return
	}

	venue, err := b.venueService.Get(ctx, venueID)
	if err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	now := time.Now().UTC()
	b.setStep(ctx, chatID, models.StepBookingFrom, map[string]interface{}{
		"venue_id":  venue.ID,
		"cal_month": now.Format("2006-01"),
	})

	b.renderBookingCalendar(ctx, chatID, 0, models.StepBookingFrom, venue, now.Format("2006-01"), "")
}

// renderBookingCalendar draws (or redraws) the month grid. Occupied and
// past days are unselectable; while picking the check-out date the days
// up to and including check-in are unselectable too.
func (b *Bot) renderBookingCalendar(
	ctx context.Context,
	chatID int64,
	messageID int,
	step string,
	venue *models.Venue,
	calMonth string,
	dateFrom string,
) {
	month, err := time.Parse("2006-01", calMonth)
	if err != nil {
		month = time.Now().UTC()
	}

	blocked := b.bookingService.BlockedDates(venue)
	var from time.Time
	if dateFrom != "" {
		from, _ = time.Parse("2006-01-02", dateFrom)
	}

	selectable := func(day time.Time) bool {
		if !b.bookingService.IsDateSelectable(blocked, day) {
			return false
		}
		if step == models.StepBookingTo && !from.IsZero() && !day.After(from) {
			return false
		}
		return true
	}

	title := fmt.Sprintf("📅 %s\nSelect a check-in date:", venue.Name)
	if step == models.StepBookingTo {
		title = fmt.Sprintf("📅 %s\nCheck-in %s. Select a check-out date:", venue.Name, dateFrom)
	}

	keyboard := calendarKeyboard(month.Year(), month.Month(), selectable)
	b.renderOrEdit(chatID, messageID, title, keyboard)
}

// handleCalendarNav flips the booking calendar a month back or forward.
func (b *Bot) handleCalendarNav(ctx context.Context, chatID int64, messageID int, state *models.ChatState, yearMonth string) {
	if state == nil || (state.Step != models.StepBookingFrom && state.Step != models.StepBookingTo) {
		return
	}
	if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return
	}

	venue, err := b.venueService.Get(ctx, state.GetString("venue_id"))
	if err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	_ = b.stateService.UpdateChatStateData(ctx, chatID, "cal_month", yearMonth)
	b.renderBookingCalendar(ctx, chatID, messageID, state.Step, venue, yearMonth, state.GetString("date_from"))
}

// handleBookingDay consumes a tapped calendar day: first the check-in,
// then the check-out, then hands over to the guest prompt.
func (b *Bot) handleBookingDay(ctx context.Context, chatID int64, messageID int, state *models.ChatState, dateStr string) {
	if state == nil {
		return
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return
	}

	switch state.Step {
	case models.StepBookingFrom:
		venue, err := b.venueService.Get(ctx, state.GetString("venue_id"))
		if err != nil {
			b.notifier.Error(chatID, errorText(err))
			return
		}
		data := map[string]interface{}{
			"venue_id":  venue.ID,
			"cal_month": state.GetString("cal_month"),
			"date_from": dateStr,
		}
		b.setStep(ctx, chatID, models.StepBookingTo, data)
		b.renderBookingCalendar(ctx, chatID, messageID, models.StepBookingTo, venue, state.GetString("cal_month"), dateStr)

	case models.StepBookingTo:
		from, _ := time.Parse("2006-01-02", state.GetString("date_from"))
		to, _ := time.Parse("2006-01-02", dateStr)
		if models.DaysBetween(from, to) <= 0 {
			b.notifier.Error(chatID, service.ErrInvalidDateRange.Error())
			return
		}
		data := map[string]interface{}{
			"venue_id":  state.GetString("venue_id"),
			"date_from": state.GetString("date_from"),
			"date_to":   dateStr,
		}
		b.setStep(ctx, chatID, models.StepBookingGuests, data)
		b.sendMessage(chatID, fmt.Sprintf("Dates %s — %s. How many guests?",
			formatDate(from), formatDate(to)))
	}
}

// handleBookingGuestsInput parses the free-text guest count and shows the
// confirmation summary.
func (b *Bot) handleBookingGuestsInput(ctx context.Context, chatID int64, state *models.ChatState, text string) {
	guests, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || guests <= 0 {
		b.notifier.Error(chatID, service.ErrGuestsRequired.Error())
		return
	}

	venue, verr := b.venueService.Get(ctx, state.GetString("venue_id"))
	if verr != nil {
		b.notifier.Error(chatID, errorText(verr))
		return
	}
	if guests > venue.MaxGuests {
		b.notifier.Error(chatID, fmt.Sprintf("This venue takes at most %d guests.", venue.MaxGuests))
		return
	}

	data := map[string]interface{}{
		"venue_id":  state.GetString("venue_id"),
		"date_from": state.GetString("date_from"),
		"date_to":   state.GetString("date_to"),
		"guests":    guests,
	}
	b.setStep(ctx, chatID, models.StepBookingConfirm, data)

	from, _ := time.Parse("2006-01-02", state.GetString("date_from"))
	to, _ := time.Parse("2006-01-02", state.GetString("date_to"))
	nights := models.DaysBetween(from, to)
	total := service.TotalPrice(from, to, venue.Price)

	summary := fmt.Sprintf("*Booking summary*\n\n🏝 %s\n📅 %s — %s (%d nights)\n👥 %d guests\n💰 Total: %s",
		venue.Name, formatDate(from), formatDate(to), nights, guests, formatPrice(total))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm booking", "bkconfirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "bkcancel"),
		},
	)
	b.renderOrEdit(chatID, 0, summary, keyboard)
}

// handleBookingConfirm submits the booking. The venue is re-fetched so
// validation runs against fresh availability, and a conflict from the
// server still surfaces as its own message.
func (b *Bot) handleBookingConfirm(ctx context.Context, chatID int64, state *models.ChatState) {
	if state == nil || state.Step != models.StepBookingConfirm {
		return
	}

	session := b.authService.Session(ctx, chatID)
	venue, err := b.venueService.Get(ctx, state.GetString("venue_id"))
	if err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	from, _ := time.Parse("2006-01-02", state.GetString("date_from"))
	to, _ := time.Parse("2006-01-02", state.GetString("date_to"))
	form := service.BookingForm{
		VenueID:  venue.ID,
		DateFrom: from,
		DateTo:   to,
		Guests:   state.GetInt("guests"),
	}

	_, err = b.bookingService.Book(ctx, session, form, venue)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("venue_id", venue.ID).Msg("booking failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	_ = b.stateService.ClearChatState(ctx, chatID)
	b.notifier.Success(chatID, "Booking successful! Find bookings in your profile.")
}
