package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"holidaze/internal/models"
	"holidaze/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const keepValue = "-"

// startVenueWizard begins the venue form. With a venue ID the wizard runs
// in edit mode: the draft is prefilled from the existing venue and every
// prompt accepts "-" to keep the current value.
func (b *Bot) startVenueWizard(ctx context.Context, chatID int64, venueID string) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.notifier.Error(chatID, service.ErrLoginRequired.Error())
		return
	}
	if b.sessionExpired(chatID, session) {
		return
	}
	if !session.VenueManager {
		b.notifier.Error(chatID, service.ErrManagerRequired.Error())
		b.sendMessage(chatID, "Enable venue manager in /profile first.")
		return
	}

	data := map[string]interface{}{}
	if venueID != "" {
		venue, err := b.venueService.Get(ctx, venueID)
		if err != nil {
			b.notifier.Error(chatID, errorText(err))
			return
		}
		data["edit_venue_id"] = venue.ID
		data["v_name"] = venue.Name
		data["v_desc"] = venue.Description
		data["v_price"] = venue.Price
		data["v_guests"] = venue.MaxGuests
		data["v_rating"] = venue.Rating
		data["v_address"] = venue.Location.Address
		data["v_city"] = venue.Location.City
		data["v_zip"] = venue.Location.Zip
		data["v_country"] = venue.Location.Country
		if len(venue.Media) > 0 {
			data["v_media"] = venue.Media[0].URL
		}
		data["v_wifi"] = venue.Meta.Wifi
		data["v_parking"] = venue.Meta.Parking
		data["v_breakfast"] = venue.Meta.Breakfast
		data["v_pets"] = venue.Meta.Pets
	}

	b.setStep(ctx, chatID, models.StepVenueName, data)
	if venueID != "" {
		b.sendMessage(chatID, fmt.Sprintf("Editing venue. Send a new value or %q to keep the current one.\n\nVenue name (currently %q):",
			keepValue, data["v_name"]))
		return
	}
	b.sendMessage(chatID, "Let's list a new venue. What is it called?")
}

// venueWizardPrompts orders the free-text steps of the form.
var venueWizardPrompts = []struct {
	step   string
	key    string
	prompt string
}{
	{models.StepVenueName, "v_name", "What is the venue called?"},
	{models.StepVenueDesc, "v_desc", "Describe the venue:"},
	{models.StepVenuePrice, "v_price", "Price per night in kr:"},
	{models.StepVenueGuests, "v_guests", "Maximum number of guests:"},
	{models.StepVenueRating, "v_rating", "Rating 0-5 (or 0 if unrated):"},
	{models.StepVenueAddress, "v_address", "Street address:"},
	{models.StepVenueCity, "v_city", "City:"},
	{models.StepVenueZip, "v_zip", "Zip code:"},
	{models.StepVenueCountry, "v_country", "Country:"},
	{models.StepVenueMedia, "v_media", "Image URL (or \"none\"):"},
}

// handleVenueWizardStep consumes one free-text answer and prompts the
// next field. Numeric fields are validated inline so the user corrects
// them on the spot instead of at the end.
func (b *Bot) handleVenueWizardStep(ctx context.Context, chatID int64, state *models.ChatState, text string) {
	idx := -1
	for i, p := range venueWizardPrompts {
		if p.step == state.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	editing := state.GetString("edit_venue_id") != ""
	current := venueWizardPrompts[idx]

	if !(editing && text == keepValue) {
		value, err := parseVenueField(current.key, text)
		if err != nil {
			b.sendMessage(chatID, err.Error())
			return
		}
		state.Set(current.key, value)
	}

	if idx+1 < len(venueWizardPrompts) {
		next := venueWizardPrompts[idx+1]
		b.setStep(ctx, chatID, next.step, state.Data)
		prompt := next.prompt
		if editing {
			prompt = fmt.Sprintf("%s (currently %v, %q keeps it)", next.prompt, state.Data[next.key], keepValue)
		}
		b.sendMessage(chatID, prompt)
		return
	}

	b.setStep(ctx, chatID, models.StepVenueAmenities, state.Data)
	b.sendAmenitiesKeyboard(chatID, 0, state)
}

func parseVenueField(key, text string) (interface{}, error) {
	text = strings.TrimSpace(text)
	switch key {
	case "v_price":
		price, err := strconv.ParseFloat(text, 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("Please enter a positive number.")
		}
		return price, nil
	case "v_guests":
		guests, err := strconv.Atoi(text)
		if err != nil || guests <= 0 {
			return nil, fmt.Errorf("Please enter the max number of guests.")
		}
		return guests, nil
	case "v_rating":
		rating, err := strconv.ParseFloat(text, 64)
		if err != nil || rating < 0 || rating > models.MaxRating {
			return nil, fmt.Errorf("Rating must be between 0 and 5.")
		}
		return rating, nil
	case "v_media":
		if strings.EqualFold(text, "none") {
			return "", nil
		}
		if !service.IsValidURL(text) {
			return nil, fmt.Errorf("Please enter a valid URL.")
		}
		return text, nil
	default:
		return text, nil
	}
}

// sendAmenitiesKeyboard shows the amenity toggles. Taps flip a flag and
// redraw the same message; Done moves to the confirmation summary.
func (b *Bot) sendAmenitiesKeyboard(chatID int64, messageID int, state *models.ChatState) {
	mark := func(key, label string) string {
		if state.GetBool(key) {
			return "✔ " + label
		}
		return "✖ " + label
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(mark("v_wifi", "Wifi"), "amn:wifi"),
			tgbotapi.NewInlineKeyboardButtonData(mark("v_parking", "Parking"), "amn:parking"),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(mark("v_breakfast", "Breakfast"), "amn:breakfast"),
			tgbotapi.NewInlineKeyboardButtonData(mark("v_pets", "Pets"), "amn:pets"),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Done ➡️", "amn:done"),
		},
	)
	b.renderOrEdit(chatID, messageID, "Which amenities does the venue offer?", keyboard)
}

// handleAmenityToggle flips one amenity flag, or advances to the summary.
func (b *Bot) handleAmenityToggle(ctx context.Context, chatID int64, messageID int, state *models.ChatState, amenity string) {
	if state == nil || state.Step != models.StepVenueAmenities {
		return
	}

	if amenity == "done" {
		b.setStep(ctx, chatID, models.StepVenueConfirm, state.Data)
		b.sendVenueSummary(chatID, state)
		return
	}

	key := "v_" + amenity
	switch amenity {
	case "wifi", "parking", "breakfast", "pets":
		state.Set(key, !state.GetBool(key))
	default:
		return
	}
	_ = b.stateService.UpdateChatStateData(ctx, chatID, key, state.GetBool(key))
	b.sendAmenitiesKeyboard(chatID, messageID, state)
}

func (b *Bot) sendVenueSummary(chatID int64, state *models.ChatState) {
	input := venueInputFromState(state)

	action := "Create venue"
	if state.GetString("edit_venue_id") != "" {
		action = "Save changes"
	}

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("*%s*\n%s\n\n", input.Name, input.Description))
	summary.WriteString(fmt.Sprintf("💰 %s per night · 👥 up to %d guests · %s\n",
		formatPrice(input.Price), input.MaxGuests, formatRating(input.Rating)))
	summary.WriteString(formatAmenities(input.Meta) + "\n")
	summary.WriteString(fmt.Sprintf("📍 %s, %s %s, %s\n",
		input.Location.Address, input.Location.Zip, input.Location.City, input.Location.Country))
	if len(input.Media) > 0 {
		summary.WriteString(input.Media[0].URL + "\n")
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ "+action, "vconfirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "vcancel"),
		},
	)
	b.renderOrEdit(chatID, 0, summary.String(), keyboard)
}

// handleVenueConfirm submits the form, creating or updating depending on
// the wizard mode. Validation failures keep the dialog open so the user
// can restart with /addvenue.
func (b *Bot) handleVenueConfirm(ctx context.Context, chatID int64, state *models.ChatState) {
	if state == nil || state.Step != models.StepVenueConfirm {
		return
	}

	session := b.authService.Session(ctx, chatID)
	input := venueInputFromState(state)
	editID := state.GetString("edit_venue_id")

	var err error
	if editID != "" {
		_, err = b.venueService.Update(ctx, session, editID, input)
	} else {
		_, err = b.venueService.Create(ctx, session, input)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("chat_id", chatID).Msg("venue save failed")
		b.notifier.Error(chatID, errorText(err))
		return
	}

	_ = b.stateService.ClearChatState(ctx, chatID)
	if editID != "" {
		b.notifier.Success(chatID, "Venue updated successfully!")
		return
	}
	b.notifier.Success(chatID, "Venue created successfully!")
	// The new venue sorts first; refresh the listing so it shows up.
	b.reloadListing(ctx, chatID)
}

func venueInputFromState(state *models.ChatState) models.VenueInput {
	input := models.VenueInput{
		Name:        state.GetString("v_name"),
		Description: state.GetString("v_desc"),
		Price:       state.GetFloat("v_price"),
		MaxGuests:   state.GetInt("v_guests"),
		Rating:      state.GetFloat("v_rating"),
		Meta: models.VenueMeta{
			Wifi:      state.GetBool("v_wifi"),
			Parking:   state.GetBool("v_parking"),
			Breakfast: state.GetBool("v_breakfast"),
			Pets:      state.GetBool("v_pets"),
		},
		Location: models.Location{
			Address: state.GetString("v_address"),
			City:    state.GetString("v_city"),
			Zip:     state.GetString("v_zip"),
			Country: state.GetString("v_country"),
		},
	}
	if url := state.GetString("v_media"); url != "" {
		input.Media = []models.Media{{URL: url, Alt: input.Name}}
	}
	return input
}
