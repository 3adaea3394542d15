package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"holidaze/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// handleExport writes the user's bookings to an XLSX file and sends it
// back as a document. Requires a session; an empty booking list still
// produces a file with just the header row.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	session := b.authService.Session(ctx, chatID)
	if !session.IsAuthenticated() {
		b.sendMessage(chatID, "You are not logged in. Use /login first.")
		return
	}
	if b.sessionExpired(chatID, session) {
		return
	}

	profile, err := b.profileService.Get(ctx, session)
	if err != nil {
		b.notifier.Error(chatID, errorText(err))
		return
	}

	filePath, err := b.exportBookingsToExcel(profile)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("export failed")
		b.notifier.Error(chatID, "Could not create the export file.")
		return
	}
	defer os.Remove(filePath)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = fmt.Sprintf("Bookings for %s", profile.Name)
	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send export failed")
		b.notifier.Error(chatID, "Could not send the export file.")
	}
}

// exportBookingsToExcel renders the profile's bookings into a fresh XLSX
// workbook under the configured export directory.
func (b *Bot) exportBookingsToExcel(profile *models.Profile) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Venue", "Location", "Check-in", "Check-out", "Nights", "Guests", "Price/night", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, first, last, headerStyle)
	}

	for i, booking := range profile.Bookings {
		row := i + 2
		venueName := ""
		location := ""
		var price float64
		if booking.Venue != nil {
			venueName = booking.Venue.Name
			location = formatLocation(booking.Venue.Location)
			price = booking.Venue.Price
		}
		nights := booking.Nights()

		values := []interface{}{
			venueName,
			location,
			booking.DateFrom.Format("02.01.2006"),
			booking.DateTo.Format("02.01.2006"),
			nights,
			booking.Guests,
			price,
			float64(nights) * price,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "H", 14)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_%s.xlsx", profile.Name, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
