package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// calendarKeyboard builds a Monday-first month grid. Days rejected by
// selectable (past days and blocked dates) render as dots and answer with
// a noop callback, so a disabled date can never become a selection.
func calendarKeyboard(year int, month time.Month, selectable func(day time.Time) bool) tgbotapi.InlineKeyboardMarkup {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	weekdayOffset := int(firstDay.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7
	}
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	rows := make([][]tgbotapi.InlineKeyboardButton, 0)

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(firstDay.Format("January 2006"), "noop"),
	})
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Mo", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Tu", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("We", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Th", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Fr", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Sa", "noop"),
		tgbotapi.NewInlineKeyboardButtonData("Su", "noop"),
	})

	day := 1
	for day <= daysInMonth {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for col := 1; col <= 7; col++ {
			if len(rows) == 2 && col < weekdayOffset {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}
			if day > daysInMonth {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
				continue
			}

			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if selectable != nil && !selectable(date) {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData("·", "noop"))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("%d", day),
					"day:"+date.Format("2006-01-02"),
				))
			}
			day++
		}
		rows = append(rows, row)
	}

	prev := firstDay.AddDate(0, -1, 0)
	next := firstDay.AddDate(0, 1, 0)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("«", "calnav:"+prev.Format("2006-01")),
		tgbotapi.NewInlineKeyboardButtonData("»", "calnav:"+next.Format("2006-01")),
	})

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
