package bot

import (
	"fmt"
	"strings"
	"time"

	"holidaze/internal/models"
)

func formatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%d kr", int64(price))
	}
	return fmt.Sprintf("%.2f kr", price)
}

func formatRating(rating float64) string {
	if rating <= 0 {
		return "no rating"
	}
	if rating == float64(int64(rating)) {
		return fmt.Sprintf("⭐ %d", int64(rating))
	}
	return fmt.Sprintf("⭐ %.1f", rating)
}

func formatLocation(loc models.Location) string {
	parts := make([]string, 0, 2)
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	if len(parts) == 0 {
		return "unknown location"
	}
	return strings.Join(parts, ", ")
}

func formatAmenities(meta models.VenueMeta) string {
	mark := func(ok bool) string {
		if ok {
			return "✔"
		}
		return "✖"
	}
	return fmt.Sprintf("%s wifi · %s parking · %s breakfast · %s pets",
		mark(meta.Wifi), mark(meta.Parking), mark(meta.Breakfast), mark(meta.Pets))
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
