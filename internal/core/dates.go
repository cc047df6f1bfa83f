package core

import (
	"strings"
	"time"
)

// TodayString returns today's date in the given location as YYYY-MM-DD.
func TodayString(loc *time.Location) string {
	return time.Now().In(loc).Format("2006-01-02")
}

// NormalizeRelativeDates substitutes the supported Korean relative-date
// keywords (오늘, 내일, 모레, 어제) in text with absolute YYYY-MM-DD dates
// evaluated in loc. Particles attached to a keyword ("내일부터", "오늘은")
// are left in place; only the keyword itself is replaced. Anything more
// elaborate ("다음주 금요일") is delegated to the language model.
func NormalizeRelativeDates(text string, loc *time.Location) string {
	base := time.Now().In(loc)
	replacements := []struct {
		keyword string
		offset  int
	}{
		{"오늘", 0},
		{"내일", 1},
		{"모레", 2},
		{"어제", -1},
	}
	out := text
	for _, r := range replacements {
		date := base.AddDate(0, 0, r.offset).Format("2006-01-02")
		out = strings.ReplaceAll(out, r.keyword, date)
	}
	return out
}
