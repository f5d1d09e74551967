package util

import (
	"fmt"
	"strconv"
	"time"
)

var monthsRU = []string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

func NowISO() string {
	return time.Now().Format(time.RFC3339)
}

// FormatDateRU renders the date part of an ISO timestamp or a YYYY-MM-DD
// string as "29 января 2025". Unparseable input is returned as is.
func FormatDateRU(iso string) string {
	if len(iso) > 10 {
		iso = iso[:10]
	}
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d %s %d", d.Day(), monthsRU[d.Month()-1], d.Year())
}

// FormatDayMonthRU renders a YYYY-MM-DD date as "29 января".
func FormatDayMonthRU(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s", d.Day(), monthsRU[d.Month()-1])
}

// FormatPrice renders a price without trailing zeros ("1500", "750.5").
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// ShiftDate returns the YYYY-MM-DD date days away from the given one.
func ShiftDate(date string, days int) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("shift date: %w", err)
	}
	return d.AddDate(0, 0, days).Format("2006-01-02"), nil
}
