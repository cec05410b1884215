package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariebrainware/practice-records/model"
)

// Sentinel errors returned by NormalizeDate.
var (
	ErrInvalidDateFormat = errors.New("date must be DD/MM/YYYY or YYYY-MM-DD")
	ErrInvalidDate       = errors.New("date does not exist on the calendar")
)

// NormalizeDate parses a date written as DD/MM/YYYY or YYYY-MM-DD.
// It returns the calendar date and the compact DDMMYYYY digits used for
// default password derivation.
func NormalizeDate(raw string) (model.CalendarDate, string, error) {
	input := strings.TrimSpace(raw)

	var day, month, year string
	switch {
	case strings.Contains(input, "/"):
		parts := strings.Split(input, "/")
		if len(parts) != 3 {
			return model.CalendarDate{}, "", fmt.Errorf("%q: %w", raw, ErrInvalidDateFormat)
		}
		day, month, year = parts[0], parts[1], parts[2]
	case strings.Contains(input, "-"):
		parts := strings.Split(input, "-")
		if len(parts) != 3 {
			return model.CalendarDate{}, "", fmt.Errorf("%q: %w", raw, ErrInvalidDateFormat)
		}
		year, month, day = parts[0], parts[1], parts[2]
	default:
		return model.CalendarDate{}, "", fmt.Errorf("%q: %w", raw, ErrInvalidDateFormat)
	}

	day, okDay := padDigits(day, 2)
	month, okMonth := padDigits(month, 2)
	if !okDay || !okMonth || len(year) != 4 || !isDigits(year) {
		return model.CalendarDate{}, "", fmt.Errorf("%q: %w", raw, ErrInvalidDateFormat)
	}

	date, err := model.ParseCalendarDate(year + "-" + month + "-" + day)
	if err != nil {
		return model.CalendarDate{}, "", fmt.Errorf("%q: %w", raw, ErrInvalidDate)
	}
	return date, day + month + year, nil
}

// ParseDate is NormalizeDate without the compact form.
func ParseDate(raw string) (model.CalendarDate, error) {
	date, _, err := NormalizeDate(raw)
	return date, err
}

// padDigits zero-pads a numeric component of at most width digits.
func padDigits(s string, width int) (string, bool) {
	if len(s) == 0 || len(s) > width || !isDigits(s) {
		return "", false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%0*d", width, n), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
