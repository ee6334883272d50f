package web

import (
	"errors"
	"fmt"
	"time"

	"usmweek/utils"
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrOutsideAcceptedYear = errors.New("date outside accepted year")
)

// parseSelection validates a visitor supplied YYYY-MM-DD date against the
// accepted calendar year.
func parseSelection(raw string, year int) (time.Time, error) {
	date, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, raw, err)
	}
	if date.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %s is not in %d", ErrOutsideAcceptedYear, utils.FormatDate(date), year)
	}
	return date, nil
}

func yearNotice(year int) string {
	return fmt.Sprintf("Please select a date within the year %d.", year)
}
