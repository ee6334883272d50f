// Package semester maps calendar dates onto the academic weeks of a
// semester.
//
// A semester is described by a [Config]: the first day of week 1, the last
// day of the final exam week, and the week numbers of the mid-semester break
// and of study week. [Classify] turns a date into a [Classification] telling
// whether the semester has started, which Monday-to-Sunday week the date is
// in, and which countdown or notice applies to that week.
//
//	c := semester.Classify(time.Now(), semester.USM)
//	if c.Phase == semester.InSemester {
//		fmt.Println("Week", c.Week)
//	}
package semester

import (
	"errors"
	"fmt"
	"time"

	"usmweek/utils"
)

// AcceptedYear is the only calendar year a visitor may pick a date from.
const AcceptedYear = 2025

// ErrInvalidConfig is wrapped by every error returned from [Config.Validate].
var ErrInvalidConfig = errors.New("invalid semester config")

// Config describes one semester. Start and End are calendar dates; only
// their year, month and day are used.
type Config struct {
	Start        time.Time // first day of week 1, inclusive
	End          time.Time // last day of the final exam week, inclusive
	MidBreakWeek int
	StudyWeek    int
}

// USM is the deployed semester.
var USM = Config{
	Start:        time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC),
	End:          time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC),
	MidBreakWeek: 8,
	StudyWeek:    16,
}

// Validate reports the first broken invariant of c, or nil.
func (c Config) Validate() error {
	switch {
	case c.Start.IsZero() || c.End.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidConfig)
	case utils.DateOf(c.End).Before(utils.DateOf(c.Start)):
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidConfig,
			utils.FormatDate(c.End), utils.FormatDate(c.Start))
	case c.MidBreakWeek < 1:
		return fmt.Errorf("%w: mid-semester break week must be positive, got %d", ErrInvalidConfig, c.MidBreakWeek)
	case c.StudyWeek <= c.MidBreakWeek:
		return fmt.Errorf("%w: study week %d must come after break week %d", ErrInvalidConfig, c.StudyWeek, c.MidBreakWeek)
	}
	return nil
}

// Weeks returns the number of calendar weeks the semester touches.
func (c Config) Weeks() int {
	return utils.CalendarWeeksBetween(c.End, c.Start) + 1
}
