package semester

import (
	"time"

	"usmweek/utils"
)

// Phase says where a date sits relative to the semester.
type Phase int

const (
	BeforeStart Phase = iota
	InSemester
	AfterEnd
)

func (p Phase) String() string {
	switch p {
	case BeforeStart:
		return "before_start"
	case InSemester:
		return "in_semester"
	case AfterEnd:
		return "after_end"
	default:
		return "unknown"
	}
}

// MessageKind selects the notice shown for an in-semester week. The zero
// value means no notice and is only found outside the semester.
type MessageKind int

const (
	WeeksUntilBreak MessageKind = iota + 1
	IsBreakWeek
	WeeksUntilStudyWeek
	IsStudyWeek
	IsExamPeriod
)

func (k MessageKind) String() string {
	switch k {
	case WeeksUntilBreak:
		return "weeks_until_break"
	case IsBreakWeek:
		return "break_week"
	case WeeksUntilStudyWeek:
		return "weeks_until_study_week"
	case IsStudyWeek:
		return "study_week"
	case IsExamPeriod:
		return "exam_period"
	default:
		return "none"
	}
}

// Message is the notice for an in-semester week. Weeks is the countdown
// for WeeksUntilBreak and WeeksUntilStudyWeek and zero otherwise.
type Message struct {
	Kind  MessageKind
	Weeks int
}

// Classification is the result of [Classify]. Week, WeekStart, WeekEnd and
// Message are only set when Phase is InSemester.
type Classification struct {
	Phase     Phase
	Date      time.Time // the classified calendar date, midnight UTC
	Week      int
	WeekStart time.Time // Monday
	WeekEnd   time.Time // Sunday
	Message   Message
}

// Classify places target within cfg. Only target's calendar date, read in
// its own location, is considered. Week numbers count Monday boundaries
// crossed since cfg.Start, so the first Monday after a mid-week start
// already begins week 2.
func Classify(target time.Time, cfg Config) Classification {
	day := utils.DateOf(target)
	c := Classification{Date: day}

	switch {
	case day.Before(utils.DateOf(cfg.Start)):
		c.Phase = BeforeStart
		return c
	case day.After(utils.DateOf(cfg.End)):
		c.Phase = AfterEnd
		return c
	}

	c.Phase = InSemester
	c.Week = utils.CalendarWeeksBetween(day, cfg.Start) + 1
	c.WeekStart = utils.StartOfWeek(day)
	c.WeekEnd = utils.EndOfWeek(day)
	c.Message = messageFor(c.Week, cfg)
	return c
}

func messageFor(week int, cfg Config) Message {
	switch {
	case week < cfg.MidBreakWeek:
		return Message{Kind: WeeksUntilBreak, Weeks: cfg.MidBreakWeek - week}
	case week == cfg.MidBreakWeek:
		return Message{Kind: IsBreakWeek}
	case week < cfg.StudyWeek:
		return Message{Kind: WeeksUntilStudyWeek, Weeks: cfg.StudyWeek - week}
	case week == cfg.StudyWeek:
		return Message{Kind: IsStudyWeek}
	default:
		return Message{Kind: IsExamPeriod}
	}
}
