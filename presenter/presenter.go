// Package presenter turns semester classifications into the strings shown
// on the page, in the API and by the CLI.
package presenter

import (
	"fmt"
	"time"

	"usmweek/semester"
	"usmweek/utils"
)

// DefaultTitle is the page title before a date has been classified.
const DefaultTitle = "USM Week Calculator"

// View holds the display strings for one classification.
type View struct {
	Title    string
	Lead     string
	Headline string
	Detail   string
	Message  string
	IsWeek   bool
}

// Describe maps c to display strings. isToday changes the lead line of an
// in-semester week from "On this date, it is..." to "Today is".
func Describe(c semester.Classification, cfg semester.Config, isToday bool) View {
	switch c.Phase {
	case semester.BeforeStart:
		return View{
			Title:    "Semester not started",
			Lead:     "On this date...",
			Headline: "Semester not started",
			Detail:   "Semester starts on " + cfg.Start.Format("2 January 2006"),
		}
	case semester.AfterEnd:
		return View{
			Title:    "Semester ended!",
			Lead:     "On this date...",
			Headline: "Semester ended!",
			Detail:   "Semester ended on " + cfg.End.Format("2 January 2006"),
		}
	}

	lead := "On this date, it is..."
	if isToday {
		lead = "Today is"
	}
	return View{
		Title:    fmt.Sprintf("Week %d at USM", c.Week),
		Lead:     lead,
		Headline: fmt.Sprintf("Week %d", c.Week),
		Detail:   WeekRange(c.WeekStart, c.WeekEnd),
		Message:  MessageText(c.Message),
		IsWeek:   true,
	}
}

// MessageText renders the notice for an in-semester week.
func MessageText(m semester.Message) string {
	switch m.Kind {
	case semester.WeeksUntilBreak:
		return weeks(m.Weeks) + " until mid-semester break"
	case semester.IsBreakWeek:
		return "Mid-Semester Break!"
	case semester.WeeksUntilStudyWeek:
		return weeks(m.Weeks) + " until study week"
	case semester.IsStudyWeek:
		return "It's study week. Get studying!"
	case semester.IsExamPeriod:
		return "It's exam week. Good luck!"
	}
	return ""
}

func weeks(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d weeks", n)
	}
	return fmt.Sprintf("%d week", n)
}

// WeekRange renders a Monday to Sunday span, e.g. "24 March - 30 March 2025".
func WeekRange(start, end time.Time) string {
	return start.Format("02 January") + " - " + end.Format("02 January 2006")
}

// FormatLongDate renders t as "Monday, 24 March 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, 02 January 2006")
}

// DateLabel is the caption in front of the long date.
func DateLabel(isToday bool) string {
	if isToday {
		return "Today's date is"
	}
	return "Showing info for"
}

// Report is the serialisable form of a classification, shared by the JSON
// API, the websocket feed and the CLI.
type Report struct {
	Date      string         `json:"date" yaml:"date"`
	Phase     string         `json:"phase" yaml:"phase"`
	Week      int            `json:"week,omitempty" yaml:"week,omitempty"`
	WeekStart string         `json:"week_start,omitempty" yaml:"week_start,omitempty"`
	WeekEnd   string         `json:"week_end,omitempty" yaml:"week_end,omitempty"`
	Message   *ReportMessage `json:"message,omitempty" yaml:"message,omitempty"`
	Title     string         `json:"title" yaml:"title"`
	Headline  string         `json:"headline" yaml:"headline"`
	Detail    string         `json:"detail" yaml:"detail"`
}

type ReportMessage struct {
	Kind  string `json:"kind" yaml:"kind"`
	Weeks int    `json:"weeks,omitempty" yaml:"weeks,omitempty"`
	Text  string `json:"text" yaml:"text"`
}

// NewReport builds the Report for c.
func NewReport(c semester.Classification, cfg semester.Config) Report {
	v := Describe(c, cfg, false)
	r := Report{
		Date:     utils.FormatDate(c.Date),
		Phase:    c.Phase.String(),
		Title:    v.Title,
		Headline: v.Headline,
		Detail:   v.Detail,
	}
	if c.Phase == semester.InSemester {
		r.Week = c.Week
		r.WeekStart = utils.FormatDate(c.WeekStart)
		r.WeekEnd = utils.FormatDate(c.WeekEnd)
		r.Message = &ReportMessage{
			Kind:  c.Message.Kind.String(),
			Weeks: c.Message.Weeks,
			Text:  v.Message,
		}
	}
	return r
}
