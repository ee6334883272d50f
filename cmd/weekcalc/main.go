// Command weekcalc prints which USM semester week a date falls in.
//
// Usage:
//
//	weekcalc [-date 2025-05-12] [-format text|json|yaml] [-tz Asia/Kuala_Lumpur]
//
// Without -date the current date in -tz is used.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"usmweek/presenter"
	"usmweek/semester"
	"usmweek/utils"
)

const defaultTimezone = "Asia/Kuala_Lumpur"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now()))
}

// run executes the command and returns the process exit code: 0 on
// success, 2 for bad arguments, 1 when output could not be written.
func run(args []string, stdout, stderr io.Writer, now time.Time) int {
	fs := flag.NewFlagSet("weekcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dateFlag := fs.String("date", "", "date to classify (YYYY-MM-DD); defaults to today")
	format := fs.String("format", "text", "output format: text, json or yaml")
	tz := fs.String("tz", defaultTimezone, "timezone that defines today")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(stderr, "weekcalc: unknown timezone %q: %v\n", *tz, err)
		return 2
	}

	today := utils.DateOf(now.In(loc))
	date := today
	if *dateFlag != "" {
		parsed, err := utils.ParseDate(*dateFlag)
		if err != nil {
			fmt.Fprintf(stderr, "weekcalc: invalid date %q, expected YYYY-MM-DD\n", *dateFlag)
			return 2
		}
		if parsed.Year() != semester.AcceptedYear {
			fmt.Fprintf(stderr, "weekcalc: Please select a date within the year %d.\n", semester.AcceptedYear)
			return 2
		}
		date = parsed
	}

	c := semester.Classify(date, semester.USM)

	switch *format {
	case "text":
		err = writeText(stdout, c, date.Equal(today))
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(presenter.NewReport(c, semester.USM))
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		err = enc.Encode(presenter.NewReport(c, semester.USM))
		if err == nil {
			err = enc.Close()
		}
	default:
		fmt.Fprintf(stderr, "weekcalc: unknown format %q\n", *format)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "weekcalc: %v\n", err)
		return 1
	}
	return 0
}

func writeText(w io.Writer, c semester.Classification, isToday bool) error {
	v := presenter.Describe(c, semester.USM, isToday)
	_, err := fmt.Fprintf(w, "%s %s\n\n%s\n%s\n%s\n", presenter.DateLabel(isToday), presenter.FormatLongDate(c.Date), v.Lead, v.Headline, v.Detail)
	if err != nil {
		return err
	}
	if v.Message != "" {
		_, err = fmt.Fprintf(w, "\n%s\n", v.Message)
	}
	return err
}
