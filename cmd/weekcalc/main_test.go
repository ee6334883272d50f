package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"usmweek/presenter"
)

var now = time.Date(2025, time.May, 12, 9, 0, 0, 0, time.UTC)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, now)
	return code, stdout.String(), stderr.String()
}

func TestRun_TextToday(t *testing.T) {
	code, out, errOut := runCmd(t, "-tz", "UTC")
	require.Equal(t, 0, code, errOut)

	assert.Equal(t, "Today's date is Monday, 12 May 2025\n\nToday is\nWeek 8\n12 May - 18 May 2025\n\nMid-Semester Break!\n", out)
}

func TestRun_TextBeforeStart(t *testing.T) {
	code, out, _ := runCmd(t, "-tz", "UTC", "-date", "2025-03-20")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "Showing info for Thursday, 20 March 2025")
	assert.Contains(t, out, "Semester not started")
	assert.Contains(t, out, "Semester starts on 24 March 2025")
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := runCmd(t, "-tz", "UTC", "-date", "2025-07-21", "-format", "json")
	require.Equal(t, 0, code)

	var report presenter.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 18, report.Week)
	assert.Equal(t, "exam_period", report.Message.Kind)
}

func TestRun_YAML(t *testing.T) {
	code, out, _ := runCmd(t, "-tz", "UTC", "-date", "2025-03-24", "-format", "yaml")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "phase: in_semester\n")
	assert.Contains(t, out, "week_start: \"2025-03-24\"\n")

	var report presenter.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Week)
	require.NotNil(t, report.Message)
	assert.Equal(t, 7, report.Message.Weeks)
	assert.Equal(t, "7 weeks until mid-semester break", report.Message.Text)
}

func TestRun_BadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unparseable date", []string{"-date", "12/05/2025"}, "invalid date"},
		{"outside accepted year", []string{"-date", "2026-05-12"}, "within the year 2025"},
		{"unknown format", []string{"-format", "xml"}, "unknown format"},
		{"unknown timezone", []string{"-tz", "Nowhere/Atlantis"}, "unknown timezone"},
		{"unknown flag", []string{"-week"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCmd(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.want)
		})
	}
}
