package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"
	_ "time/tzdata"

	"usmweek/config"
	"usmweek/scheduler"
	"usmweek/semester"
	"usmweek/utils"
	"usmweek/web"
)

// IPMaskingWriter wraps an io.Writer to mask IP addresses in log output
type IPMaskingWriter struct {
	writer  io.Writer
	ipRegex *regexp.Regexp
}

func NewIPMaskingWriter(w io.Writer) *IPMaskingWriter {
	return &IPMaskingWriter{
		writer:  w,
		ipRegex: regexp.MustCompile(`\b(\d{1,3}\.\d{1,3})\.(\d{1,3}\.\d{1,3})\b`),
	}
}

// Write keeps only the last two octets of every IPv4 address. The returned
// count refers to p, not to the shorter masked line.
func (w *IPMaskingWriter) Write(p []byte) (int, error) {
	masked := w.ipRegex.ReplaceAll(p, []byte("*.*.${2}"))
	if _, err := w.writer.Write(masked); err != nil {
		return 0, err
	}
	return len(p), nil
}

func main() {
	log.SetOutput(NewIPMaskingWriter(os.Stdout))

	settings, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := semester.USM.Validate(); err != nil {
		log.Fatal("Semester configuration is broken:", err)
	}

	now := time.Now().In(settings.Location)
	log.Printf("🕒 Starting USM Week Calculator at: %s", now.Format("Monday, January 2, 2006 at 3:04:05 PM MST"))
	log.Printf("🎓 Semester %s to %s, break week %d, study week %d",
		utils.FormatDate(semester.USM.Start), utils.FormatDate(semester.USM.End),
		semester.USM.MidBreakWeek, semester.USM.StudyWeek)

	broadcaster := web.NewTodayBroadcaster(semester.USM, settings.Location)

	rollover := scheduler.NewRollover(semester.USM, settings.Location)
	rollover.SetBroadcaster(broadcaster)
	rollover.RunOnce(now)
	if err := rollover.Schedule(settings.RolloverSpec); err != nil {
		log.Fatal("Failed to schedule daily rollover:", err)
	}
	rollover.Start()

	server := web.NewServer(semester.USM, settings, broadcaster)

	log.Printf("📆 Ready to count weeks!")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server (this blocks until a shutdown signal)
	err = server.Start(ctx, settings.Port)
	<-rollover.Stop().Done()
	if err != nil {
		log.Fatal("Web server failed:", err)
	}
	log.Printf("👋 Stopped")
}
