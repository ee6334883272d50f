package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"usmweek/presenter"
	"usmweek/semester"
	"usmweek/utils"
)

// Broadcaster receives today's classification after every refresh.
type Broadcaster interface {
	BroadcastToday(c semester.Classification)
}

// Rollover re-classifies "today" on a cron schedule so open pages move to
// the new week without a reload.
type Rollover struct {
	semester    semester.Config
	loc         *time.Location
	cron        *cron.Cron
	broadcaster Broadcaster
	now         func() time.Time
}

func NewRollover(cfg semester.Config, loc *time.Location) *Rollover {
	return &Rollover{
		semester: cfg,
		loc:      loc,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
	}
}

// SetBroadcaster sets where refreshed classifications are pushed.
func (r *Rollover) SetBroadcaster(b Broadcaster) {
	r.broadcaster = b
}

// Schedule registers the refresh under a standard five-field cron spec,
// evaluated in the rollover's location.
func (r *Rollover) Schedule(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		r.RunOnce(r.now())
	})
	if err != nil {
		return fmt.Errorf("invalid rollover schedule %q: %w", spec, err)
	}
	return nil
}

func (r *Rollover) Start() {
	r.cron.Start()
}

// Stop halts the schedule. The returned context is done once a running
// refresh has finished.
func (r *Rollover) Stop() context.Context {
	return r.cron.Stop()
}

// RunOnce classifies the calendar date of now in the rollover's location
// and hands it to the broadcaster.
func (r *Rollover) RunOnce(now time.Time) semester.Classification {
	today := utils.DateOf(now.In(r.loc))
	c := semester.Classify(today, r.semester)

	view := presenter.Describe(c, r.semester, true)
	if view.Message != "" {
		log.Printf("📅 %s: %s (%s)", utils.FormatDate(today), view.Title, view.Message)
	} else {
		log.Printf("📅 %s: %s", utils.FormatDate(today), view.Title)
	}

	if r.broadcaster != nil {
		r.broadcaster.BroadcastToday(c)
	}
	return c
}
