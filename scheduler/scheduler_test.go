package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usmweek/semester"
)

type recordingBroadcaster struct {
	mu   sync.Mutex
	seen []semester.Classification
}

func (rb *recordingBroadcaster) BroadcastToday(c semester.Classification) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.seen = append(rb.seen, c)
}

func (rb *recordingBroadcaster) count() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.seen)
}

func (rb *recordingBroadcaster) last() semester.Classification {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.seen[len(rb.seen)-1]
}

func TestRunOnce_UsesLocationDate(t *testing.T) {
	kl := time.FixedZone("MYT", 8*60*60)
	r := NewRollover(semester.USM, kl)
	rb := &recordingBroadcaster{}
	r.SetBroadcaster(rb)

	// 16:30 UTC on Sunday 11 May is already Monday 12 May in Kuala Lumpur.
	c := r.RunOnce(time.Date(2025, time.May, 11, 16, 30, 0, 0, time.UTC))

	assert.Equal(t, semester.InSemester, c.Phase)
	assert.Equal(t, 8, c.Week)
	assert.Equal(t, semester.IsBreakWeek, c.Message.Kind)
	require.Equal(t, 1, rb.count())
	assert.Equal(t, c, rb.seen[0])
}

func TestRunOnce_WithoutBroadcaster(t *testing.T) {
	r := NewRollover(semester.USM, time.UTC)
	c := r.RunOnce(time.Date(2025, time.August, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, semester.AfterEnd, c.Phase)
	assert.Equal(t, 0, c.Week)
}

func TestSchedule_InvalidSpec(t *testing.T) {
	r := NewRollover(semester.USM, time.UTC)
	err := r.Schedule("every day at midnight")
	assert.ErrorContains(t, err, "invalid rollover schedule")
}

func TestSchedule_Fires(t *testing.T) {
	r := NewRollover(semester.USM, time.UTC)
	r.now = func() time.Time { return time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC) }
	rb := &recordingBroadcaster{}
	r.SetBroadcaster(rb)

	require.NoError(t, r.Schedule("@every 10ms"))
	r.Start()
	defer func() { <-r.Stop().Done() }()

	require.Eventually(t, func() bool { return rb.count() > 0 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, semester.IsStudyWeek, rb.last().Message.Kind)
}
