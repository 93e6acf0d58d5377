package attendance

import (
	"testing"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
)

func newTestScheduler(reporter *fakeReporter) *Scheduler {
	store := newFakeStore()
	dir := &fakeDirectory{users: []*models.User{
		{DiscordID: "1001", WeeklyFail: 1, History: map[string]models.Verification{}},
	}}
	agg := NewAggregator(dir, store, reporter)
	svc := NewService(&fakeSource{}, store, kst, []int{0, 6})
	return NewScheduler(agg, svc, kst, ScheduleConfig{
		DailyHour:     23,
		DailyMinute:   59,
		WeeklyWeekday: time.Thursday,
		WeeklyHour:    0,
		WeeklyMinute:  0,
	})
}

func TestTickFiresDailyOncePerDay(t *testing.T) {
	reporter := &fakeReporter{}
	s := newTestScheduler(reporter)

	// 2025-03-10 is a Monday.
	at := time.Date(2025, 3, 10, 23, 59, 5, 0, kst)
	s.now = func() time.Time { return at }

	s.tick()
	// Second wake inside the same minute.
	at = at.Add(30 * time.Second)
	s.tick()

	if len(reporter.reports) != 1 {
		t.Fatalf("daily sweep fired %d times within one minute, want 1", len(reporter.reports))
	}

	// Same instant next day fires again.
	at = at.Add(24 * time.Hour)
	s.tick()
	if len(reporter.reports) != 2 {
		t.Fatalf("daily sweep fired %d times across two days, want 2", len(reporter.reports))
	}
}

func TestTickSkippedMinuteDoesNotFire(t *testing.T) {
	reporter := &fakeReporter{}
	s := newTestScheduler(reporter)

	// The process stalls past 23:59 and wakes on the next day.
	s.now = func() time.Time { return time.Date(2025, 3, 10, 23, 58, 0, 0, kst) }
	s.tick()
	s.now = func() time.Time { return time.Date(2025, 3, 11, 0, 1, 0, 0, kst) }
	s.tick()

	if len(reporter.reports) != 0 {
		t.Fatalf("daily sweep fired %d times with the trigger minute skipped, want 0", len(reporter.reports))
	}
}

func TestTickSkipsWeekendSweep(t *testing.T) {
	reporter := &fakeReporter{}
	s := newTestScheduler(reporter)

	// 2025-03-08 is a Saturday.
	s.now = func() time.Time { return time.Date(2025, 3, 8, 23, 59, 0, 0, kst) }
	s.tick()

	if len(reporter.reports) != 0 {
		t.Fatalf("daily sweep fired on a skipped weekday, reports = %d", len(reporter.reports))
	}
}

func TestTickFiresWeeklyOnConfiguredWeekday(t *testing.T) {
	reporter := &fakeReporter{}
	s := newTestScheduler(reporter)

	// 2025-03-13 is a Thursday.
	s.now = func() time.Time { return time.Date(2025, 3, 13, 0, 0, 10, 0, kst) }
	s.tick()
	s.tick()

	if len(reporter.reports) != 1 {
		t.Fatalf("weekly reset fired %d times, want 1", len(reporter.reports))
	}

	// A Wednesday at the same time must not fire.
	reporter.reports = nil
	s.lastWeekly = ""
	s.now = func() time.Time { return time.Date(2025, 3, 12, 0, 0, 0, 0, kst) }
	s.tick()
	if len(reporter.reports) != 0 {
		t.Fatalf("weekly reset fired on the wrong weekday, reports = %d", len(reporter.reports))
	}
}
