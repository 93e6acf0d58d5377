package attendance

import (
	"context"
	"log/slog"
	"time"
)

const jobTimeout = 5 * time.Minute

// ScheduleConfig places the two triggers on the wall clock of loc.
type ScheduleConfig struct {
	DailyHour     int
	DailyMinute   int
	WeeklyWeekday time.Weekday
	WeeklyHour    int
	WeeklyMinute  int
}

// Scheduler is a coarse poll loop: it wakes once a minute, reads the
// wall clock in the fixed timezone, and fires the daily sweep and weekly
// reset when the clock matches their configured instants. The loop may
// wake more than once inside a matching minute, so each trigger keeps the
// date it last fired for and refuses to fire twice on the same day.
type Scheduler struct {
	agg      *Aggregator
	svc      *Service
	loc      *time.Location
	cfg      ScheduleConfig
	interval time.Duration

	lastDaily  string
	lastWeekly string

	now      func() time.Time
	shutdown chan struct{}
}

func NewScheduler(agg *Aggregator, svc *Service, loc *time.Location, cfg ScheduleConfig) *Scheduler {
	return &Scheduler{
		agg:      agg,
		svc:      svc,
		loc:      loc,
		cfg:      cfg,
		interval: time.Minute,
		now:      time.Now,
		shutdown: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) Stop() {
	close(s.shutdown)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Scheduler started",
		slog.String("type", "job"),
		slog.String("daily_at", timeOfDay(s.cfg.DailyHour, s.cfg.DailyMinute)),
		slog.String("weekly_at", s.cfg.WeeklyWeekday.String()+" "+timeOfDay(s.cfg.WeeklyHour, s.cfg.WeeklyMinute)))

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.shutdown:
			return
		}
	}
}

// tick checks both trigger conditions against the current wall clock. If
// the process stalls past a matching minute, the trigger simply does not
// fire that day; the date guard only prevents duplicates.
func (s *Scheduler) tick() {
	now := s.now().In(s.loc)
	day := DateKey(now, s.loc)

	if now.Hour() == s.cfg.DailyHour && now.Minute() == s.cfg.DailyMinute &&
		s.lastDaily != day && s.svc.QualifyingDay(now) {
		s.lastDaily = day

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := s.agg.DailySweep(ctx, day); err != nil {
			slog.Error("Daily sweep failed",
				slog.String("type", "job"),
				slog.String("date", day),
				slog.Any("error", err))
		}
		cancel()
	}

	if now.Weekday() == s.cfg.WeeklyWeekday &&
		now.Hour() == s.cfg.WeeklyHour && now.Minute() == s.cfg.WeeklyMinute &&
		s.lastWeekly != day {
		s.lastWeekly = day

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := s.agg.WeeklyReset(ctx); err != nil {
			slog.Error("Weekly reset failed",
				slog.String("type", "job"),
				slog.Any("error", err))
		}
		cancel()
	}
}

func timeOfDay(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}
