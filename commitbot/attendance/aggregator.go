package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
	"github.com/DJN-1/discord-commit-bot/commitbot/logger"
)

// Directory enumerates every registered profile.
type Directory interface {
	GetAll(ctx context.Context) ([]*models.User, error)
}

// CounterStore is the slice of the user repository the aggregator writes
// through.
type CounterStore interface {
	RecordStore
	ResetWeeklyFails(ctx context.Context) error
}

// Reporter delivers aggregate reports collaborator-side (a Discord
// channel in production).
type Reporter interface {
	SendReport(ctx context.Context, name, content string) error
}

// Aggregator runs the two periodic duties: the end-of-day failure sweep
// and the weekly reset/report.
type Aggregator struct {
	users    Directory
	store    CounterStore
	reporter Reporter
}

func NewAggregator(users Directory, store CounterStore, reporter Reporter) *Aggregator {
	return &Aggregator{
		users:    users,
		store:    store,
		reporter: reporter,
	}
}

// DailySweep closes the given day: every non-vacationing user without a
// passing record gets both fail counters bumped, and users with no record
// at all get a zero-commit failed record first. Per-user errors are
// logged and skipped so one bad profile cannot abort the sweep.
func (a *Aggregator) DailySweep(ctx context.Context, dateKey string) error {
	start := time.Now()
	users, err := a.users.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("daily sweep: listing users: %w", err)
	}

	var failed []string
	for _, user := range users {
		if user.OnVacation {
			continue
		}

		rec, ok := user.Record(dateKey)
		if ok && rec.Passed {
			continue
		}

		if !ok {
			// Close the day: silence counts as a fail.
			if err := a.store.RecordVerification(ctx, user.DiscordID, dateKey, models.Verification{}); err != nil {
				slog.Error("Daily sweep could not close the day for user",
					slog.String("type", "job"),
					slog.String("discord_id", user.DiscordID),
					slog.Any("error", err))
				continue
			}
		}

		if err := a.store.IncrementFails(ctx, user.DiscordID, 1); err != nil {
			slog.Error("Daily sweep could not increment fail counters",
				slog.String("type", "job"),
				slog.String("discord_id", user.DiscordID),
				slog.Any("error", err))
			continue
		}
		failed = append(failed, user.DiscordID)
	}

	logger.LogJob("daily_sweep",
		slog.String("date", dateKey),
		slog.Int("users", len(users)),
		slog.Int("failed", len(failed)),
		slog.Duration("took", time.Since(start)))

	return a.reporter.SendReport(ctx, "daily-"+dateKey, dailyReport(dateKey, failed))
}

// WeeklyReset names the period awardees (everyone tied at the maximum
// weekly failure count, zeros excluded), reports them, and zeroes every
// weekly counter. Lifetime totals are untouched.
func (a *Aggregator) WeeklyReset(ctx context.Context) error {
	start := time.Now()
	users, err := a.users.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("weekly reset: listing users: %w", err)
	}

	awardees, maxFails := Awardees(users)

	if err := a.reporter.SendReport(ctx, "weekly-"+time.Now().Format("2006-01-02"), weeklyReport(awardees, maxFails)); err != nil {
		slog.Error("Weekly report delivery failed",
			slog.String("type", "job"),
			slog.Any("error", err))
	}

	if err := a.store.ResetWeeklyFails(ctx); err != nil {
		return fmt.Errorf("weekly reset: clearing counters: %w", err)
	}

	logger.LogJob("weekly_reset",
		slog.Int("users", len(users)),
		slog.Int("awardees", len(awardees)),
		slog.Int("max_fails", maxFails),
		slog.Duration("took", time.Since(start)))

	return nil
}

// Awardees returns every user tied at the maximum weekly failure count.
// A maximum of zero means nobody failed and yields an empty set.
func Awardees(users []*models.User) ([]*models.User, int) {
	maxFails := 0
	for _, u := range users {
		if u.WeeklyFail > maxFails {
			maxFails = u.WeeklyFail
		}
	}
	if maxFails == 0 {
		return nil, 0
	}

	var awardees []*models.User
	for _, u := range users {
		if u.WeeklyFail == maxFails {
			awardees = append(awardees, u)
		}
	}
	return awardees, maxFails
}

// RankEntry is one row of the lifetime failure ranking.
type RankEntry struct {
	DiscordID string
	TotalFail int
	Rank      int
}

// Rank orders users by lifetime failures descending, excluding zero
// scores. Ties keep their input order and share a rank number.
func Rank(users []*models.User, topN int) []RankEntry {
	ranked := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.TotalFail > 0 {
			ranked = append(ranked, u)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalFail > ranked[j].TotalFail
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	entries := make([]RankEntry, 0, len(ranked))
	prevScore := -1
	rank := 0
	for i, u := range ranked {
		if u.TotalFail != prevScore {
			rank = i + 1
		}
		entries = append(entries, RankEntry{
			DiscordID: u.DiscordID,
			TotalFail: u.TotalFail,
			Rank:      rank,
		})
		prevScore = u.TotalFail
	}
	return entries
}

func dailyReport(dateKey string, failed []string) string {
	if len(failed) == 0 {
		return fmt.Sprintf("📢 Daily commit check for %s: everyone made their goal! 🎉", dateKey)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📢 Daily commit check for %s, missed goals:\n", dateKey)
	for _, id := range failed {
		fmt.Fprintf(&b, "❌ <@%s>\n", id)
	}
	return strings.TrimRight(b.String(), "\n")
}

func weeklyReport(awardees []*models.User, maxFails int) string {
	var b strings.Builder
	b.WriteString("☕ Weekly commit settlement\n")
	if len(awardees) == 0 {
		b.WriteString("🎉 Nobody failed this week. Everyone survives!")
		return b.String()
	}

	fmt.Fprintf(&b, "🥶 Coffee duty (%d fails this week):\n", maxFails)
	for _, u := range awardees {
		fmt.Fprintf(&b, "- <@%s>\n", u.DiscordID)
	}
	return strings.TrimRight(b.String(), "\n")
}
