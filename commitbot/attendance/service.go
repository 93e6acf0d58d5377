package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
	"github.com/DJN-1/discord-commit-bot/commitbot/github"
)

// ErrUnavailable reports that the remote commit history could not be
// checked. It is deliberately distinct from a zero-commit result: no
// record is written, so a later retry can still succeed.
var ErrUnavailable = errors.New("attendance: commit history unavailable")

// SkipReason says why verification does not apply to a user on a day.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipWeekend
	SkipVacation
)

// CommitSource is the remote commit-history collaborator.
type CommitSource interface {
	ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]github.Commit, error)
}

// RecordStore is the slice of the user repository the service writes
// through. All mutations are atomic single-field updates.
type RecordStore interface {
	RecordVerification(ctx context.Context, discordID, date string, rec models.Verification) error
	IncrementFails(ctx context.Context, discordID string, delta int) error
}

type Service struct {
	commits CommitSource
	store   RecordStore
	loc     *time.Location
	skip    map[time.Weekday]bool
}

func NewService(commits CommitSource, store RecordStore, loc *time.Location, skipWeekdays []int) *Service {
	skip := make(map[time.Weekday]bool, len(skipWeekdays))
	for _, d := range skipWeekdays {
		skip[time.Weekday(d)] = true
	}
	return &Service{
		commits: commits,
		store:   store,
		loc:     loc,
		skip:    skip,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns the current date key in the fixed timezone.
func (s *Service) Today() string {
	return DateKey(time.Now(), s.loc)
}

// Skip reports whether verification applies to the user at instant t.
// Callers check this before Verify; skipped days never get a record.
func (s *Service) Skip(user *models.User, t time.Time) SkipReason {
	if user.OnVacation {
		return SkipVacation
	}
	if s.skip[t.In(s.loc).Weekday()] {
		return SkipWeekend
	}
	return SkipNone
}

// QualifyingDay reports whether the weekday of t counts for attendance.
func (s *Service) QualifyingDay(t time.Time) bool {
	return !s.skip[t.In(s.loc).Weekday()]
}

// Verify answers "did user pass on dateKey". A cached history entry is
// returned as-is with no remote call; otherwise the commit history is
// queried over the widened window, matched against the day, and the
// outcome persisted under exactly that history field.
func (s *Service) Verify(ctx context.Context, user *models.User, dateKey string) (models.Verification, error) {
	if rec, ok := user.Record(dateKey); ok {
		return rec, nil
	}

	day, err := ParseDateKey(dateKey, s.loc)
	if err != nil {
		return models.Verification{}, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}

	since, until := QueryWindow(day, s.loc)
	commits, err := s.commits.ListCommits(ctx, user.GithubID, user.RepoName, since, until)
	if err != nil {
		slog.Warn("Commit history query failed",
			slog.String("type", "gh"),
			slog.String("discord_id", user.DiscordID),
			slog.String("repo", user.GithubID+"/"+user.RepoName),
			slog.Any("error", err))
		return models.Verification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rec := models.Verification{
		Commits: CountMatching(commits, user.GithubID, dateKey, s.loc),
	}
	rec.Passed = rec.Commits >= user.GoalPerDay

	if err := s.store.RecordVerification(ctx, user.DiscordID, dateKey, rec); err != nil {
		return models.Verification{}, fmt.Errorf("recording verification: %w", err)
	}
	if user.History == nil {
		user.History = map[string]models.Verification{}
	}
	user.History[dateKey] = rec

	return rec, nil
}

// FailedDates lists the user's failed dates since the given instant,
// sorted ascending. Used by the weekly status command.
func (s *Service) FailedDates(user *models.User, since time.Time) []string {
	sinceKey := DateKey(since, s.loc)

	var dates []string
	for date, rec := range user.History {
		if rec.Passed {
			continue
		}
		if date >= sinceKey {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}
