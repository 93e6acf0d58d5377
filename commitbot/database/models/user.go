package models

import (
	"time"
)

// Verification is the per-day outcome of a commit check. Once written for
// a date it is never rewritten; re-checks return the stored value.
type Verification struct {
	Commits int  `bson:"commits"`
	Passed  bool `bson:"passed"`
}

// User is the per-member profile document, keyed by Discord ID. History is
// keyed by YYYY-MM-DD date strings in the bot's civil timezone.
type User struct {
	DiscordID  string                  `bson:"_id"`
	GithubID   string                  `bson:"github_id"`
	RepoName   string                  `bson:"repo_name"`
	GoalPerDay int                     `bson:"goal_per_day"`
	History    map[string]Verification `bson:"history"`
	WeeklyFail int                     `bson:"weekly_fail"`
	TotalFail  int                     `bson:"total_fail"`
	OnVacation bool                    `bson:"on_vacation"`

	RegisteredAt time.Time `bson:"registered_at"`
}

// Record returns the verification for the given date key, if one exists.
func (u *User) Record(date string) (Verification, bool) {
	rec, ok := u.History[date]
	return rec, ok
}
