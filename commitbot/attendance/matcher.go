package attendance

import (
	"strings"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/github"
)

// CountMatching counts commits that fall on the target calendar day in loc
// and are attributed to identity. Both the author and committer logins are
// checked: a rebase or merge can land a commit authored by one identity
// under another. Login casing is not stable on the remote side, so the
// comparison is case-insensitive.
//
// Commits without a usable timestamp or without any identity are skipped.
func CountMatching(commits []github.Commit, identity, dateKey string, loc *time.Location) int {
	if identity == "" {
		return 0
	}

	count := 0
	for _, c := range commits {
		if c.Timestamp.IsZero() {
			continue
		}
		if c.Author == "" && c.Committer == "" {
			continue
		}
		if DateKey(c.Timestamp, loc) != dateKey {
			continue
		}
		if strings.EqualFold(c.Author, identity) || strings.EqualFold(c.Committer, identity) {
			count++
		}
	}
	return count
}
