package attendance

import (
	"testing"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/github"
)

func TestCountMatching(t *testing.T) {
	onTarget := time.Date(2025, 3, 10, 14, 0, 0, 0, kst)
	dayBefore := time.Date(2025, 3, 9, 23, 59, 0, 0, kst)
	// 15:30 UTC on the 10th is already the 11th in KST.
	utcEvening := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		commits []github.Commit
		want    int
	}{
		{
			name: "author match on target day",
			commits: []github.Commit{
				{SHA: "a", Author: "octocat", Timestamp: onTarget},
			},
			want: 1,
		},
		{
			name: "committer match counts too",
			commits: []github.Commit{
				{SHA: "a", Author: "someone-else", Committer: "octocat", Timestamp: onTarget},
			},
			want: 1,
		},
		{
			name: "identity match is case-insensitive",
			commits: []github.Commit{
				{SHA: "a", Author: "OctoCat", Timestamp: onTarget},
			},
			want: 1,
		},
		{
			name: "wrong day excluded even inside the widened window",
			commits: []github.Commit{
				{SHA: "a", Author: "octocat", Timestamp: dayBefore},
			},
			want: 0,
		},
		{
			name: "timestamp converts into the fixed timezone before comparing",
			commits: []github.Commit{
				{SHA: "a", Author: "octocat", Timestamp: utcEvening},
			},
			want: 0,
		},
		{
			name: "zero timestamp skipped",
			commits: []github.Commit{
				{SHA: "a", Author: "octocat"},
			},
			want: 0,
		},
		{
			name: "missing identities skipped",
			commits: []github.Commit{
				{SHA: "a", Timestamp: onTarget},
			},
			want: 0,
		},
		{
			name: "mixed list counts only qualifying commits",
			commits: []github.Commit{
				{SHA: "a", Author: "octocat", Timestamp: onTarget},
				{SHA: "b", Committer: "OCTOCAT", Timestamp: onTarget},
				{SHA: "c", Author: "stranger", Timestamp: onTarget},
				{SHA: "d", Author: "octocat", Timestamp: dayBefore},
				{SHA: "e", Author: "octocat"},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMatching(tt.commits, "octocat", "2025-03-10", kst); got != tt.want {
				t.Errorf("CountMatching() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountMatchingEmptyIdentity(t *testing.T) {
	commits := []github.Commit{
		{SHA: "a", Author: "", Timestamp: time.Date(2025, 3, 10, 14, 0, 0, 0, kst)},
	}
	if got := CountMatching(commits, "", "2025-03-10", kst); got != 0 {
		t.Errorf("CountMatching() with empty identity = %v, want 0", got)
	}
}
