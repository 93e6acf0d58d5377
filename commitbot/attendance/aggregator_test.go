package attendance

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
)

type fakeDirectory struct {
	users []*models.User
}

func (f *fakeDirectory) GetAll(_ context.Context) ([]*models.User, error) {
	return f.users, nil
}

type fakeReporter struct {
	reports []string
}

func (f *fakeReporter) SendReport(_ context.Context, _, content string) error {
	f.reports = append(f.reports, content)
	return nil
}

func TestDailySweep(t *testing.T) {
	const day = "2025-03-10"

	passed := &models.User{DiscordID: "pass", History: map[string]models.Verification{
		day: {Commits: 3, Passed: true},
	}}
	failedRecorded := &models.User{DiscordID: "failed", History: map[string]models.Verification{
		day: {Commits: 1, Passed: false},
	}}
	noRecord := &models.User{DiscordID: "silent", History: map[string]models.Verification{}}
	vacationing := &models.User{DiscordID: "vacay", OnVacation: true, History: map[string]models.Verification{}}

	dir := &fakeDirectory{users: []*models.User{passed, failedRecorded, noRecord, vacationing}}
	store := newFakeStore()
	reporter := &fakeReporter{}
	agg := NewAggregator(dir, store, reporter)

	if err := agg.DailySweep(context.Background(), day); err != nil {
		t.Fatalf("DailySweep() error = %v", err)
	}

	// Silence becomes a zero-commit failed record closing the day.
	wantClosed := models.Verification{Commits: 0, Passed: false}
	if got := store.records["silent"][day]; !reflect.DeepEqual(got, wantClosed) {
		t.Errorf("record for silent user = %+v, want %+v", got, wantClosed)
	}

	// An already-failed record is not rewritten.
	if _, ok := store.records["failed"]; ok {
		t.Error("existing failed record was rewritten by the sweep")
	}

	wantIncs := map[string]int{"failed": 1, "silent": 1}
	if !reflect.DeepEqual(store.incs, wantIncs) {
		t.Errorf("counter increments = %v, want %v", store.incs, wantIncs)
	}

	if len(reporter.reports) != 1 {
		t.Fatalf("reports sent = %d, want 1", len(reporter.reports))
	}
	report := reporter.reports[0]
	for _, id := range []string{"failed", "silent"} {
		if !strings.Contains(report, id) {
			t.Errorf("report missing user %s: %q", id, report)
		}
	}
	for _, id := range []string{"pass", "vacay"} {
		if strings.Contains(report, id) {
			t.Errorf("report wrongly includes user %s: %q", id, report)
		}
	}
}

func TestDailySweepAllClear(t *testing.T) {
	const day = "2025-03-10"
	dir := &fakeDirectory{users: []*models.User{
		{DiscordID: "pass", History: map[string]models.Verification{day: {Commits: 3, Passed: true}}},
	}}
	store := newFakeStore()
	reporter := &fakeReporter{}
	agg := NewAggregator(dir, store, reporter)

	if err := agg.DailySweep(context.Background(), day); err != nil {
		t.Fatalf("DailySweep() error = %v", err)
	}
	if len(store.incs) != 0 {
		t.Errorf("increments on an all-clear day: %v", store.incs)
	}
	if len(reporter.reports) != 1 || !strings.Contains(reporter.reports[0], "everyone") {
		t.Errorf("want a single all-clear report, got %v", reporter.reports)
	}
}

func TestWeeklyReset(t *testing.T) {
	dir := &fakeDirectory{users: []*models.User{
		{DiscordID: "A", WeeklyFail: 3},
		{DiscordID: "B", WeeklyFail: 5},
		{DiscordID: "C", WeeklyFail: 5},
		{DiscordID: "D", WeeklyFail: 0},
	}}
	store := newFakeStore()
	reporter := &fakeReporter{}
	agg := NewAggregator(dir, store, reporter)

	if err := agg.WeeklyReset(context.Background()); err != nil {
		t.Fatalf("WeeklyReset() error = %v", err)
	}

	if store.resets != 1 {
		t.Errorf("weekly counter resets = %d, want 1", store.resets)
	}
	if len(reporter.reports) != 1 {
		t.Fatalf("reports sent = %d, want 1", len(reporter.reports))
	}
	report := reporter.reports[0]
	for _, id := range []string{"<@B>", "<@C>"} {
		if !strings.Contains(report, id) {
			t.Errorf("report missing awardee %s: %q", id, report)
		}
	}
	for _, id := range []string{"<@A>", "<@D>"} {
		if strings.Contains(report, id) {
			t.Errorf("report wrongly names %s: %q", id, report)
		}
	}
}

func TestWeeklyResetNoAwardee(t *testing.T) {
	dir := &fakeDirectory{users: []*models.User{
		{DiscordID: "A", WeeklyFail: 0},
		{DiscordID: "B", WeeklyFail: 0},
	}}
	store := newFakeStore()
	reporter := &fakeReporter{}
	agg := NewAggregator(dir, store, reporter)

	if err := agg.WeeklyReset(context.Background()); err != nil {
		t.Fatalf("WeeklyReset() error = %v", err)
	}
	if store.resets != 1 {
		t.Errorf("weekly counter resets = %d, want 1", store.resets)
	}
	if len(reporter.reports) != 1 || !strings.Contains(reporter.reports[0], "Nobody failed") {
		t.Errorf("want a no-awardee report, got %v", reporter.reports)
	}
}

func TestAwardees(t *testing.T) {
	users := []*models.User{
		{DiscordID: "A", WeeklyFail: 3},
		{DiscordID: "B", WeeklyFail: 5},
		{DiscordID: "C", WeeklyFail: 5},
		{DiscordID: "D", WeeklyFail: 0},
	}

	awardees, maxFails := Awardees(users)
	if maxFails != 5 {
		t.Errorf("Awardees() max = %d, want 5", maxFails)
	}
	var ids []string
	for _, u := range awardees {
		ids = append(ids, u.DiscordID)
	}
	if !reflect.DeepEqual(ids, []string{"B", "C"}) {
		t.Errorf("Awardees() = %v, want [B C]", ids)
	}
}

func TestRank(t *testing.T) {
	users := []*models.User{
		{DiscordID: "A", TotalFail: 0},
		{DiscordID: "B", TotalFail: 2},
		{DiscordID: "C", TotalFail: 2},
		{DiscordID: "D", TotalFail: 5},
	}

	got := Rank(users, 10)
	want := []RankEntry{
		{DiscordID: "D", TotalFail: 5, Rank: 1},
		{DiscordID: "B", TotalFail: 2, Rank: 2},
		{DiscordID: "C", TotalFail: 2, Rank: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %+v, want %+v", got, want)
	}
}

func TestRankTopN(t *testing.T) {
	users := []*models.User{
		{DiscordID: "A", TotalFail: 4},
		{DiscordID: "B", TotalFail: 3},
		{DiscordID: "C", TotalFail: 2},
	}

	got := Rank(users, 2)
	if len(got) != 2 {
		t.Fatalf("Rank() returned %d entries, want 2", len(got))
	}
	if got[0].DiscordID != "A" || got[1].DiscordID != "B" {
		t.Errorf("Rank() top-2 = %+v", got)
	}
}
