package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestListCommits(t *testing.T) {
	payload := `[
		{
			"sha": "aaa111",
			"commit": {
				"author": {"name": "The Octocat", "date": "2025-03-10T14:30:00Z"},
				"committer": {"name": "GitHub", "date": "2025-03-10T14:30:00Z"}
			},
			"author": {"login": "octocat"},
			"committer": {"login": "web-flow"}
		},
		{
			"sha": "bbb222",
			"commit": {
				"author": {"name": "Someone", "date": "not-a-date"},
				"committer": {"name": "Someone", "date": ""}
			},
			"author": {"login": "someone"},
			"committer": null
		},
		{
			"sha": "ccc333",
			"commit": {
				"author": {"name": "Ghost", "date": "2025-03-10T09:00:00Z"},
				"committer": {"name": "Ghost", "date": "2025-03-10T09:00:00Z"}
			},
			"author": null,
			"committer": null
		}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/repos/octocat/hello-world/commits") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %s, want 100", got)
		}
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	since := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	commits, err := c.ListCommits(context.Background(), "octocat", "hello-world", since, until)
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("ListCommits() returned %d commits, want 3", len(commits))
	}

	first := commits[0]
	if first.Author != "octocat" || first.Committer != "web-flow" {
		t.Errorf("first commit attribution = %q/%q", first.Author, first.Committer)
	}
	if first.Timestamp.IsZero() {
		t.Error("first commit lost its timestamp")
	}

	// A malformed date lands as a zero timestamp, it does not fail the page.
	if !commits[1].Timestamp.IsZero() {
		t.Errorf("malformed date produced timestamp %v, want zero", commits[1].Timestamp)
	}
	if commits[1].Committer != "" {
		t.Errorf("null committer produced login %q", commits[1].Committer)
	}

	// Unattributed commits keep their timestamp with empty logins.
	if commits[2].Author != "" || commits[2].Committer != "" {
		t.Errorf("ghost commit attribution = %q/%q", commits[2].Author, commits[2].Committer)
	}
}

func TestListCommitsPagination(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		if page == "1" {
			// A full page forces the client to fetch the next one.
			w.Write([]byte("["))
			for i := 0; i < perPage; i++ {
				if i > 0 {
					w.Write([]byte(","))
				}
				fmt.Fprintf(w, `{"sha":"p1-%d","commit":{"author":{"date":"2025-03-10T10:00:00Z"},"committer":{"date":"2025-03-10T10:00:00Z"}},"author":{"login":"octocat"}}`, i)
			}
			w.Write([]byte("]"))
			return
		}
		fmt.Fprint(w, `[{"sha":"p2-0","commit":{"author":{"date":"2025-03-10T11:00:00Z"},"committer":{"date":"2025-03-10T11:00:00Z"}},"author":{"login":"octocat"}}]`)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	commits, err := c.ListCommits(context.Background(), "octocat", "hello-world", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}
	if len(commits) != perPage+1 {
		t.Errorf("ListCommits() returned %d commits, want %d", len(commits), perPage+1)
	}
	if len(pages) != 2 || pages[0] != "1" || pages[1] != "2" {
		t.Errorf("pages requested = %v, want [1 2]", pages)
	}
}

func TestListCommitsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	_, err := c.ListCommits(context.Background(), "octocat", "hello-world", time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("ListCommits() error = %v, want ErrUnavailable", err)
	}
}

func TestResolveRepoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	err := c.ResolveRepo(context.Background(), "octocat", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveRepo() error = %v, want ErrNotFound", err)
	}
}

func TestResolveUserCachesSuccess(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	for i := 0; i < 3; i++ {
		if err := c.ResolveUser(context.Background(), "octocat"); err != nil {
			t.Fatalf("ResolveUser() error = %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 (cached)", hits)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL("gh-token", srv.URL)
	if err := c.ResolveUser(context.Background(), "octocat"); err != nil {
		t.Fatalf("ResolveUser() error = %v", err)
	}
	if auth != "Bearer gh-token" {
		t.Errorf("Authorization header = %q", auth)
	}
}
