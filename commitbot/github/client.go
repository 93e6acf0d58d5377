package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	maxPages       = 10
	lookupCacheLen = 256
)

var (
	// ErrNotFound marks a user or repository that does not resolve.
	ErrNotFound = errors.New("github: not found")
	// ErrUnavailable marks transport failures and non-success responses;
	// callers must treat it as "could not check", never as zero commits.
	ErrUnavailable = errors.New("github: api unavailable")
)

// Commit is the slice of a GitHub commit this bot cares about. Author and
// Committer are logins; either may be empty when GitHub cannot attribute
// the identity. A zero Timestamp means the payload date was unparseable.
type Commit struct {
	SHA       string
	Author    string
	Committer string
	Timestamp time.Time
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	resolved   *lru.Cache
}

func New(token string) *Client {
	return NewWithBaseURL(token, defaultBaseURL)
}

func NewWithBaseURL(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cache, _ := lru.New(lookupCacheLen)
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		token:      token,
		resolved:   cache,
	}
}

// GitHub returns a much larger commit object; only the attribution and
// timing fields are unmarshalled. Dates stay strings so one malformed
// record cannot fail the whole page.
type commitPayload struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
		Committer struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Committer *struct {
		Login string `json:"login"`
	} `json:"committer"`
}

// ListCommits returns commits on the repository's default branch within
// [since, until), newest first, following pagination up to maxPages.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]Commit, error) {
	var commits []Commit

	for page := 1; page <= maxPages; page++ {
		query := url.Values{}
		query.Set("since", since.UTC().Format(time.RFC3339))
		query.Set("until", until.UTC().Format(time.RFC3339))
		query.Set("per_page", fmt.Sprintf("%d", perPage))
		query.Set("page", fmt.Sprintf("%d", page))

		endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s",
			c.baseURL, url.PathEscape(owner), url.PathEscape(repo), query.Encode())

		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		var payloads []commitPayload
		if err := json.Unmarshal(body, &payloads); err != nil {
			return nil, fmt.Errorf("%w: decoding commit list: %v", ErrUnavailable, err)
		}

		for _, p := range payloads {
			commits = append(commits, c.toCommit(owner, repo, p))
		}

		if len(payloads) < perPage {
			break
		}
	}

	return commits, nil
}

func (c *Client) toCommit(owner, repo string, p commitPayload) Commit {
	commit := Commit{SHA: p.SHA}
	if p.Author != nil {
		commit.Author = p.Author.Login
	}
	if p.Committer != nil {
		commit.Committer = p.Committer.Login
	}

	dateStr := p.Commit.Author.Date
	if dateStr == "" {
		dateStr = p.Commit.Committer.Date
	}
	if dateStr != "" {
		ts, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			slog.Warn("Skipping commit with unparseable timestamp",
				slog.String("type", "gh"),
				slog.String("repo", owner+"/"+repo),
				slog.String("sha", p.SHA),
				slog.String("date", dateStr))
		} else {
			commit.Timestamp = ts
		}
	}
	return commit
}

// ResolveUser checks that a GitHub login exists. Successful lookups are
// cached; a 404 is always re-checked since accounts get created.
func (c *Client) ResolveUser(ctx context.Context, login string) error {
	return c.resolve(ctx, "user:"+login, fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(login)))
}

// ResolveRepo checks that owner/repo exists and is reachable.
func (c *Client) ResolveRepo(ctx context.Context, owner, repo string) error {
	return c.resolve(ctx, "repo:"+owner+"/"+repo,
		fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo)))
}

func (c *Client) resolve(ctx context.Context, cacheKey, endpoint string) error {
	if c.resolved.Contains(cacheKey) {
		return nil
	}
	if _, err := c.get(ctx, endpoint); err != nil {
		return err
	}
	c.resolved.Add(cacheKey, struct{}{})
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	return body, nil
}
