package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"issue-sync/internal/model"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.github.com"

// ListOptions narrows an issue listing.
type ListOptions struct {
	State    string    // "open", "closed" or "all"
	Since    time.Time // zero means no lower bound
	PageSize int
}

// Client fetches issues from the GitHub REST API. Requests are paced by
// a shared rate limiter so polling stays inside the API quota.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host, e.g. a GitHub
// Enterprise instance or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestsPerSecond caps the request rate.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawIssue is the wire shape of one issue. PullRequest is only present
// when the item is actually a pull request; the issues endpoint returns
// both and PRs must be filtered out.
type rawIssue struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	URL         string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// ListIssues fetches all issues of a repository matching opts, walking
// pages until a short page ends the listing.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts ListOptions) ([]*model.Issue, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	state := opts.State
	if state == "" {
		state = "all"
	}

	var issues []*model.Issue
	for page := 1; ; page++ {
		raws, err := c.listPage(ctx, owner, repo, state, opts.Since, pageSize, page)
		if err != nil {
			return nil, err
		}

		for _, raw := range raws {
			if raw.PullRequest != nil {
				continue // issues endpoint also returns PRs
			}
			issues = append(issues, &model.Issue{
				ID:        raw.ID,
				Title:     raw.Title,
				State:     raw.State,
				URL:       raw.URL,
				CreatedAt: raw.CreatedAt,
			})
		}

		if len(raws) < pageSize {
			return issues, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, owner, repo, state string, since time.Time, pageSize, page int) ([]rawIssue, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("state", state)
	q.Set("per_page", fmt.Sprintf("%d", pageSize))
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("sort", "created")
	q.Set("direction", "asc")
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, owner, repo, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building issues request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s/%s issues page %d", owner, repo, page)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("GET %s/%s issues page %d: %s: %s", owner, repo, page, resp.Status, body)
	}

	var raws []rawIssue
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, errors.Wrap(err, "decoding issues response")
	}
	return raws, nil
}
