package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/pkg/errors"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
)

var (
	baseURL = "https://api.github.com"
)

const searchPath = "/search/repositories"

type Client struct {
	httpClient  *http.Client
	token       string
	rateLimiter *RateLimitTracker
}

func NewClient(token string) *Client {
	rl := NewRateLimitTracker()

	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: rl.Middleware(http.DefaultTransport),
	}

	return &Client{
		httpClient:  client,
		token:       token,
		rateLimiter: rl,
	}
}

// * RateLimit exposes the quota reported by the most recent upstream response
func (c *Client) RateLimit() (remaining int, reset time.Time) {
	return c.rateLimiter.Snapshot()
}

func (c *Client) makeRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	return resp, nil
}

// * SearchRepositories issues exactly one search request for q, sorted by
// * stars descending. There is no retry; any non-2xx status is an error.
func (c *Client) SearchRepositories(ctx context.Context, q SearchQuery) ([]Repository, error) {
	params := make(url.Values)
	params.Set("q", q.Text())
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))

	resp, err := c.makeRequest(ctx, http.MethodGet, searchPath+"?"+params.Encode())
	if err != nil {
		return nil, errors.New(
			errors.RefGitHubAPI,
			"Failed to search repositories on GitHub",
			"Could not connect to GitHub API to run the repository search",
			err,
			errors.LevelFatal,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(
			errors.RefGitHubAPI,
			"Unexpected response from GitHub API",
			fmt.Sprintf("GitHub API returned status %d when searching %s", resp.StatusCode, q.Text()),
			nil,
			errors.LevelFatal,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(
			errors.RefGitHubAPI,
			"Failed to read GitHub API response",
			"Could not read the search response body from GitHub API",
			err,
			errors.LevelFatal,
		)
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.New(
			errors.RefGitHubAPI,
			"Failed to parse GitHub API response",
			"Could not understand the search results returned by GitHub API",
			err,
			errors.LevelFatal,
		)
	}

	if result.Items == nil {
		result.Items = []Repository{}
	}

	logger.Debug("GitHub search %s returned %d of %d repositories", q, len(result.Items), result.TotalCount)
	return result.Items, nil
}
