package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/internal/cache"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/models"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/service"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/errors"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListRepositories(ctx context.Context, q github.SearchQuery) ([]models.ScoredRepository, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoredRepository), args.Error(1)
}

// fakeSearcher stands in for the GitHub client and counts upstream calls
type fakeSearcher struct {
	calls atomic.Int32
	repos []github.Repository
	err   error
}

func (f *fakeSearcher) SearchRepositories(ctx context.Context, q github.SearchQuery) ([]github.Repository, error) {
	f.calls.Add(1)
	return f.repos, f.err
}

type fixedQuota struct {
	remaining int
	reset     time.Time
}

func (q fixedQuota) RateLimit() (int, time.Time) { return q.remaining, q.reset }

func newRouter(lister RepositoryLister) *mux.Router {
	return newRouterWithQuota(lister, nil)
}

func newRouterWithQuota(lister RepositoryLister, quota QuotaReporter) *mux.Router {
	h := NewRepositoryHandler(lister, quota)
	h.today = func() string { return "2025-03-01" }

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func newStack(searcher *fakeSearcher) *mux.Router {
	c := cache.New[github.SearchQuery, []github.Repository](time.Minute)
	return newRouter(service.NewRepositoryService(service.NewFetcher(searcher, c)))
}

func doGet(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func description(s string) *string { return &s }

var sampleRepos = []github.Repository{
	{
		FullName:        "user/repo1",
		HTMLURL:         "https://github.com/user/repo1",
		Description:     description("Test repo 1"),
		StargazersCount: 10,
		ForksCount:      5,
		PushedAt:        "2025-01-01T00:00:00Z",
	},
	{
		FullName:        "user/repo2",
		HTMLURL:         "https://github.com/user/repo2",
		StargazersCount: 20,
		ForksCount:      2,
		PushedAt:        "2025-01-02T00:00:00Z",
	},
}

func TestGetRepositories_Defaults(t *testing.T) {
	lister := new(MockLister)
	expected := github.SearchQuery{Language: "Python", CreatedAfter: "2025-03-01", PerPage: 20, Page: 1}
	lister.On("ListRepositories", mock.Anything, expected).Return([]models.ScoredRepository{}, nil)

	rec := doGet(newRouter(lister), "/repositories")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rec.Body.String())
	lister.AssertExpectations(t)
}

func TestGetRepositories_QueryParameters(t *testing.T) {
	lister := new(MockLister)
	expected := github.SearchQuery{Language: "Go", CreatedAfter: "2025-01-01", PerPage: 10, Page: 2}
	lister.On("ListRepositories", mock.Anything, expected).Return([]models.ScoredRepository{
		models.NewScoredRepository(sampleRepos[0], 22.5),
	}, nil)

	rec := doGet(newRouter(lister), "/repositories?language=Go&created_after=2025-01-01&page=2&per_page=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"full_name": "user/repo1",
		"html_url": "https://github.com/user/repo1",
		"description": "Test repo 1",
		"stargazers_count": 10,
		"forks_count": 5,
		"pushed_at": "2025-01-01T00:00:00Z",
		"popularity_score": 22.5
	}]`, rec.Body.String())
}

func TestGetRepositories_BadInteger(t *testing.T) {
	for _, target := range []string{"/repositories?page=abc", "/repositories?per_page=1.5"} {
		t.Run(target, func(t *testing.T) {
			lister := new(MockLister)

			rec := doGet(newRouter(lister), target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			lister.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
		})
	}
}

func TestGetRepositories_Validation(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		expectedCode int
		expectedCall int32
	}{
		{"page zero", "/repositories?page=0", http.StatusBadRequest, 0},
		{"per_page above limit", "/repositories?per_page=101", http.StatusBadRequest, 0},
		{"upper bounds accepted", "/repositories?page=1&per_page=100", http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{repos: sampleRepos}

			rec := doGet(newStack(searcher), tt.target)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectedCall, searcher.calls.Load())
			if tt.expectedCode == http.StatusBadRequest {
				var resp errors.HTTPErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, errors.RefInvalidParameter, resp.ErrorRef)
				assert.NotEmpty(t, resp.Detail)
			}
		})
	}
}

func TestGetRepositories_EndToEnd(t *testing.T) {
	searcher := &fakeSearcher{repos: sampleRepos}
	router := newStack(searcher)

	first := doGet(router, "/repositories?language=Python&created_after=2024-12-01&page=1&per_page=10")
	second := doGet(router, "/repositories?language=Python&created_after=2024-12-01&page=1&per_page=10")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, int32(1), searcher.calls.Load())

	var repos []models.ScoredRepository
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &repos))
	require.Len(t, repos, len(sampleRepos))
	for _, repo := range repos {
		assert.NotZero(t, repo.PopularityScore)
	}
	// repo2 has more stars and a newer push
	assert.Equal(t, "user/repo2", repos[0].FullName)
	assert.Nil(t, repos[0].Description)
	assert.Contains(t, first.Body.String(), `"description":null`)

	doGet(router, "/repositories?language=Python&created_after=2024-12-01&page=2&per_page=10")
	assert.Equal(t, int32(2), searcher.calls.Load())
}

func TestGetRepositories_EmptyUpstream(t *testing.T) {
	searcher := &fakeSearcher{repos: []github.Repository{}}

	rec := doGet(newStack(searcher), "/repositories")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetRepositories_UpstreamFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New(
		errors.RefGitHubAPI,
		"Unexpected response from GitHub API",
		"GitHub API returned status 503",
		nil,
		errors.LevelFatal,
	)}

	rec := doGet(newStack(searcher), "/repositories")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.RefGitHubAPI, resp.ErrorRef)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		quota    QuotaReporter
		expected string
	}{
		{"no quota source", nil, `{"status":"ok"}`},
		{"quota not yet reported", fixedQuota{remaining: -1}, `{"status":"ok"}`},
		{
			name:     "quota reported",
			quota:    fixedQuota{remaining: 29, reset: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			expected: `{"status":"ok","rate_limit":{"remaining":29,"reset":"2025-01-01T00:00:00Z"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(newRouterWithQuota(new(MockLister), tt.quota), "/health")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.expected, rec.Body.String())
		})
	}
}

func TestGetRepositories_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(new(MockLister)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/repositories", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
