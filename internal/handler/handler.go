package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/models"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/errors"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
	"github.com/gorilla/mux"
)

type RepositoryLister interface {
	ListRepositories(ctx context.Context, q github.SearchQuery) ([]models.ScoredRepository, error)
}

// * QuotaReporter exposes the upstream quota seen on the last response
type QuotaReporter interface {
	RateLimit() (remaining int, reset time.Time)
}

type RepositoryHandler struct {
	service RepositoryLister
	quota   QuotaReporter
	today   func() string
}

func NewRepositoryHandler(service RepositoryLister, quota QuotaReporter) *RepositoryHandler {
	return &RepositoryHandler{
		service: service,
		quota:   quota,
		today:   func() string { return time.Now().Format(dateLayout) },
	}
}

func (h *RepositoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/repositories", h.getRepositories).Methods("GET")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParameter(name, name+" must be an integer")
	}
	return v, nil
}

func stringParam(r *http.Request, name, fallback string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return fallback
}

// getRepositories godoc
// @Summary Search and rank repositories
// @Description Search GitHub repositories by language and creation date, ranked by popularity score
// @Tags Repository
// @Produce json
// @Param language query string false "Programming language" default(Python)
// @Param created_after query string false "Earliest created date YYYY-MM-DD (defaults to today)"
// @Param per_page query int false "Repositories per page (max 100)" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {array} models.ScoredRepository
// @Failure 400 {object} errors.HTTPErrorResponse
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /repositories [get]
func (h *RepositoryHandler) getRepositories(w http.ResponseWriter, r *http.Request) {
	perPage, err := intParam(r, "per_page", defaultPerPage)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	page, err := intParam(r, "page", defaultPage)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	query := github.SearchQuery{
		Language:     stringParam(r, "language", defaultLanguage),
		CreatedAfter: stringParam(r, "created_after", h.today()),
		PerPage:      perPage,
		Page:         page,
	}

	repos, err := h.service.ListRepositories(r.Context(), query)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	logger.Info("Returning %d repositories for %s", len(repos), query)
	writeJSON(w, http.StatusOK, repos)
}

// health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *RepositoryHandler) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.quota != nil {
		if remaining, reset := h.quota.RateLimit(); remaining >= 0 {
			resp.RateLimit = &RateLimitStatus{Remaining: remaining, Reset: reset.UTC()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
