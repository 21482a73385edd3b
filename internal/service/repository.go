package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/models"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/scoring"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/errors"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
)

const MaxPerPage = 100

// * RepositoryFetcher returns the raw records of one search page
type RepositoryFetcher interface {
	Fetch(ctx context.Context, q github.SearchQuery) ([]github.Repository, error)
}

type RepositoryService struct {
	fetcher RepositoryFetcher
	now     func() time.Time
}

func NewRepositoryService(fetcher RepositoryFetcher) *RepositoryService {
	return &RepositoryService{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// * ValidateQuery rejects page numbers below 1 and page sizes above 100
func ValidateQuery(q github.SearchQuery) error {
	if q.Page < 1 {
		return errors.InvalidParameter("page", "page must be >= 1")
	}
	if q.PerPage > MaxPerPage {
		return errors.InvalidParameter("per_page", "per_page cannot exceed 100")
	}
	return nil
}

// * ListRepositories fetches one page, scores every record and ranks them
func (s *RepositoryService) ListRepositories(ctx context.Context, q github.SearchQuery) ([]models.ScoredRepository, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}

	repos, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return []models.ScoredRepository{}, nil
	}

	now := s.now().UTC()
	scored := make([]models.ScoredRepository, 0, len(repos))
	for _, repo := range repos {
		scored = append(scored, models.NewScoredRepository(repo, scoring.ScoreAt(repo, now)))
	}

	Rank(scored)

	logger.Info("Ranked %d repositories for %s", len(scored), q)
	return scored, nil
}

// * Rank orders repos by score, stars, forks and last push, all descending.
// * Full ties keep their incoming order.
func Rank(repos []models.ScoredRepository) {
	slices.SortStableFunc(repos, func(a, b models.ScoredRepository) int {
		if c := cmp.Compare(b.PopularityScore, a.PopularityScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.StargazersCount, a.StargazersCount); c != 0 {
			return c
		}
		if c := cmp.Compare(b.ForksCount, a.ForksCount); c != 0 {
			return c
		}
		pushedA, _ := scoring.ParseTimestamp(a.PushedAt)
		pushedB, _ := scoring.ParseTimestamp(b.PushedAt)
		return pushedB.Compare(pushedA)
	})
}
