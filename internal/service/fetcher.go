package service

import (
	"context"
	"fmt"

	"github.com/KOFI-GYIMAH/repo-scorer/internal/cache"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// * Searcher runs one uncached upstream search
type Searcher interface {
	SearchRepositories(ctx context.Context, q github.SearchQuery) ([]github.Repository, error)
}

// * Fetcher serves searches from the cache while fresh and goes upstream once
// * per miss. Concurrent misses on the same query share a single upstream call.
type Fetcher struct {
	searcher Searcher
	cache    *cache.Cache[github.SearchQuery, []github.Repository]
	group    singleflight.Group
}

func NewFetcher(searcher Searcher, c *cache.Cache[github.SearchQuery, []github.Repository]) *Fetcher {
	return &Fetcher{
		searcher: searcher,
		cache:    c,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, q github.SearchQuery) ([]github.Repository, error) {
	repos, fresh, present := f.cache.Lookup(q)
	if fresh {
		logger.Info("Cache HIT: %s", q)
		return repos, nil
	}
	if present {
		logger.Info("Cache EXPIRED: %s", q)
	}
	logger.Info("Cache MISS: %s", q)

	// the flight outlives any single caller; the transport timeout bounds it
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := f.group.Do(flightKey(q), func() (any, error) {
		repos, err := f.searcher.SearchRepositories(flightCtx, q)
		if err != nil {
			return nil, err
		}
		f.cache.Set(q, repos)
		return repos, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Shared upstream search for %s", q)
	}

	return v.([]github.Repository), nil
}

func flightKey(q github.SearchQuery) string {
	return fmt.Sprintf("%q|%q|%d|%d", q.Language, q.CreatedAfter, q.PerPage, q.Page)
}
