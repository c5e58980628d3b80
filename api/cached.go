package api

import (
	"context"

	"github.com/ehri-project/ehri-explorer/api/cache"
	"github.com/ehri-project/ehri-explorer/api/portal"
)

// The country directory and per-country repository listings are
// deterministic for a given input within a session, so they go through the
// gob file cache. Reports and search results are cheap and frequently
// invalidated and are always fetched fresh.

type cachedCountryLister struct {
	lister CountryLister
	cache  *cache.Cache[[]portal.Country]
}

// CachedCountries wraps a lister with the file cache
func CachedCountries(lister CountryLister) CountryLister {
	return &cachedCountryLister{
		lister: lister,
		cache:  cache.New[[]portal.Country]("portal"),
	}
}

func (c *cachedCountryLister) Countries(ctx context.Context) ([]portal.Country, error) {
	return c.cache.GetOrSet("countries", func() ([]portal.Country, error) {
		return c.lister.Countries(ctx)
	}, false)
}

type cachedRepositoryLister struct {
	lister RepositoryLister
	cache  *cache.Cache[[]portal.Repository]
}

// CachedRepositories wraps a repository lister with the file cache, keyed by
// country code
func CachedRepositories(lister RepositoryLister) RepositoryLister {
	return &cachedRepositoryLister{
		lister: lister,
		cache:  cache.New[[]portal.Repository]("repositories"),
	}
}

func (c *cachedRepositoryLister) Repositories(ctx context.Context, code string) ([]portal.Repository, error) {
	return c.cache.GetOrSet(code, func() ([]portal.Repository, error) {
		return c.lister.Repositories(ctx, code)
	}, false)
}
