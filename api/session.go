package api

import (
	"context"
	"sort"

	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/samber/lo"
)

// Searcher is the part of the portal client the session uses for search
type Searcher interface {
	Search(ctx context.Context, req portal.SearchRequest) (*portal.SearchPage, error)
}

// ReportFetcher fetches the narrative country report
type ReportFetcher interface {
	Report(ctx context.Context, code string) (*portal.Report, error)
}

// RepositoryLister lists the repositories of a country
type RepositoryLister interface {
	Repositories(ctx context.Context, code string) ([]portal.Repository, error)
}

// PortalAPI is the full portal surface a search session depends on
type PortalAPI interface {
	Searcher
	ReportFetcher
	RepositoryLister
}

// SearchSession owns the state of one archival search: the selected country,
// the free-text query, the 1-based page counter and the most recently
// fetched result page. It is single-session, transient state; nothing here
// persists or is shared.
type SearchSession struct {
	searcher  Searcher
	reports   ReportFetcher
	repos     RepositoryLister
	directory *Directory

	country string
	query   string
	page    int

	current  *portal.SearchPage
	repoList []portal.Repository
}

// NewSearchSession creates a session over the given portal surface.
// The directory must be loaded before SetCountry is called.
func NewSearchSession(p PortalAPI, repos RepositoryLister, dir *Directory) *SearchSession {
	if repos == nil {
		repos = p
	}
	return &SearchSession{
		searcher:  p,
		reports:   p,
		repos:     repos,
		directory: dir,
		page:      1,
	}
}

// Country returns the active country code, empty before the first selection
func (s *SearchSession) Country() string {
	return s.country
}

// Query returns the active free-text query
func (s *SearchSession) Query() string {
	return s.query
}

// Page returns the current 1-based page number
func (s *SearchSession) Page() int {
	return s.page
}

// Current returns the most recently fetched result page, nil before the
// first fetch and after a country change
func (s *SearchSession) Current() *portal.SearchPage {
	return s.current
}

// SetCountry replaces the active country. The code must exist in the
// directory. A new country clears the query, resets the page counter and
// invalidates the repository list and the current result page.
func (s *SearchSession) SetCountry(nameOrCode string) error {
	c, err := s.directory.Resolve(nameOrCode)
	if err != nil {
		return err
	}

	s.country = c.Identifier
	s.query = ""
	s.page = 1
	s.current = nil
	s.repoList = nil
	return nil
}

// SetQuery replaces the active query text and restarts pagination. A stale
// page number must never be reused against a new query, since the new result
// set may have fewer pages.
func (s *SearchSession) SetQuery(text string) {
	s.query = text
	s.page = 1
}

// NextPage advances the page counter. The caller is expected to consult
// Aggregates().HasNext first; no clamping happens here, and an out-of-range
// fetch degrades to an empty page.
func (s *SearchSession) NextPage() {
	s.page++
}

// PrevPage retreats the page counter. The caller is expected to check
// Page() > 1 first.
func (s *SearchSession) PrevPage() {
	s.page--
}

// Fetch issues a search with the current state and stores the parsed
// response as the current result page.
//
// If the response reports exactly one page while the counter is elsewhere,
// the counter snaps back to 1 and the fetch is retried once. That corrects a
// stale counter left behind by a result set that shrank. A response with
// zero pages only resets the counter, without a second fetch.
func (s *SearchSession) Fetch(ctx context.Context) (*portal.SearchPage, error) {
	page, err := s.searcher.Search(ctx, portal.SearchRequest{
		Query:   s.query,
		Country: s.country,
		Page:    s.page,
	})
	if err != nil {
		return nil, err
	}

	if page.Pages == 1 && s.page != 1 {
		s.page = 1
		page, err = s.searcher.Search(ctx, portal.SearchRequest{
			Query:   s.query,
			Country: s.country,
			Page:    s.page,
		})
		if err != nil {
			return nil, err
		}
	} else if page.Pages == 0 {
		s.page = 1
	}

	s.current = page
	return page, nil
}

// Report fetches the country report for the active country. Not cached:
// freshness matters more than the round-trip.
func (s *SearchSession) Report(ctx context.Context) (*portal.Report, error) {
	return s.reports.Report(ctx, s.country)
}

// Repositories returns the repository list for the active country, fetching
// it on first use after a country change
func (s *SearchSession) Repositories(ctx context.Context) ([]portal.Repository, error) {
	if s.repoList != nil {
		return s.repoList, nil
	}

	repos, err := s.repos.Repositories(ctx, s.country)
	if err != nil {
		return nil, err
	}

	s.repoList = repos
	return repos, nil
}

// Aggregates are the display statistics derived from one result page
type Aggregates struct {
	// Total is the match count across all pages
	Total int
	// Pages is the total page count the service reported
	Pages int
	// Holders is the per-holding-institution breakdown, zero-count buckets
	// removed, sorted by count descending then name
	Holders []portal.FacetBucket
	// HasPrev and HasNext come from the response navigation links
	HasPrev bool
	HasNext bool
}

// Aggregates derives display statistics from the current result page. It is
// pure over the page: an unfetched session yields the zero value.
func (s *SearchSession) Aggregates() Aggregates {
	return DeriveAggregates(s.current)
}

// DeriveAggregates computes display statistics from a result page
func DeriveAggregates(page *portal.SearchPage) Aggregates {
	if page == nil {
		return Aggregates{}
	}

	agg := Aggregates{
		Total:   page.Total,
		Pages:   page.Pages,
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}

	if holder, ok := page.Facet("holder"); ok {
		agg.Holders = lo.Filter(holder.Buckets, func(b portal.FacetBucket, _ int) bool {
			return b.Count != 0
		})
		sort.SliceStable(agg.Holders, func(i, j int) bool {
			if agg.Holders[i].Count != agg.Holders[j].Count {
				return agg.Holders[i].Count > agg.Holders[j].Count
			}
			return agg.Holders[i].Name < agg.Holders[j].Name
		})
	}

	return agg
}

// EmptyKind classifies a zero-match result page. Both kinds are normal
// states, not errors, but they read differently to the user.
type EmptyKind int

const (
	// NotEmpty means the current page has matches (or nothing was fetched)
	NotEmpty EmptyKind = iota
	// NothingLinked means the country itself has no archival descriptions
	NothingLinked
	// NothingMatched means the search term found nothing in this country
	NothingMatched
)

// Empty classifies the current result page
func (s *SearchSession) Empty() EmptyKind {
	if s.current == nil || s.current.Total > 0 {
		return NotEmpty
	}
	if s.query == "" {
		return NothingLinked
	}
	return NothingMatched
}
