// Package portal implements clients for the EHRI portal REST and GraphQL
// APIs: the country directory, country reports, repository listings and the
// paginated archival-description search.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ehri-project/ehri-explorer/log"
	"github.com/morikuni/failure/v2"
)

const (
	// DefaultBaseURL is the production portal REST API
	DefaultBaseURL = "https://portal.ehri-project.eu/api/v1"
	// DefaultGraphQLURL is the production portal GraphQL endpoint
	DefaultGraphQLURL = "https://portal.ehri-project.eu/api/graphql"

	// EnvBaseURL overrides the REST endpoint
	EnvBaseURL = "EHRI_PORTAL_URL"
	// EnvGraphQLURL overrides the GraphQL endpoint
	EnvGraphQLURL = "EHRI_GRAPHQL_URL"
)

// searchFacets are the facet breakdowns requested with every search call
var searchFacets = []string{"type", "holder", "country", "lang"}

// Client is a client for the EHRI portal APIs
type Client struct {
	baseURL    string
	graphqlURL string
	httpClient *http.Client
}

// NewClient creates a portal client using the default or env-configured
// endpoints
func NewClient() *Client {
	base := DefaultBaseURL
	if v := os.Getenv(EnvBaseURL); v != "" {
		base = v
	}
	gql := DefaultGraphQLURL
	if v := os.Getenv(EnvGraphQLURL); v != "" {
		gql = v
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		graphqlURL: gql,
		httpClient: &http.Client{
			Timeout:   20 * time.Second,
			Transport: log.Transport(),
		},
	}
}

// Report fetches the narrative country report for the given country code
func (c *Client) Report(ctx context.Context, code string) (*Report, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, strings.ToLower(code))

	var body struct {
		Data struct {
			Attributes struct {
				Name      string `json:"name"`
				History   string `json:"history"`
				Situation string `json:"situation"`
				Summary   string `json:"summary"`
			} `json:"attributes"`
			Meta struct {
				Subitems int `json:"subitems"`
			} `json:"meta"`
		} `json:"data"`
	}

	if err := c.getJSON(ctx, u, &body); err != nil {
		// Unknown codes come back as a 404 or as a non-JSON error page
		if failure.Is(err, ErrNotFound) || failure.Is(err, ErrInvalidResponse) {
			return nil, failure.New(ErrNoCountryReport,
				failure.Message(fmt.Sprintf("There is no EHRI country report for %q", code)),
				failure.Context{"country": code},
			)
		}
		return nil, err
	}

	if body.Data.Attributes.Name == "" {
		return nil, failure.New(ErrNoCountryReport,
			failure.Message(fmt.Sprintf("There is no EHRI country report for %q", code)),
			failure.Context{"country": code},
		)
	}

	return &Report{
		Name:         body.Data.Attributes.Name,
		History:      body.Data.Attributes.History,
		Situation:    body.Data.Attributes.Situation,
		Summary:      body.Data.Attributes.Summary,
		Institutions: body.Data.Meta.Subitems,
	}, nil
}

// SearchRequest carries the state of one search call: free-text query,
// country scope and the 1-based page to fetch
type SearchRequest struct {
	Query   string
	Country string
	Page    int
}

// Search fetches one page of DocumentaryUnit matches for the request
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("country", strings.ToLower(req.Country))
	q.Set("type", "DocumentaryUnit")
	q.Set("page", strconv.Itoa(page))
	for _, f := range searchFacets {
		q.Add("facet", f)
	}

	u := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())

	var body struct {
		Data []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			Attributes struct {
				Descriptions []Description `json:"descriptions"`
			} `json:"attributes"`
		} `json:"data"`
		Meta struct {
			Total  int     `json:"total"`
			Pages  int     `json:"pages"`
			Facets []Facet `json:"facets"`
		} `json:"meta"`
		Links map[string]any `json:"links"`
	}

	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	result := &SearchPage{
		Units:  make([]DocumentUnit, 0, len(body.Data)),
		Total:  body.Meta.Total,
		Pages:  body.Meta.Pages,
		Facets: body.Meta.Facets,
	}
	for _, d := range body.Data {
		result.Units = append(result.Units, DocumentUnit{
			ID:           d.ID,
			Type:         d.Type,
			Descriptions: d.Attributes.Descriptions,
		})
	}

	// Page navigation availability is signalled by the presence of the
	// prev/next link keys, not inferred from the page counter
	_, result.HasPrev = body.Links["prev"]
	_, result.HasNext = body.Links["next"]

	return result, nil
}

// getJSON performs a GET request and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return failure.Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure.New(ErrRequestFailed,
			failure.Message("Failed to reach the EHRI portal"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return failure.New(ErrNotFound,
			failure.Message("Not found on the EHRI portal"),
			failure.Context{"url": u},
		)
	}

	if resp.StatusCode != http.StatusOK {
		return failure.New(ErrRequestFailed,
			failure.Message("The EHRI portal returned an error"),
			failure.Context{"url": u, "status": resp.Status},
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return failure.New(ErrInvalidResponse,
			failure.Message("The EHRI portal returned an unexpected response"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}

	return nil
}
