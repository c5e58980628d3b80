package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/morikuni/failure/v2"
)

// countriesQuery lists every country with an EHRI presence
const countriesQuery = `
query Countries {
  countries {
    items {
      identifier
      name
    }
  }
}
`

// countryQuery fetches a country's repositories with their nested document
// units. The country id is spliced in as a quoted string.
const countryQuery = `
query Country {
  Country(id: %q) {
    id
    identifier
    name
    itemCount
    repositories {
      items {
        id
        type
        identifier
        descriptions {
          languageCode
          name
        }
        latitude
        longitude
        itemCount
        documentaryUnits(all: true) {
          items {
            id
            type
            identifier
            descriptions {
              languageCode
              name
            }
          }
        }
      }
    }
  }
}
`

// Countries fetches the full country directory from the GraphQL endpoint
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var body struct {
		Data struct {
			Countries struct {
				Items []Country `json:"items"`
			} `json:"countries"`
		} `json:"data"`
	}

	if err := c.graphql(ctx, countriesQuery, &body); err != nil {
		return nil, err
	}

	return body.Data.Countries.Items, nil
}

// Repositories fetches all repositories of a country, including their
// nested document units
func (c *Client) Repositories(ctx context.Context, code string) ([]Repository, error) {
	query := fmt.Sprintf(countryQuery, code)

	var body struct {
		Data struct {
			Country *struct {
				Repositories struct {
					Items []json.RawMessage `json:"items"`
				} `json:"repositories"`
			} `json:"Country"`
		} `json:"data"`
	}

	if err := c.graphql(ctx, query, &body); err != nil {
		return nil, err
	}

	if body.Data.Country == nil {
		return nil, failure.New(ErrNotFound,
			failure.Message(fmt.Sprintf("No repositories are listed for %q", code)),
			failure.Context{"country": code},
		)
	}

	repos := make([]Repository, 0, len(body.Data.Country.Repositories.Items))
	for _, raw := range body.Data.Country.Repositories.Items {
		var item struct {
			Repository
			DocumentaryUnits struct {
				Items []DocumentUnit `json:"items"`
			} `json:"documentaryUnits"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, failure.New(ErrInvalidResponse,
				failure.Message("The EHRI portal returned an unexpected repository shape"),
				failure.Context{"country": code, "error": err.Error()},
			)
		}
		repo := item.Repository
		repo.DocumentUnits = item.DocumentaryUnits.Items
		repos = append(repos, repo)
	}

	return repos, nil
}

// graphql posts a query document and decodes the response into out.
// The X-Stream header suppresses server-side pagination of list fields.
func (c *Client) graphql(ctx context.Context, query string, out any) error {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return failure.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return failure.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Stream", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure.New(ErrRequestFailed,
			failure.Message("Failed to reach the EHRI GraphQL endpoint"),
			failure.Context{"url": c.graphqlURL, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure.New(ErrRequestFailed,
			failure.Message("The EHRI GraphQL endpoint returned an error"),
			failure.Context{"url": c.graphqlURL, "status": resp.Status},
		)
	}

	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure.Wrap(err)
	}
	if err := json.Unmarshal(buf, &envelope); err == nil && len(envelope.Errors) > 0 {
		return failure.New(ErrGraphQL,
			failure.Message("The EHRI GraphQL endpoint rejected the query"),
			failure.Context{"error": envelope.Errors[0].Message},
		)
	}

	if err := json.Unmarshal(buf, out); err != nil {
		return failure.New(ErrInvalidResponse,
			failure.Message("The EHRI GraphQL endpoint returned an unexpected response"),
			failure.Context{"url": c.graphqlURL, "error": err.Error()},
		)
	}

	return nil
}
