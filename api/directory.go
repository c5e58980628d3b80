package api

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/morikuni/failure/v2"
)

// CountryLister is the part of the portal client the directory uses
type CountryLister interface {
	Countries(ctx context.Context) ([]portal.Country, error)
}

// Directory is the country-code directory built from the portal GraphQL
// stream. It is loaded at most once per session and immutable afterwards.
type Directory struct {
	lister CountryLister

	loaded    bool
	countries []portal.Country
	byCode    map[string]portal.Country
	byName    map[string]string
}

// NewDirectory creates an unloaded directory backed by the given lister
func NewDirectory(lister CountryLister) *Directory {
	return &Directory{lister: lister}
}

// Load fetches the directory once. Subsequent calls are no-ops.
func (d *Directory) Load(ctx context.Context) error {
	if d.loaded {
		return nil
	}

	countries, err := d.lister.Countries(ctx)
	if err != nil {
		return failure.New(ErrDirectoryLoad,
			failure.Message("The EHRI country directory could not be loaded"),
			failure.Context{"error": err.Error()},
		)
	}

	d.countries = countries
	sort.Slice(d.countries, func(i, j int) bool {
		return d.countries[i].Name < d.countries[j].Name
	})

	d.byCode = make(map[string]portal.Country, len(countries))
	d.byName = make(map[string]string, len(countries))
	for _, c := range countries {
		d.byCode[strings.ToLower(c.Identifier)] = c
		d.byName[strings.ToLower(c.Name)] = strings.ToLower(c.Identifier)
	}

	d.loaded = true
	return nil
}

// Countries returns all directory entries sorted by display name
func (d *Directory) Countries() []portal.Country {
	return d.countries
}

// Resolve maps a country code or display name, case-insensitively, to the
// directory entry. Unknown selections fail with ErrUnknownCountry.
func (d *Directory) Resolve(nameOrCode string) (portal.Country, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrCode))

	if c, ok := d.byCode[key]; ok {
		return c, nil
	}
	if code, ok := d.byName[key]; ok {
		return d.byCode[code], nil
	}

	return portal.Country{}, failure.New(ErrUnknownCountry,
		failure.Message(fmt.Sprintf("There is no EHRI country report for %q", nameOrCode)),
		failure.Context{"country": nameOrCode},
	)
}
