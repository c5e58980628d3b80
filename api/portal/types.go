package portal

import (
	"fmt"

	"github.com/samber/lo"
)

// Description is a localized display name for a portal item
type Description struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

// Country is an entry in the portal country directory
type Country struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// Report is the narrative country report served by the portal REST API
type Report struct {
	Name         string
	History      string
	Situation    string
	Summary      string
	Institutions int
}

// DocumentUnit is a single archival description, either nested under a
// repository or returned flat by search
type DocumentUnit struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Identifier   string        `json:"identifier"`
	Descriptions []Description `json:"descriptions"`
}

// Title returns the first available localized name
func (d DocumentUnit) Title() string {
	if len(d.Descriptions) > 0 {
		return d.Descriptions[0].Name
	}
	return d.ID
}

// PortalURL returns the public portal page for this unit
func (d DocumentUnit) PortalURL() string {
	return fmt.Sprintf("https://portal.ehri-project.eu/units/%s", d.ID)
}

// Repository is an archival institution holding document units
type Repository struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Identifier    string        `json:"identifier"`
	Descriptions  []Description `json:"descriptions"`
	Latitude      *float64      `json:"latitude"`
	Longitude     *float64      `json:"longitude"`
	ItemCount     int           `json:"itemCount"`
	DocumentUnits []DocumentUnit
}

// Title returns the first available localized name
func (r Repository) Title() string {
	if len(r.Descriptions) > 0 {
		return r.Descriptions[0].Name
	}
	return r.ID
}

// PortalURL returns the public portal page for this institution
func (r Repository) PortalURL() string {
	return fmt.Sprintf("https://portal.ehri-project.eu/institutions/%s", r.ID)
}

// Coordinates returns the repository location. ok is false when either
// coordinate is missing; such repositories stay in list output but must not
// be placed on a map.
func (r Repository) Coordinates() (lat, lng float64, ok bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// MapPoint is a plottable repository location
type MapPoint struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// MapPoints converts repositories to plottable points, dropping every
// repository with a missing coordinate
func MapPoints(repos []Repository) []MapPoint {
	return lo.FilterMap(repos, func(r Repository, _ int) (MapPoint, bool) {
		lat, lng, ok := r.Coordinates()
		if !ok {
			return MapPoint{}, false
		}
		return MapPoint{Name: r.Title(), Latitude: lat, Longitude: lng}, true
	})
}

// FacetBucket is one category of a facet breakdown with its match count
type FacetBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facet is a categorical breakdown of search results returned as metadata
type Facet struct {
	Param   string        `json:"param"`
	Buckets []FacetBucket `json:"facets"`
}

// SearchPage is one page of search results together with the navigation
// metadata the service reported for it. It is replaced wholesale on every
// fetch, never mutated.
type SearchPage struct {
	Units  []DocumentUnit
	Total  int
	Pages  int
	Facets []Facet

	// HasPrev and HasNext reflect the presence of prev/next links in the
	// response. The service is the source of truth for which pages exist.
	HasPrev bool
	HasNext bool
}

// Facet returns the facet breakdown for the given parameter, if present
func (p *SearchPage) Facet(param string) (Facet, bool) {
	for _, f := range p.Facets {
		if f.Param == param {
			return f, true
		}
	}
	return Facet{}, false
}
