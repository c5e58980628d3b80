// Package geodata implements a thin client for the EHRI geodata WMS
// service: layer discovery via GetCapabilities and URL building for map and
// legend imagery. Tile rendering itself is left to the browser.
package geodata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/ehri-project/ehri-explorer/log"
	"github.com/morikuni/failure/v2"
)

const (
	// DefaultBaseURL is the EHRI geoserver WMS endpoint
	DefaultBaseURL = "https://geodata.ehri-project.eu/geoserver/wms"

	// EnvBaseURL overrides the WMS endpoint
	EnvBaseURL = "EHRI_GEODATA_URL"

	wmsVersion = "1.3.0"
)

// ErrorCode defines error types for WMS operations
type ErrorCode string

const (
	// ErrRequestFailed represents transport-level failures against the WMS
	ErrRequestFailed ErrorCode = "WMSRequestFailed"
	// ErrInvalidCapabilities represents an unparsable capabilities document
	ErrInvalidCapabilities ErrorCode = "WMSInvalidCapabilities"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Layer is one map layer advertised by the WMS capabilities document
type Layer struct {
	Name     string
	Title    string
	Abstract string
}

// BBox is a geographic bounding box in EPSG:4326 order
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Client is a client for the geodata WMS service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a WMS client using the default or env-configured
// endpoint
func NewClient() *Client {
	base := DefaultBaseURL
	if v := os.Getenv(EnvBaseURL); v != "" {
		base = v
	}
	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   20 * time.Second,
			Transport: log.Transport(),
		},
	}
}

// Layers fetches the capabilities document and returns the named layers in
// document order
func (c *Client) Layers(ctx context.Context) ([]Layer, error) {
	q := url.Values{}
	q.Set("service", "WMS")
	q.Set("version", wmsVersion)
	q.Set("request", "GetCapabilities")

	u := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, failure.Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("Failed to reach the EHRI geodata service"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("The EHRI geodata service returned an error"),
			failure.Context{"url": u, "status": resp.Status},
		)
	}

	var caps struct {
		Capability struct {
			Layer struct {
				Layers []struct {
					Name     string `xml:"Name"`
					Title    string `xml:"Title"`
					Abstract string `xml:"Abstract"`
				} `xml:"Layer"`
			} `xml:"Layer"`
		} `xml:"Capability"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&caps); err != nil {
		return nil, failure.New(ErrInvalidCapabilities,
			failure.Message("The capabilities document could not be parsed"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}

	layers := make([]Layer, 0, len(caps.Capability.Layer.Layers))
	for _, l := range caps.Capability.Layer.Layers {
		// Group headers carry a title but no name and cannot be requested
		if l.Name == "" {
			continue
		}
		layers = append(layers, Layer{
			Name:     l.Name,
			Title:    l.Title,
			Abstract: l.Abstract,
		})
	}

	return layers, nil
}

// MapURL builds a GetMap request URL for the given layer and bounding box
func (c *Client) MapURL(layer string, bbox BBox, width, height int) string {
	q := url.Values{}
	q.Set("service", "WMS")
	q.Set("version", wmsVersion)
	q.Set("request", "GetMap")
	q.Set("layers", layer)
	q.Set("crs", "EPSG:4326")
	// EPSG:4326 axis order in WMS 1.3.0 is lat,lon
	q.Set("bbox", fmt.Sprintf("%g,%g,%g,%g", bbox.MinY, bbox.MinX, bbox.MaxY, bbox.MaxX))
	q.Set("width", fmt.Sprintf("%d", width))
	q.Set("height", fmt.Sprintf("%d", height))
	q.Set("format", "image/png")
	q.Set("transparent", "true")

	return fmt.Sprintf("%s?%s", c.baseURL, q.Encode())
}

// LegendURL builds a GetLegendGraphic request URL for the given layer
func (c *Client) LegendURL(layer string) string {
	q := url.Values{}
	q.Set("service", "WMS")
	q.Set("version", wmsVersion)
	q.Set("request", "GetLegendGraphic")
	q.Set("layer", layer)
	q.Set("format", "image/png")

	return fmt.Sprintf("%s?%s", c.baseURL, q.Encode())
}
