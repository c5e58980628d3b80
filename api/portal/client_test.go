package portal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/morikuni/failure/v2"
)

// mockTransport serves canned responses and records the requests it saw
type mockTransport struct {
	t        *testing.T
	status   int
	body     []byte
	requests []*http.Request
	sent     [][]byte
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			m.t.Fatalf("failed to read request body: %v", err)
		}
		m.sent = append(m.sent, b)
	} else {
		m.sent = append(m.sent, nil)
	}
	return &http.Response{
		StatusCode: m.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(m.body)),
		Request:    req,
	}, nil
}

func testClient(t *testing.T, transport *mockTransport) *Client {
	t.Helper()
	return &Client{
		baseURL:    "https://portal.example/api/v1",
		graphqlURL: "https://portal.example/api/graphql",
		httpClient: &http.Client{Transport: transport},
	}
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read test data: %v", err)
	}
	return b
}

func TestSearch(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: fixture(t, "search.json")}
	c := testClient(t, transport)

	page, err := c.Search(context.Background(), SearchRequest{
		Query:   "Amsterdam",
		Country: "NL",
		Page:    3,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got, want := len(page.Units), 2; got != want {
		t.Errorf("got %d units, want %d", got, want)
	}
	if got, want := page.Total, 142; got != want {
		t.Errorf("got total %d, want %d", got, want)
	}
	if got, want := page.Pages, 8; got != want {
		t.Errorf("got pages %d, want %d", got, want)
	}
	if !page.HasPrev || !page.HasNext {
		t.Errorf("expected prev and next links, got HasPrev=%v HasNext=%v", page.HasPrev, page.HasNext)
	}
	if got, want := page.Units[0].Title(), "Amsterdam Jewish Council records"; got != want {
		t.Errorf("got title %q, want %q", got, want)
	}

	holder, ok := page.Facet("holder")
	if !ok {
		t.Fatal("expected a holder facet")
	}
	want := []FacetBucket{
		{Name: "NIOD Institute for War, Holocaust and Genocide Studies", Count: 97},
		{Name: "Stadsarchief Amsterdam", Count: 45},
		{Name: "Joods Historisch Museum", Count: 0},
	}
	if diff := cmp.Diff(want, holder.Buckets); diff != "" {
		t.Errorf("holder buckets mismatch (-want +got):\n%s", diff)
	}

	// The request must carry the state as query parameters, country lowercased
	req := transport.requests[0]
	q := req.URL.Query()
	if got, want := q.Get("q"), "Amsterdam"; got != want {
		t.Errorf("got q=%q, want %q", got, want)
	}
	if got, want := q.Get("country"), "nl"; got != want {
		t.Errorf("got country=%q, want %q", got, want)
	}
	if got, want := q.Get("type"), "DocumentaryUnit"; got != want {
		t.Errorf("got type=%q, want %q", got, want)
	}
	if got, want := q.Get("page"), "3"; got != want {
		t.Errorf("got page=%q, want %q", got, want)
	}
	if got, want := len(q["facet"]), 4; got != want {
		t.Errorf("got %d facet selectors, want %d", got, want)
	}
}

func TestSearchClampsPageFloor(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: fixture(t, "search.json")}
	c := testClient(t, transport)

	if _, err := c.Search(context.Background(), SearchRequest{Country: "nl", Page: 0}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got, want := transport.requests[0].URL.Query().Get("page"), "1"; got != want {
		t.Errorf("got page=%q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: fixture(t, "report.json")}
	c := testClient(t, transport)

	report, err := c.Report(context.Background(), "NL")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	want := &Report{
		Name:         "Netherlands",
		History:      "The Netherlands was occupied by Nazi Germany in May 1940.",
		Situation:    "Dutch archival institutions hold extensive wartime records.",
		Summary:      "EHRI has surveyed the major Dutch collections.",
		Institutions: 23,
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	// The code is lowercased into the path
	if got, want := transport.requests[0].URL.Path, "/api/v1/nl"; got != want {
		t.Errorf("got path %q, want %q", got, want)
	}
}

func TestReportNotFound(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusNotFound, body: []byte(`{}`)}
	c := testClient(t, transport)

	_, err := c.Report(context.Background(), "xx")
	if err == nil {
		t.Fatal("expected an error for an unknown country")
	}
	if !failure.Is(err, ErrNoCountryReport) {
		t.Errorf("expected ErrNoCountryReport, got %v", err)
	}
}

func TestReportMalformedBody(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: []byte(`<html>error page</html>`)}
	c := testClient(t, transport)

	_, err := c.Report(context.Background(), "nl")
	if err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
	if !failure.Is(err, ErrNoCountryReport) {
		t.Errorf("expected ErrNoCountryReport, got %v", err)
	}
}

func TestSearchServerError(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusBadGateway, body: []byte(`oops`)}
	c := testClient(t, transport)

	_, err := c.Search(context.Background(), SearchRequest{Country: "nl", Page: 1})
	if err == nil {
		t.Fatal("expected an error for a 502")
	}
	if !failure.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
}
