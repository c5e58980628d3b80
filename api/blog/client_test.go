package blog

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

// mockTransport serves one canned response with optional headers
type mockTransport struct {
	t       *testing.T
	status  int
	body    []byte
	header  http.Header
	lastReq *http.Request
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	header := m.header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: m.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(m.body)),
		Request:    req,
	}, nil
}

func testClient(t *testing.T, transport *mockTransport) *Client {
	t.Helper()
	return &Client{
		baseURL:    "https://blog.example/wp-json/wp/v2",
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
	transport := &mockTransport{
		t:      t,
		status: http.StatusOK,
		body:   fixture(t, "posts.json"),
		header: http.Header{
			"X-Wp-Total":      []string{"11"},
			"X-Wp-Totalpages": []string{"2"},
		},
	}
	c := testClient(t, transport)

	page, err := c.Search(context.Background(), "kindertransport", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got, want := page.Total, 11; got != want {
		t.Errorf("got total %d, want %d", got, want)
	}
	if got, want := page.TotalPages, 2; got != want {
		t.Errorf("got total pages %d, want %d", got, want)
	}

	want := []Post{
		{
			Title:   "Sources on the Kindertransport",
			URL:     "https://blog.ehri-project.eu/2021/03/kindertransport-sources/",
			MediaID: 9001,
		},
		{
			Title:   "Mapping deportation routes",
			URL:     "https://blog.ehri-project.eu/2021/05/mapping-deportations/",
			MediaID: 9002,
		},
	}
	if diff := cmp.Diff(want, page.Posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}

	q := transport.lastReq.URL.Query()
	if got, want := q.Get("type"), "post"; got != want {
		t.Errorf("got type=%q, want %q", got, want)
	}
	if got, want := q.Get("search"), "kindertransport"; got != want {
		t.Errorf("got search=%q, want %q", got, want)
	}
	if got, want := q.Get("per_page"), "6"; got != want {
		t.Errorf("got per_page=%q, want %q", got, want)
	}
}

func TestSearchPastLastPage(t *testing.T) {
	// WordPress rejects a page beyond the last with a 400; that must read
	// as an empty page, not a failure
	transport := &mockTransport{t: t, status: http.StatusBadRequest, body: []byte(`{"code":"rest_post_invalid_page_number"}`)}
	c := testClient(t, transport)

	page, err := c.Search(context.Background(), "", 99)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Posts) != 0 || page.Total != 0 {
		t.Errorf("expected an empty page, got %+v", page)
	}
}

func TestThumbnail(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: fixture(t, "media.json")}
	c := testClient(t, transport)

	u, err := c.Thumbnail(context.Background(), 9001)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	if want := "https://blog.ehri-project.eu/wp-content/uploads/2021/03/kinder-300x200.jpg"; u != want {
		t.Errorf("got %q, want %q", u, want)
	}
}

func TestThumbnailMissingMedium(t *testing.T) {
	transport := &mockTransport{t: t, status: http.StatusOK, body: []byte(`{"media_details":{"sizes":{}}}`)}
	c := testClient(t, transport)

	_, err := c.Thumbnail(context.Background(), 9001)
	if err == nil {
		t.Fatal("expected an error when no medium size exists")
	}
	if !failure.Is(err, ErrNoThumbnail) {
		t.Errorf("expected ErrNoThumbnail, got %v", err)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "A plain title", want: "A plain title"},
		{name: "strong", in: "Sources on the <strong>Kindertransport</strong>", want: "Sources on the Kindertransport"},
		{name: "nested", in: "<em>Very <strong>important</strong></em> news", want: "Very important news"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
