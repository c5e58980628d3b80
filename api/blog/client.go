// Package blog implements a client for the EHRI Document Blog WordPress
// REST API: post search with header-based pagination, thumbnail resolution
// and a readable-body view for individual posts.
package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	html2md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ehri-project/ehri-explorer/log"
	"github.com/mackee/go-readability"
	"github.com/morikuni/failure/v2"
	"golang.org/x/net/html"
)

const (
	// DefaultBaseURL is the Document Blog WordPress REST API root
	DefaultBaseURL = "https://blog.ehri-project.eu/wp-json/wp/v2"

	// EnvBaseURL overrides the blog endpoint
	EnvBaseURL = "EHRI_BLOG_URL"

	// DefaultPerPage is the page size used for post search
	DefaultPerPage = 6
)

// ErrorCode defines error types for blog API operations
type ErrorCode string

const (
	// ErrRequestFailed represents transport-level failures against the blog
	ErrRequestFailed ErrorCode = "BlogRequestFailed"
	// ErrInvalidResponse represents an unexpected response shape
	ErrInvalidResponse ErrorCode = "BlogInvalidResponse"
	// ErrNoThumbnail represents a media item without a usable thumbnail
	ErrNoThumbnail ErrorCode = "BlogNoThumbnail"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Post is one blog post as returned by the search endpoint
type Post struct {
	// Title is the display title with any inline HTML tags stripped
	Title string
	// URL is the canonical post URL
	URL string
	// MediaID is the featured-media identifier, 0 when absent
	MediaID int
	// ThumbnailURL is resolved separately per post and stays empty when the
	// media lookup fails
	ThumbnailURL string
}

// ResultPage is one page of blog search results. Totals come from the
// X-WP-Total and X-WP-TotalPages response headers, not the body.
type ResultPage struct {
	Posts      []Post
	Total      int
	TotalPages int
}

// Client is a client for the Document Blog API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a blog client using the default or env-configured
// endpoint
func NewClient() *Client {
	base := DefaultBaseURL
	if v := os.Getenv(EnvBaseURL); v != "" {
		base = v
	}
	return &Client{
		baseURL: strings.TrimSuffix(base, "/"),
		httpClient: &http.Client{
			Timeout:   20 * time.Second,
			Transport: log.Transport(),
		},
	}
}

// Search fetches one page of posts matching the query. Thumbnails are not
// resolved here; see Thumbnail.
func (c *Client) Search(ctx context.Context, query string, page int) (*ResultPage, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("type", "post")
	q.Set("per_page", strconv.Itoa(DefaultPerPage))
	q.Set("search", query)
	q.Set("_embed", "true")
	q.Set("page", strconv.Itoa(page))

	u := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, failure.Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("Failed to reach the EHRI Document Blog"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	// WordPress answers a page past the last one with a 400; treat it as an
	// empty page rather than a failure so stale page counters degrade
	if resp.StatusCode == http.StatusBadRequest {
		return &ResultPage{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, failure.New(ErrRequestFailed,
			failure.Message("The EHRI Document Blog returned an error"),
			failure.Context{"url": u, "status": resp.Status},
		)
	}

	var items []struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		Embedded struct {
			Self []struct {
				FeaturedMedia int `json:"featured_media"`
			} `json:"self"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, failure.New(ErrInvalidResponse,
			failure.Message("The EHRI Document Blog returned an unexpected response"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}

	result := &ResultPage{Posts: make([]Post, 0, len(items))}
	result.Total, _ = strconv.Atoi(resp.Header.Get("X-WP-Total"))
	result.TotalPages, _ = strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))

	for _, item := range items {
		post := Post{
			Title: StripTags(item.Title),
			URL:   item.URL,
		}
		if len(item.Embedded.Self) > 0 {
			post.MediaID = item.Embedded.Self[0].FeaturedMedia
		}
		result.Posts = append(result.Posts, post)
	}

	return result, nil
}

// Thumbnail resolves a featured-media identifier to a medium-size image URL
func (c *Client) Thumbnail(ctx context.Context, mediaID int) (string, error) {
	u := fmt.Sprintf("%s/media/%d", c.baseURL, mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", failure.Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failure.New(ErrRequestFailed,
			failure.Message("Failed to resolve a post thumbnail"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", failure.New(ErrNoThumbnail,
			failure.Message("No thumbnail is available for this post"),
			failure.Context{"url": u, "status": resp.Status},
		)
	}

	var body struct {
		MediaDetails struct {
			Sizes map[string]struct {
				SourceURL string `json:"source_url"`
			} `json:"sizes"`
		} `json:"media_details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", failure.New(ErrInvalidResponse,
			failure.Message("The media endpoint returned an unexpected response"),
			failure.Context{"url": u, "error": err.Error()},
		)
	}

	size, ok := body.MediaDetails.Sizes["medium"]
	if !ok || size.SourceURL == "" {
		return "", failure.New(ErrNoThumbnail,
			failure.Message("No thumbnail is available for this post"),
			failure.Context{"media_id": strconv.Itoa(mediaID)},
		)
	}

	return size.SourceURL, nil
}

// ReadPost fetches a post page and converts it to markdown for terminal
// display. Readability extraction is tried first; raw HTML conversion is the
// fallback.
func (c *Client) ReadPost(ctx context.Context, postURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, postURL, nil)
	if err != nil {
		return "", failure.Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failure.New(ErrRequestFailed,
			failure.Message("Failed to fetch the post"),
			failure.Context{"url": postURL, "error": err.Error()},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", failure.New(ErrRequestFailed,
			failure.Message("The post could not be fetched"),
			failure.Context{"url": postURL, "status": resp.Status},
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure.Wrap(err)
	}

	u, err := url.Parse(postURL)
	if err != nil {
		return "", failure.Wrap(err)
	}

	return markdown(u, string(body))
}

// markdown converts post HTML to markdown, preferring readability extraction
func markdown(u *url.URL, body string) (string, error) {
	article, err := readability.Extract(body, readability.DefaultOptions())
	if err == nil && article.Root != nil {
		return readability.ToMarkdown(article.Root), nil
	}

	converter := html2md.NewConverter(u.Host, true, &html2md.Options{})
	md, err := converter.ConvertString(body)
	if err != nil {
		return "", failure.New(ErrInvalidResponse,
			failure.Message("The post content could not be converted"),
			failure.Context{"url": u.String(), "error": err.Error()},
		)
	}
	return md, nil
}

// StripTags removes inline HTML markup from a post title, keeping only its
// text content
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}
	return b.String()
}
