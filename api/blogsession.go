package api

import (
	"context"

	"github.com/ehri-project/ehri-explorer/api/blog"
	"github.com/ehri-project/ehri-explorer/log"
)

// BlogAPI is the blog surface a blog session depends on
type BlogAPI interface {
	Search(ctx context.Context, query string, page int) (*blog.ResultPage, error)
	Thumbnail(ctx context.Context, mediaID int) (string, error)
}

// BlogSession owns the state of one Document Blog search. Unlike the portal,
// the blog reports totals through response headers, so navigation flags are
// derived from the page counter against the reported page count.
type BlogSession struct {
	client BlogAPI

	query   string
	page    int
	current *blog.ResultPage
}

// NewBlogSession creates a blog search session
func NewBlogSession(client BlogAPI) *BlogSession {
	return &BlogSession{client: client, page: 1}
}

// Query returns the active query text
func (s *BlogSession) Query() string {
	return s.query
}

// Page returns the current 1-based page number
func (s *BlogSession) Page() int {
	return s.page
}

// Current returns the most recently fetched result page
func (s *BlogSession) Current() *blog.ResultPage {
	return s.current
}

// SetQuery replaces the query text and restarts pagination
func (s *BlogSession) SetQuery(text string) {
	s.query = text
	s.page = 1
}

// NextPage advances the page counter
func (s *BlogSession) NextPage() {
	s.page++
}

// PrevPage retreats the page counter
func (s *BlogSession) PrevPage() {
	s.page--
}

// HasPrev reports whether a previous page exists
func (s *BlogSession) HasPrev() bool {
	return s.page > 1
}

// HasNext reports whether a further page exists according to the last
// fetched totals
func (s *BlogSession) HasNext() bool {
	return s.current != nil && s.page < s.current.TotalPages
}

// Fetch issues a search with the current state and resolves a thumbnail for
// each post. A failed thumbnail lookup degrades that one post and leaves the
// rest of the page intact.
func (s *BlogSession) Fetch(ctx context.Context) (*blog.ResultPage, error) {
	page, err := s.client.Search(ctx, s.query, s.page)
	if err != nil {
		return nil, err
	}

	for i := range page.Posts {
		post := &page.Posts[i]
		if post.MediaID == 0 {
			continue
		}
		thumb, err := s.client.Thumbnail(ctx, post.MediaID)
		if err != nil {
			log.Warn("thumbnail lookup failed",
				"post", post.URL,
				"media_id", post.MediaID,
				"error", err,
			)
			continue
		}
		post.ThumbnailURL = thumb
	}

	s.current = page
	return page, nil
}
