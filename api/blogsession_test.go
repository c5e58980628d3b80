package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ehri-project/ehri-explorer/api/blog"
	"github.com/google/go-cmp/cmp"
)

// fakeBlog scripts the blog surface; thumbnails resolve per media ID unless
// listed as failing
type fakeBlog struct {
	searches []int
	pages    map[int]*blog.ResultPage
	broken   map[int]bool
}

func (f *fakeBlog) Search(ctx context.Context, query string, page int) (*blog.ResultPage, error) {
	f.searches = append(f.searches, page)
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &blog.ResultPage{}, nil
}

func (f *fakeBlog) Thumbnail(ctx context.Context, mediaID int) (string, error) {
	if f.broken[mediaID] {
		return "", errors.New("media not found")
	}
	return fmt.Sprintf("https://blog.example/media/%d-medium.jpg", mediaID), nil
}

func TestBlogSetQueryResetsPage(t *testing.T) {
	sess := NewBlogSession(&fakeBlog{})

	sess.NextPage()
	sess.NextPage()
	sess.SetQuery("kindertransport")

	if got, want := sess.Page(), 1; got != want {
		t.Errorf("got page %d, want %d", got, want)
	}
}

func TestBlogNavigationFlags(t *testing.T) {
	f := &fakeBlog{pages: map[int]*blog.ResultPage{
		1: {Posts: []blog.Post{{Title: "a"}}, Total: 11, TotalPages: 2},
		2: {Posts: []blog.Post{{Title: "b"}}, Total: 11, TotalPages: 2},
	}}
	sess := NewBlogSession(f)

	// No totals known before the first fetch
	if sess.HasPrev() || sess.HasNext() {
		t.Error("expected no navigation before the first fetch")
	}

	if _, err := sess.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if sess.HasPrev() {
		t.Error("expected no previous page on page 1")
	}
	if !sess.HasNext() {
		t.Error("expected a next page with 2 total pages")
	}

	sess.NextPage()
	if _, err := sess.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !sess.HasPrev() {
		t.Error("expected a previous page on page 2")
	}
	if sess.HasNext() {
		t.Error("expected no next page on the last page")
	}
}

func TestBlogFetchResolvesThumbnails(t *testing.T) {
	f := &fakeBlog{pages: map[int]*blog.ResultPage{
		1: {
			Posts: []blog.Post{
				{Title: "with image", MediaID: 9001},
				{Title: "no image", MediaID: 0},
			},
			Total:      2,
			TotalPages: 1,
		},
	}}
	sess := NewBlogSession(f)

	page, err := sess.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if page.Posts[0].ThumbnailURL == "" {
		t.Error("expected a thumbnail for the post with a featured image")
	}
	if page.Posts[1].ThumbnailURL != "" {
		t.Error("expected no thumbnail for the post without a featured image")
	}
}

func TestBlogThumbnailFailureDegradesOnePost(t *testing.T) {
	f := &fakeBlog{
		pages: map[int]*blog.ResultPage{
			1: {
				Posts: []blog.Post{
					{Title: "broken", MediaID: 9001},
					{Title: "intact", MediaID: 9002},
				},
				Total:      2,
				TotalPages: 1,
			},
		},
		broken: map[int]bool{9001: true},
	}
	sess := NewBlogSession(f)

	page, err := sess.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if page.Posts[0].ThumbnailURL != "" {
		t.Error("expected no thumbnail for the post with a broken media lookup")
	}
	if page.Posts[1].ThumbnailURL == "" {
		t.Error("expected the remaining post to keep its thumbnail")
	}
}

func TestBlogFetchPassesPage(t *testing.T) {
	f := &fakeBlog{}
	sess := NewBlogSession(f)
	sess.SetQuery("deportation")
	sess.NextPage()

	if _, err := sess.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if diff := cmp.Diff([]int{2}, f.searches); diff != "" {
		t.Errorf("search pages mismatch (-want +got):\n%s", diff)
	}
}
