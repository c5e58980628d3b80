package cli

import (
	"fmt"
	"strings"

	"github.com/ehri-project/ehri-explorer/api"
	"github.com/ehri-project/ehri-explorer/api/blog"
	"github.com/spf13/cobra"
)

var blogPageFlag int

var blogCmd = &cobra.Command{
	Use:   "blog [query]",
	Short: "Search the EHRI Document Blog",
	Long: `Search the EHRI Document Blog (WordPress REST API) for posts. Totals and
page counts come from the blog's response headers; thumbnails are resolved
per post and a missing thumbnail never hides the post.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBlog,
}

var blogReadCmd = &cobra.Command{
	Use:   "read <url>",
	Short: "Read a blog post in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlogRead,
}

func init() {
	blogCmd.Flags().IntVarP(&blogPageFlag, "page", "p", 1, "Result page to fetch")
	blogCmd.AddCommand(blogReadCmd)
	rootCmd.AddCommand(blogCmd)
}

func runBlog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess := api.NewBlogSession(blog.NewClient())
	if len(args) == 1 {
		sess.SetQuery(args[0])
	}
	for p := 1; p < blogPageFlag; p++ {
		sess.NextPage()
	}

	page, err := sess.Fetch(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# EHRI Document Blog\n\n")
	if sess.Query() != "" {
		fmt.Fprintf(&b, "Displaying posts for %q\n\n", sess.Query())
	}

	if len(page.Posts) == 0 {
		fmt.Fprintf(&b, "No posts found.\n")
		return display(b.String())
	}

	for _, post := range page.Posts {
		fmt.Fprintf(&b, "## [%s](%s)\n\n", post.Title, post.URL)
		if post.ThumbnailURL != "" {
			fmt.Fprintf(&b, "Thumbnail: %s\n\n", post.ThumbnailURL)
		}
	}

	fmt.Fprintf(&b, "\nPage %d of %d (%d posts in total)\n", sess.Page(), page.TotalPages, page.Total)
	if sess.HasPrev() {
		fmt.Fprintf(&b, "\nPrevious page: --page %d\n", sess.Page()-1)
	}
	if sess.HasNext() {
		fmt.Fprintf(&b, "\nNext page: --page %d\n", sess.Page()+1)
	}

	return display(b.String())
}

func runBlogRead(cmd *cobra.Command, args []string) error {
	md, err := blog.NewClient().ReadPost(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return display(md)
}
