package cli

import (
	"fmt"
	"strings"

	"github.com/ehri-project/ehri-explorer/api"
	"github.com/spf13/cobra"
)

var (
	searchPageFlag        int
	searchInteractiveFlag bool
)

var searchCmd = &cobra.Command{
	Use:   "search <code|name> [query]",
	Short: "Search archival descriptions within a country",
	Long: `Search the portal for archival descriptions (documentary units) within a
country. Results are paginated; the per-institution facet breakdown and the
total match count are shown alongside each page.

With --interactive the search runs in a terminal view where the query and
the page can be changed without re-running the command.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPageFlag, "page", "p", 1, "Result page to fetch")
	searchCmd.Flags().BoolVarP(&searchInteractiveFlag, "interactive", "i", false, "Open the interactive search view")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSearchSession(ctx, args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		sess.SetQuery(args[1])
	}

	// The session exposes only relative navigation; walk forward to the
	// requested page
	for p := 1; p < searchPageFlag; p++ {
		sess.NextPage()
	}

	if searchInteractiveFlag {
		return runSearchUI(sess)
	}

	if _, err := sess.Fetch(ctx); err != nil {
		return err
	}

	return display(searchMarkdown(sess, args[0]))
}

// searchMarkdown builds the result page report for non-interactive output
func searchMarkdown(sess *api.SearchSession, label string) string {
	var b strings.Builder

	switch sess.Empty() {
	case api.NothingLinked:
		fmt.Fprintf(&b, "Sorry. There are no archival descriptions linked to %s.\n", label)
		return b.String()
	case api.NothingMatched:
		fmt.Fprintf(&b, "Sorry. We couldn't find any archival descriptions regarding %q in %s. Try again with another term.\n",
			sess.Query(), label)
		return b.String()
	}

	agg := sess.Aggregates()
	page := sess.Current()

	fmt.Fprintf(&b, "# Search in %s\n\n", label)
	if sess.Query() != "" {
		fmt.Fprintf(&b, "Displaying results for %q\n\n", sess.Query())
	}
	fmt.Fprintf(&b, "- Archival descriptions matching the search: **%d**\n", agg.Total)
	fmt.Fprintf(&b, "- Holding institutions matching the search: **%d**\n", len(agg.Holders))

	if len(agg.Holders) > 0 {
		fmt.Fprintf(&b, "\n## Descriptions per Institution\n\n")
		for _, h := range agg.Holders {
			fmt.Fprintf(&b, "- %s: %d\n", h.Name, h.Count)
		}
	}

	fmt.Fprintf(&b, "\n## Archival Descriptions\n\n")
	for _, u := range page.Units {
		fmt.Fprintf(&b, "- [%s](%s)\n", u.Title(), u.PortalURL())
	}

	fmt.Fprintf(&b, "\nPage %d of %d\n", sess.Page(), agg.Pages)
	if agg.HasPrev {
		fmt.Fprintf(&b, "\nPrevious page: --page %d\n", sess.Page()-1)
	}
	if agg.HasNext {
		fmt.Fprintf(&b, "\nNext page: --page %d\n", sess.Page()+1)
	}

	return b.String()
}
