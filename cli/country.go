package cli

import (
	"fmt"
	"strings"

	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var countryBrowserFlag bool

var countryCmd = &cobra.Command{
	Use:   "country <code|name>",
	Short: "Show a country report and its archival institutions",
	Long: `Fetch the EHRI country report and the list of archival institutions for a
country, selected by ISO-2 code or display name. The report and the
institution list are fetched independently; either can be missing without
hiding the other.`,
	Args: cobra.ExactArgs(1),
	RunE: runCountry,
}

func init() {
	countryCmd.Flags().BoolVarP(&countryBrowserFlag, "browser", "b", false, "Open the country page on the portal instead")
	rootCmd.AddCommand(countryCmd)
}

func runCountry(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSearchSession(ctx, args[0])
	if err != nil {
		return err
	}

	if countryBrowserFlag {
		return browser.OpenURL(fmt.Sprintf("https://portal.ehri-project.eu/countries/%s", sess.Country()))
	}

	var b strings.Builder

	// The report and the repository listing fail independently; a scoped
	// message stands in for whichever is missing
	report, reportErr := sess.Report(ctx)
	if reportErr != nil {
		fmt.Fprintf(&b, "# %s\n\n%s\n", args[0], userMessage(reportErr))
	} else {
		writeReport(&b, report)
	}

	repos, repoErr := sess.Repositories(ctx)
	if repoErr != nil {
		fmt.Fprintf(&b, "\n## Archival Institutions\n\n%s\n", userMessage(repoErr))
	} else {
		writeRepositories(&b, repos)
	}

	if reportErr != nil && repoErr != nil {
		return failure.Wrap(reportErr)
	}

	return display(b.String())
}

func writeReport(b *strings.Builder, report *portal.Report) {
	fmt.Fprintf(b, "# %s\n", report.Name)
	if report.History != "" {
		fmt.Fprintf(b, "\n## History\n\n%s\n", report.History)
	}
	if report.Situation != "" {
		fmt.Fprintf(b, "\n## Archival Situation\n\n%s\n", report.Situation)
	}
	if report.Summary != "" {
		fmt.Fprintf(b, "\n## EHRI Research (Summary)\n\n%s\n", report.Summary)
	}
	if report.Institutions > 0 {
		fmt.Fprintf(b, "\nNumber of institutions listed: %d\n", report.Institutions)
	}
}

func writeRepositories(b *strings.Builder, repos []portal.Repository) {
	fmt.Fprintf(b, "\n## Archival Institutions (%d)\n\n", len(repos))

	for n, r := range repos {
		fmt.Fprintf(b, "%d. [%s](%s)", n+1, r.Title(), r.PortalURL())
		if lat, lng, ok := r.Coordinates(); ok {
			fmt.Fprintf(b, " — %.4f, %.4f", lat, lng)
		}
		if r.ItemCount > 0 {
			fmt.Fprintf(b, " (%d items)", r.ItemCount)
		}
		fmt.Fprintln(b)
	}

	points := portal.MapPoints(repos)
	fmt.Fprintf(b, "\n%d of %d institutions have coordinates and can be mapped.\n", len(points), len(repos))
}

// userMessage extracts the user-facing message from an error
func userMessage(err error) string {
	if fmsg := failure.MessageOf(err); fmsg != "" {
		return fmsg.String()
	}
	return err.Error()
}
