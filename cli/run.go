package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/ehri-project/ehri-explorer/api"
	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/ehri-project/ehri-explorer/mcp"
	"github.com/joho/godotenv"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ehri-explorer",
	Short:         "Explore the EHRI portal, Document Blog and geodata services",
	SilenceErrors: true,
	Long: `ehri-explorer is a terminal client for the EHRI digital-archive APIs.

It browses country reports and archival institutions, searches archival
descriptions with faceted pagination, searches the EHRI Document Blog and
lists the layers of the EHRI geodata WMS service.

Endpoints can be overridden through EHRI_PORTAL_URL, EHRI_GRAPHQL_URL,
EHRI_BLOG_URL and EHRI_GEODATA_URL, or a .env file in the working directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is not an error
		_ = godotenv.Load()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ehri-explorer version %s\n", api.Version)
		if api.VersionCommit != "" {
			fmt.Printf("  commit: %s\n", api.VersionCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command())
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}

// loadDirectory builds and loads the cached country directory
func loadDirectory(ctx context.Context, client *portal.Client) (*api.Directory, error) {
	dir := api.NewDirectory(api.CachedCountries(client))
	if err := dir.Load(ctx); err != nil {
		return nil, err
	}
	return dir, nil
}

// newSearchSession wires a portal session with cached repository listings
func newSearchSession(ctx context.Context, country string) (*api.SearchSession, error) {
	client := portal.NewClient()
	dir, err := loadDirectory(ctx, client)
	if err != nil {
		return nil, err
	}

	sess := api.NewSearchSession(client, api.CachedRepositories(client), dir)
	if err := sess.SetCountry(country); err != nil {
		return nil, err
	}
	return sess, nil
}

// display renders markdown with glamour and shows it in the pager
func display(md string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return failure.New(RenderFailed, failure.Message("Failed to set up the renderer"))
	}

	out, err := renderer.Render(md)
	if err != nil {
		return failure.New(RenderFailed, failure.Message("Failed to render the output"))
	}

	if err := RunPager(out); err != nil {
		return failure.Wrap(err)
	}
	return nil
}
