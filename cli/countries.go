package cli

import (
	"fmt"

	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries with an EHRI country report",
	Long:  "Display the country directory: every country the portal has a report or repositories for, with its ISO-2 code",
	RunE:  runCountries,
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}

func runCountries(cmd *cobra.Command, args []string) error {
	dir, err := loadDirectory(cmd.Context(), portal.NewClient())
	if err != nil {
		return err
	}

	for _, c := range dir.Countries() {
		fmt.Printf("  %-4s %s\n", c.Identifier, c.Name)
	}
	return nil
}
