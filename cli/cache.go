package cli

import (
	"fmt"

	"github.com/ehri-project/ehri-explorer/api/cache"
	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached country directory and repository listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, ns := range []string{"portal", "repositories"} {
			if err := cache.New[[]portal.Country](ns).Clear(); err != nil {
				return err
			}
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
