package cmd

import (
	"fmt"

	"github.com/partstash/partstash/pkg/storage"
	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent cached part changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cachePath, err := resolveCachePath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		defer db.Close()
		changes, err := db.ListRecentChanges(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-7s  %s  %s  %s  [%s]\n", ts, c.ChangeType, c.ProjectID, c.PartID, c.MPN, c.ReviewStatus)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().String("cache", "", "Path to the SQLite cache file (default: ~/.config/partstash/partstash.sqlite)")
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
