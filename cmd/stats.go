package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/partstash/partstash/pkg/storage"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-project cache statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cachePath, err := resolveCachePath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROJECT\tBOXES\tPARTS\tREVIEWED")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.ProjectID, s.BoxCount, s.PartCount, s.ReviewedCount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("cache", "", "Path to the SQLite cache file (default: ~/.config/partstash/partstash.sqlite)")
}
