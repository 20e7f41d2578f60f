package cmd

import (
	"fmt"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// syncCmd snapshots a project's parts into the local cache and prints
// what changed since the previous snapshot.
var syncCmd = &cobra.Command{
	Use:   "sync <project-id>",
	Short: "Snapshot a project's parts into the local cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}

		cachePath, err := resolveCachePath(cmd)
		if err != nil {
			return err
		}
		lock, err := utils.NewCacheLock(cachePath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		// First run for a project populates the cache without noise.
		prevCount, err := db.GetProjectPartCount(cmd.Context(), args[0])
		if err != nil {
			utils.Log.Warn("Could not get cached part count: ", err)
		}
		isFirstRun := prevCount == 0

		parts, err := client.ListAllParts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Safety check: an empty fetch against a populated cache looks
		// like an API hiccup, not a mass delete.
		if len(parts) == 0 && prevCount > 10 {
			utils.Log.Error("Fetch returned 0 parts but the cache has ", prevCount, ". Aborting sync to prevent data loss.")
			return nil
		}

		entries, err := storage.BuildEntries(args[0], parts)
		if err != nil {
			return err
		}
		changes, err := db.UpsertProjectParts(cmd.Context(), args[0], entries)
		if err != nil {
			return err
		}

		if isFirstRun {
			fmt.Printf("Cached %d parts (first sync for this project)\n", len(entries))
			return nil
		}
		if len(changes) == 0 {
			fmt.Println("No changes")
			return nil
		}
		for _, c := range changes {
			fmt.Printf("%-7s  %s  %s  box=%s  [%s]\n", c.ChangeType, c.PartID, c.MPN, c.BoxID, c.ReviewStatus)
		}
		return nil
	},
}

func resolveCachePath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("cache")
	if path == "" {
		path = viper.GetString("cache.path")
	}
	return utils.GetAbsCachePath(path)
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("cache", "", "Path to the SQLite cache file (default: ~/.config/partstash/partstash.sqlite)")
}
