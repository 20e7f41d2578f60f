package cmd

import (
	"github.com/partstash/partstash/internal/server"
	"github.com/partstash/partstash/pkg/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local cache as a read-only JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		user, _ := cmd.Flags().GetString("user")
		pass, _ := cmd.Flags().GetString("pass")

		cachePath, err := resolveCachePath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(cachePath)
		if err != nil {
			return err
		}
		defer db.Close()

		return server.New(db, user, pass).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("cache", "", "Path to the SQLite cache file (default: ~/.config/partstash/partstash.sqlite)")
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("user", "", "Basic auth username (empty disables auth)")
	serveCmd.Flags().String("pass", "", "Basic auth password")
}
