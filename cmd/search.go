package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Look up components by MPN or manufacturer",
	Long: `Queries the component search service. This is a separate endpoint from
the inventory API and is called without authentication.

With --follow, reads queries from stdin line by line and searches after a
short quiet period, like a search-as-you-type box.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetBool("prefix")
		follow, _ := cmd.Flags().GetBool("follow")

		client := search.NewClient(viper.GetString("search.url"))

		if !follow {
			if len(args) != 1 {
				return fmt.Errorf("provide a query, or use --follow for interactive mode")
			}
			return runSearch(cmd, client, args[0], prefix)
		}

		var mu sync.Mutex
		debouncer := &search.Debouncer{
			Fire: func(query string) {
				mu.Lock()
				defer mu.Unlock()
				if err := runSearch(cmd, client, query, prefix); err != nil {
					utils.Log.Warn("Search failed: ", err)
				}
			},
		}
		defer debouncer.Stop()

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			debouncer.Update(scanner.Text())
		}
		return scanner.Err()
	},
}

func runSearch(cmd *cobra.Command, client *search.Client, query string, prefix bool) error {
	results, err := client.Search(cmd.Context(), query, prefix)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("%-24s  %-20s  %s\n", r.MPN, r.Manufacturer, r.Description)
		if r.DatasheetURL != "" {
			fmt.Printf("%26sdatasheet: %s\n", "", r.DatasheetURL)
		}
	}
	if len(results) == 0 {
		fmt.Println("No results")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolP("prefix", "p", false, "Prefix match instead of exact")
	searchCmd.Flags().BoolP("follow", "", false, "Read queries from stdin with debounce")
}
