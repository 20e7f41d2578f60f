package cmd

import (
	"fmt"
	"strings"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/compare"
	"github.com/partstash/partstash/pkg/inventory"
	"github.com/partstash/partstash/pkg/storage"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <project-id>",
	Short: "Reconcile received parts against the packing slip",
	Long: `Compares a project's actual parts against its expected line items.
Without flags every part is auto-matched by normalized MPN. Manual
matches can be layered on top:

  partstash compare prj1 --match 3=part-a,part-b --match 7=part-b

A part belongs to at most one expected item; later matches win.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, _ := cmd.Flags().GetStringArray("match")
		extras, _ := cmd.Flags().GetStringArray("expect")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		project, err := client.GetProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		parts, err := client.ListAllParts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		matcher := compare.NewMatcher(project.ExpectedItems)

		// Extra expected lines added on the client get temporary local
		// ids; they never reach the server.
		for _, e := range extras {
			item, err := parseExpected(e)
			if err != nil {
				return err
			}
			id := matcher.AddExpected(item)
			utils.Log.Debug("Added local expected item ", id, " for ", item.MPN)
		}

		// Auto-match by normalized MPN first.
		for _, id := range matcher.ExpectedIDs() {
			item, _ := matcher.Expected(id)
			var partIDs []string
			for _, p := range parts {
				if storage.NormalizeMPN(p.MPN) == storage.NormalizeMPN(item.MPN) {
					partIDs = append(partIDs, p.ID)
				}
			}
			if len(partIDs) > 0 {
				matcher.Match(id, partIDs)
			}
		}

		// Explicit matches override; later flags win over earlier ones.
		for _, m := range matches {
			kv := strings.SplitN(m, "=", 2)
			if len(kv) != 2 {
				utils.Log.Fatal("Bad --match value, expected id=part,part: ", m)
			}
			var expectedID int
			if _, err := fmt.Sscanf(kv[0], "%d", &expectedID); err != nil {
				utils.Log.Fatal("Bad expected item id: ", kv[0])
			}
			if !matcher.Match(expectedID, strings.Split(kv[1], ",")) {
				utils.Log.Fatal("Unknown expected item id: ", kv[0])
			}
		}

		for _, line := range matcher.Summary(parts) {
			status := "ok"
			if line.Short > 0 {
				status = fmt.Sprintf("short %d", line.Short)
			}
			fmt.Printf("%4d  %-24s  want %3d  got %3d  [%s]\n",
				line.Item.ID, line.Item.MPN, line.Item.Quantity, line.MatchedQuantity, status)
			for _, partID := range line.MatchedParts {
				fmt.Printf("      - %s\n", partID)
			}
		}
		return nil
	},
}

func parseExpected(s string) (item inventory.Expected, err error) {
	// mpn:quantity[:manufacturer]
	fields := strings.Split(s, ":")
	if len(fields) < 2 {
		return item, fmt.Errorf("bad --expect value, expected mpn:quantity[:manufacturer]: %s", s)
	}
	item.MPN = fields[0]
	if _, err := fmt.Sscanf(fields[1], "%d", &item.Quantity); err != nil {
		return item, fmt.Errorf("bad quantity in --expect value: %s", s)
	}
	if len(fields) > 2 {
		item.Manufacturer = fields[2]
	}
	return item, nil
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringArrayP("match", "m", nil, "Manual match: expectedID=partID[,partID...] (repeatable)")
	compareCmd.Flags().StringArrayP("expect", "e", nil, "Add a local expected line: mpn:quantity[:manufacturer] (repeatable)")
}
