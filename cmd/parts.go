package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/inventory"
	"github.com/partstash/partstash/pkg/tableview"
	"github.com/spf13/cobra"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List and edit parts",
}

var partsListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's parts with filtering and sorting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		field, _ := cmd.Flags().GetString("field")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		parts, err := client.ListAllParts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rows := tableview.PartRows(parts)
		rows = tableview.Filter(rows, field, filter)
		if sortKey != "" {
			kind := tableview.KindText
			switch sortKey {
			case "quantity":
				kind = tableview.KindNumber
			case "updated":
				kind = tableview.KindTime
			}
			tableview.Sort(rows, tableview.SortState{Key: sortKey, Descending: desc}, kind)
		}

		for _, row := range rows {
			fmt.Printf("%s  %s  %s  x%s  [%s]\n",
				first(row, "id"), first(row, "mpn"), first(row, "manufacturer"),
				first(row, "quantity"), first(row, "status"))
		}
		return nil
	},
}

func first(r tableview.Row, key string) string {
	if vs := r.Fields[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

var partsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one part with its merged content and images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		p, err := client.GetPart(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s  (%s)  x%d  [%s]\n", p.ID, p.MPN, p.Manufacturer, p.Quantity, p.ReviewStatus)
		content := p.DisplayContent()
		keys := make([]string, 0, len(content))
		for k := range content {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			origin := "generated"
			if v, ok := p.ManualContent[k]; ok && v != "" {
				origin = "manual"
			}
			fmt.Printf("  %-16s %s  (%s)\n", k+":", content[k], origin)
		}
		for _, img := range p.Images {
			fmt.Printf("  image %s  %s  rot=%d  %s\n", img.ID, img.Type, img.Rotation, img.URI)
		}
		return nil
	},
}

var partsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Save manual content overrides (marks the part reviewed)",
	Long: `Saves manual field overrides as key=value pairs, e.g.:

  partstash parts edit 42 --set mpn=LM358 --set package=SOIC-8

Content identical to the generated layer is not sent at all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		fromJSON, _ := cmd.Flags().GetString("json")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		p, err := client.GetPart(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		manual := make(map[string]string, len(p.ManualContent))
		for k, v := range p.ManualContent {
			manual[k] = v
		}
		if fromJSON != "" {
			if err := json.Unmarshal([]byte(fromJSON), &manual); err != nil {
				return fmt.Errorf("invalid --json payload: %w", err)
			}
		}
		for _, kv := range sets {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 || parts[0] == "" {
				utils.Log.Fatal("Bad --set value, expected key=value: ", kv)
			}
			manual[parts[0]] = parts[1]
		}

		if !p.NeedsManualSave(manual) {
			fmt.Println("No changes against generated content, nothing to save")
			return nil
		}
		if err := client.SaveManualContent(cmd.Context(), p.ID, manual); err != nil {
			return err
		}
		fmt.Println("Saved, part marked reviewed")
		return nil
	},
}

var partsReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Mark a part reviewed without content changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.SetReviewStatus(cmd.Context(), args[0], inventory.ReviewDone)
	},
}

var partsFlagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Flag a part for further review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.SetReviewStatus(cmd.Context(), args[0], inventory.ReviewNeedsFurther)
	},
}

var partsRequestPhotosCmd = &cobra.Command{
	Use:   "request-photos <id>",
	Short: "Request more photos for a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.SetReviewStatus(cmd.Context(), args[0], inventory.ReviewMorePhotos)
	},
}

var partsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.DeletePart(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsShowCmd)
	partsCmd.AddCommand(partsEditCmd)
	partsCmd.AddCommand(partsReviewCmd)
	partsCmd.AddCommand(partsFlagCmd)
	partsCmd.AddCommand(partsRequestPhotosCmd)
	partsCmd.AddCommand(partsDeleteCmd)

	partsListCmd.Flags().StringP("filter", "f", "", "Filter text (normalized substring match)")
	partsListCmd.Flags().StringP("field", "", "", "Restrict the filter to one field (default: all fields)")
	partsListCmd.Flags().StringP("sort", "s", "", "Sort column (mpn, manufacturer, quantity, status, updated, ...)")
	partsListCmd.Flags().BoolP("desc", "", false, "Sort descending")

	partsEditCmd.Flags().StringArrayP("set", "", nil, "Manual content override as key=value (repeatable)")
	partsEditCmd.Flags().StringP("json", "", "", "Full manual content map as JSON")
}
