package cmd

import (
	"fmt"

	"github.com/partstash/partstash/pkg/tableview"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Account administration",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with filtering and sorting",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		field, _ := cmd.Flags().GetString("field")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		users, err := client.ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		rows := tableview.UserRows(users)
		rows = tableview.Filter(rows, field, filter)
		if sortKey != "" {
			kind := tableview.KindText
			switch sortKey {
			case "credits":
				kind = tableview.KindNumber
			case "created":
				kind = tableview.KindTime
			}
			tableview.Sort(rows, tableview.SortState{Key: sortKey, Descending: desc}, kind)
		}

		for _, row := range rows {
			fmt.Printf("%s  %-24s  %-8s  %-10s  credits=%s\n",
				first(row, "id"), first(row, "username"), first(row, "status"),
				first(row, "plan"), first(row, "credits"))
			for _, sub := range row.Fields["subs"] {
				fmt.Printf("    sub: %s\n", sub)
			}
		}
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an account's status or plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		plan, _ := cmd.Flags().GetString("plan")

		fields := map[string]interface{}{}
		if status != "" {
			fields["status"] = status
		}
		if plan != "" {
			fields["pricing_plan"] = plan
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update, pass --status or --plan")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.UpdateUser(cmd.Context(), args[0], fields)
	},
}

var tariffsCmd = &cobra.Command{
	Use:   "tariffs",
	Short: "Show available pricing tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		tariffs, err := client.GetTariffs(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range tariffs {
			fmt.Printf("%-16s  $%.2f/mo  %d credits\n", t.Name, t.MonthlyPrice, t.CreditsLimit)
		}
		return nil
	},
}

var portalsCmd = &cobra.Command{
	Use:   "portals",
	Short: "Show billing portal links",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		portals, err := client.GetSubscriptionPortals(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range portals {
			fmt.Printf("%-16s  %s\n", p.Name, p.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(tariffsCmd)
	usersCmd.AddCommand(portalsCmd)

	usersListCmd.Flags().StringP("filter", "f", "", "Filter text (normalized substring match)")
	usersListCmd.Flags().StringP("field", "", "", "Restrict the filter to one field (default: all fields)")
	usersListCmd.Flags().StringP("sort", "s", "", "Sort column (username, status, plan, credits, created)")
	usersListCmd.Flags().BoolP("desc", "", false, "Sort descending")

	usersUpdateCmd.Flags().StringP("status", "", "", "New status (active, inactive, pending)")
	usersUpdateCmd.Flags().StringP("plan", "", "", "New pricing plan")
}
