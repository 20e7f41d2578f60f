package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/inventory"
	"github.com/spf13/cobra"
)

var boxesCmd = &cobra.Command{
	Use:   "boxes",
	Short: "Manage a project's box hierarchy",
}

var boxesTreeCmd = &cobra.Command{
	Use:   "tree <project-id>",
	Short: "Print a project's box tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		depth, _ := cmd.Flags().GetInt("depth")
		showParts, _ := cmd.Flags().GetBool("parts")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		project, err := client.GetProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		tree := inventory.NewTree(client, project.Boxes)
		fmt.Println(project.Name)
		for _, id := range tree.RootIDs() {
			if err := printSubtree(cmd.Context(), tree, id, 1, depth, showParts); err != nil {
				utils.Log.Warn("Could not expand box ", id, ": ", err)
			}
		}
		return nil
	},
}

// printSubtree expands nodes down to maxDepth and renders them with
// their review rollup.
func printSubtree(ctx context.Context, tree *inventory.Tree, id string, depth, maxDepth int, showParts bool) error {
	if maxDepth > 0 && depth > maxDepth {
		return nil
	}
	if err := tree.Expand(ctx, id); err != nil {
		return err
	}

	n := tree.Node(id)
	indent := strings.Repeat("  ", depth)
	badge := ""
	switch tree.Rollup(id) {
	case inventory.RollupReviewed:
		badge = " [reviewed]"
	case inventory.RollupNeedsReview:
		badge = " [needs review]"
	}
	fmt.Printf("%s%s  (%d parts, %d boxes)%s\n", indent, n.Box.Name, n.Box.PartCount, n.Box.SubBoxCount, badge)

	if showParts {
		for _, p := range n.Parts {
			fmt.Printf("%s  - %s  %s  x%d  [%s]\n", indent, p.ID, p.DisplayField("mpn"), p.Quantity, p.ReviewStatus)
		}
	}

	for _, childID := range n.ChildIDs {
		if err := printSubtree(ctx, tree, childID, depth+1, maxDepth, showParts); err != nil {
			return err
		}
	}
	return nil
}

var boxesCreateCmd = &cobra.Command{
	Use:   "create <project-id> <name>",
	Short: "Create a box, optionally nested in a parent box",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[1] == "" {
			utils.Log.Fatal("Box name must not be empty")
		}
		parent, _ := cmd.Flags().GetString("parent")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		b, err := client.CreateBox(cmd.Context(), args[0], parent, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Created box %s (%s)\n", b.Name, b.ID)
		return nil
	},
}

var boxesRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a box",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[1] == "" {
			utils.Log.Fatal("Box name must not be empty")
		}
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		return client.UpdateBox(cmd.Context(), args[0], map[string]interface{}{"name": args[1]})
	},
}

var boxesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a box and its whole subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.DeleteBox(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boxesCmd)
	boxesCmd.AddCommand(boxesTreeCmd)
	boxesCmd.AddCommand(boxesCreateCmd)
	boxesCmd.AddCommand(boxesRenameCmd)
	boxesCmd.AddCommand(boxesDeleteCmd)

	boxesTreeCmd.Flags().IntP("depth", "", 0, "Maximum depth to expand (0 = unlimited)")
	boxesTreeCmd.Flags().BoolP("parts", "", false, "List parts inside each box")
	boxesCreateCmd.Flags().StringP("parent", "", "", "Parent box id for nesting")
}
