package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

func (c *cli) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
		Long:    "List, add, rename and delete categories. Categories can be named by id or by name, ignoring case.",
	}

	cmd.AddCommand(c.listCategoriesCmd())
	cmd.AddCommand(c.addCategoryCmd())
	cmd.AddCommand(c.renameCategoryCmd())
	cmd.AddCommand(c.removeCategoryCmd())

	return cmd
}

func (c *cli) listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(_ context.Context, inv *appsvcs.InventoryService) error {
				cats := inv.ListCategories()
				counts := make([]int, len(cats))
				for i, cat := range cats {
					counts[i] = inv.CategoryItemCount(cat.Name.String())
				}
				renderCategories(cmd.OutOrStdout(), cats, counts)
				return nil
			})
		},
	}
}

func (c *cli) addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				cat, err := inv.AddCategory(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Added category %q", cat.Name)))
				return nil
			})
		},
	}
}

func (c *cli) renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new-name>",
		Short: "Rename a category and move its items along",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				cat, err := inv.FindCategory(args[0])
				if err != nil {
					return err
				}
				n := inv.CategoryItemCount(cat.Name.String())
				renamed, err := inv.UpdateCategory(ctx, cat.ID, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
					fmt.Sprintf("Renamed %q to %q (%s)", cat.Name, renamed.Name, plural(n, "item"))))
				return nil
			})
		},
	}
}

func (c *cli) removeCategoryCmd() *cobra.Command {
	var (
		reassignTo  string
		deleteItems bool
	)
	cmd := &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"delete"},
		Short:   "Delete a category",
		Long: `Delete a category. If items still use it, pass --reassign-to to move
them to another category or --delete-items to delete them too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deleteItems && cmd.Flags().Changed("reassign-to") {
				return fmt.Errorf("--reassign-to and --delete-items cannot be combined")
			}

			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				cat, err := inv.FindCategory(args[0])
				if err != nil {
					return err
				}

				d := models.DeleteOrphans()
				switch {
				case cmd.Flags().Changed("reassign-to"):
					d = models.ReassignTo(reassignTo)
				case !deleteItems:
					if n := inv.CategoryItemCount(cat.Name.String()); n > 0 {
						return fmt.Errorf("category %q has %s; pass --reassign-to <category> or --delete-items", cat.Name, plural(n, "item"))
					}
				}

				applied, n, err := inv.DeleteCategory(ctx, cat.ID, d)
				if err != nil {
					return err
				}

				msg := fmt.Sprintf("Deleted category %q", cat.Name)
				if target, ok := applied.Target(); ok {
					msg += fmt.Sprintf(", moved %s to %s", plural(n, "item"), target)
				} else if n > 0 {
					msg += fmt.Sprintf(" and %s", plural(n, "item"))
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reassignTo, "reassign-to", "", "move the category's items to this category")
	cmd.Flags().BoolVar(&deleteItems, "delete-items", false, "delete the category's items")
	return cmd
}
