package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	inventorydomain "github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

func (c *cli) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "List and change items",
	}

	cmd.AddCommand(c.listItemsCmd())
	cmd.AddCommand(c.addItemCmd())
	cmd.AddCommand(c.updateItemCmd())
	cmd.AddCommand(c.removeItemCmd())
	cmd.AddCommand(c.adjustItemCmd("inc", "Add one to an item's count", (*appsvcs.InventoryService).IncrementCount))
	cmd.AddCommand(c.adjustItemCmd("dec", "Subtract one from an item's count", (*appsvcs.InventoryService).DecrementCount))

	return cmd
}

func (c *cli) listItemsCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, most recently changed first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(_ context.Context, inv *appsvcs.InventoryService) error {
				items := inv.ListItems(category)
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No items found. Use 'stocktake items add' to create one."))
					return nil
				}
				renderItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list items in this category")
	return cmd
}

func (c *cli) addItemCmd() *cobra.Command {
	var (
		count    int
		category string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item",
		Long:  "Add an item. Without --category the item goes into the first category.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				if category == "" {
					names := inv.CategoryNames()
					if len(names) == 0 {
						return fmt.Errorf("no categories exist; add one with 'stocktake categories add'")
					}
					category = names[0]
				}
				item, err := inv.AddItem(ctx, args[0], count, category)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Added %q (%d) to %s [%s]", item.Name, item.Count, item.Category, shortID(item.ID))))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "how many you have")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	return cmd
}

func (c *cli) updateItemCmd() *cobra.Command {
	var (
		name     string
		count    int
		category string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an item's name, count or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.ItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("count") {
				patch.Count = &count
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update; pass --name, --count or --category")
			}

			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				id, err := resolveItemID(inv, args[0])
				if err != nil {
					return err
				}
				item, err := inv.UpdateItem(ctx, id, patch)
				if err != nil {
					return err
				}
				renderItems(cmd.OutOrStdout(), []models.Item{item})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "new count")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	return cmd
}

func (c *cli) removeItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				id, err := resolveItemID(inv, args[0])
				if err != nil {
					return err
				}
				if err := inv.DeleteItem(ctx, id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+shortID(id)))
				return nil
			})
		},
	}
}

type adjustFunc func(*appsvcs.InventoryService, context.Context, uuid.UUID) (models.Item, error)

func (c *cli) adjustItemCmd(use, short string, adjust adjustFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				id, err := resolveItemID(inv, args[0])
				if err != nil {
					return err
				}
				item, err := adjust(inv, ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", item.Name, countStyle.Render(fmt.Sprint(item.Count)))
				return nil
			})
		},
	}
}

// resolveItemID accepts a full item id or a unique prefix of one, as shown
// by 'items list'.
func resolveItemID(inv *appsvcs.InventoryService, arg string) (uuid.UUID, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	if arg == "" {
		return uuid.Nil, fmt.Errorf("%w: empty id", inventorydomain.ErrItemNotFound)
	}

	var matches []uuid.UUID
	for _, it := range inv.ListItems("") {
		if strings.HasPrefix(it.ID.String(), arg) {
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %q", inventorydomain.ErrItemNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("id prefix %q matches %d items", arg, len(matches))
	}
}
