package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghuser/stocktake/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
)

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show how many items each category holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, inv *appsvcs.InventoryService) error {
				renderSummary(cmd.OutOrStdout(), inv.CachedSummary(ctx))
				return nil
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all items as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(_ context.Context, inv *appsvcs.InventoryService) error {
				var w io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create %s: %w", output, err)
					}
					defer f.Close() //nolint:errcheck
					w = f
				}
				items := inv.ListItems("")
				if err := handlers.WriteCSV(w, items); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				if w != cmd.OutOrStdout() {
					fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf("Exported %s to %s", plural(len(items), "item"), output)))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}
