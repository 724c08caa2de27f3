package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// listCommand creates the list command for stored layouts.
func (c *CLI) listCommand() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List layouts stored by the layout service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.newClient(url)
			if err != nil {
				return err
			}

			var sums []layoutio.Summary
			err = withSpinner(ctx, "Listing layouts", func() error {
				var lerr error
				sums, lerr = cl.List(ctx)
				return lerr
			})
			if err != nil {
				return err
			}

			if len(sums) == 0 {
				printInfo("No layouts stored yet")
				printNextStep("Save one", "einkplacer save screen.json")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summariesTable(sums))
			printDetail("%s", plural(len(sums), "layout"))
			printNextStep("Fetch one", "einkplacer fetch "+sums[0].Filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "layout service URL (default from config)")

	return cmd
}
