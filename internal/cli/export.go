package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// exportCommand creates the export command, which turns a display-space
// workspace file into the device JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a workspace file to device JSON",
		Long: `Export a workspace file (display-space elements, as written by "edit")
to the {"elements": [...]} document the display reads. Positions are
converted to device anchor positions and rounded to whole pixels.

Reads stdin when no file is given.`,
		Example: `  einkplacer export screen.json -o layout.json
  cat screen.json | einkplacer export`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runExport(cmd, path, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path, output string) error {
	logger := loggerFromContext(cmd.Context())

	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	elements, err := layoutio.ReadElements(in)
	if err != nil {
		return err
	}
	for _, e := range elements {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	logger.Debug("exporting layout", "elements", len(elements))

	records := layoutio.Export(elements, c.cfg.Canvas.Transform())
	if err := writeOutput(cmd, output, func(w io.Writer) error {
		return layoutio.WriteJSON(w, records)
	}); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Exported %s", plural(len(records), "element"))
		printFile(output)
	}
	return nil
}
