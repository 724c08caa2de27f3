package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

type importOpts struct {
	output string
	json   bool
}

// importCommand creates the import command, which converts device JSON back
// into editable display-space elements.
func (c *CLI) importCommand() *cobra.Command {
	opts := importOpts{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import device JSON into display-space elements",
		Long: `Import a device layout (a bare array or an {"elements": [...]} document)
and convert it to editor canvas positions. Elements are renumbered 1..n and
missing sizes, anchors and levels are defaulted.

Prints a table by default; --json or -o writes a workspace file for "edit".`,
		Example: `  einkplacer import layouts/latest.json
  einkplacer import layout.json -o screen.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write a workspace file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print workspace JSON instead of a table")

	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, path string, opts importOpts) error {
	doc, err := layoutio.ImportFile(path)
	if err != nil {
		return err
	}

	t := c.cfg.Canvas.Transform()
	elements := layoutio.Import(doc.Elements, t)

	if opts.json || opts.output != "" {
		if err := writeOutput(cmd, opts.output, func(w io.Writer) error {
			return layoutio.WriteElements(w, elements)
		}); err != nil {
			return err
		}
		if opts.output != "" {
			printSuccess("Imported %s", plural(len(elements), "element"))
			printFile(opts.output)
			printNextStep("Edit it", "einkplacer edit "+opts.output)
		}
		return nil
	}

	if doc.Metadata != nil && doc.Metadata.Filename != "" {
		printInfo("%s", StyleTitle.Render(doc.Metadata.Filename))
	}
	fmt.Fprintln(cmd.OutOrStdout(), elementsTable(elements, t, c.palette()))
	printLayoutStats(elements, false)
	return nil
}
