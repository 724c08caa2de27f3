package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/api"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

type saveOpts struct {
	url string
	raw bool
}

// saveCommand creates the save command, which uploads a layout to the
// layout service.
func (c *CLI) saveCommand() *cobra.Command {
	opts := saveOpts{}

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save a layout to the layout service",
		Long: `Upload a workspace file to the layout service. The elements are exported
to device positions first; with --raw the file is taken as device JSON
(the output of "export") and sent unchanged.

The service stores the layout and asks the display to refresh.`,
		Example: `  einkplacer save screen.json
  einkplacer export screen.json | einkplacer save --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runSave(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "layout service URL (default from config)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "input is device JSON")

	return cmd
}

func (c *CLI) runSave(cmd *cobra.Command, path string, opts saveOpts) error {
	ctx := cmd.Context()

	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	var records []layoutio.Record
	if opts.raw {
		doc, err := layoutio.ReadJSON(in)
		if err != nil {
			return err
		}
		records = doc.Elements
	} else {
		elements, err := layoutio.ReadElements(in)
		if err != nil {
			return err
		}
		records = layoutio.Export(elements, c.cfg.Canvas.Transform())
	}

	cl, err := c.newClient(opts.url)
	if err != nil {
		return err
	}

	var resp *api.SaveResponse
	err = withSpinner(ctx, "Saving layout to "+cl.BaseURL(), func() error {
		var serr error
		resp, serr = cl.SaveRecords(ctx, records)
		return serr
	})
	if err != nil {
		return err
	}

	printSuccess("%s", resp.Message)
	printKeyValue("Filename", resp.Filename)
	if resp.ID != "" {
		printKeyValue("ID", resp.ID)
	}
	printKeyValue("Elements", plural(len(records), "element"))
	return nil
}
