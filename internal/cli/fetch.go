package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

type fetchOpts struct {
	url     string
	output  string
	json    bool
	offline bool
}

// fetchCommand creates the fetch command, which downloads a stored layout
// and shows it in display space.
func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{}

	cmd := &cobra.Command{
		Use:   "fetch [name]",
		Short: "Fetch a layout from the layout service",
		Long: `Fetch the latest layout (or a stored one by filename or ID) from the
layout service and convert it to editor canvas positions.

The latest layout is cached so that --offline can show it without a server.`,
		Example: `  # Latest layout as a table
  einkplacer fetch

  # A stored layout as a workspace file
  einkplacer fetch layout_20250101_120000.json -o screen.json

  # Last fetched layout, no network
  einkplacer fetch --offline`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runFetch(cmd, name, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "layout service URL (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write a workspace file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print workspace JSON instead of a table")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "show the cached layout")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, name string, opts fetchOpts) error {
	ctx := cmd.Context()

	cl, err := c.newClient(opts.url)
	if err != nil {
		return err
	}

	var (
		doc    *layoutio.Document
		cached bool
	)
	switch {
	case opts.offline:
		if name != "" {
			return errors.New(errors.ErrCodeInvalidInput, "--offline only serves the latest layout")
		}
		d, ok := cl.Cached()
		if !ok {
			return errors.New(errors.ErrCodeLayoutNotFound, "no cached layout, run fetch without --offline first")
		}
		doc, cached = d, true
	default:
		prog := newProgress(loggerFromContext(ctx))
		err = withSpinner(ctx, "Fetching layout from "+cl.BaseURL(), func() error {
			var ferr error
			if name == "" {
				doc, ferr = cl.FetchDocument(ctx)
			} else {
				doc, ferr = cl.FetchNamed(ctx, name)
			}
			return ferr
		})
		if err != nil {
			return err
		}
		prog.done("Fetched " + plural(len(doc.Elements), "element"))
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
			printSuccess("Fetched %s", plural(len(elements), "element"))
			printFile(opts.output)
		}
		return nil
	}

	if doc.Metadata != nil && doc.Metadata.Filename != "" {
		printInfo("%s", StyleTitle.Render(doc.Metadata.Filename))
	}
	fmt.Fprintln(cmd.OutOrStdout(), elementsTable(elements, t, c.palette()))
	printLayoutStats(elements, cached)
	return nil
}
