package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/editor"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// defaultWorkspace is the file "edit" saves to when none is given.
const defaultWorkspace = "screen.json"

type editOpts struct {
	url   string
	fetch bool
}

// editCommand creates the edit command, a terminal layout editor.
func (c *CLI) editCommand() *cobra.Command {
	opts := editOpts{}

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a layout in the terminal",
		Long: `Edit a workspace file in an interactive terminal editor. Elements are
positioned on the editor canvas; the table shows where each anchor lands on
the device.

The file is created on save if it does not exist. With --fetch the editor
starts from the latest layout on the layout service instead.`,
		Example: `  einkplacer edit screen.json
  einkplacer edit --fetch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultWorkspace
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "layout service URL (default from config)")
	cmd.Flags().BoolVar(&opts.fetch, "fetch", false, "start from the latest layout on the server")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, opts editOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	store := editor.NewStore(editor.WithLogger(logger))

	cl, err := c.newClient(opts.url)
	if err != nil {
		logger.Warn("layout service unavailable, publishing disabled", "err", err)
		cl = nil
	}

	if opts.fetch {
		if cl == nil {
			return err
		}
		if err := withSpinner(ctx, "Fetching layout from "+cl.BaseURL(), func() error {
			return cl.FetchInto(ctx, store)
		}); err != nil {
			return err
		}
	} else if err := loadWorkspace(ctx, store, path); err != nil {
		return err
	}

	m := NewEditorModel(ctx, store, cl, c.cfg.Canvas.Transform(), c.palette(), path)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	printInfo("Layout has %s", plural(store.State().Len(), "element"))
	printNextStep("Export it", "einkplacer export "+path)
	return nil
}

// loadWorkspace loads path into store. A missing file starts an empty layout.
func loadWorkspace(ctx context.Context, store *editor.Store, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	elements, err := layoutio.ReadElements(f)
	if err != nil {
		return err
	}
	store.Dispatch(ctx, editor.Load{Elements: elements})
	return nil
}
