package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/api"
	"github.com/matzehuels/einkplacer/pkg/device"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

type serveOpts struct {
	addr    string
	backend string
	dir     string
	device  string
}

// serveCommand creates the serve command, which runs the layout service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout service",
		Long: `Run the layout service the display and the editor talk to.

Routes:
  POST /layout/save-layout   store a layout and refresh the display
  GET  /layout/get-layout    latest layout
  GET  /layout/list-layout   stored layouts, newest first
  GET  /layout/{name}        a stored layout by filename or ID`,
		Example: `  # Serve layouts from ./layouts on :5000
  einkplacer serve

  # Keep layouts in redis and refresh the display after each save
  einkplacer serve --storage redis --device http://192.168.1.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :5000)")
	cmd.Flags().StringVar(&opts.backend, "storage", "", "storage backend: memory, file, redis, mongo")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "layouts directory for the file backend")
	cmd.Flags().StringVar(&opts.device, "device", "", "display base URL to refresh after saves")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := c.cfg
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.dir != "" {
		cfg.Storage.Dir = opts.dir
	}
	if opts.device != "" {
		if err := errors.ValidateURL(opts.device); err != nil {
			return err
		}
		cfg.Device.URL = opts.device
	}

	store, err := storage.Open(ctx, cfg.Storage, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()

	notifier := device.New(cfg.Device.URL,
		device.WithTimeout(cfg.Device.Timeout.Duration),
		device.WithLogger(logger),
	)

	backend := cfg.Storage.Backend
	if backend == storage.BackendFile {
		backend += " (" + cfg.Storage.Dir + ")"
	}
	printInfo("Serving layouts on %s", StyleHighlight.Render(cfg.Server.Addr))
	printKeyValue("Storage", backend)
	if notifier.Enabled() {
		printKeyValue("Display", notifier.URL())
	} else {
		printWarning("Display refresh disabled, set [device] url or pass --device")
	}

	srv := api.New(store, api.WithDevice(notifier), api.WithLogger(logger))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
