// Package cli implements the einkplacer command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/client"
	"github.com/matzehuels/einkplacer/pkg/config"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/httputil"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "einkplacer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// loadConfig reads the config file selected by --config (or the default
// location) and attaches the logger to the command context.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a layout service client from the configuration.
// baseURL overrides the configured URL when set.
func (c *CLI) newClient(baseURL string) (*client.Client, error) {
	if baseURL == "" {
		baseURL = c.cfg.Client.BaseURL
	}
	opts := []client.Option{
		client.WithTransform(c.cfg.Canvas.Transform()),
		client.WithRetries(c.cfg.Client.Retries),
		client.WithLogger(c.Logger),
	}
	if cache, err := c.newCache(); err == nil {
		opts = append(opts, client.WithCache(cache))
	} else {
		c.Logger.Debug("layout cache disabled", "err", err)
	}
	return client.New(baseURL, opts...)
}

func (c *CLI) newCache() (*httputil.Cache, error) {
	dir := c.cfg.Client.CacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return httputil.NewCache(dir, c.cfg.Client.CacheTTL.Duration)
}

func (c *CLI) palette() element.Palette {
	p, ok := element.PaletteByName(c.cfg.Canvas.Palette)
	if !ok {
		return element.WhiteDisplay
	}
	return p
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/einkplacer/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return httputil.DefaultCacheDir()
}
