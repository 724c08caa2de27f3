// Package config loads einkplacer settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/einkplacer/config.toml (or
// ~/.config/einkplacer/config.toml). Every key is optional; missing keys
// keep the values of [Default]. A complete file looks like:
//
//	[canvas]
//	actual_width = 960
//	actual_height = 540
//	display_width = 630
//	display_height = 360
//	scaled_offsets = false
//	palette = "white"
//
//	[server]
//	addr = ":5000"
//
//	[storage]
//	backend = "file"      # memory, file, redis or mongo
//	dir = "layouts"
//
//	[storage.redis]
//	addr = "localhost:6379"
//
//	[device]
//	url = "http://192.168.1.8"
//	timeout = "5s"
//
//	[client]
//	base_url = "http://localhost:5000"
//	retries = 1
//	cache_ttl = "0s"
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

// Config is the complete einkplacer configuration.
type Config struct {
	Canvas  Canvas         `toml:"canvas"`
	Server  Server         `toml:"server"`
	Storage storage.Config `toml:"storage"`
	Device  Device         `toml:"device"`
	Client  Client         `toml:"client"`
}

// Canvas describes the device panel and the editor view of it.
// When ScaleX/ScaleY are set they take precedence over the display size.
type Canvas struct {
	ActualWidth   float64 `toml:"actual_width"`
	ActualHeight  float64 `toml:"actual_height"`
	DisplayWidth  float64 `toml:"display_width"`
	DisplayHeight float64 `toml:"display_height"`
	ScaleX        float64 `toml:"scale_x,omitempty"`
	ScaleY        float64 `toml:"scale_y,omitempty"`
	ScaledOffsets bool    `toml:"scaled_offsets"`
	Palette       string  `toml:"palette"`
}

// Transform builds the coordinate transform for this canvas.
func (c Canvas) Transform() anchor.Transform {
	var opts []anchor.Option
	if c.ScaledOffsets {
		opts = append(opts, anchor.WithScaledOffsets())
	}
	actual := anchor.Dims{Width: c.ActualWidth, Height: c.ActualHeight}
	if c.ScaleX > 0 || c.ScaleY > 0 {
		return anchor.NewScaled(anchor.Scale{X: c.ScaleX, Y: c.ScaleY}, actual, opts...)
	}
	return anchor.New(anchor.Dims{Width: c.DisplayWidth, Height: c.DisplayHeight}, actual, opts...)
}

// Server configures the layout service.
type Server struct {
	Addr string `toml:"addr"`
}

// Device configures the display notified after saves.
type Device struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// Client configures commands that talk to the layout service.
type Client struct {
	BaseURL  string   `toml:"base_url"`
	Retries  int      `toml:"retries"`
	CacheTTL Duration `toml:"cache_ttl"`
	CacheDir string   `toml:"cache_dir,omitempty"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{
			ActualWidth:   anchor.DefaultActualWidth,
			ActualHeight:  anchor.DefaultActualHeight,
			DisplayWidth:  anchor.DefaultDisplayWidth,
			DisplayHeight: anchor.DefaultDisplayHeight,
			Palette:       element.WhiteDisplay.Name,
		},
		Server:  Server{Addr: ":5000"},
		Storage: storage.DefaultConfig(),
		Device:  Device{Timeout: Duration{5 * time.Second}},
		Client: Client{
			BaseURL: "http://localhost:5000",
			Retries: 1,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/einkplacer/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "einkplacer", "config.toml"), nil
}

// Load reads the configuration at path on top of [Default].
//
// An empty path means [DefaultPath]; a missing default file is not an
// error. A missing explicit path is. Unknown keys are rejected so that
// typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be fixed up with defaults.
func (c Config) Validate() error {
	if c.Canvas.ActualWidth < 0 || c.Canvas.ActualHeight < 0 ||
		c.Canvas.DisplayWidth < 0 || c.Canvas.DisplayHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas sizes must not be negative")
	}
	if c.Canvas.ScaleX < 0 || c.Canvas.ScaleY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas scale must not be negative")
	}
	if _, ok := element.PaletteByName(c.Canvas.Palette); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown palette %q", c.Canvas.Palette)
	}
	if b := c.Storage.Backend; b != "" && !slices.Contains(storage.Backends, b) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %s)", b, strings.Join(storage.Backends, ", "))
	}
	if c.Device.URL != "" {
		if err := errors.ValidateURL(c.Device.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "device.url")
		}
	}
	if err := errors.ValidateURL(c.Client.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "client.base_url")
	}
	if c.Client.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "client.retries must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
