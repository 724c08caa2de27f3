package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/errors"
)

type convertOpts struct {
	x, y          float64
	width, height float64
	anchor        string
	to            string
	scaledOffsets bool
}

// convertCommand creates the convert command, which maps a single point
// between the editor canvas and device space.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a position between display and device space",
		Long: `Convert a position between the editor canvas (display space, element
top-left corner) and the device (actual space, position of the anchor).

The canvas sizes come from the [canvas] section of the config file.`,
		Example: `  # Where does a bottom-right anchored 100x50 element at (50, 50) land?
  einkplacer convert --x 50 --y 50 --anchor br

  # And back again
  einkplacer convert --to display --x 176.19 --y 125 --anchor br`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "x coordinate")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y coordinate")
	cmd.Flags().Float64Var(&opts.width, "width", anchor.DefaultWidth, "element width")
	cmd.Flags().Float64Var(&opts.height, "height", anchor.DefaultHeight, "element height")
	cmd.Flags().StringVarP(&opts.anchor, "anchor", "a", string(anchor.TopLeft), "anchor: tl, tm, tr, bl, bm, br, m")
	cmd.Flags().StringVar(&opts.to, "to", "actual", "target space: actual or display")
	cmd.Flags().BoolVar(&opts.scaledOffsets, "scaled-offsets", false, "scale anchor offsets into device units")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, opts convertOpts) error {
	a, ok := anchor.ParseAnchor(opts.anchor)
	if !ok {
		return errors.New(errors.ErrCodeInvalidAnchor, "unknown anchor %q", opts.anchor)
	}

	canvas := c.cfg.Canvas
	if opts.scaledOffsets {
		canvas.ScaledOffsets = true
	}
	t := canvas.Transform()
	size := anchor.Size{Width: opts.width, Height: opts.height}

	out := cmd.OutOrStdout()
	switch strings.ToLower(opts.to) {
	case "actual", "device":
		p := t.ToAnchorSpace(anchor.DisplayPosition{X: opts.x, Y: opts.y}, size, a)
		fmt.Fprintf(out, "%.2f %.2f\n", p.X, p.Y)
	case "display", "editor":
		p := t.ToDisplaySpace(anchor.ActualPosition{X: opts.x, Y: opts.y}, size, a)
		fmt.Fprintf(out, "%.2f %.2f\n", p.X, p.Y)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "--to must be actual or display, got %q", opts.to)
	}
	return nil
}
