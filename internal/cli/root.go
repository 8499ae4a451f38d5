// Package cli provides the command-line interface for vibrant.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/vibrant/internal/version"
)

// NewRootCmd builds the vibrant command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibrant",
		Short: "Extract named colour palettes from images",
		Long: `Vibrant extracts a small named palette from an image: Vibrant, Dark Vibrant,
Light Vibrant, Muted, Dark Muted and Light Muted.

The image is downscaled, filtered, reduced to representative colours with a
median-cut quantizer and each slot is filled with the best matching colour.
Quantizer and generator strategies can be replaced by external plugins.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")
	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newExtractCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger returns the CLI logger: Debug when verbose, Warn otherwise.
func newLogger(verbose bool, w io.Writer) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "vibrant",
		Output: w,
		Level:  level,
	})
}
