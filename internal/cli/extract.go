package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/vibrant/internal/image"
	"github.com/jmylchreest/vibrant/internal/plugin/executor"
	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

func newExtractCmd() *cobra.Command {
	cfg := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "extract <image|url|directory>",
		Short: "Extract a named colour palette from an image",
		Long: `Extract the six named palette slots from an image.

Input may be a local file, an HTTP(S) URL or a directory. Directories are
scanned (non-recursively) and every image is processed on the worker pool.
Images ending in .xz are decompressed transparently.

Supported image formats: JPEG, PNG, GIF, WebP

Environment:
  VIBRANT_COLOURS, VIBRANT_QUALITY, VIBRANT_MAX_DIMENSION,
  VIBRANT_QUANTIZER_PLUGIN, VIBRANT_GENERATOR_PLUGIN
  override the defaults of the matching flags.

Examples:
  # Extract the palette of a wallpaper
  vibrant extract wallpaper.jpg

  # Show colour blocks next to each slot
  vibrant extract --preview wallpaper.png

  # Full-size analysis with 128 colours, as JSON
  vibrant extract -q 1 -c 128 -f json wallpaper.jpg

  # Ignore near-white and near-black pixels
  vibrant extract --filter white --filter black scan.png

  # Every image in a directory, four at a time
  vibrant extract --workers 4 ~/Pictures/wallpapers

  # Cluster with k-means instead of median cut
  vibrant extract --quantizer kmeans photo.jpg

  # Use an external quantizer
  vibrant extract --quantizer-plugin ./vibrant-popularity wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnvDefaults(cmd, &cfg, os.LookupEnv)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], cfg)
		},
	}

	cfg.RegisterFlags(cmd.Flags())
	return cmd
}

// applyEnvDefaults overlays the environment onto every flag the user did
// not set explicitly.
func applyEnvDefaults(cmd *cobra.Command, cfg *Config, lookup func(string) (string, bool)) error {
	env := *cfg
	if err := env.ApplyEnv(lookup); err != nil {
		return err
	}

	flags := cmd.Flags()
	apply := func(name string, set func()) {
		if !flags.Changed(name) {
			set()
		}
	}
	apply("colours", func() { cfg.Colours = env.Colours })
	apply("quality", func() { cfg.Quality = env.Quality })
	apply("max-dimension", func() { cfg.MaxDimension = env.MaxDimension })
	apply("quantizer", func() { cfg.Quantizer = env.Quantizer })
	apply("quantizer-plugin", func() { cfg.QuantizerPlugin = env.QuantizerPlugin })
	apply("generator-plugin", func() { cfg.GeneratorPlugin = env.GeneratorPlugin })
	return nil
}

func runExtract(cmd *cobra.Command, input string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := image.ValidateImagePath(input); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose, cmd.ErrOrStderr())

	opts, cleanup, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loader := image.NewSmartLoader()

	var results []result
	if info, statErr := os.Stat(input); statErr == nil && info.IsDir() {
		results, err = extractDirectory(ctx, loader, input, cfg, opts, cmd.ErrOrStderr())
	} else {
		var p *vibrant.Palette
		p, err = extractOne(ctx, loader, input, cfg, opts)
		results = []result{{Path: input, Palette: p}}
	}
	if err != nil && len(results) == 0 {
		return err
	}
	if err != nil && results[0].Palette == nil {
		return err
	}

	out, closeOut, outErr := openOutput(cmd, cfg.Output)
	if outErr != nil {
		return outErr
	}
	defer closeOut()

	preview := cfg.Preview && cfg.Output == "" && isTerminal(os.Stdout)

	var text string
	var fmtErr error
	if len(results) == 1 && results[0].Path == input {
		text, fmtErr = formatPalette(results[0].Palette, cfg.Format, preview)
	} else {
		text, fmtErr = formatResults(results, cfg.Format, preview)
	}
	if fmtErr != nil {
		return fmtErr
	}
	if _, werr := io.WriteString(out, text); werr != nil {
		return fmt.Errorf("failed to write output: %w", werr)
	}
	if cfg.Output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Palette written to: %s\n", cfg.Output)
	}
	return err
}

// buildOptions turns the config into extraction options, starting any
// configured strategy plugins. cleanup stops them; it is nil when an error
// is returned.
func buildOptions(cfg Config, logger hclog.Logger) (vibrant.Options, func(), error) {
	opts := vibrant.DefaultOptions()
	opts.ColorCount = cfg.Colours
	opts.Quality = cfg.Quality
	opts.MaxDimension = cfg.MaxDimension
	opts.Filters = cfg.FilterList()
	opts.Logger = logger

	q, err := cfg.BuiltinQuantizer()
	if err != nil {
		return opts, nil, err
	}
	opts.Quantizer = q

	var executors []*executor.Executor
	cleanup := func() {
		for _, e := range executors {
			e.Close()
		}
	}

	if cfg.QuantizerPlugin != "" {
		e, err := executor.New(cfg.QuantizerPlugin, logger)
		if err != nil {
			return opts, nil, fmt.Errorf("failed to load quantizer plugin: %w", err)
		}
		executors = append(executors, e)
		q, err := e.Quantizer()
		if err != nil {
			cleanup()
			return opts, nil, fmt.Errorf("failed to start quantizer plugin: %w", err)
		}
		logger.Debug("using quantizer plugin", "path", cfg.QuantizerPlugin, "name", q.Metadata().Name)
		opts.Quantizer = q
	}

	if cfg.GeneratorPlugin != "" {
		e, err := executor.New(cfg.GeneratorPlugin, logger)
		if err != nil {
			cleanup()
			return opts, nil, fmt.Errorf("failed to load generator plugin: %w", err)
		}
		executors = append(executors, e)
		g, err := e.Generator()
		if err != nil {
			cleanup()
			return opts, nil, fmt.Errorf("failed to start generator plugin: %w", err)
		}
		logger.Debug("using generator plugin", "path", cfg.GeneratorPlugin, "name", g.Metadata().Name)
		opts.Generator = g
	}

	return opts, cleanup, nil
}

// loaderSource loads its image lazily, so directory entries are decoded on
// the worker that extracts them.
type loaderSource struct {
	ctx    context.Context
	loader *image.SmartLoader
	path   string
}

func (s loaderSource) Pixels(maxDimension, quality int) ([]byte, error) {
	img, err := s.loader.LoadContext(s.ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return vibrant.ImageSource{Image: img}.Pixels(maxDimension, quality)
}

func extractOne(ctx context.Context, loader *image.SmartLoader, path string, cfg Config, opts vibrant.Options) (*vibrant.Palette, error) {
	src := loaderSource{ctx: ctx, loader: loader, path: path}

	if !cfg.Async {
		return vibrant.New(src, opts).GetPalette(ctx)
	}

	pool := vibrant.NewPool(cfg.Workers)
	defer pool.Close()
	return vibrant.New(src, opts).UsePool(pool).GetPaletteAsync(ctx).Wait(ctx)
}

// extractDirectory processes every image in dir on a worker pool. Failed
// images are reported to errOut and skipped; the returned error summarises
// them.
func extractDirectory(ctx context.Context, loader *image.SmartLoader, dir string, cfg Config, opts vibrant.Options, errOut io.Writer) ([]result, error) {
	files, err := image.ScanDirectoryForImages(dir)
	if err != nil {
		return nil, err
	}

	pool := vibrant.NewPool(cfg.Workers)
	defer pool.Close()

	futures := make([]*vibrant.Future, len(files))
	for i, path := range files {
		src := loaderSource{ctx: ctx, loader: loader, path: path}
		futures[i] = vibrant.New(src, opts).UsePool(pool).GetPaletteAsync(ctx)
	}

	var results []result
	var errs []error
	for i, f := range futures {
		p, err := f.Wait(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "Skipping %s: %v\n", files[i], err)
			errs = append(errs, fmt.Errorf("%s: %w", files[i], err))
			continue
		}
		results = append(results, result{Path: files[i], Palette: p})
	}

	if len(errs) > 0 {
		return results, fmt.Errorf("%d of %d images failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return results, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
