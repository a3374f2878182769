package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelpreview/internal/batch"
	"reelpreview/internal/config"
	"reelpreview/internal/logging"
	"reelpreview/internal/preflight"
	"reelpreview/internal/preview"
	"reelpreview/internal/still"
)

type batchOptions struct {
	strict     bool
	json       bool
	profile    string
	clips      int
	duration   float64
	categories []string
	strategy   string
	formats    []string
}

func (o *batchOptions) bindCommon(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Exit non-zero when any asset fails")
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the batch summary as JSON instead of progress lines")
}

func (o *batchOptions) bindPreview(cmd *cobra.Command) {
	o.bindCommon(cmd)
	cmd.Flags().StringVar(&o.profile, "profile", "", "Encode profile: quality or size (default from config)")
	cmd.Flags().IntVar(&o.clips, "clips", 0, "Number of clips per preview (default from config)")
	cmd.Flags().Float64Var(&o.duration, "duration", 0, "Total preview length in seconds (default from config)")
}

func (o *batchOptions) bindStatic(cmd *cobra.Command) {
	o.bindCommon(cmd)
	cmd.Flags().StringVar(&o.strategy, "strategy", "", "Still extraction strategy: codec or decode (default from config)")
	cmd.Flags().StringArrayVar(&o.formats, "format", nil, "Still format to produce (repeatable: webp, png, jpg)")
}

func (o *batchOptions) bindCategories(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.categories, "category", nil, "Category folder to process (repeatable, default from config)")
}

// apply returns a copy of base with flag overrides applied and validated.
func (o *batchOptions) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if p := strings.TrimSpace(o.profile); p != "" {
		cfg.Preview.Profile = strings.ToLower(p)
	}
	if o.clips != 0 {
		cfg.Preview.ClipCount = o.clips
	}
	if o.duration != 0 {
		cfg.Preview.TotalDuration = o.duration
	}
	if s := strings.TrimSpace(o.strategy); s != "" {
		cfg.Static.Strategy = strings.ToLower(s)
	}
	if len(o.formats) > 0 {
		formats := make([]string, 0, len(o.formats))
		for _, f := range o.formats {
			f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
			if f == "jpeg" {
				f = "jpg"
			}
			formats = append(formats, f)
		}
		cfg.Static.Formats = formats
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type batchFunc func(ctx context.Context, driver *batch.Driver) (batch.Summary, error)

// runBatch wires the driver for cfg, holds the batch lock for the duration
// of fn, and renders its results.
func runBatch(cmd *cobra.Command, cc *commandContext, opts *batchOptions, root string, grouped bool, fn batchFunc) error {
	base, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := opts.apply(base)
	if err != nil {
		return err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return err
	}

	if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, r := range failed {
			details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
		return fmt.Errorf("preflight failed: %s (run `reelpreview doctor`)", strings.Join(details, "; "))
	}

	lock, err := batch.AcquireLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	driverOpts := []batch.Option{}
	if store := cc.openLedger(logger); store != nil {
		defer store.Close()
		driverOpts = append(driverOpts, batch.WithRecorder(store))
	}
	if !opts.json {
		driverOpts = append(driverOpts, batch.WithObserver(newProgressPrinter(cmd, root, grouped)))
	}

	driver, err := newDriver(cc, cfg, logger, driverOpts...)
	if err != nil {
		return err
	}

	summary, runErr := fn(cmd.Context(), driver)
	if runErr != nil && summary.Kind == "" {
		return runErr
	}
	if opts.json {
		if err := writeJSON(cmd, summaryToJSON(summary)); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummaryLine(summary))
	}
	if runErr != nil {
		return runErr
	}
	if opts.strict && summary.HasFailures() {
		return fmt.Errorf("%d of %d assets failed", summary.Failed, summary.Total())
	}
	return nil
}

func newDriver(cc *commandContext, cfg *config.Config, logger *slog.Logger, opts ...batch.Option) (*batch.Driver, error) {
	runner := cc.runner(logger)
	generator := preview.NewGenerator(cfg, cc.prober(), runner, logger)
	extractor := still.NewExtractor(cfg, runner, logger)
	return batch.NewDriver(cfg, generator, extractor, logger, opts...)
}

// newProgressPrinter renders one line per result. When grouped, a section
// header is printed whenever the category folder changes.
func newProgressPrinter(cmd *cobra.Command, root string, grouped bool) batch.Observer {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	title := cases.Title(language.Und)
	current := ""
	return func(index, total int, res batch.Result) {
		if grouped {
			if category := categoryOf(root, res); category != current {
				current = category
				for _, line := range renderSectionHeader(title.String(category), colorize) {
					fmt.Fprintln(out, line)
				}
			}
		}
		fmt.Fprintln(out, renderResultLine(index, total, res, root, colorize))
	}
}

func categoryOf(base string, res batch.Result) string {
	if res.Reason == batch.ReasonCategoryMissing {
		return res.Source
	}
	rel, err := filepath.Rel(base, res.Source)
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first
}

func resolveRoot(arg string, fallback string) (string, error) {
	root := strings.TrimSpace(arg)
	if root == "" {
		root = fallback
	}
	if root == "" {
		return "", errors.New("a directory argument is required")
	}
	return config.ExpandPath(root)
}

func categoriesOrDefault(flagged, configured []string) []string {
	if len(flagged) > 0 {
		return flagged
	}
	return configured
}

func newPreviewsCommand(cc *commandContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "previews [dir]",
		Short: "Generate previews for every video below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(firstArg(args), cc.configValue().Paths.LibraryDir)
			if err != nil {
				return err
			}
			return runBatch(cmd, cc, opts, root, false, func(ctx context.Context, d *batch.Driver) (batch.Summary, error) {
				return d.Previews(ctx, root)
			})
		},
	}
	opts.bindPreview(cmd)
	return cmd
}

func newCategoriesCommand(cc *commandContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "categories [base]",
		Short: "Generate previews inside the configured category folders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cc.configValue()
			base, err := resolveRoot(firstArg(args), cfg.Paths.LibraryDir)
			if err != nil {
				return err
			}
			categories := categoriesOrDefault(opts.categories, cfg.Preview.Categories)
			return runBatch(cmd, cc, opts, base, true, func(ctx context.Context, d *batch.Driver) (batch.Summary, error) {
				return d.PreviewCategories(ctx, base, categories)
			})
		},
	}
	opts.bindPreview(cmd)
	opts.bindCategories(cmd)
	return cmd
}

func newStaticsCommand(cc *commandContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "statics [dir]",
		Short: "Derive still images from every preview below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(firstArg(args), cc.configValue().Paths.LibraryDir)
			if err != nil {
				return err
			}
			return runBatch(cmd, cc, opts, root, false, func(ctx context.Context, d *batch.Driver) (batch.Summary, error) {
				return d.Statics(ctx, root)
			})
		},
	}
	opts.bindStatic(cmd)
	return cmd
}

func newStaticCategoriesCommand(cc *commandContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "static-categories [base]",
		Short: "Derive still images inside the configured category folders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cc.configValue()
			base, err := resolveRoot(firstArg(args), cfg.Paths.LibraryDir)
			if err != nil {
				return err
			}
			categories := categoriesOrDefault(opts.categories, cfg.Static.Categories)
			return runBatch(cmd, cc, opts, base, true, func(ctx context.Context, d *batch.Driver) (batch.Summary, error) {
				return d.StaticCategories(ctx, base, categories)
			})
		},
	}
	opts.bindStatic(cmd)
	opts.bindCategories(cmd)
	return cmd
}

func newConvertCommand(cc *commandContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "convert <source> [target]",
		Short: "Generate a preview for a single video",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 2 {
				if target, err = config.ExpandPath(args[1]); err != nil {
					return err
				}
			}
			return runBatch(cmd, cc, opts, filepath.Dir(source), false, func(ctx context.Context, d *batch.Driver) (batch.Summary, error) {
				return d.PreviewOne(ctx, source, target)
			})
		},
	}
	opts.bindPreview(cmd)
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
