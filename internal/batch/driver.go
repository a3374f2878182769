package batch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reelpreview/internal/config"
	"reelpreview/internal/fileutil"
	"reelpreview/internal/ledger"
	"reelpreview/internal/logging"
	"reelpreview/internal/preview"
	"reelpreview/internal/services"
	"reelpreview/internal/still"
)

// StaleScratchAge is how old an unreleased job directory must be before a
// batch removes it.
const StaleScratchAge = 24 * time.Hour

// Generator produces one animated preview.
type Generator interface {
	Generate(ctx context.Context, job preview.Job) (preview.Report, error)
}

// Extractor derives still images from one preview.
type Extractor interface {
	Extract(ctx context.Context, preview string) still.Report
}

// Recorder persists batch runs. *ledger.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, kind, root string) (string, error)
	Record(ctx context.Context, runID string, entry ledger.Entry) error
	FinishRun(ctx context.Context, runID string, totals ledger.Totals) error
}

// Driver runs batches of previews or statics one asset at a time.
type Driver struct {
	cfg        *config.Config
	generator  Generator
	extractor  Extractor
	recorder   Recorder
	observer   Observer
	profile    preview.Profile
	extensions []string
	logger     *slog.Logger
}

// Option customizes a Driver.
type Option func(*Driver)

// WithRecorder mirrors every result into a run ledger.
func WithRecorder(r Recorder) Option {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithObserver streams results to fn as they are produced.
func WithObserver(fn Observer) Option {
	return func(d *Driver) {
		d.observer = fn
	}
}

// WithProfile overrides the encode profile taken from configuration.
func WithProfile(p preview.Profile) Option {
	return func(d *Driver) {
		d.profile = p
	}
}

// NewDriver builds a driver. The generator or extractor may be nil when the
// caller only runs the other kind of batch.
func NewDriver(cfg *config.Config, generator Generator, extractor Extractor, logger *slog.Logger, opts ...Option) (*Driver, error) {
	profile, err := preview.ParseProfile(cfg.Preview.Profile, cfg.Preview.FrameRate)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:        cfg,
		generator:  generator,
		extractor:  extractor,
		profile:    profile,
		extensions: append([]string(nil), cfg.Preview.VideoExtensions...),
		logger:     logging.NewComponentLogger(logger, "batch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// item is one unit of planned work. A non-nil skip short-circuits processing.
type item struct {
	source string
	target string
	skip   *Result
}

// Previews generates a preview for every video below root.
func (d *Driver) Previews(ctx context.Context, root string) (Summary, error) {
	if err := d.requireGenerator(); err != nil {
		return Summary{}, err
	}
	sources, err := Discover(root, d.extensions, d.reportSkippedDir)
	if err != nil {
		return Summary{}, err
	}
	return d.run(ctx, KindPreview, root, sourceItems(sources))
}

// PreviewCategories generates previews inside each named category folder of
// base. Missing folders are reported as skipped.
func (d *Driver) PreviewCategories(ctx context.Context, base string, categories []string) (Summary, error) {
	if err := d.requireGenerator(); err != nil {
		return Summary{}, err
	}
	items, err := d.categoryItems(base, categories, KindPreview, d.extensions)
	if err != nil {
		return Summary{}, err
	}
	return d.run(ctx, KindPreview, base, items)
}

// PreviewOne converts a single source. An empty target selects the default
// name next to the source.
func (d *Driver) PreviewOne(ctx context.Context, source, target string) (Summary, error) {
	if err := d.requireGenerator(); err != nil {
		return Summary{}, err
	}
	return d.run(ctx, KindPreview, source, []item{{source: source, target: target}})
}

// Statics derives still images for every .webp below root.
func (d *Driver) Statics(ctx context.Context, root string) (Summary, error) {
	if err := d.requireExtractor(); err != nil {
		return Summary{}, err
	}
	sources, err := Discover(root, []string{".webp"}, d.reportSkippedDir)
	if err != nil {
		return Summary{}, err
	}
	return d.run(ctx, KindStatic, root, sourceItems(sources))
}

// StaticCategories derives still images inside each named category folder.
func (d *Driver) StaticCategories(ctx context.Context, base string, categories []string) (Summary, error) {
	if err := d.requireExtractor(); err != nil {
		return Summary{}, err
	}
	items, err := d.categoryItems(base, categories, KindStatic, []string{".webp"})
	if err != nil {
		return Summary{}, err
	}
	return d.run(ctx, KindStatic, base, items)
}

func (d *Driver) reportSkippedDir(dir string, err error) {
	logging.WarnWithContext(d.logger, "skipping unreadable directory", "discover_dir_skipped",
		logging.String("path", dir),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check directory permissions"),
		logging.String(logging.FieldImpact, "assets below this directory were not processed"),
	)
}

func (d *Driver) requireGenerator() error {
	if d.generator == nil {
		return services.Wrap(services.ErrConfiguration, "batch", "previews", "no preview generator configured", nil)
	}
	return nil
}

func (d *Driver) requireExtractor() error {
	if d.extractor == nil {
		return services.Wrap(services.ErrConfiguration, "batch", "statics", "no still extractor configured", nil)
	}
	return nil
}

func sourceItems(sources []string) []item {
	items := make([]item, 0, len(sources))
	for _, source := range sources {
		items = append(items, item{source: source})
	}
	return items
}

func (d *Driver) categoryItems(base string, categories []string, kind Kind, extensions []string) ([]item, error) {
	var items []item
	for _, category := range categories {
		if strings.TrimSpace(category) == "" {
			continue
		}
		dir, ok, err := ResolveCategory(base, category)
		if err != nil {
			return nil, err
		}
		if !ok {
			d.logger.Info("category folder not found",
				logging.String("category", category),
				logging.String("base", base),
			)
			items = append(items, item{skip: &Result{
				Kind:    kind,
				Source:  category,
				Outcome: OutcomeSkipped,
				Reason:  ReasonCategoryMissing,
			}})
			continue
		}
		sources, err := Discover(dir, extensions, d.reportSkippedDir)
		if err != nil {
			return nil, err
		}
		items = append(items, sourceItems(sources)...)
	}
	return items, nil
}

func (d *Driver) run(ctx context.Context, kind Kind, root string, items []item) (Summary, error) {
	start := time.Now()
	summary := Summary{Kind: kind, Root: root}

	if kind == KindPreview {
		removed, err := preview.CleanStaleScratch(d.cfg.Paths.WorkDir, StaleScratchAge, d.logger)
		if len(removed) > 0 {
			d.logger.Info("removed stale job directories", logging.Int("count", len(removed)))
		}
		if err != nil {
			d.logger.Debug("stale scratch cleanup incomplete", logging.Error(err))
		}
	}

	summary.RunID = d.beginRun(ctx, kind, root)
	if summary.RunID != "" {
		ctx = services.WithRequestID(ctx, summary.RunID)
	}
	logger := logging.WithContext(ctx, d.logger)
	logger.Info("batch started",
		logging.String("kind", string(kind)),
		logging.String("root", root),
		logging.Int("assets", len(items)),
	)

	sampler := logging.NewProgressSampler(25)
	total := len(items)
	var runErr error
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		var res Result
		switch {
		case it.skip != nil:
			res = *it.skip
		case kind == KindPreview:
			res = d.preview(ctx, it.source, it.target)
		default:
			res = d.static(ctx, it.source)
		}
		summary.add(res)
		d.record(ctx, summary.RunID, res)
		if d.observer != nil {
			d.observer(i+1, total, res)
		}
		if percent, ok := sampler.Observe(string(kind), i+1, total); ok {
			logger.Info("batch progress",
				logging.Int("done", i+1),
				logging.Int("total", total),
				logging.Float64("percent", percent),
			)
		}
	}

	summary.Elapsed = time.Since(start)
	d.finishRun(ctx, summary)
	logger.Info("batch finished",
		logging.String("kind", string(kind)),
		logging.Int("generated", summary.Generated),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, runErr
}

func (d *Driver) preview(ctx context.Context, source, target string) Result {
	start := time.Now()
	job := preview.JobFor(d.cfg, source, target, d.profile)
	res := Result{Kind: KindPreview, Source: source, Target: job.Target}
	logger := logging.WithContext(services.WithAsset(ctx, source), d.logger)

	exists, err := fileutil.Exists(job.Target)
	switch {
	case err != nil:
		return d.failed(logger, res, start, services.Wrap(services.ErrValidation, "batch", "stat target", job.Target, err))
	case exists:
		res.Outcome = OutcomeSkipped
		res.Reason = ReasonTargetExists
		logger.Debug("preview exists", logging.String("target", job.Target))
		return res
	}

	_, err = d.generator.Generate(ctx, job)
	res.Elapsed = time.Since(start)
	switch {
	case err == nil:
		res.Outcome = OutcomeGenerated
	case errors.Is(err, preview.ErrTargetExists):
		res.Outcome = OutcomeSkipped
		res.Reason = ReasonTargetExists
	default:
		return d.failed(logger, res, start, err)
	}
	return res
}

func (d *Driver) static(ctx context.Context, source string) Result {
	start := time.Now()
	report := d.extractor.Extract(ctx, source)
	res := Result{Kind: KindStatic, Source: source, Elapsed: time.Since(start)}

	var written []string
	for _, fr := range report.Results {
		if fr.Outcome == still.OutcomeWritten {
			written = append(written, fr.Target)
		}
	}
	res.Target = strings.Join(written, ", ")

	switch {
	case report.Skipped:
		res.Outcome = OutcomeSkipped
		res.Reason = report.Reason
	case report.Failed() > 0:
		logger := logging.WithContext(services.WithAsset(ctx, source), d.logger)
		return d.failed(logger, res, start, report.Err())
	case report.Written() == 0:
		res.Outcome = OutcomeSkipped
		res.Reason = still.ReasonTargetsExist
	default:
		res.Outcome = OutcomeGenerated
	}
	return res
}

func (d *Driver) failed(logger *slog.Logger, res Result, start time.Time, err error) Result {
	res.Outcome = OutcomeFailed
	res.Err = err
	res.Reason = services.FailureKind(err)
	res.Elapsed = time.Since(start)
	logging.ErrorWithContext(logger, string(res.Kind)+" failed", string(res.Kind)+"_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see tool invocations"),
	)
	return res
}

func (d *Driver) beginRun(ctx context.Context, kind Kind, root string) string {
	if d.recorder == nil {
		return ""
	}
	id, err := d.recorder.BeginRun(ctx, string(kind), root)
	if err != nil {
		logging.WarnWithContext(d.logger, "run ledger unavailable", "ledger_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this batch is not recorded in history"),
		)
		return ""
	}
	return id
}

func (d *Driver) record(ctx context.Context, runID string, res Result) {
	if d.recorder == nil || runID == "" {
		return
	}
	entry := ledger.Entry{
		Kind:    string(res.Kind),
		Source:  res.Source,
		Target:  res.Target,
		Outcome: string(res.Outcome),
		Reason:  res.Reason,
		Elapsed: res.Elapsed,
	}
	if res.Err != nil {
		entry.FailureKind = services.FailureKind(res.Err)
		entry.Error = res.Err.Error()
	}
	if err := d.recorder.Record(context.WithoutCancel(ctx), runID, entry); err != nil {
		logging.WarnWithContext(d.logger, "failed to record result", "ledger_record_failed",
			logging.Error(err),
			logging.String("source", res.Source),
			logging.String(logging.FieldImpact, "history is incomplete for this run"),
		)
	}
}

func (d *Driver) finishRun(ctx context.Context, summary Summary) {
	if d.recorder == nil || summary.RunID == "" {
		return
	}
	totals := ledger.Totals{Generated: summary.Generated, Skipped: summary.Skipped, Failed: summary.Failed}
	if err := d.recorder.FinishRun(context.WithoutCancel(ctx), summary.RunID, totals); err != nil {
		logging.WarnWithContext(d.logger, "failed to finish run", "ledger_finish_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run totals are missing from history"),
		)
	}
}
