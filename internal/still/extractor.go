package still

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"reelpreview/internal/config"
	"reelpreview/internal/fileutil"
	"reelpreview/internal/logging"
	"reelpreview/internal/media/ffmpeg"
	"reelpreview/internal/services"
)

// Outcome classifies one encoding's result.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeExists  Outcome = "exists"
	OutcomeFailed  Outcome = "failed"
)

// FormatResult describes what happened to one target encoding.
type FormatResult struct {
	Format  string
	Target  string
	Outcome Outcome
	// Method is the strategy that produced the file: codec or decode.
	Method string
	Err    error
}

// Report collects per-encoding results for one preview.
type Report struct {
	Source  string
	Skipped bool
	Reason  string
	Results []FormatResult
	Elapsed time.Duration
}

// Written returns the number of encodings produced by this call.
func (r Report) Written() int {
	return r.count(OutcomeWritten)
}

// Failed returns the number of encodings that could not be produced.
func (r Report) Failed() int {
	return r.count(OutcomeFailed)
}

// Err joins every per-encoding failure, or nil when none failed.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

func (r Report) count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Skip reasons reported when no encoding was attempted.
const (
	ReasonStaticDerivative = "already a static derivative"
	ReasonTargetsExist     = "all static targets exist"
)

// Extractor writes static artifacts for a preview.
type Extractor struct {
	runner      ffmpeg.Runner
	strategy    string
	formats     []string
	jpegQuality int
	decode      func(path string) (image.Image, error)
	logger      *slog.Logger
}

// NewExtractor wires an extractor from the static configuration section.
func NewExtractor(cfg *config.Config, runner ffmpeg.Runner, logger *slog.Logger) *Extractor {
	return &Extractor{
		runner:      runner,
		strategy:    cfg.Static.Strategy,
		formats:     append([]string(nil), cfg.Static.Formats...),
		jpegQuality: cfg.Static.JPEGQuality,
		decode:      decodeFirstFrame,
		logger:      logging.NewComponentLogger(logger, "still"),
	}
}

// WithStrategy returns a copy of the extractor using strategy.
func (e *Extractor) WithStrategy(strategy string) *Extractor {
	clone := *e
	clone.strategy = strategy
	return &clone
}

// WithFormats returns a copy of the extractor producing only formats.
func (e *Extractor) WithFormats(formats []string) *Extractor {
	clone := *e
	clone.formats = append([]string(nil), formats...)
	return &clone
}

// Extract produces every configured static encoding for preview that does not
// exist yet. It never fails as a whole; inspect the Report instead.
func (e *Extractor) Extract(ctx context.Context, preview string) Report {
	start := time.Now()
	report := Report{Source: preview}
	ctx = services.WithAsset(ctx, preview)
	ctx = services.WithStage(ctx, "static")
	logger := logging.WithContext(ctx, e.logger)

	if IsStaticDerivative(preview) {
		report.Skipped = true
		report.Reason = ReasonStaticDerivative
		logger.Debug("skipping static derivative", logging.String("decision_reason", report.Reason))
		return report
	}

	var pending []int
	for _, format := range e.formats {
		target := StaticPath(preview, format)
		res := FormatResult{Format: format, Target: target}
		exists, err := fileutil.Exists(target)
		switch {
		case err != nil:
			res.Outcome = OutcomeFailed
			res.Err = services.Wrap(services.ErrFrameExtraction, "static", format, "stat target", err)
		case exists:
			res.Outcome = OutcomeExists
		default:
			pending = append(pending, len(report.Results))
		}
		report.Results = append(report.Results, res)
	}
	if len(pending) == 0 {
		if report.Failed() == 0 {
			report.Skipped = true
			report.Reason = ReasonTargetsExist
		}
		report.Elapsed = time.Since(start)
		return report
	}

	useCodec := e.strategy != config.StrategyDecode
	var frame image.Image
	if !useCodec {
		var err error
		frame, err = e.decode(preview)
		if err != nil {
			logging.WarnWithContext(logger, "frame decode failed; using ffmpeg extraction", "still_decode_fallback",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "animated webp previews cannot be decoded in-process"),
				logging.String(logging.FieldImpact, "static frames are produced by ffmpeg instead"),
			)
			useCodec = true
		}
	}

	for _, idx := range pending {
		res := &report.Results[idx]
		if err := ctx.Err(); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = services.Wrap(services.ErrFrameExtraction, "static", res.Format, "cancelled", err)
			continue
		}
		if useCodec {
			e.runCodec(ctx, preview, res)
		} else {
			e.runDecode(ctx, frame, preview, res)
		}
		if res.Outcome == OutcomeFailed {
			logging.WarnWithContext(logger, "static encoding failed", "still_format_failed",
				logging.String("format", res.Format),
				logging.String("target", res.Target),
				logging.Error(res.Err),
				logging.String(logging.FieldErrorHint, "inspect the preview with reelpreview inspect"),
				logging.String(logging.FieldImpact, "this encoding is missing; other encodings are unaffected"),
			)
			continue
		}
		logger.Debug("static encoding written",
			logging.String("format", res.Format),
			logging.String("target", res.Target),
			logging.String("method", res.Method),
		)
	}

	report.Elapsed = time.Since(start)
	return report
}

// runDecode persists an already decoded frame, retrying through ffmpeg when
// the in-process write fails.
func (e *Extractor) runDecode(ctx context.Context, frame image.Image, preview string, res *FormatResult) {
	err := e.writeDecoded(ctx, frame, res.Format, res.Target)
	if err == nil {
		res.Outcome = OutcomeWritten
		res.Method = config.StrategyDecode
		return
	}
	e.runCodec(ctx, preview, res)
	if res.Outcome == OutcomeFailed {
		res.Err = errors.Join(services.Wrap(services.ErrFrameExtraction, "static", res.Format, "decode write", err), res.Err)
	}
}

func (e *Extractor) runCodec(ctx context.Context, preview string, res *FormatResult) {
	res.Method = config.StrategyCodec
	if err := extractWithCodec(ctx, e.runner, preview, res.Format, res.Target); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return
	}
	res.Outcome = OutcomeWritten
	res.Err = nil
}
