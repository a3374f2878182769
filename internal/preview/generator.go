package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelpreview/internal/config"
	"reelpreview/internal/fileutil"
	"reelpreview/internal/logging"
	"reelpreview/internal/media/ffmpeg"
	"reelpreview/internal/services"
)

// ErrTargetExists is returned when the preview target is already on disk.
var ErrTargetExists = errors.New("preview target already exists")

// DurationProber reports the duration of a source asset in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Asset is a probed source video.
type Asset struct {
	Path     string
	Duration float64
}

// Job describes one source-to-preview conversion.
type Job struct {
	Source        string
	Target        string
	ClipCount     int
	TotalDuration float64
	Profile       Profile
}

// Report describes a finished conversion.
type Report struct {
	JobID   string
	Asset   Asset
	Windows []Window
	Target  string
	Elapsed time.Duration
}

// Generator runs the probe, plan, extract, concat, encode pipeline.
type Generator struct {
	prober     DurationProber
	runner     ffmpeg.Runner
	planner    *Planner
	workDir    string
	scaleWidth int
	logger     *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithPlanner overrides the clip planner, typically to inject a fixed sampler.
func WithPlanner(p *Planner) Option {
	return func(g *Generator) {
		if p != nil {
			g.planner = p
		}
	}
}

// NewGenerator wires a generator from configuration.
func NewGenerator(cfg *config.Config, prober DurationProber, runner ffmpeg.Runner, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		prober:     prober,
		runner:     runner,
		planner:    NewPlanner(nil),
		workDir:    cfg.Paths.WorkDir,
		scaleWidth: cfg.Preview.ScaleWidth,
		logger:     logging.NewComponentLogger(logger, "preview"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// JobFor builds a job for source using the configured clip settings.
func JobFor(cfg *config.Config, source, target string, profile Profile) Job {
	if strings.TrimSpace(target) == "" {
		target = PreviewPath(source)
	}
	return Job{
		Source:        source,
		Target:        target,
		ClipCount:     cfg.Preview.ClipCount,
		TotalDuration: cfg.Preview.TotalDuration,
		Profile:       profile,
	}
}

// Generate produces job.Target. The job's scratch directory is released on
// every exit path, including panics raised by the runner.
func (g *Generator) Generate(ctx context.Context, job Job) (Report, error) {
	start := time.Now()
	if strings.TrimSpace(job.Source) == "" || strings.TrimSpace(job.Target) == "" {
		return Report{}, services.Wrap(services.ErrValidation, "preview", "job", "source and target are required", nil)
	}
	exists, err := fileutil.Exists(job.Target)
	if err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "preview", "stat target", job.Target, err)
	}
	if exists {
		return Report{}, fmt.Errorf("%w: %s", ErrTargetExists, job.Target)
	}

	ctx = services.WithAsset(ctx, job.Source)

	asset, err := g.probe(ctx, job.Source)
	if err != nil {
		return Report{}, err
	}
	windows, err := g.planner.Plan(job.ClipCount, job.TotalDuration, asset.Duration)
	if err != nil {
		return Report{}, err
	}

	scratch, err := NewScratch(g.workDir)
	if err != nil {
		return Report{}, services.Wrap(services.ErrConfiguration, "preview", "scratch", "create job directory", err)
	}
	ctx = services.WithJobID(ctx, scratch.ID())
	logger := logging.WithContext(ctx, g.logger)
	defer func() {
		if releaseErr := scratch.Release(); releaseErr != nil {
			logging.WarnWithContext(logger, "scratch cleanup incomplete", "scratch_release_failed",
				logging.Error(releaseErr),
				logging.String("scratch_dir", scratch.Dir()),
				logging.String(logging.FieldErrorHint, "remove the job directory manually"),
				logging.String(logging.FieldImpact, "temporary files left in work_dir"),
			)
		}
	}()

	logger.Debug("clip windows planned",
		logging.Float64("asset_duration", asset.Duration),
		logging.Int("clip_count", len(windows)),
		logging.Any("windows", windows),
	)

	clips, err := g.extractClips(ctx, scratch, job.Source, windows)
	if err != nil {
		return Report{}, err
	}
	joined, err := g.concat(ctx, scratch, clips)
	if err != nil {
		return Report{}, err
	}
	if err := g.encode(ctx, scratch, joined, job.Target, job.Profile); err != nil {
		return Report{}, err
	}

	report := Report{
		JobID:   scratch.ID(),
		Asset:   asset,
		Windows: windows,
		Target:  job.Target,
		Elapsed: time.Since(start),
	}
	logger.Info("preview generated",
		logging.String("target", job.Target),
		logging.String("profile", job.Profile.String()),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (g *Generator) probe(ctx context.Context, source string) (Asset, error) {
	ctx = services.WithStage(ctx, "probe")
	duration, err := g.prober.Duration(ctx, source)
	if err != nil {
		if errors.Is(err, services.ErrProbe) {
			return Asset{}, err
		}
		return Asset{}, services.Wrap(services.ErrProbe, "probe", "duration", source, err)
	}
	return Asset{Path: source, Duration: duration}, nil
}

// extractClips writes one intermediate per window, in index order.
func (g *Generator) extractClips(ctx context.Context, scratch *Scratch, source string, windows []Window) ([]string, error) {
	ctx = services.WithStage(ctx, "extract")
	clips := make([]string, 0, len(windows))
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrExtraction, "extract", "clip", "cancelled", err)
		}
		output := scratch.Path(fmt.Sprintf("temp_clip_%d.mp4", w.Index))
		args := ffmpeg.ClipArgs(source, w.Start, w.Duration, g.scaleWidth, output)
		if err := g.runner.Run(ctx, args); err != nil {
			return nil, services.Wrap(services.ErrExtraction, "extract", fmt.Sprintf("clip %d", w.Index), "ffmpeg failed", err)
		}
		if err := ffmpeg.VerifyOutput(output); err != nil {
			return nil, services.Wrap(services.ErrExtraction, "extract", fmt.Sprintf("clip %d", w.Index), "", err)
		}
		clips = append(clips, output)
	}
	return clips, nil
}

func (g *Generator) concat(ctx context.Context, scratch *Scratch, clips []string) (string, error) {
	ctx = services.WithStage(ctx, "concat")
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrConcat, "concat", "", "cancelled", err)
	}
	manifest := scratch.Path("inputs.txt")
	if err := ffmpeg.WriteConcatManifest(manifest, clips); err != nil {
		return "", services.Wrap(services.ErrConcat, "concat", "manifest", "", err)
	}
	output := scratch.Path("concat.mp4")
	if err := g.runner.Run(ctx, ffmpeg.ConcatArgs(manifest, output)); err != nil {
		return "", services.Wrap(services.ErrConcat, "concat", "join", "ffmpeg failed", err)
	}
	if err := ffmpeg.VerifyOutput(output); err != nil {
		return "", services.Wrap(services.ErrConcat, "concat", "join", "", err)
	}
	return output, nil
}

// encode writes to <target>.part and renames on success so an interrupted
// encode never leaves a file that would later be taken for a finished preview.
func (g *Generator) encode(ctx context.Context, scratch *Scratch, input, target string, profile Profile) error {
	ctx = services.WithStage(ctx, "encode")
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrEncode, "encode", "", "cancelled", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return services.Wrap(services.ErrEncode, "encode", "mkdir", filepath.Dir(target), err)
	}
	partial := fileutil.PartialPath(target)
	scratch.Track(partial)
	if err := g.runner.Run(ctx, ffmpeg.AnimationArgs(input, partial, profile.animationOptions())); err != nil {
		return services.Wrap(services.ErrEncode, "encode", profile.Name, "ffmpeg failed", err)
	}
	if err := ffmpeg.VerifyOutput(partial); err != nil {
		return services.Wrap(services.ErrEncode, "encode", profile.Name, "", err)
	}
	if err := fileutil.Commit(partial, target); err != nil {
		return services.Wrap(services.ErrEncode, "encode", "finalize", target, err)
	}
	return nil
}
