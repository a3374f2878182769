package still_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"reelpreview/internal/config"
	"reelpreview/internal/logging"
	"reelpreview/internal/services"
	"reelpreview/internal/still"
	"reelpreview/internal/testsupport"
)

// writePNGPreview stores a mostly transparent PNG frame under a .webp name;
// the decoders sniff content, not extensions.
func writePNGPreview(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(7, 7, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, path, buf.Bytes())
	return path
}

func newExtractor(t *testing.T, strategy string, runner *testsupport.FakeFFmpeg) (*still.Extractor, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStaticStrategy(strategy))
	return still.NewExtractor(cfg, runner, logging.NewNop()), cfg
}

func TestExtractCodecWritesAllFormats(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyCodec, runner)
	dir := t.TempDir()
	preview := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, preview, []byte("animated"))

	report := extractor.Extract(context.Background(), preview)
	if report.Skipped || report.Written() != 3 || report.Failed() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if runner.CallCount() != 3 {
		t.Fatalf("expected 3 ffmpeg calls, got %d", runner.CallCount())
	}
	for _, format := range []string{"webp", "png", "jpg"} {
		target := filepath.Join(dir, "reel_preview_static."+format)
		if _, err := os.Stat(target); err != nil {
			t.Fatalf("expected %s: %v", target, err)
		}
		if _, err := os.Stat(target + ".part"); !os.IsNotExist(err) {
			t.Fatalf("partial left behind for %s", format)
		}
	}
	for _, call := range runner.Calls() {
		if !slices.Contains(call, preview) {
			t.Fatalf("expected preview as input: %v", call)
		}
	}
}

func TestExtractSkipsStaticDerivatives(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyCodec, runner)
	dir := t.TempDir()
	derived := filepath.Join(dir, "reel_preview_static.webp")
	testsupport.WriteBytes(t, derived, []byte("still"))

	report := extractor.Extract(context.Background(), derived)
	if !report.Skipped || report.Reason != still.ReasonStaticDerivative {
		t.Fatalf("expected derivative skip, got %+v", report)
	}
	if runner.CallCount() != 0 {
		t.Fatalf("expected no calls, got %d", runner.CallCount())
	}
	for _, name := range testsupport.ListFiles(t, dir) {
		if strings.Contains(name, "_static_static") {
			t.Fatalf("unexpected double derivative %s", name)
		}
	}
}

func TestExtractSkipsExistingTargets(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyCodec, runner)
	dir := t.TempDir()
	preview := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, preview, []byte("animated"))
	existing := filepath.Join(dir, "reel_preview_static.png")
	testsupport.WriteBytes(t, existing, []byte("keep"))

	report := extractor.Extract(context.Background(), preview)
	if report.Written() != 2 || runner.CallCount() != 2 {
		t.Fatalf("expected two new encodings, report=%+v calls=%d", report, runner.CallCount())
	}
	data, err := os.ReadFile(existing)
	if err != nil || string(data) != "keep" {
		t.Fatalf("existing target modified: %q %v", data, err)
	}

	again := extractor.Extract(context.Background(), preview)
	if !again.Skipped || again.Reason != still.ReasonTargetsExist {
		t.Fatalf("expected full skip on rerun, got %+v", again)
	}
	if runner.CallCount() != 2 {
		t.Fatalf("rerun invoked ffmpeg: %d calls", runner.CallCount())
	}
}

func TestExtractFailureIsPerFormat(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{
		Fail: func(args []string) error {
			if strings.HasSuffix(args[len(args)-1], ".png.part") {
				return &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: "boom"}
			}
			return nil
		},
	}
	extractor, _ := newExtractor(t, config.StrategyCodec, runner)
	dir := t.TempDir()
	preview := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, preview, []byte("animated"))

	report := extractor.Extract(context.Background(), preview)
	if report.Written() != 2 || report.Failed() != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !errors.Is(report.Err(), services.ErrFrameExtraction) {
		t.Fatalf("expected frame extraction error, got %v", report.Err())
	}
	var toolErr *services.ToolError
	if !errors.As(report.Err(), &toolErr) {
		t.Fatalf("expected tool error in chain, got %v", report.Err())
	}
	if _, err := os.Stat(filepath.Join(dir, "reel_preview_static.png")); !os.IsNotExist(err) {
		t.Fatal("failed format must not leave a target")
	}
}

func TestExtractDecodeWritesInProcess(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyDecode, runner)
	dir := t.TempDir()
	preview := writePNGPreview(t, dir)

	report := extractor.Extract(context.Background(), preview)
	if report.Written() != 3 || report.Failed() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, res := range report.Results {
		if res.Method != config.StrategyDecode {
			t.Fatalf("expected decode method for %s, got %s", res.Format, res.Method)
		}
	}
	// Only the WebP encoding goes through ffmpeg, fed from stdin.
	if runner.CallCount() != 1 {
		t.Fatalf("expected one piped ffmpeg call, got %d", runner.CallCount())
	}
	if !bytes.HasPrefix(runner.Stdin(0), []byte("\x89PNG")) {
		t.Fatal("expected png stream on stdin")
	}

	f, err := os.Open(filepath.Join(dir, "reel_preview_static.jpg"))
	if err != nil {
		t.Fatalf("open jpg: %v", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil || format != "jpeg" {
		t.Fatalf("decode jpg: %v (%s)", err, format)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("expected transparent pixel flattened to white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestExtractDecodeFallsBackToCodec(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyDecode, runner)
	dir := t.TempDir()
	preview := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, preview, []byte("not an image"))

	report := extractor.Extract(context.Background(), preview)
	if report.Written() != 3 {
		t.Fatalf("expected codec fallback to write all formats: %+v", report)
	}
	for _, res := range report.Results {
		if res.Method != config.StrategyCodec {
			t.Fatalf("expected codec method for %s, got %s", res.Format, res.Method)
		}
	}
	if runner.CallCount() != 3 {
		t.Fatalf("expected 3 codec calls, got %d", runner.CallCount())
	}
}

func TestExtractWithFormats(t *testing.T) {
	runner := &testsupport.FakeFFmpeg{}
	extractor, _ := newExtractor(t, config.StrategyCodec, runner)
	dir := t.TempDir()
	preview := filepath.Join(dir, "reel_preview.webp")
	testsupport.WriteBytes(t, preview, []byte("animated"))

	report := extractor.WithFormats([]string{"png"}).Extract(context.Background(), preview)
	if len(report.Results) != 1 || report.Results[0].Target != filepath.Join(dir, "reel_preview_static.png") {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
}
