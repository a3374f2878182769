package still

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"reelpreview/internal/fileutil"
	"reelpreview/internal/media/ffmpeg"
	"reelpreview/internal/services"
)

// decodeFirstFrame opens the artifact with the registered Go decoders. Only
// the first frame of multi-frame inputs is returned.
func decodeFirstFrame(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func extractWithCodec(ctx context.Context, runner ffmpeg.Runner, preview, format, target string) error {
	partial := fileutil.PartialPath(target)
	args, err := ffmpeg.StillArgs(preview, partial, format)
	if err != nil {
		return services.Wrap(services.ErrFrameExtraction, "static", format, "", err)
	}
	if err := runner.Run(ctx, args); err != nil {
		removePartial(partial)
		return services.Wrap(services.ErrFrameExtraction, "static", format, "ffmpeg failed", err)
	}
	if err := ffmpeg.VerifyOutput(partial); err != nil {
		removePartial(partial)
		return services.Wrap(services.ErrFrameExtraction, "static", format, "", err)
	}
	if err := fileutil.Commit(partial, target); err != nil {
		return services.Wrap(services.ErrFrameExtraction, "static", format, "", err)
	}
	return nil
}

func (e *Extractor) writeDecoded(ctx context.Context, frame image.Image, format, target string) error {
	switch strings.ToLower(format) {
	case ffmpeg.FormatPNG:
		return fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
			return imaging.Encode(w, frame, imaging.PNG)
		})
	case ffmpeg.FormatJPEG, "jpeg":
		flat := FlattenOnWhite(frame)
		return fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
			return imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(e.jpegQuality))
		})
	case ffmpeg.FormatWebP:
		// No pure-Go WebP encoder is available; hand the decoded frame to
		// ffmpeg as a PNG stream.
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, frame, imaging.PNG); err != nil {
			return fmt.Errorf("encode png stream: %w", err)
		}
		partial := fileutil.PartialPath(target)
		if err := e.runner.RunInput(ctx, &buf, ffmpeg.StillFromPipeArgs(partial)); err != nil {
			removePartial(partial)
			return err
		}
		if err := ffmpeg.VerifyOutput(partial); err != nil {
			removePartial(partial)
			return err
		}
		return fileutil.Commit(partial, target)
	default:
		return fmt.Errorf("unsupported still format %q", format)
	}
}

func removePartial(path string) {
	_ = os.Remove(path)
}
