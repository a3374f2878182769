package ffmpeg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Still output encodings accepted by StillArgs.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	FormatJPEG = "jpg"
)

func baseArgs() []string {
	return []string{"-hide_banner", "-loglevel", "error", "-y"}
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// ClipArgs extracts one window of source as a lossless, width-scaled H.264
// intermediate. Audio is copied untouched; it is dropped at encode time.
func ClipArgs(source string, start, duration float64, scaleWidth int, output string) []string {
	args := baseArgs()
	return append(args,
		"-ss", seconds(start),
		"-t", seconds(duration),
		"-i", source,
		"-vf", fmt.Sprintf("scale=%d:-2", scaleWidth),
		"-c:v", "libx264",
		"-crf", "0",
		"-c:a", "copy",
		output,
	)
}

// ConcatArgs joins the clips listed in manifest into one lossless sequence.
func ConcatArgs(manifest, output string) []string {
	args := baseArgs()
	return append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c:v", "libx264",
		"-crf", "0",
		"-c:a", "copy",
		output,
	)
}

// WriteConcatManifest writes a concat demuxer list with one file line per
// clip, in the order given.
func WriteConcatManifest(path string, clips []string) error {
	if len(clips) == 0 {
		return fmt.Errorf("concat manifest: no clips")
	}
	var b strings.Builder
	for _, clip := range clips {
		b.WriteString("file '")
		b.WriteString(escapeConcatPath(clip))
		b.WriteString("'\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

// Inside a quoted concat entry a single quote is closed, escaped, and reopened.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// AnimationOptions selects the animated WebP encode profile.
type AnimationOptions struct {
	// FrameRate caps the output rate through an fps filter. Zero keeps the source rate.
	FrameRate int
	// QScale sets -qscale. Zero omits the flag.
	QScale int
}

// AnimationArgs transcodes the concatenated sequence into an infinitely
// looping lossless animated WebP without audio.
func AnimationArgs(input, output string, opts AnimationOptions) []string {
	args := baseArgs()
	args = append(args, "-i", input)
	if opts.FrameRate > 0 {
		args = append(args, "-vf", fmt.Sprintf("fps=%d", opts.FrameRate))
	}
	args = append(args,
		"-c:v", "libwebp",
		"-lossless", "1",
		"-compression_level", "6",
		"-method", "6",
	)
	if opts.QScale > 0 {
		args = append(args, "-qscale", strconv.Itoa(opts.QScale))
	}
	return append(args,
		"-loop", "0",
		"-preset", "default",
		"-an",
		"-f", "webp",
		output,
	)
}

// StillArgs emits exactly the first frame of input as a single image in the
// requested encoding.
func StillArgs(input, output, format string) ([]string, error) {
	codec, err := stillCodecArgs(format)
	if err != nil {
		return nil, err
	}
	args := baseArgs()
	args = append(args, "-i", input, "-frames:v", "1")
	args = append(args, codec...)
	return append(args, output), nil
}

// StillFromPipeArgs encodes a PNG frame read from stdin as a lossless
// single-frame WebP.
func StillFromPipeArgs(output string) []string {
	args := baseArgs()
	args = append(args, "-f", "png_pipe", "-i", "pipe:0", "-frames:v", "1")
	args = append(args, webpStillCodec()...)
	return append(args, output)
}

func stillCodecArgs(format string) ([]string, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case FormatWebP:
		return webpStillCodec(), nil
	case FormatPNG:
		return []string{"-c:v", "png", "-update", "1", "-f", "image2"}, nil
	case FormatJPEG, "jpeg":
		return []string{"-c:v", "mjpeg", "-q:v", "2", "-pix_fmt", "yuvj444p", "-update", "1", "-f", "image2"}, nil
	default:
		return nil, fmt.Errorf("unsupported still format %q", format)
	}
}

func webpStillCodec() []string {
	return []string{"-c:v", "libwebp", "-lossless", "1", "-compression_level", "6", "-method", "6", "-f", "webp"}
}
