package still_test

import (
	"image"
	"image/color"
	"testing"

	"reelpreview/internal/still"
)

func TestFlattenOnWhitePalette(t *testing.T) {
	palette := color.Palette{color.Transparent, color.RGBA{R: 0, G: 0, B: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
	img.SetColorIndex(1, 0, 1)

	flat := still.FlattenOnWhite(img)
	if still.HasAlpha(flat) && flat == image.Image(img) {
		t.Fatal("expected a new flattened image")
	}
	r, g, b, a := flat.At(0, 0).RGBA()
	if a != 0xffff || r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("expected white at transparent pixel, got %d,%d,%d,%d", r, g, b, a)
	}
	r, g, b, _ = flat.At(1, 0).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Fatalf("expected blue pixel preserved, got %d,%d,%d", r, g, b)
	}
}

func TestFlattenOnWhitePassesOpaqueFrames(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420)
	if still.HasAlpha(img) {
		t.Fatal("ycbcr frames carry no alpha")
	}
	if got := still.FlattenOnWhite(img); got != image.Image(img) {
		t.Fatal("expected opaque frame returned unchanged")
	}
}

func TestStaticNaming(t *testing.T) {
	if got := still.StaticPath("/lib/vfx/reel_preview.webp", "jpg"); got != "/lib/vfx/reel_preview_static.jpg" {
		t.Fatalf("unexpected static path %s", got)
	}
	if !still.IsStaticDerivative("/lib/vfx/reel_preview_static.webp") {
		t.Fatal("expected derivative detection")
	}
	if still.IsStaticDerivative("/lib/vfx/reel_preview.webp") {
		t.Fatal("plain preview is not a derivative")
	}
}

func TestFlattenOnWhiteTransparentNYCbCrA(t *testing.T) {
	// Lossy WebP with an alpha chunk decodes to NYCbCrA.
	img := image.NewNYCbCrA(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	if !still.HasAlpha(img) {
		t.Fatal("transparent nycbcra frame should need compositing")
	}
	r, g, b, a := still.FlattenOnWhite(img).At(1, 1).RGBA()
	if a != 0xffff || r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("expected white at transparent pixel, got %d,%d,%d,%d", r, g, b, a)
	}
}

func TestHasAlphaFollowsOpacity(t *testing.T) {
	opaque := image.NewNYCbCrA(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	for i := range opaque.A {
		opaque.A[i] = 0xff
	}
	if still.HasAlpha(opaque) {
		t.Fatal("fully opaque nycbcra frame passes through")
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if !still.HasAlpha(rgba) {
		t.Fatal("zeroed nrgba frame is transparent")
	}
	rgba.Set(0, 0, color.NRGBA{R: 10, A: 255})
	if still.HasAlpha(rgba) {
		t.Fatal("opaque nrgba frame passes through")
	}
}
