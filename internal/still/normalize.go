package still

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// HasAlpha reports whether the frame needs compositing before it is written
// to an encoding without transparency: palette frames always do, other
// frames do unless every pixel is opaque.
func HasAlpha(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	switch img.ColorModel() {
	case color.YCbCrModel, color.GrayModel, color.Gray16Model, color.CMYKModel:
		return false
	}
	return true
}

// FlattenOnWhite composites frames with alpha or a palette onto an opaque
// white canvas. Alpha-free frames are returned unchanged.
func FlattenOnWhite(img image.Image) image.Image {
	if !HasAlpha(img) {
		return img
	}
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
