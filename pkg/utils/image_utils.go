package utils

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// ScaleToFit scales a decoded image so that neither side exceeds maxDim,
// preserving aspect ratio. Images already inside the box are returned as-is.
//
// This runs on the CPU (golang.org/x/image/draw, Catmull-Rom) and is meant for
// load time, never for the per-frame path.
func ScaleToFit(src image.Image, maxDim int) image.Image {
	if src == nil || maxDim <= 0 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	scale := float64(maxDim) / float64(max(w, h))
	dstW := max(1, int(float64(w)*scale+0.5))
	dstH := max(1, int(float64(h)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

// AddBorder returns a new image with a solid border of the given width drawn
// around src. The source image is never modified.
//
// Returns nil if src is nil.
func AddBorder(src *ebiten.Image, borderWidth int, borderColor color.Color) *ebiten.Image {
	if src == nil {
		return nil
	}
	if borderWidth < 0 {
		borderWidth = 0
	}

	b := src.Bounds()
	framed := ebiten.NewImage(b.Dx()+borderWidth*2, b.Dy()+borderWidth*2)
	framed.Fill(borderColor)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(borderWidth), float64(borderWidth))
	framed.DrawImage(src, op)

	return framed
}
