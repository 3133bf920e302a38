// Package imageops implements the pixel operations PixEdit applies to an
// image buffer.
package imageops

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ToRGBA returns a zero-origin RGBA copy of img.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns an independent copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// Channels reports how many channels img carries: 1 for single-channel gray
// images, 4 when any pixel is translucent and 3 otherwise.
func Channels(img image.Image) int {
	switch im := img.(type) {
	case nil:
		return 0
	case *image.Gray, *image.Gray16:
		return 1
	case interface{ Opaque() bool }:
		if im.Opaque() {
			return 3
		}
		return 4
	}
	return 3
}

// Grayscale converts img to luminance and expands the result back into an
// RGBA buffer so that later drawing keeps the same channel layout.
func Grayscale(img *image.RGBA) *image.RGBA {
	return ToRGBA(imaging.Grayscale(img))
}

// Mirror flips img horizontally.
func Mirror(img *image.RGBA) *image.RGBA {
	return ToRGBA(imaging.FlipH(img))
}

// Opaque forces every pixel of img to full alpha.
func Opaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

// Blank returns an opaque image of the given size filled with col.
func Blank(w, h int, col color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	return img
}
