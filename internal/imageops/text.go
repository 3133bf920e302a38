package imageops

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// OverlaySize is the point size used for text overlays.
const OverlaySize = 32

var (
	fontOnce sync.Once
	fontErr  error
	goFont   *opentype.Font
	faces    sync.Map // map[float64]font.Face
)

func loadFont() {
	goFont, fontErr = opentype.Parse(goregular.TTF)
	if fontErr != nil {
		fontErr = fmt.Errorf("parse font: %w", fontErr)
	}
}

// Face returns the Go Regular face at size points, cached per size.
func Face(size float64) (font.Face, error) {
	fontOnce.Do(loadFont)
	if fontErr != nil {
		return nil, fontErr
	}
	if f, ok := faces.Load(size); ok {
		return f.(font.Face), nil
	}
	face, err := opentype.NewFace(goFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.0fpt: %w", size, err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// OverlayOrigin returns where Overlay places the text baseline: one quarter
// of the width across and half the height down.
func OverlayOrigin(img *image.RGBA) image.Point {
	b := img.Bounds()
	return image.Pt(b.Min.X+b.Dx()/4, b.Min.Y+b.Dy()/2)
}

// Overlay renders text onto img at OverlayOrigin in the overlay font and
// colour. Empty text leaves img untouched.
func Overlay(img *image.RGBA, text string) error {
	if text == "" {
		return nil
	}
	return DrawText(img, OverlayOrigin(img), text, TextColor, OverlaySize)
}

// DrawText renders text with its baseline starting at dot.
func DrawText(img *image.RGBA, dot image.Point, text string, col color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
	return nil
}

// MeasureText returns the advance width of text at size points.
func MeasureText(text string, size float64) (int, error) {
	face, err := Face(size)
	if err != nil {
		return 0, err
	}
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Ceil(), nil
}
