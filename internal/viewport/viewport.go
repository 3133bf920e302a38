// Package viewport scales images to fill an on-screen area and maps pointer
// positions back into image space.
package viewport

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// AspectFill returns the size src takes when scaled uniformly so that it
// covers view completely. One axis may overflow view; the overflow is cropped
// when rendering.
func AspectFill(src, view image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 || view.X <= 0 || view.Y <= 0 {
		return image.Point{}
	}
	zx := float64(view.X) / float64(src.X)
	zy := float64(view.Y) / float64(src.Y)
	zoom := zx
	if zy > zx {
		zoom = zy
	}
	w := int(float64(src.X)*zoom + 0.5)
	h := int(float64(src.Y)*zoom + 0.5)
	if w < view.X {
		w = view.X
	}
	if h < view.Y {
		h = view.Y
	}
	return image.Pt(w, h)
}

// Mapper converts viewport coordinates into original image coordinates.
type Mapper struct {
	// View is the size of the on-screen area.
	View image.Point
	// Scaled is the size of the image after aspect-fill scaling.
	Scaled image.Point
	// Original is the size of the image buffer. A zero value means no image.
	Original image.Point
}

// NewMapper builds a Mapper for an image of size original shown in view.
func NewMapper(view, original image.Point) Mapper {
	return Mapper{View: view, Scaled: AspectFill(original, view), Original: original}
}

// ToImage maps p, relative to the viewport's top-left corner, into image
// coordinates. Results near the edges may fall outside the image; callers
// clip when drawing.
func (m Mapper) ToImage(p image.Point) image.Point {
	if m.Original.X <= 0 || m.Original.Y <= 0 || m.Scaled.X <= 0 || m.Scaled.Y <= 0 {
		return p
	}
	offX := float64(m.Scaled.X-m.View.X) / 2
	offY := float64(m.Scaled.Y-m.View.Y) / 2
	x := (float64(p.X) + offX) * float64(m.Original.X) / float64(m.Scaled.X)
	y := (float64(p.Y) + offY) * float64(m.Original.Y) / float64(m.Scaled.Y)
	return image.Pt(int(x), int(y))
}

// SourceRect returns the region of the original image that is visible in the
// viewport once the overflow has been cropped.
func (m Mapper) SourceRect() image.Rectangle {
	if m.Scaled.X <= 0 || m.Scaled.Y <= 0 {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: m.ToImage(image.Point{}),
		Max: m.ToImage(m.View),
	}.Intersect(image.Rectangle{Max: m.Original})
}

// Render fills dst with bg and draws src aspect-filled and centre-cropped on
// top. dst is normally a buffer the size of the viewport.
func Render(dst *image.RGBA, src image.Image, bg color.Color) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(bg), image.Point{}, draw.Src)
	if src == nil {
		return
	}
	sb := src.Bounds()
	m := NewMapper(b.Size(), sb.Size())
	vis := m.SourceRect()
	if vis.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(dst, b, src, vis.Add(sb.Min), draw.Over, nil)
}
