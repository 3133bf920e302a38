package imageops

import (
	"image"
	"image/color"
	"math"
)

// Stroke colours and width used by the interactive tools.
var (
	FreeDrawColor  = color.RGBA{255, 0, 0, 255}
	CircleColor    = color.RGBA{255, 0, 0, 255}
	RectangleColor = color.RGBA{0, 255, 0, 255}
	TextColor      = color.RGBA{0, 0, 255, 255}
)

// StrokeWidth is the default pen width in pixels.
const StrokeWidth = 2

// setThick paints a square pen of the given thickness centred on (x, y),
// skipping pixels that fall outside img.
func setThick(img *image.RGBA, x, y, thick int, col color.RGBA) {
	if thick < 1 {
		thick = 1
	}
	lo := -(thick - 1) / 2
	hi := thick / 2
	b := img.Bounds()
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(b) {
				img.SetRGBA(p.X, p.Y, col)
			}
		}
	}
}

// DrawLine draws a line from a to b using Bresenham's algorithm.
func DrawLine(img *image.RGBA, a, b image.Point, col color.RGBA, thick int) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThick(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawCircleThin(img *image.RGBA, c image.Point, r int, col color.RGBA) {
	x := r
	y := 0
	err := 1 - r
	b := img.Bounds()
	for x >= y {
		pts := [8]image.Point{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			p = c.Add(p)
			if p.In(b) {
				img.SetRGBA(p.X, p.Y, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// DrawCircle draws a circle outline of radius r centred on c. Thick outlines
// are built from concentric rings around r.
func DrawCircle(img *image.RGBA, c image.Point, r int, col color.RGBA, thick int) {
	if r < 0 {
		return
	}
	if thick <= 1 {
		drawCircleThin(img, c, r, col)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			drawCircleThin(img, c, rr, col)
		}
	}
	// Fill the pinholes concentric midpoint rings leave on the diagonals.
	if r > 0 {
		steps := int(math.Ceil(2 * math.Pi * float64(r)))
		prev := image.Pt(c.X+r, c.Y)
		for i := 1; i <= steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			p := image.Pt(c.X+int(math.Round(math.Cos(a)*float64(r))), c.Y+int(math.Round(math.Sin(a)*float64(r))))
			DrawLine(img, prev, p, col, thick)
			prev = p
		}
	}
}

// DrawRect draws a rectangle outline with opposite corners a and b. Both
// corners lie on the outline.
func DrawRect(img *image.RGBA, a, b image.Point, col color.RGBA, thick int) {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	DrawLine(img, image.Pt(minX, minY), image.Pt(maxX, minY), col, thick)
	DrawLine(img, image.Pt(maxX, minY), image.Pt(maxX, maxY), col, thick)
	DrawLine(img, image.Pt(maxX, maxY), image.Pt(minX, maxY), col, thick)
	DrawLine(img, image.Pt(minX, maxY), image.Pt(minX, minY), col, thick)
}

// Radius returns the truncated Euclidean distance between a and b.
func Radius(a, b image.Point) int {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return int(math.Sqrt(dx*dx + dy*dy))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
