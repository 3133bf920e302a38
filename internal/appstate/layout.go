package appstate

import "image"

const (
	statusHeight = 22
	buttonHeight = 28
	buttonGap    = 4
	buttonCols   = 6

	defaultWidth  = 800
	defaultHeight = 600
	// Smallest viewport the initial window size allows for.
	minViewWidth  = 400
	minViewHeight = 300
)

// chromeHeight is the vertical space taken below the viewport by the status
// line and the two button rows.
const chromeHeight = statusHeight + 2*(buttonHeight+buttonGap) + buttonGap

// layout splits the window into its panels.
type layout struct {
	size     image.Point
	viewport image.Rectangle
	status   image.Rectangle
	rows     [2]image.Rectangle
}

func computeLayout(size image.Point) layout {
	vh := size.Y - chromeHeight
	if vh < 0 {
		vh = 0
	}
	l := layout{size: size}
	l.viewport = image.Rect(0, 0, size.X, vh)
	l.status = image.Rect(0, vh, size.X, vh+statusHeight)
	y := l.status.Max.Y + buttonGap
	for i := range l.rows {
		l.rows[i] = image.Rect(buttonGap, y, size.X-buttonGap, y+buttonHeight)
		y += buttonHeight + buttonGap
	}
	return l
}

// cells splits row into n button rectangles sized as if the row held
// buttonCols buttons, so both rows line up.
func cells(row image.Rectangle, n int) []image.Rectangle {
	cols := buttonCols
	if n > cols {
		cols = n
	}
	w := (row.Dx() - (cols-1)*buttonGap) / cols
	if w < 1 {
		w = 1
	}
	out := make([]image.Rectangle, n)
	x := row.Min.X
	for i := range out {
		out[i] = image.Rect(x, row.Min.Y, x+w, row.Max.Y)
		x += w + buttonGap
	}
	return out
}

// initialWindowSize returns the starting window size: the default size,
// never smaller than the minimum viewport plus chrome, and shrunk to fit
// screen when the screen size is known.
func initialWindowSize(screen image.Point) image.Point {
	size := image.Pt(defaultWidth, defaultHeight)
	minSize := image.Pt(minViewWidth, minViewHeight+chromeHeight)
	if size.Y < minSize.Y {
		size.Y = minSize.Y
	}
	if screen.X > 0 && size.X > screen.X {
		size.X = max(screen.X, minSize.X)
	}
	if screen.Y > 0 && size.Y > screen.Y {
		size.Y = max(screen.Y, minSize.Y)
	}
	return size
}
