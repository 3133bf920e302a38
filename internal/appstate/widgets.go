package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/pixedit/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
)

// uiFace is the bitmap face used for all window chrome.
var uiFace font.Face = basicfont.Face7x13

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	// StateOn marks a toggle button whose option is in effect.
	StateOn
)

const buttonStates = 4

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [buttonStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if state < 0 || state >= buttonStates {
		state = StateDefault
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [buttonStates]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a labelled push button. When on is set the button is
// drawn highlighted while on reports true.
type ActionButton struct {
	label      string
	rect       image.Rectangle
	theme      *theme.Theme
	onActivate func()
	on         func() bool
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	th := ab.theme
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg, fg = th.ButtonBackgroundHover, th.ButtonTextHover
	case StatePressed:
		bg, fg = th.ButtonBackgroundPress, th.ButtonTextPress
	case StateOn:
		bg = th.ButtonBackgroundOn
	}
	draw.Draw(dst, ab.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	strokeRect(dst, ab.rect, th.ButtonBorder, 1)
	w := textWidth(ab.label)
	x := ab.rect.Min.X + (ab.rect.Dx()-w)/2
	if x < ab.rect.Min.X+2 {
		x = ab.rect.Min.X + 2
	}
	drawLabel(dst, image.Pt(x, baselineIn(ab.rect)), ab.label, fg)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// isOn reports whether the button's toggle is in effect.
func (ab *ActionButton) isOn() bool { return ab.on != nil && ab.on() }

func textWidth(s string) int {
	d := &font.Drawer{Face: uiFace}
	return d.MeasureString(s).Ceil()
}

// baselineIn returns the y coordinate that vertically centres a line of
// uiFace text in r.
func baselineIn(r image.Rectangle) int {
	m := uiFace.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	return r.Min.Y + (r.Dy()-asc-desc)/2 + asc
}

func drawLabel(dst *image.RGBA, dot image.Point, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: uiFace, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}

// strokeRect outlines r with lines thick pixels wide drawn inside r.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	for i := 0; i < thick; i++ {
		in := r.Inset(i)
		if in.Empty() {
			return
		}
		draw.Draw(dst, image.Rect(in.Min.X, in.Min.Y, in.Max.X, in.Min.Y+1), u, image.Point{}, draw.Src)
		draw.Draw(dst, image.Rect(in.Min.X, in.Max.Y-1, in.Max.X, in.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(dst, image.Rect(in.Min.X, in.Min.Y, in.Min.X+1, in.Max.Y), u, image.Point{}, draw.Src)
		draw.Draw(dst, image.Rect(in.Max.X-1, in.Min.Y, in.Max.X, in.Max.Y), u, image.Point{}, draw.Src)
	}
}
