package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/pixedit/internal/theme"
)

// Level classifies a message box.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	}
	return "Information"
}

func (l Level) accent(th *theme.Theme) color.RGBA {
	switch l {
	case LevelWarning:
		return th.WarningAccent
	case LevelError:
		return th.ErrorAccent
	}
	return th.InfoAccent
}

// message is a modal notice dismissed with Enter, Escape or a click.
type message struct {
	level Level
	text  string
}

type promptKind int

const (
	promptOpen promptKind = iota
	promptSave
	promptText
)

func (k promptKind) title() string {
	switch k {
	case promptOpen:
		return "Open image (.png .jpg .jpeg .bmp)"
	case promptSave:
		return "Save image as (.png .jpg .bmp)"
	}
	return "Text to add"
}

// prompt is a modal single line text entry.
type prompt struct {
	kind promptKind
	text []rune
}

func newPrompt(kind promptKind, initial string) *prompt {
	return &prompt{kind: kind, text: []rune(initial)}
}

// insert appends s, dropping control characters such as newlines.
func (p *prompt) insert(s string) {
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		p.text = append(p.text, r)
	}
}

func (p *prompt) backspace() {
	if len(p.text) > 0 {
		p.text = p.text[:len(p.text)-1]
	}
}

func (p *prompt) value() string { return string(p.text) }

const (
	dialogWidth   = 420
	dialogPadding = 10
	lineHeight    = 16
)

// wrap breaks text into lines of at most width pixels in uiFace, splitting on
// spaces and hard-breaking words that are too long on their own.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for textWidth(word) > width && len(word) > 1 {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				n := fitPrefix(word, width)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			switch {
			case line == "":
				line = word
			case textWidth(line+" "+word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// fitPrefix returns the byte length of the longest prefix of word, at least
// one rune, that fits in width.
func fitPrefix(word string, width int) int {
	n := 0
	for n < len(word) {
		_, size := utf8.DecodeRuneInString(word[n:])
		if n > 0 && textWidth(word[:n+size]) > width {
			break
		}
		n += size
	}
	return n
}

// dialogRect centres a dialog box with the given inner height in bounds.
func dialogRect(bounds image.Rectangle, inner int) image.Rectangle {
	w := min(dialogWidth, bounds.Dx()-2*buttonGap)
	h := inner + 2*dialogPadding + lineHeight
	x := bounds.Min.X + (bounds.Dx()-w)/2
	y := bounds.Min.Y + (bounds.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func drawDialogFrame(dst *image.RGBA, th *theme.Theme, r image.Rectangle, title string, accent color.RGBA) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.DialogShade}, image.Point{}, draw.Over)
	draw.Draw(dst, r, &image.Uniform{th.DialogBackground}, image.Point{}, draw.Src)
	strokeRect(dst, r, th.DialogBorder, 2)
	bar := image.Rect(r.Min.X+2, r.Min.Y+2, r.Max.X-2, r.Min.Y+2+lineHeight)
	draw.Draw(dst, bar, &image.Uniform{accent}, image.Point{}, draw.Src)
	drawLabel(dst, image.Pt(bar.Min.X+dialogPadding/2, baselineIn(bar)), title, th.DialogBackground)
}

func drawMessage(dst *image.RGBA, th *theme.Theme, m *message) {
	inner := dialogWidth - 2*dialogPadding
	lines := wrap(m.text, inner)
	lines = append(lines, "", "Press Enter to continue")
	r := dialogRect(dst.Bounds(), len(lines)*lineHeight)
	drawDialogFrame(dst, th, r, m.level.String(), m.level.accent(th))
	y := r.Min.Y + lineHeight + dialogPadding
	for _, l := range lines {
		drawLabel(dst, image.Pt(r.Min.X+dialogPadding, baselineIn(image.Rect(0, y, 0, y+lineHeight))), l, th.DialogText)
		y += lineHeight
	}
}

func drawPrompt(dst *image.RGBA, th *theme.Theme, p *prompt) {
	r := dialogRect(dst.Bounds(), 3*lineHeight)
	drawDialogFrame(dst, th, r, p.kind.title(), th.InfoAccent)
	field := image.Rect(r.Min.X+dialogPadding, r.Min.Y+lineHeight+dialogPadding, r.Max.X-dialogPadding, r.Min.Y+lineHeight+dialogPadding+lineHeight+4)
	draw.Draw(dst, field, &image.Uniform{th.InputBackground}, image.Point{}, draw.Src)
	strokeRect(dst, field, th.DialogBorder, 1)
	// Keep the end of long input visible.
	shown := p.value() + "|"
	for textWidth(shown) > field.Dx()-6 && len(shown) > 1 {
		_, size := utf8.DecodeRuneInString(shown)
		shown = shown[size:]
	}
	drawLabel(dst, image.Pt(field.Min.X+3, baselineIn(field)), shown, th.InputText)
	hint := image.Rect(0, field.Max.Y+4, 0, field.Max.Y+4+lineHeight)
	drawLabel(dst, image.Pt(r.Min.X+dialogPadding, baselineIn(hint)), "Enter to accept, Esc to cancel", th.DialogText)
}
