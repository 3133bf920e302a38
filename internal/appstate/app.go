package appstate

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/example/pixedit/internal/camera"
	"github.com/example/pixedit/internal/clipboard"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/imageops"
	"github.com/example/pixedit/internal/notify"
	"github.com/example/pixedit/internal/theme"
	"github.com/example/pixedit/internal/viewport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

// Clipboard access, replaced in tests.
var (
	writeClipboardImage = clipboard.WriteImage
	readClipboardImage  = clipboard.ReadImage
	readClipboardText   = clipboard.ReadText
)

// noteDuration is how long transient notes stay on the status line.
const noteDuration = 3 * time.Second

const defaultSaveName = "edited.png"

func logger() *zerolog.Logger {
	l := log.With().Str("module", "appstate").Logger()
	return &l
}

// captureResult carries a finished camera capture back to the event loop.
type captureResult struct {
	img *image.RGBA
	err error
}

// app holds everything the event loop touches. All methods run on the event
// loop; only the camera read happens elsewhere and reports back through post.
type app struct {
	session  *editor.Session
	theme    *theme.Theme
	notifier *notify.Notifier
	opener   camera.Opener
	device   int
	warmup   int
	saveDir  string
	output   string

	lay     layout
	buttons []*CacheButton
	hover   int
	pressed int
	shorts  map[KeyShortcut]func()

	prompt    *prompt
	msg       *message
	busy      string
	note      string
	noteUntil time.Time
	dragging  bool
	dirty     bool

	display      *image.RGBA
	displayRev   uint64
	displayValid bool

	now  func() time.Time
	post func(any)
}

func newApp(s *editor.Session, th *theme.Theme) *app {
	if th == nil {
		th = theme.Default()
	}
	a := &app{
		session: s,
		theme:   th,
		warmup:  camera.DefaultWarmup,
		hover:   -1,
		pressed: -1,
		now:     time.Now,
		post:    func(any) {},
	}
	a.buildButtons()
	a.buildShortcuts()
	return a
}

func (a *app) buildButtons() {
	mode := func(m editor.Mode) func() bool {
		return func() bool { return a.session.HasImage() && a.session.Mode() == m }
	}
	specs := []*ActionButton{
		{label: "Open", onActivate: a.open},
		{label: "Capture", onActivate: a.capture},
		{label: "Save", onActivate: a.save},
		{label: "Grayscale", onActivate: a.grayscale},
		{label: "Mirror", onActivate: a.mirror},
		{label: "Add text", onActivate: a.addText},
		{label: "Draw circle", onActivate: func() { a.setMode(editor.ModeCircle) }, on: mode(editor.ModeCircle)},
		{label: "Draw rectangle", onActivate: func() { a.setMode(editor.ModeRectangle) }, on: mode(editor.ModeRectangle)},
	}
	a.buttons = a.buttons[:0]
	for _, b := range specs {
		b.theme = a.theme
		a.buttons = append(a.buttons, &CacheButton{Button: b})
	}
}

func (a *app) buildShortcuts() {
	a.shorts = map[KeyShortcut]func(){}
	register := func(keys KeyboardShortcuts, fn func()) {
		for _, sc := range keys.KeyboardShortcuts() {
			a.shorts[sc] = fn
		}
	}
	register(shortcutList{{Rune: 'o', Modifiers: key.ModControl}}, a.open)
	register(shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, a.capture)
	register(shortcutList{{Rune: 's', Modifiers: key.ModControl}}, a.save)
	register(shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, a.copyImage)
	register(shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, a.pasteImage)
	register(shortcutList{{Rune: 'g'}}, a.grayscale)
	register(shortcutList{{Rune: 'm'}}, a.mirror)
	register(shortcutList{{Rune: 't'}}, a.addText)
	register(shortcutList{{Rune: 'o'}}, func() { a.setMode(editor.ModeCircle) })
	register(shortcutList{{Rune: 'x'}}, func() { a.setMode(editor.ModeRectangle) })
	register(shortcutList{{Rune: 'b'}}, func() { a.setMode(editor.ModeFreeDraw) })
}

// resize lays the window out for size and invalidates the display buffer.
func (a *app) resize(size image.Point) {
	a.lay = computeLayout(size)
	var rects []image.Rectangle
	rects = append(rects, cells(a.lay.rows[0], buttonCols)...)
	rects = append(rects, cells(a.lay.rows[1], len(a.buttons)-buttonCols)...)
	for i, b := range a.buttons {
		b.SetRect(rects[i])
	}
	a.displayValid = false
	a.dirty = true
}

// modal reports whether a dialog or capture is blocking normal input.
func (a *app) modal() bool { return a.prompt != nil || a.msg != nil || a.busy != "" }

// handleKey processes a key event and reports whether the window should
// close.
func (a *app) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	switch {
	case a.busy != "":
		return false
	case a.msg != nil:
		if e.Direction == key.DirPress && (e.Code == key.CodeReturnEnter || e.Code == key.CodeKeypadEnter || e.Code == key.CodeEscape || e.Code == key.CodeSpacebar) {
			a.msg = nil
			a.dirty = true
		}
		return false
	case a.prompt != nil:
		a.promptKey(e)
		return false
	}
	if e.Direction != key.DirPress {
		return false
	}
	mods := e.Modifiers & (key.ModControl | key.ModAlt | key.ModMeta)
	r := shortcutRune(e)
	if mods == 0 && r == 'q' {
		return true
	}
	for _, ks := range []KeyShortcut{
		{Rune: r, Modifiers: mods},
		{Code: e.Code, Modifiers: mods},
	} {
		if ks.Rune == 0 && ks.Code == 0 {
			continue
		}
		if fn, ok := a.shorts[ks]; ok {
			fn()
			a.dirty = true
			return false
		}
	}
	return false
}

// shortcutRune recovers the letter of a control chord whose rune the driver
// reported as a control character.
func shortcutRune(e key.Event) rune {
	if e.Rune > 0 && !unicode.IsControl(e.Rune) {
		return unicode.ToLower(e.Rune)
	}
	if e.Code >= key.CodeA && e.Code <= key.CodeZ {
		return 'a' + rune(e.Code-key.CodeA)
	}
	return 0
}

func (a *app) promptKey(e key.Event) {
	a.dirty = true
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if e.Direction == key.DirPress {
			p := a.prompt
			a.prompt = nil
			a.accept(p)
		}
		return
	case key.CodeEscape:
		a.prompt = nil
		return
	case key.CodeDeleteBackspace:
		a.prompt.backspace()
		return
	}
	if e.Modifiers&key.ModControl != 0 {
		if shortcutRune(e) == 'v' && e.Direction == key.DirPress {
			text, err := readClipboardText()
			if err != nil {
				logger().Debug().Err(err).Msg("paste text")
				return
			}
			a.prompt.insert(text)
		}
		return
	}
	if e.Rune > 0 {
		a.prompt.insert(string(e.Rune))
	}
}

// handleMouse routes pointer events to dialogs, buttons or the viewport.
func (a *app) handleMouse(e mouse.Event) {
	p := image.Pt(int(e.X), int(e.Y))
	leftPress := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	switch {
	case a.busy != "", a.prompt != nil:
		return
	case a.msg != nil:
		if leftPress {
			a.msg = nil
			a.dirty = true
		}
		return
	}

	hover := -1
	for i, b := range a.buttons {
		if p.In(b.Rect()) {
			hover = i
			break
		}
	}
	if hover != a.hover {
		a.hover = hover
		a.dirty = true
	}
	if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease && a.pressed >= 0 {
		a.pressed = -1
		a.dirty = true
	}

	switch {
	case a.dragging && e.Direction == mouse.DirNone:
		a.session.Move(a.toImage(p))
		a.dirty = true
	case a.dragging && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		a.dragging = false
		a.session.Release(a.toImage(p))
		a.dirty = true
	case leftPress && hover >= 0:
		a.pressed = hover
		a.buttons[hover].Activate()
		a.dirty = true
	case leftPress && p.In(a.lay.viewport) && a.session.HasImage():
		a.dragging = true
		a.session.Press(a.toImage(p))
		a.dirty = true
	}
}

// toImage maps a window position into image coordinates.
func (a *app) toImage(p image.Point) image.Point {
	var orig image.Point
	if img := a.session.Image(); img != nil {
		orig = img.Bounds().Size()
	}
	m := viewport.NewMapper(a.lay.viewport.Size(), orig)
	return m.ToImage(p.Sub(a.lay.viewport.Min))
}

// stopDrag abandons any gesture so a dialog can take over input.
func (a *app) stopDrag() {
	if a.dragging {
		a.dragging = false
		a.session.Cancel()
	}
}

func (a *app) show(level Level, text string) {
	a.stopDrag()
	a.msg = &message{level: level, text: text}
	a.dirty = true
}

func (a *app) ask(kind promptKind, initial string) {
	a.stopDrag()
	a.prompt = newPrompt(kind, initial)
	a.dirty = true
}

func (a *app) setNote(text string) {
	a.note = text
	a.noteUntil = a.now().Add(noteDuration)
	a.dirty = true
}

// fail reports err: a missing image is a warning, anything else an error.
func (a *app) fail(action string, err error) {
	if errors.Is(err, editor.ErrNoImage) {
		logger().Warn().Str("action", action).Msg("no image loaded")
		a.show(LevelWarning, "No image loaded. Open or capture an image first.")
		return
	}
	logger().Error().Err(err).Str("action", action).Msg("action failed")
	a.show(LevelError, fmt.Sprintf("%s failed: %v", action, err))
}

func (a *app) requireImage(action string) bool {
	if a.session.HasImage() {
		return true
	}
	a.fail(action, editor.ErrNoImage)
	return false
}

func (a *app) open() {
	initial := ""
	if a.saveDir != "" {
		initial = strings.TrimSuffix(a.saveDir, string(filepath.Separator)) + string(filepath.Separator)
	}
	a.ask(promptOpen, initial)
}

func (a *app) capture() {
	a.stopDrag()
	a.busy = fmt.Sprintf("Capturing from camera %d...", a.device)
	a.dirty = true
	open, device, warmup := a.opener, a.device, a.warmup
	go func() {
		img, err := camera.Capture(open, device, warmup)
		a.post(captureResult{img: img, err: err})
	}()
}

func (a *app) finishCapture(r captureResult) {
	a.busy = ""
	a.dirty = true
	if r.err != nil {
		a.fail("Capture", r.err)
		return
	}
	a.session.SetImage(r.img)
	a.setNote("Captured image from camera")
	a.notifier.Capture(fmt.Sprintf("camera %d", a.device), r.img)
}

func (a *app) save() {
	if !a.requireImage("Save") {
		return
	}
	a.ask(promptSave, a.defaultSavePath())
}

func (a *app) defaultSavePath() string {
	if p := a.session.Path(); p != "" && imageops.CanSave(p) {
		return p
	}
	if a.output != "" {
		return a.output
	}
	if a.saveDir != "" {
		return filepath.Join(a.saveDir, defaultSaveName)
	}
	return defaultSaveName
}

func (a *app) grayscale() {
	if err := a.session.Grayscale(); err != nil {
		a.fail("Grayscale", err)
	}
}

func (a *app) mirror() {
	if err := a.session.Mirror(); err != nil {
		a.fail("Mirror", err)
	}
}

func (a *app) addText() {
	if !a.requireImage("Add text") {
		return
	}
	a.ask(promptText, "")
}

func (a *app) setMode(m editor.Mode) {
	a.stopDrag()
	if err := a.session.SetMode(m); err != nil {
		a.fail("Draw "+m.String(), err)
		return
	}
	a.setNote("Mode: " + m.String())
}

func (a *app) copyImage() {
	if !a.requireImage("Copy") {
		return
	}
	if err := writeClipboardImage(a.session.Image()); err != nil {
		a.fail("Copy", err)
		return
	}
	a.setNote("Image copied to clipboard")
	a.notifier.Copy("image")
}

func (a *app) pasteImage() {
	img, err := readClipboardImage()
	if err != nil {
		a.fail("Paste", err)
		return
	}
	a.session.SetImage(img)
	a.setNote("Pasted image from clipboard")
}

// accept runs the action a prompt was opened for. Blank paths cancel.
func (a *app) accept(p *prompt) {
	switch p.kind {
	case promptText:
		if err := a.session.AddText(p.value()); err != nil {
			a.fail("Add text", err)
		}
	case promptOpen:
		path := expandHome(strings.TrimSpace(p.value()))
		if path == "" {
			return
		}
		if !imageops.CanOpen(path) {
			a.fail("Open", fmt.Errorf("%w: use one of %s", imageops.ErrUnsupportedFormat, strings.Join(imageops.OpenExtensions, " ")))
			return
		}
		if err := a.session.Load(path); err != nil {
			a.fail("Open", err)
			return
		}
		a.setNote("Opened " + filepath.Base(path))
	case promptSave:
		path := expandHome(strings.TrimSpace(p.value()))
		if path == "" {
			return
		}
		path = imageops.SavePath(path)
		if !imageops.CanSave(path) {
			a.fail("Save", fmt.Errorf("%w: use one of %s", imageops.ErrUnsupportedFormat, strings.Join(imageops.SaveExtensions, " ")))
			return
		}
		if err := a.session.Save(path); err != nil {
			a.fail("Save", err)
			return
		}
		a.show(LevelInfo, "Image saved to "+path)
		a.notifier.Save(path)
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~"+string(filepath.Separator))
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// statusText is the line shown under the viewport.
func (a *app) statusText() string {
	parts := []string{a.session.Info()}
	if a.session.HasImage() {
		parts = append(parts, "Mode: "+a.session.Mode().String())
	}
	switch {
	case a.busy != "":
		parts = append(parts, a.busy)
	case a.note != "" && a.now().Before(a.noteUntil):
		parts = append(parts, a.note)
	}
	return strings.Join(parts, "   |   ")
}

// refreshDisplay regenerates the scaled display buffer when the image or the
// viewport size changed since it was last drawn.
func (a *app) refreshDisplay() {
	vp := a.lay.viewport.Size()
	if vp.X <= 0 || vp.Y <= 0 {
		a.display = nil
		return
	}
	rev := a.session.Revision()
	if a.displayValid && a.display != nil && a.display.Bounds().Size() == vp && a.displayRev == rev {
		return
	}
	if a.display == nil || a.display.Bounds().Size() != vp {
		a.display = image.NewRGBA(image.Rectangle{Max: vp})
	}
	var src image.Image
	if d := a.session.Display(); d != nil {
		src = d
	}
	viewport.Render(a.display, src, a.theme.ViewportBackground)
	a.displayRev = rev
	a.displayValid = true
}

// paint draws the whole window into dst.
func (a *app) paint(dst *image.RGBA) {
	th := a.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	a.refreshDisplay()
	if a.display != nil {
		draw.Draw(dst, a.lay.viewport, a.display, image.Point{}, draw.Src)
	}

	draw.Draw(dst, a.lay.status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	drawLabel(dst, image.Pt(a.lay.status.Min.X+buttonGap, baselineIn(a.lay.status)), a.statusText(), th.StatusText)

	for i, b := range a.buttons {
		state := StateDefault
		if ab, ok := b.Button.(*ActionButton); ok && ab.isOn() {
			state = StateOn
		}
		if i == a.hover && !a.modal() {
			state = StateHover
			if i == a.pressed {
				state = StatePressed
			}
		}
		b.Draw(dst, state)
	}

	switch {
	case a.msg != nil:
		drawMessage(dst, th, a.msg)
	case a.prompt != nil:
		drawPrompt(dst, th, a.prompt)
	}
}
