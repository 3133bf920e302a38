package appstate

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/pixedit/internal/camera"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/imageops"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

var windowSize = image.Pt(defaultWidth, defaultHeight)

func newTestApp(t *testing.T, img *image.RGBA) *app {
	t.Helper()
	s := editor.New()
	if img != nil {
		s.SetImage(img)
	}
	a := newApp(s, nil)
	a.resize(windowSize)
	return a
}

// viewportImage fills the viewport exactly so window and image coordinates
// coincide.
func viewportImage(col color.RGBA) *image.RGBA {
	l := computeLayout(windowSize)
	return imageops.Blank(l.viewport.Dx(), l.viewport.Dy(), col)
}

func press(a *app, r rune, code key.Code, mods key.Modifiers) bool {
	return a.handleKey(key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress})
}

func typeText(a *app, s string) {
	for _, r := range s {
		press(a, r, 0, 0)
	}
}

func enter(a *app) { press(a, -1, key.CodeReturnEnter, 0) }

func click(a *app, p image.Point) {
	a.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func buttonAt(t *testing.T, a *app, label string) image.Point {
	t.Helper()
	for _, b := range a.buttons {
		if b.Button.(*ActionButton).label == label {
			return centre(b.Rect())
		}
	}
	t.Fatalf("no button %q", label)
	return image.Point{}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(image.Pt(800, 600))
	if l.viewport != image.Rect(0, 0, 800, 600-chromeHeight) {
		t.Fatalf("viewport = %v", l.viewport)
	}
	if l.status.Min.Y != l.viewport.Max.Y || l.status.Dy() != statusHeight {
		t.Fatalf("status = %v", l.status)
	}
	if l.rows[1].Max.Y > 600 {
		t.Fatalf("second row %v outside window", l.rows[1])
	}
	row1 := cells(l.rows[0], 6)
	row2 := cells(l.rows[1], 2)
	if row1[0].Dx() != row2[0].Dx() || row1[0].Min.X != row2[0].Min.X {
		t.Fatalf("rows not aligned: %v vs %v", row1[0], row2[0])
	}
	if row1[5].Max.X > l.rows[0].Max.X {
		t.Fatalf("last button %v overflows row %v", row1[5], l.rows[0])
	}
}

func TestInitialWindowSize(t *testing.T) {
	minH := minViewHeight + chromeHeight
	tests := []struct {
		screen, want image.Point
	}{
		{image.Point{}, image.Pt(800, 600)},
		{image.Pt(1920, 1080), image.Pt(800, 600)},
		{image.Pt(640, 480), image.Pt(640, 480)},
		{image.Pt(320, 200), image.Pt(minViewWidth, minH)},
	}
	for _, tc := range tests {
		if got := initialWindowSize(tc.screen); got != tc.want {
			t.Errorf("initialWindowSize(%v) = %v, want %v", tc.screen, got, tc.want)
		}
	}
}

func TestEditsWithoutImageWarn(t *testing.T) {
	for _, label := range []string{"Save", "Grayscale", "Mirror", "Add text", "Draw circle", "Draw rectangle"} {
		t.Run(label, func(t *testing.T) {
			a := newTestApp(t, nil)
			click(a, buttonAt(t, a, label))
			if a.msg == nil || a.msg.level != LevelWarning {
				t.Fatalf("expected warning, got %+v", a.msg)
			}
			if a.prompt != nil {
				t.Fatalf("prompt opened without image")
			}
			if a.session.HasImage() {
				t.Fatalf("image appeared")
			}
			enter(a)
			if a.msg != nil {
				t.Fatalf("warning not dismissed")
			}
		})
	}
}

func TestMessageSwallowsInput(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{200, 30, 30, 255}))
	a.show(LevelInfo, "hello")
	press(a, 'g', key.CodeG, 0)
	if c := a.session.Image().RGBAAt(0, 0); c.R != 200 || c.G != 30 {
		t.Fatalf("shortcut ran behind message box")
	}
	if quit := press(a, 'q', key.CodeQ, 0); quit {
		t.Fatalf("quit behind message box")
	}
	a.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if a.msg != nil {
		t.Fatalf("click did not dismiss message")
	}
	if a.session.Dragging() {
		t.Fatalf("dismissing click started a drag")
	}
}

func TestShortcuts(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{200, 30, 30, 255}))
	press(a, 'g', key.CodeG, 0)
	if c := a.session.Image().RGBAAt(0, 0); c.R != c.G || c.G != c.B {
		t.Fatalf("G did not grayscale: %v", c)
	}
	press(a, 'X', key.CodeX, key.ModShift)
	if a.session.Mode() != editor.ModeRectangle {
		t.Fatalf("X did not select rectangle: %v", a.session.Mode())
	}
	press(a, 'o', key.CodeO, 0)
	if a.session.Mode() != editor.ModeCircle {
		t.Fatalf("O did not select circle: %v", a.session.Mode())
	}
	press(a, 'b', key.CodeB, 0)
	if a.session.Mode() != editor.ModeFreeDraw {
		t.Fatalf("B did not select free draw: %v", a.session.Mode())
	}
	press(a, 0x13, key.CodeS, key.ModControl)
	if a.prompt == nil || a.prompt.kind != promptSave {
		t.Fatalf("Ctrl+S did not open save prompt")
	}
	press(a, -1, key.CodeEscape, 0)
	if a.prompt != nil {
		t.Fatalf("Escape did not close prompt")
	}
	press(a, 'o', key.CodeO, key.ModControl)
	if a.prompt == nil || a.prompt.kind != promptOpen {
		t.Fatalf("Ctrl+O did not open the open prompt")
	}
	press(a, -1, key.CodeEscape, 0)
	if !press(a, 'q', key.CodeQ, 0) {
		t.Fatalf("Q did not quit")
	}
}

func TestSavePrompt(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{10, 20, 30, 255}))
	dir := t.TempDir()
	a.saveDir = dir
	click(a, buttonAt(t, a, "Save"))
	if a.prompt == nil {
		t.Fatalf("no prompt")
	}
	if got, want := a.prompt.value(), filepath.Join(dir, defaultSaveName); got != want {
		t.Fatalf("default path %q, want %q", got, want)
	}
	enter(a)
	if a.msg == nil || a.msg.level != LevelInfo {
		t.Fatalf("expected info message, got %+v", a.msg)
	}
	if _, err := os.Stat(filepath.Join(dir, defaultSaveName)); err != nil {
		t.Fatalf("file not written: %v", err)
	}
	enter(a)

	a.output = ""
	a.ask(promptSave, "")
	typeText(a, filepath.Join(dir, "noext"))
	enter(a)
	if _, err := os.Stat(filepath.Join(dir, "noext.png")); err != nil {
		t.Fatalf("missing extension not defaulted to png: %v", err)
	}
	enter(a)

	a.ask(promptSave, "")
	typeText(a, filepath.Join(dir, "out.gif"))
	enter(a)
	if a.msg == nil || a.msg.level != LevelError {
		t.Fatalf("expected error for gif, got %+v", a.msg)
	}
	if !strings.Contains(a.msg.text, ".png") {
		t.Fatalf("error does not list formats: %q", a.msg.text)
	}
}

func TestOpenPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	if err := imageops.Save(path, imageops.Blank(32, 16, color.RGBA{1, 2, 3, 255})); err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, nil)
	press(a, 'o', key.CodeO, key.ModControl)
	typeText(a, path)
	enter(a)
	if a.msg != nil {
		t.Fatalf("unexpected message: %+v", a.msg)
	}
	if got, want := a.session.Info(), "Dimensions: 32x16, channels: 3"; got != want {
		t.Fatalf("Info = %q, want %q", got, want)
	}
	if !strings.Contains(a.statusText(), "Dimensions: 32x16") {
		t.Fatalf("status = %q", a.statusText())
	}

	a.ask(promptOpen, "")
	typeText(a, filepath.Join(dir, "missing.jpg"))
	enter(a)
	if a.msg == nil || a.msg.level != LevelError {
		t.Fatalf("expected error for missing file, got %+v", a.msg)
	}
	enter(a)

	a.ask(promptOpen, "")
	typeText(a, filepath.Join(dir, "doc.txt"))
	enter(a)
	if a.msg == nil || a.msg.level != LevelError {
		t.Fatalf("expected error for txt, got %+v", a.msg)
	}
	if a.session.Image().Bounds().Dx() != 32 {
		t.Fatalf("image replaced after failed open")
	}
}

func TestPromptEditing(t *testing.T) {
	orig := readClipboardText
	readClipboardText = func() (string, error) { return "pasted\nline", nil }
	t.Cleanup(func() { readClipboardText = orig })

	a := newTestApp(t, viewportImage(color.RGBA{255, 255, 255, 255}))
	press(a, 't', key.CodeT, 0)
	if a.prompt == nil || a.prompt.kind != promptText {
		t.Fatalf("T did not open text prompt")
	}
	typeText(a, "abc")
	press(a, -1, key.CodeDeleteBackspace, 0)
	press(a, 0x16, key.CodeV, key.ModControl)
	if got := a.prompt.value(); got != "abpastedline" {
		t.Fatalf("prompt = %q", got)
	}
}

func TestAddTextPrompt(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{255, 255, 255, 255}))
	before := imageops.Clone(a.session.Image())
	click(a, buttonAt(t, a, "Add text"))
	typeText(a, "Hello")
	enter(a)
	if a.prompt != nil || a.msg != nil {
		t.Fatalf("dialog left open")
	}
	changed := false
	for i := range before.Pix {
		if before.Pix[i] != a.session.Image().Pix[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatalf("text not drawn")
	}
}

func TestDragRectangleThroughViewport(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{255, 255, 255, 255}))
	click(a, buttonAt(t, a, "Draw rectangle"))
	if a.session.Mode() != editor.ModeRectangle {
		t.Fatalf("mode = %v", a.session.Mode())
	}
	before := imageops.Clone(a.session.Image())

	a.handleMouse(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: 300, Y: 250, Direction: mouse.DirNone})
	a.handleMouse(mouse.Event{X: 200, Y: 200, Direction: mouse.DirNone})
	for i := range before.Pix {
		if before.Pix[i] != a.session.Image().Pix[i] {
			t.Fatalf("buffer changed before release")
		}
	}
	a.handleMouse(mouse.Event{X: 200, Y: 200, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})

	img := a.session.Image()
	if img.RGBAAt(200, 150) != imageops.RectangleColor {
		t.Fatalf("right edge missing")
	}
	if img.RGBAAt(300, 175) == imageops.RectangleColor {
		t.Fatalf("intermediate preview committed")
	}
	// The mode stays selected for the next shape.
	if a.session.Mode() != editor.ModeRectangle {
		t.Fatalf("mode reset to %v", a.session.Mode())
	}
}

func TestModeShortcutDuringDragEndsGesture(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{255, 255, 255, 255}))
	a.handleMouse(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: 150, Y: 100, Direction: mouse.DirNone})

	press(a, 'o', key.CodeO, 0)
	if a.session.Mode() != editor.ModeCircle {
		t.Fatalf("mode = %v", a.session.Mode())
	}
	if a.dragging || a.session.Dragging() {
		t.Fatalf("drag still active after mode change")
	}
	a.handleMouse(mouse.Event{X: 200, Y: 200, Direction: mouse.DirNone})
	a.handleMouse(mouse.Event{X: 200, Y: 200, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})

	img := a.session.Image()
	if img.RGBAAt(125, 100) != imageops.FreeDrawColor {
		t.Fatalf("stroke drawn before the mode change was lost")
	}
	if a.session.Display() != img {
		t.Fatalf("a preview appeared after the gesture ended")
	}
}

func TestDragMapsThroughScaling(t *testing.T) {
	l := computeLayout(windowSize)
	img := imageops.Blank(l.viewport.Dx()*2, l.viewport.Dy()*2, color.RGBA{255, 255, 255, 255})
	a := newTestApp(t, img)
	a.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	a.handleMouse(mouse.Event{X: 20, Y: 10, Direction: mouse.DirNone})
	a.handleMouse(mouse.Event{X: 20, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if img.RGBAAt(30, 20) != imageops.FreeDrawColor {
		t.Fatalf("free draw not mapped to doubled coordinates")
	}
	if img.RGBAAt(15, 10) == imageops.FreeDrawColor {
		t.Fatalf("free draw used window coordinates")
	}
}

func TestPressOutsideViewportDoesNotDraw(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{255, 255, 255, 255}))
	p := centre(a.lay.status)
	a.handleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if a.session.Dragging() {
		t.Fatalf("drag started on the status line")
	}
}

func TestDisplayFollowsEdits(t *testing.T) {
	a := newTestApp(t, viewportImage(color.RGBA{200, 30, 30, 255}))
	dst := image.NewRGBA(image.Rectangle{Max: windowSize})
	a.paint(dst)
	at := centre(a.lay.viewport)
	if c := dst.RGBAAt(at.X, at.Y); c.R < 190 || c.G > 40 {
		t.Fatalf("display pixel = %v", c)
	}
	if err := a.session.Grayscale(); err != nil {
		t.Fatal(err)
	}
	a.paint(dst)
	if c := dst.RGBAAt(at.X, at.Y); c.R != c.G || c.G != c.B {
		t.Fatalf("display not regenerated after edit: %v", c)
	}

	a.resize(image.Pt(500, 500))
	small := image.NewRGBA(image.Rect(0, 0, 500, 500))
	a.paint(small)
	if a.display.Bounds().Size() != a.lay.viewport.Size() {
		t.Fatalf("display %v not resized to viewport %v", a.display.Bounds(), a.lay.viewport)
	}
}

func TestPaintWithoutImageUsesBackground(t *testing.T) {
	a := newTestApp(t, nil)
	dst := image.NewRGBA(image.Rectangle{Max: windowSize})
	a.paint(dst)
	at := centre(a.lay.viewport)
	if c := dst.RGBAAt(at.X, at.Y); c != a.theme.ViewportBackground {
		t.Fatalf("viewport pixel = %v, want %v", c, a.theme.ViewportBackground)
	}
	if got := a.statusText(); got != "No image" {
		t.Fatalf("status = %q", got)
	}
}

type stillCamera struct{ img image.Image }

func (c stillCamera) Read() (image.Image, bool) { return c.img, true }
func (c stillCamera) Close() error              { return nil }

func TestCaptureRunsOffLoopAndBlocksInput(t *testing.T) {
	a := newTestApp(t, nil)
	results := make(chan any, 1)
	a.post = func(e any) { results <- e }
	a.opener = func(int) (camera.Device, error) {
		return stillCamera{imageops.Blank(64, 48, color.RGBA{9, 9, 9, 255})}, nil
	}
	press(a, 0x0e, key.CodeN, key.ModControl)
	if a.busy == "" {
		t.Fatalf("capture did not mark the window busy")
	}
	if press(a, 'q', key.CodeQ, 0) {
		t.Fatalf("quit accepted during capture")
	}
	var ev any
	select {
	case ev = <-results:
	case <-time.After(5 * time.Second):
		t.Fatalf("capture did not finish")
	}
	a.finishCapture(ev.(captureResult))
	if a.busy != "" {
		t.Fatalf("still busy")
	}
	if got, want := a.session.Info(), "Dimensions: 64x48, channels: 3"; got != want {
		t.Fatalf("Info = %q, want %q", got, want)
	}
}

func TestCaptureFailureShowsError(t *testing.T) {
	a := newTestApp(t, nil)
	a.finishCapture(captureResult{err: camera.ErrNoFrame})
	if a.msg == nil || a.msg.level != LevelError {
		t.Fatalf("expected error message, got %+v", a.msg)
	}
	if a.session.HasImage() {
		t.Fatalf("image set after failed capture")
	}
}

func TestCopyAndPaste(t *testing.T) {
	var copied image.Image
	origWrite, origRead := writeClipboardImage, readClipboardImage
	writeClipboardImage = func(img image.Image) error { copied = img; return nil }
	readClipboardImage = func() (*image.RGBA, error) {
		return imageops.Blank(5, 7, color.RGBA{0, 0, 0, 255}), nil
	}
	t.Cleanup(func() {
		writeClipboardImage, readClipboardImage = origWrite, origRead
	})

	a := newTestApp(t, nil)
	press(a, 0x03, key.CodeC, key.ModControl)
	if a.msg == nil || a.msg.level != LevelWarning {
		t.Fatalf("copy without image should warn")
	}
	enter(a)

	press(a, 0x16, key.CodeV, key.ModControl)
	if got := a.session.Info(); got != "Dimensions: 5x7, channels: 3" {
		t.Fatalf("Info after paste = %q", got)
	}
	press(a, 0x03, key.CodeC, key.ModControl)
	if copied == nil || copied.Bounds().Dx() != 5 {
		t.Fatalf("image not copied")
	}

	readClipboardImage = func() (*image.RGBA, error) { return nil, errors.New("empty") }
	press(a, 0x16, key.CodeV, key.ModControl)
	if a.msg == nil || a.msg.level != LevelError {
		t.Fatalf("expected paste error")
	}
}

func TestWrap(t *testing.T) {
	w := textWidth("0123456789")
	lines := wrap("aaa bbb ccc 0123456789012345", w)
	for _, l := range lines {
		if textWidth(l) > w {
			t.Errorf("line %q wider than %d", l, w)
		}
	}
	if got := strings.Join(lines, "|"); got != "aaa bbb|ccc|0123456789|012345" {
		t.Fatalf("wrap = %q", got)
	}
}

type countingButton struct {
	ActionButton
	draws int
}

func (c *countingButton) Draw(dst *image.RGBA, state ButtonState) {
	c.draws++
	c.ActionButton.Draw(dst, state)
}

func TestCacheButtonRedrawsOnlyAfterResize(t *testing.T) {
	inner := &countingButton{ActionButton: ActionButton{label: "Open", rect: image.Rect(0, 0, 60, 20)}}
	inner.theme = newTestApp(t, nil).theme
	cb := &CacheButton{Button: inner}
	dst := image.NewRGBA(image.Rect(0, 0, 100, 40))
	cb.Draw(dst, StateDefault)
	cb.Draw(dst, StateDefault)
	if inner.draws != 1 {
		t.Fatalf("draws = %d, want 1", inner.draws)
	}
	cb.Draw(dst, StateHover)
	cb.SetRect(image.Rect(0, 0, 80, 20))
	cb.Draw(dst, StateDefault)
	if inner.draws != 3 {
		t.Fatalf("draws = %d, want 3", inner.draws)
	}
}
