// Package appstate runs the editor window: an image viewport, a status line
// and two rows of action buttons on top of a shiny event loop.
package appstate

import (
	"image"
	"sync"

	"github.com/example/pixedit/internal/camera"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/notify"
	"github.com/example/pixedit/internal/platform"
	"github.com/example/pixedit/internal/theme"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// ProgramTitle is the window title prefix.
const ProgramTitle = "PixEdit"

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *editor.Session
	Output   string
	SaveDir  string
	Theme    *theme.Theme
	Notifier *notify.Notifier
	Opener   camera.Opener
	Device   int
	Warmup   int
	Title    string

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the editing session shown in the window.
func WithSession(s *editor.Session) Option { return func(a *AppState) { a.Session = s } }

// WithOutput sets the path offered when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory the open and save prompts start in.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTheme sets the colour palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier used after save, capture and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithCamera selects the capture device and warm-up frame count.
func WithCamera(device, warmup int) Option {
	return func(a *AppState) {
		a.Device = device
		a.Warmup = warmup
	}
}

// WithOpener replaces the camera opener.
func WithOpener(o camera.Opener) Option { return func(a *AppState) { a.Opener = o } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Warmup: camera.DefaultWarmup,
		Title:  ProgramTitle,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = editor.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) newApp() *app {
	ap := newApp(a.Session, a.Theme)
	ap.notifier = a.Notifier
	ap.opener = a.Opener
	ap.device = a.Device
	if a.Warmup > 0 {
		ap.warmup = a.Warmup
	}
	ap.saveDir = a.SaveDir
	ap.output = a.Output
	return ap
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed or Q is pressed.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	screenSize, err := platform.ScreenSize()
	if err != nil {
		logger().Debug().Err(err).Msg("screen size unavailable")
	}
	winSize := initialWindowSize(screenSize)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: a.Title})
	if err != nil {
		logger().Error().Err(err).Msg("new window")
		return
	}
	defer w.Release()

	ap := a.newApp()
	ap.post = w.Send
	ap.resize(winSize)

	var buf screen.Buffer
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			ap.resize(image.Pt(e.WidthPx, e.HeightPx))
		case paint.Event:
			sz := ap.lay.size
			if sz.X <= 0 || sz.Y <= 0 {
				continue
			}
			if buf == nil || buf.Size() != sz {
				if buf != nil {
					buf.Release()
				}
				buf, err = s.NewBuffer(sz)
				if err != nil {
					logger().Error().Err(err).Msg("new buffer")
					buf = nil
					continue
				}
			}
			ap.paint(buf.RGBA())
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()
		case key.Event:
			if ap.handleKey(e) {
				return
			}
		case mouse.Event:
			ap.handleMouse(e)
		case captureResult:
			ap.finishCapture(e)
		case error:
			logger().Error().Err(e).Msg("window event")
		}
		if ap.dirty {
			ap.dirty = false
			w.Send(paint.Event{})
		}
	}
}
