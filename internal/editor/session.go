// Package editor holds the editing session: the current image buffer, the
// active edit mode and the pointer gesture state machine.
package editor

import (
	"errors"
	"fmt"
	"image"

	"github.com/example/pixedit/internal/camera"
	"github.com/example/pixedit/internal/imageops"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoImage is returned by edit actions when no image is loaded.
var ErrNoImage = errors.New("no image loaded")

// Mode selects how pointer drags are interpreted.
type Mode int

const (
	ModeFreeDraw Mode = iota
	ModeCircle
	ModeRectangle
)

func (m Mode) String() string {
	switch m {
	case ModeFreeDraw:
		return "free draw"
	case ModeCircle:
		return "circle"
	case ModeRectangle:
		return "rectangle"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name as printed by String, or a short alias.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "free draw", "free", "draw", "line":
		return ModeFreeDraw, nil
	case "circle":
		return ModeCircle, nil
	case "rectangle", "rect":
		return ModeRectangle, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func logger() *zerolog.Logger {
	l := log.With().Str("module", "editor").Logger()
	return &l
}

// gesture tracks a single pointer drag.
type gesture struct {
	start    image.Point
	last     image.Point
	snapshot *image.RGBA
}

// Session owns the image being edited. It is not safe for concurrent use;
// the UI drives it from a single event loop.
type Session struct {
	img      *image.RGBA
	preview  *image.RGBA
	mode     Mode
	drag     *gesture
	revision uint64
	path     string
}

// New returns an empty session in free-draw mode.
func New() *Session {
	return &Session{mode: ModeFreeDraw}
}

// Image returns the committed image buffer, or nil.
func (s *Session) Image() *image.RGBA { return s.img }

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool { return s.img != nil }

// Mode returns the active edit mode.
func (s *Session) Mode() Mode { return s.mode }

// Path returns the file the image was last loaded from or saved to.
func (s *Session) Path() string { return s.path }

// Dragging reports whether a pointer gesture is in progress.
func (s *Session) Dragging() bool { return s.drag != nil }

// Revision increases every time the displayed image changes.
func (s *Session) Revision() uint64 { return s.revision }

// Display returns the image to show: the shape preview while one is being
// dragged, the committed buffer otherwise.
func (s *Session) Display() *image.RGBA {
	if s.preview != nil {
		return s.preview
	}
	return s.img
}

// Info describes the current image for the status line.
func (s *Session) Info() string {
	if s.img == nil {
		return "No image"
	}
	b := s.img.Bounds()
	return fmt.Sprintf("Dimensions: %dx%d, channels: %d", b.Dx(), b.Dy(), imageops.Channels(s.img))
}

func (s *Session) touch() { s.revision++ }

// SetImage replaces the image buffer. Any gesture or preview is discarded.
func (s *Session) SetImage(img *image.RGBA) {
	s.img = img
	s.preview = nil
	s.drag = nil
	s.touch()
}

// Load replaces the image with the file at path. On failure the current
// image is kept.
func (s *Session) Load(path string) error {
	img, err := imageops.Load(path)
	if err != nil {
		return err
	}
	s.SetImage(img)
	s.path = path
	logger().Info().Str("path", path).Str("info", s.Info()).Msg("loaded image")
	return nil
}

// Capture replaces the image with a frame from camera index.
func (s *Session) Capture(open camera.Opener, index, warmup int) error {
	img, err := camera.Capture(open, index, warmup)
	if err != nil {
		return err
	}
	s.SetImage(img)
	s.path = ""
	logger().Info().Int("device", index).Str("info", s.Info()).Msg("captured image")
	return nil
}

// Save writes the committed image to path.
func (s *Session) Save(path string) error {
	if s.img == nil {
		return ErrNoImage
	}
	if err := imageops.Save(path, s.img); err != nil {
		return err
	}
	s.path = path
	logger().Info().Str("path", path).Msg("saved image")
	return nil
}

// Grayscale converts the image to gray while keeping its channel layout.
func (s *Session) Grayscale() error {
	if s.img == nil {
		return ErrNoImage
	}
	s.SetImage(imageops.Grayscale(s.img))
	return nil
}

// Mirror flips the image horizontally.
func (s *Session) Mirror() error {
	if s.img == nil {
		return ErrNoImage
	}
	s.SetImage(imageops.Mirror(s.img))
	return nil
}

// AddText renders text onto the image at the overlay position. Empty text is
// accepted and changes nothing.
func (s *Session) AddText(text string) error {
	if s.img == nil {
		return ErrNoImage
	}
	if text == "" {
		return nil
	}
	if err := imageops.Overlay(s.img, text); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetMode selects the edit mode used by later drags. The mode stays in
// effect across any number of shapes until changed again. A gesture in
// progress is cancelled; free-draw strokes already painted are kept.
func (s *Session) SetMode(m Mode) error {
	if s.img == nil {
		return ErrNoImage
	}
	s.Cancel()
	s.mode = m
	return nil
}

// Press starts a gesture at p, given in image coordinates.
func (s *Session) Press(p image.Point) {
	if s.img == nil {
		return
	}
	g := &gesture{start: p, last: p}
	if s.mode != ModeFreeDraw {
		g.snapshot = imageops.Clone(s.img)
	}
	s.drag = g
	s.preview = nil
}

// Move continues the gesture to p. Free drawing paints straight onto the
// image; shape modes only update the preview.
func (s *Session) Move(p image.Point) {
	if s.img == nil || s.drag == nil {
		return
	}
	switch s.mode {
	case ModeFreeDraw:
		imageops.DrawLine(s.img, s.drag.last, p, imageops.FreeDrawColor, imageops.StrokeWidth)
		s.drag.last = p
	default:
		s.preview = s.shape(p)
		s.drag.last = p
	}
	s.touch()
}

// Release ends the gesture at p. Shape modes commit the shape drawn from the
// start point to p.
func (s *Session) Release(p image.Point) {
	if s.img == nil || s.drag == nil {
		return
	}
	if s.mode != ModeFreeDraw {
		s.img = s.shape(p)
	}
	s.drag = nil
	s.preview = nil
	s.touch()
}

// Cancel abandons a gesture in progress, dropping any preview.
func (s *Session) Cancel() {
	if s.drag == nil {
		return
	}
	s.drag = nil
	if s.preview != nil {
		s.preview = nil
		s.touch()
	}
}

// shape renders the current mode's shape from the drag start to p on a copy
// of the snapshot taken at Press.
func (s *Session) shape(p image.Point) *image.RGBA {
	src := s.drag.snapshot
	if src == nil {
		src = s.img
	}
	out := imageops.Clone(src)
	switch s.mode {
	case ModeCircle:
		imageops.DrawCircle(out, s.drag.start, imageops.Radius(s.drag.start, p), imageops.CircleColor, imageops.StrokeWidth)
	case ModeRectangle:
		imageops.DrawRect(out, s.drag.start, p, imageops.RectangleColor, imageops.StrokeWidth)
	}
	return out
}
