// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pixedit/internal/config"
	"github.com/example/pixedit/internal/imageops"
	"github.com/example/pixedit/internal/platform"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture fires when a camera frame replaces the image.
	EventCapture Event = "capture"
	// EventSave fires when the image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when the image is placed on the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification text, loaded from the environment.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Templates: map[Event]string{
			EventCapture: "Captured %s",
			EventSave:    "Saved %s",
			EventCopy:    "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies PIXEDIT_NOTIFY_* overrides to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PIXEDIT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range map[Event]string{
		EventCapture: "PIXEDIT_NOTIFY_CAPTURE_TEXT",
		EventSave:    "PIXEDIT_NOTIFY_SAVE_TEXT",
		EventCopy:    "PIXEDIT_NOTIFY_COPY_TEXT",
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

// send is swapped out by tests.
var send = platform.Notify

func logger() *zerolog.Logger {
	l := log.With().Str("module", "notify").Logger()
	return &l
}

// Notifier sends desktop notifications for the enabled events. A nil
// Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with the given text and the events switched on in
// settings.
func New(prefs Preferences, settings config.Notify) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled: make(map[Event]bool),
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	n.enabled[EventCapture] = settings.Capture
	n.enabled[EventSave] = settings.Save
	n.enabled[EventCopy] = settings.Copy
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event produces a notification.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Capture announces a camera capture, attaching a preview of img.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.Enabled(EventCapture) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := writePreview(img)
		if err != nil {
			logger().Warn().Err(err).Msg("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save announces a written file, using it as the icon when it exists.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

// Body formats the message text for event.
func (n *Notifier) Body(event Event, detail string) string {
	if n == nil {
		return ""
	}
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return ""
	}
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	body := n.Body(event, detail)
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		logger().Warn().Err(err).Str("event", string(event)).Msg("notification failed")
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pixedit-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := imageops.Encode(f, img, ".png"); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger().Warn().Err(err).Str("path", path).Msg("remove preview")
		}
	}
	return path, cleanup, nil
}
