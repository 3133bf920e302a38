// Package platform wraps the host desktop services the editor talks to.
package platform

// AppName identifies the application to the desktop.
const AppName = "PixEdit"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}
