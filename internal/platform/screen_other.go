//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package platform

import (
	"errors"
	"image"
)

// ScreenSize is not available on this platform.
func ScreenSize() (image.Point, error) {
	return image.Point{}, errors.New("screen size is not available on this platform")
}
