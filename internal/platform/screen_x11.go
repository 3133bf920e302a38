//go:build linux || freebsd || openbsd || netbsd || dragonfly

package platform

import (
	"errors"
	"image"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// ScreenSize returns the pixel size of the default X11 screen.
func ScreenSize() (image.Point, error) {
	if os.Getenv("DISPLAY") == "" {
		return image.Point{}, errors.New("DISPLAY is not set")
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return image.Point{}, err
	}
	defer conn.Close()
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return image.Pt(int(screen.WidthInPixels), int(screen.HeightInPixels)), nil
}
