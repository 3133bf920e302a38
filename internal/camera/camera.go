// Package camera grabs still frames from a video capture device.
package camera

import (
	"errors"
	"fmt"
	"image"

	"github.com/example/pixedit/internal/imageops"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultWarmup is the number of frames read before keeping one so the
// device's auto exposure can settle.
const DefaultWarmup = 10

var (
	// ErrOpen is returned when the capture device cannot be opened.
	ErrOpen = errors.New("cannot open camera")
	// ErrNoFrame is returned when the device did not deliver a frame.
	ErrNoFrame = errors.New("camera returned no frame")
)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "camera").Logger()
	return &l
}

// Device is an open capture device.
type Device interface {
	// Read grabs the next frame. ok is false when no frame was produced.
	Read() (img image.Image, ok bool)
	Close() error
}

// Opener opens the capture device with the given index.
type Opener func(index int) (Device, error)

// Capture opens device index, discards warmup-1 frames and returns the last
// one read. The device is always closed before returning. Capture blocks for
// as long as the device takes to open and deliver frames.
func Capture(open Opener, index, warmup int) (*image.RGBA, error) {
	if open == nil {
		open = DefaultOpener
	}
	if warmup < 1 {
		warmup = 1
	}
	dev, err := open(index)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrOpen, index, err)
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			logger().Warn().Err(cerr).Int("device", index).Msg("close camera")
		}
	}()

	var (
		frame image.Image
		ok    bool
	)
	for i := 0; i < warmup; i++ {
		frame, ok = dev.Read()
	}
	if !ok || frame == nil || frame.Bounds().Empty() {
		return nil, ErrNoFrame
	}
	rgba := imageops.ToRGBA(frame)
	imageops.Opaque(rgba)
	logger().Debug().Int("device", index).Int("width", rgba.Bounds().Dx()).Int("height", rgba.Bounds().Dy()).Msg("captured frame")
	return rgba, nil
}
