package camera

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

type fakeDevice struct {
	frames []image.Image
	reads  int
	closed bool
}

func (f *fakeDevice) Read() (image.Image, bool) {
	if f.reads >= len(f.frames) {
		f.reads++
		return nil, false
	}
	img := f.frames[f.reads]
	f.reads++
	return img, img != nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

func solid(c uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{c, c, c, 255})
		}
	}
	return img
}

func TestCaptureKeepsLastWarmupFrame(t *testing.T) {
	dev := &fakeDevice{}
	for i := 0; i < DefaultWarmup; i++ {
		dev.frames = append(dev.frames, solid(uint8(i)))
	}
	img, err := Capture(func(idx int) (Device, error) {
		if idx != 0 {
			t.Fatalf("opened device %d, want 0", idx)
		}
		return dev, nil
	}, 0, DefaultWarmup)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if dev.reads != DefaultWarmup {
		t.Fatalf("reads = %d, want %d", dev.reads, DefaultWarmup)
	}
	if got := img.RGBAAt(0, 0).R; got != DefaultWarmup-1 {
		t.Fatalf("kept frame %d, want %d", got, DefaultWarmup-1)
	}
	if !dev.closed {
		t.Fatalf("device not released")
	}
}

func TestCaptureOpenFailure(t *testing.T) {
	sentinel := errors.New("busy")
	_, err := Capture(func(int) (Device, error) { return nil, sentinel }, 0, DefaultWarmup)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}

func TestCaptureNoFrame(t *testing.T) {
	dev := &fakeDevice{frames: []image.Image{solid(1)}}
	_, err := Capture(func(int) (Device, error) { return dev, nil }, 0, 3)
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
	if !dev.closed {
		t.Fatalf("device not released after failure")
	}
}
