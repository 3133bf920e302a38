//go:build cgo

package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultOpener opens a device through OpenCV.
var DefaultOpener Opener = openCV

type cvDevice struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

func openCV(index int) (Device, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, err
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("device %d not opened", index)
	}
	return &cvDevice{vc: vc, mat: gocv.NewMat()}, nil
}

func (d *cvDevice) Read() (image.Image, bool) {
	if !d.vc.Read(&d.mat) || d.mat.Empty() {
		return nil, false
	}
	img, err := d.mat.ToImage()
	if err != nil {
		logger().Warn().Err(err).Msg("convert frame")
		return nil, false
	}
	return img, true
}

func (d *cvDevice) Close() error {
	if err := d.mat.Close(); err != nil {
		_ = d.vc.Close()
		return err
	}
	return d.vc.Close()
}
