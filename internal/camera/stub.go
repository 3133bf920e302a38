//go:build !cgo

package camera

import "errors"

// DefaultOpener reports that camera access needs a cgo build.
var DefaultOpener Opener = func(int) (Device, error) {
	return nil, errors.New("camera capture requires cgo support")
}
