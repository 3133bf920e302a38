//go:build linux || freebsd || openbsd || netbsd || dragonfly

package platform

import "testing"

func TestScreenSizeWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	if _, err := ScreenSize(); err == nil {
		t.Fatalf("expected error without DISPLAY")
	}
}
