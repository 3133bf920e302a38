package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/pixedit/internal/camera"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/imageops"
)

// openCamera opens capture devices; nil selects camera.DefaultOpener.
var openCamera camera.Opener

// captureCmd saves one camera frame to a file.
type captureCmd struct {
	*root
	fs          *flag.FlagSet
	device      int
	warmup      int
	output      string
	toClipboard bool
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	c := &captureCmd{root: r.subcommand("capture"), fs: fs}
	cfg := c.settings()
	fs.Usage = usageFunc(c)
	fs.IntVar(&c.device, "device", cfg.Camera.Device, "camera device index")
	fs.IntVar(&c.warmup, "warmup", cfg.Camera.Warmup, "frames to read before keeping one")
	fs.StringVar(&c.output, "output", "", "output file path")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "also copy the frame to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case fs.NArg() == 0:
	case fs.NArg() == 1 && c.output == "":
		c.output = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	if c.output == "" {
		return nil, fmt.Errorf("output file is required")
	}
	if c.device < 0 {
		return nil, fmt.Errorf("device must be zero or greater")
	}
	if c.warmup < 1 {
		return nil, fmt.Errorf("warmup must be at least 1")
	}
	c.output = imageops.SavePath(c.output)
	if !imageops.CanSave(c.output) {
		return nil, fmt.Errorf("%s: %w (use %s)", c.output, imageops.ErrUnsupportedFormat, strings.Join(imageops.SaveExtensions, " "))
	}
	return c, nil
}

func (c *captureCmd) Run() error {
	s := editor.New()
	if err := s.Capture(openCamera, c.device, c.warmup); err != nil {
		return fmt.Errorf("capture camera %d: %w", c.device, err)
	}
	detail := fmt.Sprintf("camera %d", c.device)
	c.notifyCapture(detail, s.Image())
	if err := s.Save(c.output); err != nil {
		return fmt.Errorf("save %s: %w", c.output, err)
	}
	saved := c.output
	if abs, err := filepath.Abs(c.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s (%s)\n", saved, s.Info())
	c.notifySave(saved)
	if c.toClipboard {
		if err := writeClipboardImage(s.Image()); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		c.notifyCopy(detail)
	}
	return nil
}
