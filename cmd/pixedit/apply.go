package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/pixedit/internal/clipboard"
	"github.com/example/pixedit/internal/editor"
	"github.com/example/pixedit/internal/imageops"
	"github.com/example/pixedit/internal/theme"
)

var (
	readClipboardImage  = clipboard.ReadImage
	writeClipboardImage = clipboard.WriteImage
)

// applyCmd performs one edit on an image file without opening a window.
type applyCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         int
	op            string
	coords        []int
	text          string
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func expectInts(args []string, n int, op string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments, got %d", op, n, len(args))
	}
	out := make([]int, n)
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", op, s)
		}
		out[i] = v
	}
	return out, nil
}

// defaultColor is the colour the editor window uses for op.
func defaultColor(op string) color.RGBA {
	switch op {
	case "circle":
		return imageops.CircleColor
	case "rect":
		return imageops.RectangleColor
	case "text":
		return imageops.TextColor
	}
	return imageops.FreeDrawColor
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	a := &applyCmd{root: r.subcommand("apply"), fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "input image file")
	fs.StringVar(&a.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&a.colorSpec, "color", "", "stroke or text color name or hex value (defaults to the editor's colour for the operation)")
	fs.IntVar(&a.width, "width", imageops.StrokeWidth, "stroke width in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positionals := fs.Args()
	if len(positionals) < 1 {
		return nil, &UsageError{of: a}
	}
	a.op = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	var err error
	switch a.op {
	case "grayscale", "gray", "grey":
		a.op = "grayscale"
		err = noArgs(remaining, a.op)
	case "mirror", "flip":
		a.op = "mirror"
		err = noArgs(remaining, a.op)
	case "line", "rect":
		a.coords, err = expectInts(remaining, 4, a.op)
	case "circle":
		a.coords, err = expectInts(remaining, 3, a.op)
		if err == nil && a.coords[2] < 0 {
			err = fmt.Errorf("circle radius cannot be negative")
		}
	case "text":
		a.text = strings.Join(remaining, " ")
		if strings.TrimSpace(a.text) == "" {
			err = fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported operation %q", a.op)
	}
	if err != nil {
		return nil, err
	}
	a.color = defaultColor(a.op)
	if a.colorSpec != "" {
		if a.color, err = theme.ParseColor(strings.TrimSpace(a.colorSpec)); err != nil {
			return nil, err
		}
	}
	if a.fromClipboard {
		if a.output == "" {
			if a.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			a.output = a.file
		}
	} else {
		if a.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if a.output == "" {
			a.output = a.file
		}
	}
	a.output = imageops.SavePath(a.output)
	if !imageops.CanSave(a.output) {
		return nil, fmt.Errorf("%s: %w (use %s)", a.output, imageops.ErrUnsupportedFormat, strings.Join(imageops.SaveExtensions, " "))
	}
	if a.width < 1 {
		a.width = 1
	}
	return a, nil
}

func noArgs(args []string, op string) error {
	if len(args) != 0 {
		return fmt.Errorf("%s takes no arguments", op)
	}
	return nil
}

func (a *applyCmd) Run() error {
	s := editor.New()
	if err := a.loadSource(s); err != nil {
		return err
	}
	if err := a.applyTo(s); err != nil {
		return fmt.Errorf("apply %s: %w", a.op, err)
	}
	if err := s.Save(a.output); err != nil {
		return fmt.Errorf("save %s: %w", a.output, err)
	}
	saved := a.output
	if abs, err := filepath.Abs(a.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	a.notifySave(saved)
	if a.toClipboard {
		if err := writeClipboardImage(s.Image()); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		detail := filepath.Base(a.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		a.notifyCopy(detail)
	}
	return nil
}

func (a *applyCmd) loadSource(s *editor.Session) error {
	if a.fromClipboard {
		img, err := readClipboardImage()
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		if img == nil || img.Bounds().Empty() {
			return fmt.Errorf("read clipboard image: %w", imageops.ErrEmptyImage)
		}
		s.SetImage(img)
		return nil
	}
	if err := s.Load(a.file); err != nil {
		return fmt.Errorf("open %s: %w", a.file, err)
	}
	return nil
}

func (a *applyCmd) applyTo(s *editor.Session) error {
	switch a.op {
	case "grayscale":
		return s.Grayscale()
	case "mirror":
		return s.Mirror()
	}
	img := s.Image()
	if img == nil {
		return editor.ErrNoImage
	}
	c := a.coords
	switch a.op {
	case "text":
		return imageops.DrawText(img, imageops.OverlayOrigin(img), a.text, a.color, imageops.OverlaySize)
	case "circle":
		imageops.DrawCircle(img, image.Pt(c[0], c[1]), c[2], a.color, a.width)
	case "rect":
		imageops.DrawRect(img, image.Pt(c[0], c[1]), image.Pt(c[2], c[3]), a.color, a.width)
	case "line":
		imageops.DrawLine(img, image.Pt(c[0], c[1]), image.Pt(c[2], c[3]), a.color, a.width)
	default:
		return errors.New("unknown operation")
	}
	return nil
}
