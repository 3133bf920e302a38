package imageops

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnsupportedFormat is returned for file extensions PixEdit cannot
	// read or write.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrEmptyImage is returned when a file decodes to an image without pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// OpenExtensions lists the extensions accepted when opening files.
var OpenExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// SaveExtensions lists the extensions offered when saving files.
var SaveExtensions = []string{".jpg", ".png", ".bmp"}

// JPEGQuality is the encoder quality used for .jpg output.
const JPEGQuality = 95

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// CanOpen reports whether path has an extension Load understands.
func CanOpen(path string) bool {
	return slices.Contains(OpenExtensions, ext(path))
}

// CanSave reports whether path has an extension Save understands.
func CanSave(path string) bool {
	e := ext(path)
	return e == ".jpeg" || slices.Contains(SaveExtensions, e)
}

// SavePath appends .png when path carries no extension.
func SavePath(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".png"
	}
	return path
}

// codecFormat maps an accepted extension to its imaging format.
func codecFormat(e string) (imaging.Format, error) {
	if !slices.Contains(OpenExtensions, e) {
		return 0, ErrUnsupportedFormat
	}
	f, err := imaging.FormatFromExtension(e)
	if err != nil {
		return 0, ErrUnsupportedFormat
	}
	return f, nil
}

// Load decodes the image stored at path into an opaque RGBA buffer. Alpha is
// discarded the way a three channel colour read would. JPEG EXIF orientation
// is applied.
func Load(path string) (*image.RGBA, error) {
	if !CanOpen(path) {
		return nil, fmt.Errorf("open %s: %w", path, ErrUnsupportedFormat)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	rgba, err := opaqueRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Debug().Str("module", "imageops").Str("path", path).Int("width", rgba.Bounds().Dx()).Int("height", rgba.Bounds().Dy()).Msg("decoded image")
	return rgba, nil
}

// Decode reads an image in the format named by extension e.
func Decode(r io.Reader, e string) (*image.RGBA, error) {
	if _, err := codecFormat(e); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	return opaqueRGBA(img)
}

func opaqueRGBA(img image.Image) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	rgba := ToRGBA(img)
	Opaque(rgba)
	return rgba, nil
}

// Save encodes img to path, choosing the codec from the extension.
func Save(path string, img image.Image) error {
	if img == nil {
		return ErrEmptyImage
	}
	if !CanSave(path) {
		return fmt.Errorf("save %s: %w", path, ErrUnsupportedFormat)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Encode writes img in the format named by extension e.
func Encode(w io.Writer, img image.Image, e string) error {
	f, err := codecFormat(e)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(JPEGQuality))
}
