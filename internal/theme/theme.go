package theme

import (
	"image/color"
)

// Theme defines the color palette for the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the panels
	Foreground color.RGBA // Main text color

	// Image area
	ViewportBackground color.RGBA // Shown where no image covers the viewport

	// Status line
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonBackgroundOn    color.RGBA // Active drawing mode
	ButtonText            color.RGBA
	ButtonTextHover       color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA

	// Dialogs
	DialogShade      color.RGBA // Drawn over the window behind a dialog
	DialogBackground color.RGBA
	DialogBorder     color.RGBA
	DialogText       color.RGBA
	InputBackground  color.RGBA
	InputText        color.RGBA
	InfoAccent       color.RGBA
	WarningAccent    color.RGBA
	ErrorAccent      color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ViewportBackground:    color.RGBA{128, 128, 128, 255},
		StatusBackground:      color.RGBA{235, 235, 235, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonBackgroundOn:    color.RGBA{170, 190, 230, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextHover:       color.RGBA{0, 0, 0, 255},
		ButtonTextPress:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		DialogShade:           color.RGBA{0, 0, 0, 96},
		DialogBackground:      color.RGBA{245, 245, 245, 255},
		DialogBorder:          color.RGBA{60, 60, 60, 255},
		DialogText:            color.RGBA{0, 0, 0, 255},
		InputBackground:       color.RGBA{255, 255, 255, 255},
		InputText:             color.RGBA{0, 0, 0, 255},
		InfoAccent:            color.RGBA{40, 110, 200, 255},
		WarningAccent:         color.RGBA{220, 160, 0, 255},
		ErrorAccent:           color.RGBA{200, 40, 40, 255},
	}
}
