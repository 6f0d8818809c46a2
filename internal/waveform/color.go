// Package waveform renders compact PNG waveform visualizations of audio files.
package waveform

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	// shortHexDigitScale expands a single hex digit to its doubled form (0xF -> 0xFF).
	shortHexDigitScale = 17
	// opaqueAlpha is the alpha component applied when a color omits it.
	opaqueAlpha = 0xFF

	// errorInvalidColorFormat reports a color value that is not valid hexadecimal.
	errorInvalidColorFormat = "invalid color %q: %w"
	// errorColorLengthMessage reports a color with an unsupported digit count.
	errorColorLengthMessage = "color %q must be in RGB, RRGGBB, or RRGGBBAA format"
)

// ParseColor parses a color from hexadecimal notation in one of three forms:
// RGB (3 digits, each doubled), RRGGBB (6 digits, opaque), or RRGGBBAA
// (8 digits with explicit alpha).
func ParseColor(colorText string) (color.NRGBA, error) {
	hexDigits := strings.TrimSpace(colorText)
	parsedValue, parseError := strconv.ParseUint(hexDigits, 16, 32)
	if parseError != nil {
		return color.NRGBA{}, fmt.Errorf(errorInvalidColorFormat, colorText, parseError)
	}

	switch len(hexDigits) {
	case 3:
		return color.NRGBA{
			R: uint8((parsedValue&0xF00)>>8) * shortHexDigitScale,
			G: uint8((parsedValue&0x0F0)>>4) * shortHexDigitScale,
			B: uint8(parsedValue&0x00F) * shortHexDigitScale,
			A: opaqueAlpha,
		}, nil
	case 6:
		return color.NRGBA{
			R: uint8((parsedValue & 0xFF0000) >> 16),
			G: uint8((parsedValue & 0x00FF00) >> 8),
			B: uint8(parsedValue & 0x0000FF),
			A: opaqueAlpha,
		}, nil
	case 8:
		return color.NRGBA{
			R: uint8((parsedValue & 0xFF000000) >> 24),
			G: uint8((parsedValue & 0x00FF0000) >> 16),
			B: uint8((parsedValue & 0x0000FF00) >> 8),
			A: uint8(parsedValue & 0x000000FF),
		}, nil
	default:
		return color.NRGBA{}, fmt.Errorf(errorColorLengthMessage, colorText)
	}
}
