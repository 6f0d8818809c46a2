package waveform

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Palette indices for the generated image. Only three colors are ever drawn,
// which lets the PNG encoder fall back to 2-bit indexed output.
const (
	backgroundIndex   uint8 = 0
	leftChannelIndex  uint8 = 1
	rightChannelIndex uint8 = 2
)

const (
	// MinimumWidth is the smallest allowed image width in pixels.
	MinimumWidth = 16
	// MinimumHeight is the smallest allowed image height in pixels.
	MinimumHeight = 6

	// errorWidthMessage reports an image width below the minimum.
	errorWidthMessage = "width must be at least %d pixels"
	// errorHeightMessage reports an image height below the minimum.
	errorHeightMessage = "height must be at least %d pixels"
	// errorHeightParityMessage reports an odd image height.
	errorHeightParityMessage = "height must be an even number"
	// errorEncodePNGFormat reports a PNG encoding failure.
	errorEncodePNGFormat = "encoding waveform image: %w"
)

// WaveImage accumulates a waveform rendering as an indexed-color image.
// The left channel is drawn upward from the vertical center and the right
// channel downward; mono input is drawn symmetrically.
type WaveImage struct {
	width      int
	height     int
	centerLine int
	paletted   *image.Paletted
}

// ValidateDimensions checks the width and height constraints shared by the
// image and the command-line surface.
func ValidateDimensions(width, height int) error {
	if width < MinimumWidth {
		return fmt.Errorf(errorWidthMessage, MinimumWidth)
	}
	if height < MinimumHeight {
		return fmt.Errorf(errorHeightMessage, MinimumHeight)
	}
	if height%2 != 0 {
		return fmt.Errorf(errorHeightParityMessage)
	}
	return nil
}

// NewWaveImage creates an empty waveform image with the given dimensions and
// channel colors. Dimensions must satisfy ValidateDimensions.
func NewWaveImage(width, height int, background, leftColor, rightColor color.NRGBA) (*WaveImage, error) {
	if dimensionError := ValidateDimensions(width, height); dimensionError != nil {
		return nil, dimensionError
	}
	// The fourth entry mirrors the background so a stray two-bit value maps
	// to something sensible.
	imagePalette := color.Palette{background, leftColor, rightColor, background}
	return &WaveImage{
		width:      width,
		height:     height,
		centerLine: height / 2,
		paletted:   image.NewPaletted(image.Rect(0, 0, width, height), imagePalette),
	}, nil
}

// Width returns the image width in pixels.
func (waveImage *WaveImage) Width() int {
	return waveImage.width
}

// DrawPoint draws one column of the stereo waveform. Amplitudes are clamped
// to [0, 1]; the left channel fills upward from the center line and the
// right channel fills downward.
func (waveImage *WaveImage) DrawPoint(x int, leftAmplitude, rightAmplitude float64) {
	if x < 0 || x >= waveImage.width {
		return
	}

	leftHeight := waveImage.scaleAmplitude(leftAmplitude)
	for y := waveImage.centerLine - leftHeight; y < waveImage.centerLine; y++ {
		waveImage.paletted.SetColorIndex(x, y, leftChannelIndex)
	}

	rightHeight := waveImage.scaleAmplitude(rightAmplitude)
	bottom := waveImage.centerLine + rightHeight
	if bottom > waveImage.height {
		bottom = waveImage.height
	}
	for y := waveImage.centerLine; y < bottom; y++ {
		waveImage.paletted.SetColorIndex(x, y, rightChannelIndex)
	}
}

// DrawPointMono draws one column of a mono waveform, symmetric around the
// center line, using the left channel color.
func (waveImage *WaveImage) DrawPointMono(x int, amplitude float64) {
	if x < 0 || x >= waveImage.width {
		return
	}

	waveHeight := waveImage.scaleAmplitude(amplitude)
	bottom := waveImage.centerLine + waveHeight
	if bottom > waveImage.height {
		bottom = waveImage.height
	}
	for y := waveImage.centerLine - waveHeight; y < bottom; y++ {
		waveImage.paletted.SetColorIndex(x, y, leftChannelIndex)
	}
}

// scaleAmplitude converts a clamped amplitude into a pixel height, rounding
// to the nearest pixel.
func (waveImage *WaveImage) scaleAmplitude(amplitude float64) int {
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	scaled := int(float64(waveImage.centerLine)*amplitude + 0.5)
	if scaled > waveImage.centerLine {
		scaled = waveImage.centerLine
	}
	return scaled
}

// EncodePNG writes the image as a PNG. With the four-entry palette the
// standard encoder emits 2-bit indexed output and a transparency chunk for
// any palette alpha below 255, matching the compact files the player serves.
func (waveImage *WaveImage) EncodePNG(destination io.Writer) error {
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if encodeError := encoder.Encode(destination, waveImage.paletted); encodeError != nil {
		return fmt.Errorf(errorEncodePNGFormat, encodeError)
	}
	return nil
}
