package waveform

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

const (
	// pcmFrameSize is the byte size of one decoded sample frame: two
	// channels of 16-bit little-endian PCM.
	pcmFrameSize = 4
	// pcmReadBufferSize is the decode buffer size, a multiple of the frame size.
	pcmReadBufferSize = 32 * 1024
	// pcmSampleScale converts a 16-bit sample magnitude to [0, 1].
	pcmSampleScale = 32768.0

	// errorOpenAudioFormat reports a failure to open the input audio file.
	errorOpenAudioFormat = "opening audio file %s: %w"
	// errorDecodeAudioFormat reports a failure to decode the input audio file.
	errorDecodeAudioFormat = "decoding audio file %s: %w"
	// errorCreateOutputFormat reports a failure to create the output file.
	errorCreateOutputFormat = "creating output file %s: %w"
	// errorWriteOutputFormat reports a failure to write the output file.
	errorWriteOutputFormat = "writing output file %s: %w"
)

// ErrOutputExists is returned when the output file already exists and
// overwriting was not requested.
var ErrOutputExists = errors.New("output file already exists")

// pcmStream is the decoded audio surface the renderer consumes: a stream of
// 16-bit little-endian stereo PCM bytes plus the total decoded byte length.
type pcmStream interface {
	io.Reader
	Length() int64
}

// Options configures waveform generation for one audio file.
type Options struct {
	Width           int
	Height          int
	BackgroundColor color.NRGBA
	LeftColor       color.NRGBA
	RightColor      color.NRGBA
	Overwrite       bool
	DryRun          bool
}

// Generate renders the waveform of the MP3 file at inputPath and writes it
// as a PNG to outputPath. The audio stream is decoded incrementally; sample
// frames are folded into per-pixel amplitude maxima without buffering the
// whole file. With DryRun set the image is rendered but nothing is written.
func Generate(inputPath, outputPath string, options Options) error {
	if !options.Overwrite {
		if _, statError := os.Stat(outputPath); statError == nil {
			return fmt.Errorf("%s: %w", outputPath, ErrOutputExists)
		}
	}

	waveImage, imageError := NewWaveImage(options.Width, options.Height, options.BackgroundColor, options.LeftColor, options.RightColor)
	if imageError != nil {
		return imageError
	}

	inputFile, openError := os.Open(inputPath)
	if openError != nil {
		return fmt.Errorf(errorOpenAudioFormat, inputPath, openError)
	}
	defer inputFile.Close()

	decoder, decoderError := mp3.NewDecoder(inputFile)
	if decoderError != nil {
		return fmt.Errorf(errorDecodeAudioFormat, inputPath, decoderError)
	}

	if renderError := renderStream(decoder, waveImage); renderError != nil {
		return fmt.Errorf(errorDecodeAudioFormat, inputPath, renderError)
	}

	if options.DryRun {
		return nil
	}

	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	if encodeError := waveImage.EncodePNG(outputFile); encodeError != nil {
		outputFile.Close()
		return fmt.Errorf(errorWriteOutputFormat, outputPath, encodeError)
	}
	if closeError := outputFile.Close(); closeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, closeError)
	}
	return nil
}

// renderStream folds the decoded PCM stream into the image. Sample frames
// are distributed across pixel columns so that column p covers frames up to
// floor((p+1)*total/width), keeping the distribution even when the total is
// not a multiple of the width.
func renderStream(stream pcmStream, waveImage *WaveImage) error {
	totalFrames := stream.Length() / pcmFrameSize
	if totalFrames < 1 {
		totalFrames = 1
	}
	imageWidth := int64(waveImage.Width())

	readBuffer := make([]byte, pcmReadBufferSize)
	var carriedBytes []byte
	var frameIndex int64
	var pixelPosition int64
	var leftMax, rightMax float64

	for {
		bytesRead, readError := stream.Read(readBuffer)
		if bytesRead > 0 {
			pcmBytes := append(carriedBytes, readBuffer[:bytesRead]...)
			completeFrames := len(pcmBytes) / pcmFrameSize * pcmFrameSize
			carriedBytes = append([]byte(nil), pcmBytes[completeFrames:]...)

			for frameOffset := 0; frameOffset < completeFrames; frameOffset += pcmFrameSize {
				leftSample := int16(uint16(pcmBytes[frameOffset]) | uint16(pcmBytes[frameOffset+1])<<8)
				rightSample := int16(uint16(pcmBytes[frameOffset+2]) | uint16(pcmBytes[frameOffset+3])<<8)

				leftAmplitude := sampleAmplitude(leftSample)
				if leftAmplitude > leftMax {
					leftMax = leftAmplitude
				}
				rightAmplitude := sampleAmplitude(rightSample)
				if rightAmplitude > rightMax {
					rightMax = rightAmplitude
				}

				frameIndex++
				nextPixel := frameIndex * imageWidth / totalFrames
				if nextPixel > pixelPosition {
					waveImage.DrawPoint(int(pixelPosition), leftMax, rightMax)
					pixelPosition = nextPixel
					leftMax, rightMax = 0, 0
				}
			}
		}
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				break
			}
			return readError
		}
		if bytesRead == 0 {
			break
		}
	}

	// Flush the final partial column.
	if pixelPosition < imageWidth {
		waveImage.DrawPoint(int(pixelPosition), leftMax, rightMax)
	}

	return nil
}

// sampleAmplitude converts one signed 16-bit PCM sample into a clamped
// amplitude magnitude.
func sampleAmplitude(sample int16) float64 {
	magnitude := float64(sample)
	if magnitude < 0 {
		magnitude = -magnitude
	}
	amplitude := magnitude / pcmSampleScale
	if amplitude > 1 {
		amplitude = 1
	}
	return amplitude
}
