package ui

import (
	"fmt"
	"image"
	"strings"
)

// PreviewConfig holds configuration for the terminal frame preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in pixel rows (two rows per cell line)
}

// DefaultPreviewConfig returns a preview close to the 16:9 frame aspect,
// assuming terminal cells roughly twice as tall as wide.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  64,
		Height: 36,
	}
}

// RenderFramePreview downsamples a frame and renders it with half-block
// characters: each '▀' carries two vertical pixels, the upper one as the
// foreground color and the lower one as the background color, via ANSI
// 24-bit escapes.
func RenderFramePreview(frame *image.RGBA, config PreviewConfig) string {
	grid := downsample(frame, config.Width, config.Height)

	var s strings.Builder
	s.WriteString("  Preview:\n")
	for row := 0; row+1 < len(grid); row += 2 {
		s.WriteString("  ")
		for col := 0; col < config.Width; col++ {
			top := grid[row][col]
			bottom := grid[row+1][col]
			s.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top[0], top[1], top[2],
				bottom[0], bottom[1], bottom[2]))
		}
		s.WriteString("\x1b[0m\n")
	}
	return s.String()
}

// downsample averages rectangular source regions into a width×height RGB
// grid.
func downsample(frame *image.RGBA, width, height int) [][][3]uint8 {
	bounds := frame.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	cellWidth := srcWidth / width
	cellHeight := srcHeight / height
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	grid := make([][][3]uint8, height)
	for row := 0; row < height; row++ {
		grid[row] = make([][3]uint8, width)
		for col := 0; col < width; col++ {
			srcX := col * cellWidth
			srcY := row * cellHeight

			var sumR, sumG, sumB uint32
			count := uint32(0)
			for y := srcY; y < srcY+cellHeight && y < srcHeight; y++ {
				for x := srcX; x < srcX+cellWidth && x < srcWidth; x++ {
					i := y*frame.Stride + x*4
					sumR += uint32(frame.Pix[i])
					sumG += uint32(frame.Pix[i+1])
					sumB += uint32(frame.Pix[i+2])
					count++
				}
			}
			if count > 0 {
				grid[row][col] = [3]uint8{
					uint8(sumR / count),
					uint8(sumG / count),
					uint8(sumB / count),
				}
			}
		}
	}
	return grid
}
