package ui

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

// solidFrame fills an RGBA image with a single color.
func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// TestDownsample_SolidColor verifies every cell of a solid frame averages
// to that color.
func TestDownsample_SolidColor(t *testing.T) {
	frame := solidFrame(128, 72, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	grid := downsample(frame, 64, 36)

	if len(grid) != 36 {
		t.Fatalf("Grid has %d rows, expected 36", len(grid))
	}
	for row := range grid {
		if len(grid[row]) != 64 {
			t.Fatalf("Row %d has %d cells, expected 64", row, len(grid[row]))
		}
		for col, cell := range grid[row] {
			if cell != [3]uint8{200, 100, 50} {
				t.Fatalf("Cell (%d, %d) = %v, expected [200 100 50]", row, col, cell)
			}
		}
	}
}

// TestDownsample_AveragesRegions verifies a frame split into a black left
// half and white right half averages each half separately.
func TestDownsample_AveragesRegions(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 128, 72))
	for y := 0; y < 72; y++ {
		for x := 0; x < 128; x++ {
			c := color.RGBA{A: 255}
			if x >= 64 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			frame.SetRGBA(x, y, c)
		}
	}

	grid := downsample(frame, 64, 36)

	if grid[18][0] != [3]uint8{0, 0, 0} {
		t.Errorf("Left half cell = %v, expected black", grid[18][0])
	}
	if grid[18][63] != [3]uint8{255, 255, 255} {
		t.Errorf("Right half cell = %v, expected white", grid[18][63])
	}
}

// TestRenderFramePreview_Shape verifies the preview emits one line of
// half-block cells per pair of grid rows plus a reset at each line end.
func TestRenderFramePreview_Shape(t *testing.T) {
	frame := solidFrame(128, 72, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	cfg := PreviewConfig{Width: 16, Height: 8}

	out := RenderFramePreview(frame, cfg)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// One header line plus Height/2 picture lines
	if len(lines) != 1+cfg.Height/2 {
		t.Errorf("Preview has %d lines, expected %d", len(lines), 1+cfg.Height/2)
	}
	for i, line := range lines[1:] {
		if strings.Count(line, "▀") != cfg.Width {
			t.Errorf("Line %d has %d cells, expected %d", i, strings.Count(line, "▀"), cfg.Width)
		}
		if !strings.HasSuffix(line, "\x1b[0m") {
			t.Errorf("Line %d does not reset its colors", i)
		}
	}
}

// TestFormatSize verifies byte counts humanize at 1024 boundaries.
func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes    int64
		expected string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.bytes); got != tc.expected {
			t.Errorf("formatSize(%d) = %q, expected %q", tc.bytes, got, tc.expected)
		}
	}
}

// TestFormatElapsed verifies sub-second durations show milliseconds and
// longer ones show seconds.
func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(250 * time.Millisecond); got != "250ms" {
		t.Errorf("formatElapsed(250ms) = %q, expected \"250ms\"", got)
	}
	if got := formatElapsed(90 * time.Second); got != "90.0s" {
		t.Errorf("formatElapsed(90s) = %q, expected \"90.0s\"", got)
	}
}

// TestRenderBandMeters verifies one meter per band and that the loudest
// band fills its meter completely.
func TestRenderBandMeters(t *testing.T) {
	out := renderBandMeters([]float64{1.0, 0.5, 0.0}, 8)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Got %d meters, expected 3", len(lines))
	}
	if strings.Count(lines[0], "█") != 8 {
		t.Errorf("Loudest band filled %d of 8 cells", strings.Count(lines[0], "█"))
	}
	if strings.Count(lines[2], "█") != 0 {
		t.Errorf("Silent band filled %d cells, expected 0", strings.Count(lines[2], "█"))
	}
	if strings.Count(lines[2], "░") != 8 {
		t.Errorf("Silent band shows %d empty cells, expected 8", strings.Count(lines[2], "░"))
	}
}
