package renderer

import "github.com/fogleman/gg"

// SaveSnapshot writes the current frame surface to a PNG file. Used by
// the snapshot mode to inspect a single frame without encoding video.
func SaveSnapshot(path string, f *Frame) error {
	return gg.SavePNG(path, f.img)
}
