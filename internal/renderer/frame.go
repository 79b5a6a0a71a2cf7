package renderer

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/linuxmatters/jivehalo/internal/audio"
	"github.com/linuxmatters/jivehalo/internal/config"
	"golang.org/x/image/font"
)

// Config holds the static render configuration shared by every frame.
type Config struct {
	Width       int
	Height      int
	CircleWidth float64   // stroke width in pixels
	Title       string    // optional overlay text, empty disables it
	FontFace    font.Face // face for the overlay, nil disables it
}

// Frame owns the drawing surface for the run. The same RGBA buffer is
// reused for every frame; Draw fully repaints it, so each rendered frame
// is a pure function of its FrameParams and this configuration.
type Frame struct {
	cfg Config
	img *image.RGBA
	dc  *gg.Context
}

// NewFrame creates the render context.
func NewFrame(cfg Config) *Frame {
	if cfg.Width <= 0 {
		cfg.Width = config.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = config.Height
	}
	if cfg.CircleWidth < 1 {
		cfg.CircleWidth = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	return &Frame{
		cfg: cfg,
		img: img,
		dc:  gg.NewContextForRGBA(img),
	}
}

// Draw repaints the surface for one parameter set: background first, then
// one stroked circle per band, then the optional title overlay.
//
// Circle geometry uses a square unit coordinate system scaled by the
// frame width and centered vertically, so circles stay round and large
// radii clip off the top and bottom edges.
func (f *Frame) Draw(params audio.FrameParams) {
	w := float64(f.cfg.Width)
	h := float64(f.cfg.Height)

	f.dc.SetRGB(params.Background.R, params.Background.G, params.Background.B)
	f.dc.Clear()

	f.dc.SetLineWidth(f.cfg.CircleWidth)
	for _, c := range params.Circles {
		r := c.R
		if r < config.MinRadius {
			r = config.MinRadius
		}

		cx := c.X * w
		cy := h/2 + (0.5-c.Y)*w

		col := BandColor(c.Band)
		f.dc.SetRGBA(col.R, col.G, col.B, config.CircleAlpha)
		f.dc.DrawCircle(cx, cy, r*w)
		f.dc.Stroke()
	}

	if f.cfg.Title != "" && f.cfg.FontFace != nil {
		f.drawTitle()
	}
}

// drawTitle renders the overlay text centered near the bottom edge.
func (f *Frame) drawTitle() {
	f.dc.SetFontFace(f.cfg.FontFace)
	f.dc.SetRGB255(config.TextColorR, config.TextColorG, config.TextColorB)
	f.dc.DrawStringAnchored(f.cfg.Title, float64(f.cfg.Width)/2, float64(f.cfg.Height)-float64(config.TitleFontSize), 0.5, 0.5)
}

// Image returns the current frame surface.
func (f *Frame) Image() *image.RGBA {
	return f.img
}
