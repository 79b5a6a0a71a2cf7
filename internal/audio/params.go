package audio

import (
	"math/rand"

	"github.com/linuxmatters/jivehalo/internal/config"
	"github.com/lucasb-eyer/go-colorful"
)

// Circle is one stroked circle in unit coordinates: center (X, Y) in
// [0, 1] and radius R as a fraction of the frame width.
type Circle struct {
	X    float64
	Y    float64
	R    float64
	Band int
}

// FrameParams is everything the renderer needs for one frame.
type FrameParams struct {
	Index      int
	Circles    []Circle
	Background colorful.Color
}

// StreamConfig selects the background behaviour of a parameter stream.
type StreamConfig struct {
	ColorChanging bool
	Seed          int64
}

// ParamStream yields one FrameParams per analyzed frame, in order. It is
// a finite single-pass iterator; the background color carries state from
// frame to frame, so a stream cannot be restarted.
type ParamStream struct {
	profile  *TrackProfile
	cfg      StreamConfig
	emphasis map[int]struct{}
	rng      *rand.Rand
	bg       colorful.Color
	next     int
}

// NewParamStream builds the parameter stream for a profile. Emphasis
// points are located up front; the RNG is seeded explicitly so a given
// seed always produces the same color sequence.
func NewParamStream(profile *TrackProfile, cfg StreamConfig) *ParamStream {
	s := &ParamStream{
		profile: profile,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		bg:      colorful.Color{R: 1, G: 1, B: 1},
	}

	if cfg.ColorChanging {
		s.emphasis = make(map[int]struct{})
		for _, frame := range FindEmphasisFrames(profile.FrameMeans, config.EmphasisHorizon, config.EmphasisThreshold) {
			s.emphasis[frame] = struct{}{}
		}
	}

	return s
}

// Len returns the total number of frames the stream will yield.
func (s *ParamStream) Len() int {
	return s.profile.NumFrames
}

// Next returns the parameters for the next frame, or ok=false once the
// stream is exhausted.
func (s *ParamStream) Next() (FrameParams, bool) {
	if s.next >= s.profile.NumFrames {
		return FrameParams{}, false
	}
	frame := s.next
	s.next++

	params := FrameParams{
		Index:      frame,
		Circles:    make([]Circle, 0, config.NumBands),
		Background: s.backgroundFor(frame),
	}

	for band := 0; band < config.NumBands; band++ {
		var c Circle
		if s.profile.Channels == 1 {
			v := s.profile.NormalizedBand(0, frame, band)
			c = Circle{X: 0.5, Y: 0.5, R: v / 2, Band: band}
		} else {
			b0 := s.profile.NormalizedBand(0, frame, band)
			b1 := s.profile.NormalizedBand(1, frame, band)
			x := 0.5
			if b0+b1 > 0 {
				// Balance point between the channels: a louder left
				// channel pulls the circle left
				x = b1 / (b0 + b1)
			}
			c = Circle{X: x, Y: 0.5, R: (b0 + b1) / 4, Band: band}
		}

		if c.R < config.MinRadius {
			c.R = config.MinRadius
		}
		params.Circles = append(params.Circles, c)
	}

	return params, true
}

// backgroundFor advances the background color state machine: static mode
// stays white, color-changing mode jumps to a random color at emphasis
// frames and fades towards black in between.
func (s *ParamStream) backgroundFor(frame int) colorful.Color {
	if !s.cfg.ColorChanging {
		return s.bg
	}

	if _, ok := s.emphasis[frame]; ok {
		s.bg = colorful.Color{R: s.rng.Float64(), G: s.rng.Float64(), B: s.rng.Float64()}
	} else {
		s.bg = colorful.Color{
			R: s.bg.R * config.BackgroundDecay,
			G: s.bg.G * config.BackgroundDecay,
			B: s.bg.B * config.BackgroundDecay,
		}
	}
	return s.bg
}
