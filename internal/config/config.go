package config

// Video settings
const (
	Width  = 1920
	Height = 1080
	FPS    = 30
)

// Audio settings
const (
	// FFTSize is the analysis window in samples. The window slides by one
	// video frame (sampleRate/FPS samples) per frame, so consecutive
	// windows overlap heavily, which keeps the circles from strobing.
	FFTSize = 8192
)

// BandBoundaries are FFT bin indices counted from DC; each adjacent pair
// delimits one frequency band and each band drives one circle. At 44.1 kHz
// with an 8192-point FFT one bin is ~5.4 Hz, so the defaults cover roughly
// 21-200 Hz, 200-500 Hz and 500-2000 Hz.
var BandBoundaries = []int{4, 37, 93, 371}

// NumBands is the number of circles drawn per frame.
const NumBands = 3

// Visualization settings
const (
	DefaultCircleWidth = 15  // Stroke width of each circle in pixels
	CircleAlpha        = 0.6 // Stroke opacity
	MinRadius          = 0.004

	// ZoomFloor clips away the quietest quarter of the normalized range
	// so the circles respond to the loud part of the track.
	ZoomFloor = 0.25
)

// Color-changing background tuning
const (
	// EmphasisThreshold is the fraction of neighbours that must be at
	// least as loud as a frame for it to count as an emphasis point.
	EmphasisThreshold = 27.0 / 30.0

	// EmphasisHorizon is how many frames on each side are compared.
	EmphasisHorizon = 7

	// BackgroundDecay fades the background towards black between
	// emphasis points.
	BackgroundDecay = 0.9
)

// Appearance
const (
	// Title overlay color (warm gold, readable on both black and the
	// random emphasis backgrounds)
	TextColorR = 248
	TextColorG = 179
	TextColorB = 29

	TitleFontSize = 48
)
