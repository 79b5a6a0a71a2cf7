package audio

import (
	"math"
	"math/cmplx"

	"github.com/argusdusty/gofft"
	"github.com/linuxmatters/jivehalo/internal/config"
)

// ApplyHann applies a Hann window to the input data
func ApplyHann(data []float64) []float64 {
	windowed := make([]float64, len(data))
	n := len(data)
	for i := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = data[i] * window
	}
	return windowed
}

// Processor computes spectra for fixed-size analysis windows.
type Processor struct {
	size int
}

// NewProcessor creates a processor for config.FFTSize windows.
func NewProcessor() *Processor {
	return &Processor{size: config.FFTSize}
}

// Spectrum Hann-windows the samples, zero-pads them to the FFT size and
// returns the complex spectrum. The input is not modified.
func (p *Processor) Spectrum(samples []float64) ([]complex128, error) {
	chunk := samples
	if len(chunk) > p.size {
		chunk = chunk[:p.size]
	}
	if len(chunk) < p.size {
		padded := make([]float64, p.size)
		copy(padded, chunk)
		chunk = padded
	}

	windowed := ApplyHann(chunk)
	coeffs := gofft.Float64ToComplex128Array(windowed)
	if err := gofft.FFT(coeffs); err != nil {
		return nil, err
	}
	return coeffs, nil
}

// BandMagnitudes reduces a spectrum to one value per band: the mean
// magnitude of the bins between consecutive boundaries. out must have
// len(boundaries)-1 elements.
func BandMagnitudes(coeffs []complex128, boundaries []int, out []float64) {
	for band := 0; band < len(boundaries)-1; band++ {
		start := boundaries[band]
		end := boundaries[band+1]
		if end > len(coeffs)/2 {
			end = len(coeffs) / 2
		}

		var sum float64
		for i := start; i < end; i++ {
			sum += cmplx.Abs(coeffs[i])
		}
		out[band] = sum / float64(end-start)
	}
}
