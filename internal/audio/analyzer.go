package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/linuxmatters/jivehalo/internal/config"
)

// Normalization holds the global log-magnitude range of one channel,
// collected during analysis and applied per value when the parameter
// stream is consumed.
type Normalization struct {
	LogMin float64
	LogMax float64
}

// TrackProfile is the result of analyzing a whole track: raw per-frame
// band magnitudes for each visualised channel plus the global statistics
// needed to normalize them.
type TrackProfile struct {
	NumFrames       int
	SampleRate      int
	SamplesPerFrame int
	Channels        int     // 1 (single) or 2 (dual)
	Duration        float64 // seconds of actual audio

	// Energies[channel][frame][band] holds raw mean band magnitudes.
	Energies [][][]float64

	Norm []Normalization // one per channel

	// FrameMeans holds the per-frame mean of channel 0's normalized
	// band values, used for emphasis detection.
	FrameMeans []float64
}

// ProgressCallback is called with progress updates during analysis
type ProgressCallback func(frame, totalFrames int, bandLevels []float64, elapsed time.Duration)

// AnalyzeTrack streams through the audio once and collects per-frame band
// magnitudes for each channel the visualization needs. The final partial
// window is padded with silence, so the frame count is
// ceil(samples / window) and the video never runs shorter than the audio.
func AnalyzeTrack(filename string, dualChannel bool, progressCb ProgressCallback) (*TrackProfile, error) {
	reader, err := NewStreamingReader(filename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if dualChannel && reader.NumChannels() < 2 {
		return nil, fmt.Errorf("%w: dual-channel mode requires a stereo file, got %d channel(s)",
			ErrUnsupportedFormat, reader.NumChannels())
	}

	channels := 1
	if dualChannel {
		channels = 2
	}

	samplesPerFrame := int(math.Round(float64(reader.SampleRate()) / float64(config.FPS)))
	totalSamples := reader.NumSamples()
	if totalSamples == 0 {
		return nil, fmt.Errorf("%w: no audio data in file", ErrUnsupportedFormat)
	}
	numFrames := int((totalSamples + int64(samplesPerFrame) - 1) / int64(samplesPerFrame))

	profile := &TrackProfile{
		NumFrames:       numFrames,
		SampleRate:      reader.SampleRate(),
		SamplesPerFrame: samplesPerFrame,
		Channels:        channels,
		Duration:        float64(totalSamples) / float64(reader.SampleRate()),
		Energies:        make([][][]float64, channels),
		Norm:            make([]Normalization, channels),
		FrameMeans:      make([]float64, numFrames),
	}
	for ch := 0; ch < channels; ch++ {
		profile.Energies[ch] = make([][]float64, numFrames)
	}

	processor := NewProcessor()

	// Sliding window per channel: the FFT needs FFTSize samples but each
	// frame only advances by samplesPerFrame.
	buffers := make([][]float64, channels)
	for ch := range buffers {
		buffers[ch] = make([]float64, config.FFTSize)
	}

	// Pre-fill the windows with the first FFTSize samples; a short track
	// keeps its zero padding.
	if err := fillBuffers(reader, buffers, config.FFTSize, 0); err != nil {
		return nil, err
	}

	startTime := time.Now()

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < channels; ch++ {
			coeffs, err := processor.Spectrum(buffers[ch])
			if err != nil {
				return nil, fmt.Errorf("analyzing frame %d: %w", frame, err)
			}

			bands := make([]float64, config.NumBands)
			BandMagnitudes(coeffs, config.BandBoundaries, bands)
			profile.Energies[ch][frame] = bands
		}

		if progressCb != nil && frame%3 == 0 {
			progressCb(frame+1, numFrames, profile.Energies[0][frame], time.Since(startTime))
		}

		// Slide each window forward by one frame, zero-padding the tail
		// once the file runs out.
		for ch := range buffers {
			copy(buffers[ch], buffers[ch][samplesPerFrame:])
			zeroTail(buffers[ch], config.FFTSize-samplesPerFrame)
		}
		if err := fillBuffers(reader, buffers, samplesPerFrame, config.FFTSize-samplesPerFrame); err != nil {
			return nil, err
		}
	}

	if progressCb != nil {
		progressCb(numFrames, numFrames, profile.Energies[0][numFrames-1], time.Since(startTime))
	}

	profile.finalize()
	return profile, nil
}

// fillBuffers reads up to want samples into each channel buffer starting
// at offset. EOF is not an error; the remainder stays zero.
func fillBuffers(reader *StreamingReader, buffers [][]float64, want, offset int) error {
	got := 0
	for got < want {
		chunk, err := reader.ReadFrames(want - got)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("error reading audio: %w", err)
		}
		for ch := range buffers {
			src := chunk[0]
			if ch < len(chunk) {
				src = chunk[ch]
			}
			copy(buffers[ch][offset+got:], src)
		}
		got += len(chunk[0])
	}
	return nil
}

func zeroTail(buf []float64, from int) {
	for i := from; i < len(buf); i++ {
		buf[i] = 0
	}
}

// finalize computes the per-channel normalization range and the per-frame
// means used for emphasis detection.
func (p *TrackProfile) finalize() {
	for ch := 0; ch < p.Channels; ch++ {
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, bands := range p.Energies[ch] {
			for _, m := range bands {
				if m <= 0 {
					continue
				}
				l := math.Log(m)
				if l < min {
					min = l
				}
				if l > max {
					max = l
				}
			}
		}
		if math.IsInf(min, 1) {
			// Pure silence: collapse the range so every value maps to 0
			min, max = 0, 0
		}
		p.Norm[ch] = Normalization{LogMin: min, LogMax: max}
	}

	for frame := 0; frame < p.NumFrames; frame++ {
		var sum float64
		for band := 0; band < config.NumBands; band++ {
			sum += p.NormalizedBand(0, frame, band)
		}
		p.FrameMeans[frame] = sum / float64(config.NumBands)
	}
}

// NormalizedBand maps a raw band magnitude into [0, 1]: log-compress,
// scale against the channel's global range, then clip away everything
// below the zoom floor and re-stretch what remains.
func (p *TrackProfile) NormalizedBand(channel, frame, band int) float64 {
	m := p.Energies[channel][frame][band]
	if m <= 0 {
		return 0
	}

	norm := p.Norm[channel]
	span := norm.LogMax - norm.LogMin
	if span <= 0 {
		return 0
	}

	n := (math.Log(m) - norm.LogMin) / span
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}

	z := (n - config.ZoomFloor) / (1 - config.ZoomFloor)
	if z < 0 {
		return 0
	}
	return z
}

// FindEmphasisFrames runs non-maximum suppression over the per-frame mean
// energy: a frame is an emphasis point when at least threshold of its
// neighbours within horizon frames are as loud as it is.
func FindEmphasisFrames(means []float64, horizon int, threshold float64) []int {
	var keep []int
	for i := range means {
		lo := i - horizon
		if lo < 0 {
			lo = 0
		}
		hi := i + horizon + 1
		if hi > len(means) {
			hi = len(means)
		}

		numGeq := 0
		for j := lo; j < hi; j++ {
			if means[j] >= means[i] {
				numGeq++
			}
		}
		if hi-lo <= 1 {
			continue
		}
		result := float64(numGeq-1) / float64(hi-lo-1)
		if result >= threshold {
			keep = append(keep, i)
		}
	}
	return keep
}
