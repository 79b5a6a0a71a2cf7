package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat reports input that cannot be decoded as WAV, or a
// channel layout the requested mode cannot use.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// StreamingReader decodes a WAV file chunk by chunk and hands back
// de-interleaved per-channel samples normalized to [-1, 1].
type StreamingReader struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
	numSamples int64 // per-channel sample count
	position   int64
}

// NewStreamingReader opens a WAV file for streaming. A missing file
// surfaces the *os.PathError from os.Open unchanged; anything that is
// not decodable WAV wraps ErrUnsupportedFormat.
func NewStreamingReader(filename string) (*StreamingReader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnsupportedFormat, filename)
	}

	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: seeking to PCM data: %v", ErrUnsupportedFormat, err)
	}

	bytesPerSample := int64(decoder.BitDepth / 8)
	numChans := int64(decoder.NumChans)
	totalSamples := int64(decoder.PCMLen()) / (bytesPerSample * numChans)

	return &StreamingReader{
		decoder:    decoder,
		file:       f,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   int(decoder.BitDepth),
		numChans:   int(decoder.NumChans),
		numSamples: totalSamples,
	}, nil
}

// ReadFrames reads up to numFrames time samples and returns one slice per
// channel, each of equal length. Returns io.EOF once the PCM data is
// exhausted.
func (r *StreamingReader) ReadFrames(numFrames int) ([][]float64, error) {
	if r.position >= r.numSamples {
		return nil, io.EOF
	}
	if r.position+int64(numFrames) > r.numSamples {
		numFrames = int(r.numSamples - r.position)
	}

	intBuf := &audio.IntBuffer{
		Data: make([]int, numFrames*r.numChans),
		Format: &audio.Format{
			NumChannels: r.numChans,
			SampleRate:  r.sampleRate,
		},
	}

	n, err := r.decoder.PCMBuffer(intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}

	// n counts interleaved values, not time samples
	timeSamples := n / r.numChans
	maxVal := float64(audio.IntMaxSignedValue(r.bitDepth))

	channels := make([][]float64, r.numChans)
	for ch := range channels {
		channels[ch] = make([]float64, timeSamples)
	}
	for i := 0; i < timeSamples; i++ {
		for ch := 0; ch < r.numChans; ch++ {
			channels[ch][i] = float64(intBuf.Data[i*r.numChans+ch]) / maxVal
		}
	}

	r.position += int64(timeSamples)
	return channels, nil
}

// SampleRate returns the sample rate in Hz.
func (r *StreamingReader) SampleRate() int {
	return r.sampleRate
}

// NumChannels returns the channel count of the file.
func (r *StreamingReader) NumChannels() int {
	return r.numChans
}

// NumSamples returns the per-channel sample count.
func (r *StreamingReader) NumSamples() int64 {
	return r.numSamples
}

// Close releases the underlying file. Safe to call more than once.
func (r *StreamingReader) Close() error {
	if r.file != nil {
		f := r.file
		r.file = nil
		return f.Close()
	}
	return nil
}
