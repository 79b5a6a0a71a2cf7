package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV synthesizes a 16-bit PCM WAV file from per-channel float
// samples in [-1, 1]. All channels must be the same length.
func writeTestWAV(t *testing.T, path string, sampleRate int, channels [][]float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test WAV: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, len(channels), 1)

	numSamples := len(channels[0])
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, numSamples*len(channels)),
	}
	for i := 0; i < numSamples; i++ {
		for ch := range channels {
			buf.Data[i*len(channels)+ch] = int(channels[ch][i] * 32767)
		}
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write test WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to close test WAV: %v", err)
	}
}

// testWAVPath returns a fresh path inside the test's temp dir.
func testWAVPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// sineWave generates numSamples of a sine wave at the given frequency.
func sineWave(freq float64, sampleRate, numSamples int, amp float64) []float64 {
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

// constSamples generates numSamples of a constant value.
func constSamples(value float64, numSamples int) []float64 {
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = value
	}
	return samples
}
