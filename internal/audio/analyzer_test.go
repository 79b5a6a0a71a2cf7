package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/linuxmatters/jivehalo/internal/config"
)

// TestAnalyzeTrack_FrameCount verifies one second of 44.1 kHz audio maps to
// exactly FPS frames: 44100 samples / 1470 samples-per-frame = 30.
func TestAnalyzeTrack_FrameCount(t *testing.T) {
	const sampleRate = 44100

	path := testWAVPath(t, "onesec.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{sineWave(440, sampleRate, sampleRate, 0.8)})

	profile, err := AnalyzeTrack(path, false, nil)
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	if profile.NumFrames != config.FPS {
		t.Errorf("NumFrames = %d, expected %d for one second of audio", profile.NumFrames, config.FPS)
	}
	if profile.SamplesPerFrame != sampleRate/config.FPS {
		t.Errorf("SamplesPerFrame = %d, expected %d", profile.SamplesPerFrame, sampleRate/config.FPS)
	}
	if profile.Channels != 1 {
		t.Errorf("Channels = %d, expected 1", profile.Channels)
	}
	if math.Abs(profile.Duration-1.0) > 1e-9 {
		t.Errorf("Duration = %v, expected 1.0", profile.Duration)
	}
	if len(profile.Energies[0]) != profile.NumFrames {
		t.Errorf("Energies has %d frames, expected %d", len(profile.Energies[0]), profile.NumFrames)
	}
	if len(profile.FrameMeans) != profile.NumFrames {
		t.Errorf("FrameMeans has %d entries, expected %d", len(profile.FrameMeans), profile.NumFrames)
	}
}

// TestAnalyzeTrack_PadsFinalWindow verifies a track that does not divide
// evenly into frames gets one extra frame for the remainder, so the video
// never ends before the audio does.
func TestAnalyzeTrack_PadsFinalWindow(t *testing.T) {
	const (
		sampleRate = 44100
		numSamples = sampleRate + 735 // 30.5 frames of audio
	)

	path := testWAVPath(t, "partial.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{sineWave(440, sampleRate, numSamples, 0.8)})

	profile, err := AnalyzeTrack(path, false, nil)
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	if profile.NumFrames != 31 {
		t.Errorf("NumFrames = %d, expected 31 (ceil of 30.5)", profile.NumFrames)
	}
}

// TestAnalyzeTrack_DualRequiresStereo verifies dual-channel mode rejects a
// mono file before doing any analysis work.
func TestAnalyzeTrack_DualRequiresStereo(t *testing.T) {
	path := testWAVPath(t, "mono.wav")
	writeTestWAV(t, path, 44100, [][]float64{sineWave(440, 44100, 4410, 0.8)})

	_, err := AnalyzeTrack(path, true, nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for dual mode on mono file, got: %v", err)
	}
}

// TestAnalyzeTrack_DualCollectsBothChannels verifies dual mode produces two
// equally sized energy series from a stereo file.
func TestAnalyzeTrack_DualCollectsBothChannels(t *testing.T) {
	const (
		sampleRate = 44100
		numSamples = sampleRate / 2
	)

	path := testWAVPath(t, "stereo.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{
		sineWave(440, sampleRate, numSamples, 0.8),
		sineWave(880, sampleRate, numSamples, 0.4),
	})

	profile, err := AnalyzeTrack(path, true, nil)
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	if profile.Channels != 2 {
		t.Fatalf("Channels = %d, expected 2", profile.Channels)
	}
	if len(profile.Energies) != 2 {
		t.Fatalf("Energies holds %d channels, expected 2", len(profile.Energies))
	}
	for ch := 0; ch < 2; ch++ {
		if len(profile.Energies[ch]) != profile.NumFrames {
			t.Errorf("Channel %d has %d frames, expected %d", ch, len(profile.Energies[ch]), profile.NumFrames)
		}
		for frame, bands := range profile.Energies[ch] {
			if len(bands) != config.NumBands {
				t.Fatalf("Channel %d frame %d has %d bands, expected %d", ch, frame, len(bands), config.NumBands)
			}
		}
	}
	if len(profile.Norm) != 2 {
		t.Errorf("Norm holds %d channels, expected 2", len(profile.Norm))
	}
}

// TestNormalizedBand_Range verifies every normalized value lands in [0, 1]
// and that the global maximum maps to exactly 1. The normalization is
// global across the whole track, so the loudest band of the loudest frame
// defines the top of the range.
func TestNormalizedBand_Range(t *testing.T) {
	const sampleRate = 44100

	// A tone that swells in amplitude so frames differ in energy
	numSamples := sampleRate
	samples := make([]float64, numSamples)
	for i := range samples {
		amp := 0.1 + 0.8*float64(i)/float64(numSamples)
		samples[i] = amp * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	path := testWAVPath(t, "swell.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{samples})

	profile, err := AnalyzeTrack(path, false, nil)
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	maxSeen := 0.0
	for frame := 0; frame < profile.NumFrames; frame++ {
		for band := 0; band < config.NumBands; band++ {
			v := profile.NormalizedBand(0, frame, band)
			if v < 0 || v > 1 {
				t.Fatalf("NormalizedBand(0, %d, %d) = %v, outside [0, 1]", frame, band, v)
			}
			if v > maxSeen {
				maxSeen = v
			}
		}
	}
	if math.Abs(maxSeen-1.0) > 1e-9 {
		t.Errorf("Global maximum normalized to %v, expected 1.0", maxSeen)
	}
}

// TestAnalyzeTrack_SilenceNormalizesToZero verifies a pure-silence track
// produces all-zero normalized bands instead of NaNs from log(0).
func TestAnalyzeTrack_SilenceNormalizesToZero(t *testing.T) {
	const sampleRate = 44100

	path := testWAVPath(t, "silence.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{make([]float64, sampleRate/2)})

	profile, err := AnalyzeTrack(path, false, nil)
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	for frame := 0; frame < profile.NumFrames; frame++ {
		for band := 0; band < config.NumBands; band++ {
			v := profile.NormalizedBand(0, frame, band)
			if v != 0 {
				t.Fatalf("Silent frame %d band %d normalized to %v, expected 0", frame, band, v)
			}
			if math.IsNaN(v) {
				t.Fatalf("Silent frame %d band %d normalized to NaN", frame, band)
			}
		}
	}
}

// TestAnalyzeTrack_ProgressCallback verifies the callback fires during
// analysis and finishes with frame == totalFrames.
func TestAnalyzeTrack_ProgressCallback(t *testing.T) {
	const sampleRate = 44100

	path := testWAVPath(t, "progress.wav")
	writeTestWAV(t, path, sampleRate, [][]float64{sineWave(440, sampleRate, sampleRate, 0.8)})

	calls := 0
	var lastFrame, lastTotal int
	profile, err := AnalyzeTrack(path, false, func(frame, totalFrames int, bandLevels []float64, elapsed time.Duration) {
		calls++
		lastFrame = frame
		lastTotal = totalFrames
		if len(bandLevels) != config.NumBands {
			t.Errorf("Callback got %d band levels, expected %d", len(bandLevels), config.NumBands)
		}
	})
	if err != nil {
		t.Fatalf("AnalyzeTrack failed: %v", err)
	}

	if calls == 0 {
		t.Fatal("Progress callback never fired")
	}
	if lastFrame != profile.NumFrames || lastTotal != profile.NumFrames {
		t.Errorf("Final callback reported %d/%d, expected %d/%d", lastFrame, lastTotal, profile.NumFrames, profile.NumFrames)
	}
	t.Logf("Progress callback fired %d times over %d frames", calls, profile.NumFrames)
}

// TestFindEmphasisFrames_DipIsKept verifies non-maximum suppression: a
// frame quieter than nearly all of its neighbours is an emphasis point, a
// local spike is not.
func TestFindEmphasisFrames_DipIsKept(t *testing.T) {
	means := make([]float64, 30)
	for i := range means {
		means[i] = 1.0
	}
	means[10] = 0.1 // quiet dip
	means[20] = 5.0 // loud spike

	frames := FindEmphasisFrames(means, config.EmphasisHorizon, config.EmphasisThreshold)

	kept := make(map[int]bool, len(frames))
	for _, f := range frames {
		kept[f] = true
	}
	if !kept[10] {
		t.Errorf("Dip at frame 10 was not kept: %v", frames)
	}
	if kept[20] {
		t.Errorf("Spike at frame 20 was kept: %v", frames)
	}
}

// TestFindEmphasisFrames_RisingRampKeepsOnlyStart verifies strictly rising
// energy produces a single emphasis point at the quietest frame.
func TestFindEmphasisFrames_RisingRampKeepsOnlyStart(t *testing.T) {
	means := make([]float64, 30)
	for i := range means {
		means[i] = float64(i)
	}

	frames := FindEmphasisFrames(means, config.EmphasisHorizon, config.EmphasisThreshold)

	if len(frames) != 1 || frames[0] != 0 {
		t.Errorf("Expected only frame 0 on a rising ramp, got %v", frames)
	}
}

// TestFindEmphasisFrames_SingleFrame verifies a one-frame track yields no
// emphasis points instead of dividing by zero.
func TestFindEmphasisFrames_SingleFrame(t *testing.T) {
	frames := FindEmphasisFrames([]float64{0.5}, config.EmphasisHorizon, config.EmphasisThreshold)
	if len(frames) != 0 {
		t.Errorf("Expected no emphasis frames for a single frame, got %v", frames)
	}
}
