package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrMux reports a failure while combining the soundless video with the
// original audio track.
var ErrMux = errors.New("audio mux failed")

// Mux invokes ffmpeg to produce a single MP4 carrying the soundless
// video's visual stream and the original audio. The video stream is
// copied untouched; the audio is encoded to AAC. The call blocks until
// ffmpeg exits and is never retried.
func Mux(videoPath, audioPath, outputPath string) error {
	return MuxWith("ffmpeg", videoPath, audioPath, outputPath)
}

// MuxWith is Mux with an explicit encoder binary.
func MuxWith(ffmpegPath, videoPath, audioPath, outputPath string) error {
	var stderr bytes.Buffer

	cmd := exec.Command(ffmpegPath, buildMuxArgs(videoPath, audioPath, outputPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v%s", ErrMux, err, stderrTail(&stderr))
	}
	return nil
}

func buildMuxArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outputPath,
	}
}
