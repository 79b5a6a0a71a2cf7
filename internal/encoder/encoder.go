package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrEncoding reports a failure while producing the soundless video.
var ErrEncoding = errors.New("video encoding failed")

// Config holds the encoder configuration
type Config struct {
	OutputPath string // Path to the soundless MP4
	Width      int    // Video width in pixels
	Height     int    // Video height in pixels
	Framerate  int    // Frames per second
	FFmpegPath string // Encoder binary, defaults to "ffmpeg" on PATH
}

// Encoder pipes raw RGB24 frames into an external ffmpeg process that
// encodes them as H.264 in an MP4 container. Frames are written in strict
// order; the output carries no audio stream.
type Encoder struct {
	config Config

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer

	frames int
	rowBuf []byte
	closed bool
}

// New creates a new encoder instance
func New(config Config) (*Encoder, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrEncoding, config.Width, config.Height)
	}
	if config.Framerate <= 0 {
		return nil, fmt.Errorf("%w: invalid framerate %d", ErrEncoding, config.Framerate)
	}
	if config.OutputPath == "" {
		return nil, fmt.Errorf("%w: output path cannot be empty", ErrEncoding)
	}
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}

	return &Encoder{
		config: config,
		rowBuf: make([]byte, config.Width*3),
	}, nil
}

// buildVideoArgs assembles the ffmpeg invocation: rawvideo RGB24 on
// stdin, H.264 yuv420p MP4 out.
func buildVideoArgs(config Config) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", config.Width, config.Height),
		"-framerate", fmt.Sprintf("%d", config.Framerate),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		config.OutputPath,
	}
}

// Initialize starts the ffmpeg process and opens the frame pipe.
func (e *Encoder) Initialize() error {
	e.cmd = exec.Command(e.config.FFmpegPath, buildVideoArgs(e.config)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: creating pipe: %v", ErrEncoding, err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("%w: starting %s: %v", ErrEncoding, e.config.FFmpegPath, err)
	}
	return nil
}

// WriteFrameRGBA writes one frame from an RGBA pixel buffer, dropping the
// alpha channel on the way out. The buffer must be exactly
// width*height*4 bytes with rows in top-to-bottom order.
func (e *Encoder) WriteFrameRGBA(pix []byte) error {
	expected := e.config.Width * e.config.Height * 4
	if len(pix) != expected {
		return fmt.Errorf("%w: frame buffer is %d bytes, want %d", ErrEncoding, len(pix), expected)
	}
	if e.stdin == nil {
		return fmt.Errorf("%w: encoder not initialized", ErrEncoding)
	}

	for y := 0; y < e.config.Height; y++ {
		row := pix[y*e.config.Width*4 : (y+1)*e.config.Width*4]
		packRGB24(e.rowBuf, row)
		if _, err := e.stdin.Write(e.rowBuf); err != nil {
			return fmt.Errorf("%w: writing frame %d: %v", ErrEncoding, e.frames, err)
		}
	}

	e.frames++
	return nil
}

// FrameCount returns the number of frames written so far.
func (e *Encoder) FrameCount() int {
	return e.frames
}

// Close flushes the pipe and waits for ffmpeg to finish writing the
// container. Closing an encoder that never received a frame is an error;
// an empty frame sequence has nothing to encode.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.stdin != nil {
		e.stdin.Close()
	}

	var waitErr error
	if e.cmd != nil {
		waitErr = e.cmd.Wait()
	}

	if e.frames == 0 {
		return fmt.Errorf("%w: no frames were written", ErrEncoding)
	}
	if waitErr != nil {
		return fmt.Errorf("%w: %v%s", ErrEncoding, waitErr, stderrTail(&e.stderr))
	}
	return nil
}

// packRGB24 converts one RGBA row into packed RGB24.
func packRGB24(dst, src []byte) {
	di := 0
	for si := 0; si+3 < len(src); si += 4 {
		dst[di] = src[si]
		dst[di+1] = src[si+1]
		dst[di+2] = src[si+2]
		di += 3
	}
}

// stderrTail formats the last few lines of ffmpeg's stderr for error
// messages.
func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return ": " + strings.Join(lines, " | ")
}
