package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivehalo/internal/audio"
	"github.com/linuxmatters/jivehalo/internal/cli"
	"github.com/linuxmatters/jivehalo/internal/config"
	"github.com/linuxmatters/jivehalo/internal/encoder"
	"github.com/linuxmatters/jivehalo/internal/renderer"
	"github.com/linuxmatters/jivehalo/internal/ui"
	"golang.org/x/image/font"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input       string `arg:"" name:"input" help:"Input WAV file" optional:""`
	Channels    string `arg:"" name:"channels" help:"Channel mode: 0=single, 1=dual" optional:""`
	Silent      string `arg:"" name:"silent" help:"Output soundless MP4" optional:""`
	Output      string `arg:"" name:"output" help:"Output MP4 with the original audio" optional:""`
	Background  string `arg:"" name:"background" help:"Background: 0=static, 1=color-changing" optional:""`
	CircleWidth int    `arg:"" name:"circle-width" help:"Circle stroke width in pixels" default:"15" optional:""`

	Title     string  `help:"Overlay title text on every frame"`
	Seed      int64   `help:"Seed for the color-changing background" default:"1"`
	Snapshot  bool    `help:"Write a single PNG frame to <output> instead of video"`
	At        float64 `help:"Timestamp in seconds for the snapshot" default:"1.0"`
	NoPreview bool    `help:"Disable the terminal frame preview"`
	Version   bool    `help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jivehalo"),
		kong.Description("Spin your .wav into a hypnotic MP4 of pulsing neon halos."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.Input == "" || CLI.Channels == "" || CLI.Silent == "" || CLI.Output == "" || CLI.Background == "" {
		cli.PrintError("<input> <channels> <silent> <output> <background> are required")
		os.Exit(1)
	}

	// Mode arguments are validated before any audio is opened
	if CLI.Channels != "0" && CLI.Channels != "1" {
		cli.PrintError(fmt.Sprintf("invalid channels value: %s (must be 0 or 1)", CLI.Channels))
		os.Exit(1)
	}
	if CLI.Background != "0" && CLI.Background != "1" {
		cli.PrintError(fmt.Sprintf("invalid background value: %s (must be 0 or 1)", CLI.Background))
		os.Exit(1)
	}
	if CLI.CircleWidth < 1 {
		cli.PrintWarning(fmt.Sprintf("circle width %d clamped to 1", CLI.CircleWidth))
		CLI.CircleWidth = 1
	}

	if _, err := os.Stat(CLI.Input); os.IsNotExist(err) {
		cli.PrintError(fmt.Sprintf("input file does not exist: %s", CLI.Input))
		os.Exit(1)
	}

	_ = ctx // Kong context available for future use

	dual := CLI.Channels == "1"
	colorChanging := CLI.Background == "1"

	if CLI.Snapshot {
		generateSnapshot(dual, colorChanging)
		return
	}

	generateVideo(dual, colorChanging)
}

// generateSnapshot analyzes the track and writes the frame nearest --at
// as a PNG to the <output> path.
func generateSnapshot(dual, colorChanging bool) {
	profile, err := audio.AnalyzeTrack(CLI.Input, dual, nil)
	if err != nil {
		cli.PrintError(fmt.Sprintf("analyzing audio: %v", err))
		os.Exit(1)
	}

	target := int(CLI.At * float64(config.FPS))
	if target >= profile.NumFrames {
		cli.PrintError(fmt.Sprintf("timestamp %.2fs is beyond the audio duration", CLI.At))
		os.Exit(1)
	}

	stream := audio.NewParamStream(profile, audio.StreamConfig{
		ColorChanging: colorChanging,
		Seed:          CLI.Seed,
	})

	// The background color carries state between frames, so walk the
	// stream up to the target instead of jumping
	var params audio.FrameParams
	for {
		p, ok := stream.Next()
		if !ok {
			cli.PrintError("parameter stream ended early")
			os.Exit(1)
		}
		if p.Index == target {
			params = p
			break
		}
	}

	frame := renderer.NewFrame(renderer.Config{
		Width:       config.Width,
		Height:      config.Height,
		CircleWidth: float64(CLI.CircleWidth),
		Title:       CLI.Title,
		FontFace:    loadTitleFace(),
	})
	frame.Draw(params)

	if err := renderer.SaveSnapshot(CLI.Output, frame); err != nil {
		cli.PrintError(fmt.Sprintf("saving snapshot: %v", err))
		os.Exit(1)
	}

	cli.PrintSuccess(fmt.Sprintf("Snapshot saved to: %s", CLI.Output))
}

func generateVideo(dual, colorChanging bool) {
	// Pass 1: analyze the whole track
	model := ui.NewPass1Model()
	p := tea.NewProgram(model)

	var profile *audio.TrackProfile
	var analysisErr error

	go func() {
		profile, analysisErr = audio.AnalyzeTrack(CLI.Input, dual, func(frame, totalFrames int, bandLevels []float64, elapsed time.Duration) {
			p.Send(ui.Pass1Progress{
				Frame:       frame,
				TotalFrames: totalFrames,
				BandLevels:  bandLevels,
				Elapsed:     elapsed,
			})
		})

		if analysisErr == nil {
			p.Send(ui.Pass1Complete{
				NumFrames:  profile.NumFrames,
				Channels:   profile.Channels,
				SampleRate: profile.SampleRate,
				Duration:   time.Duration(profile.Duration * float64(time.Second)),
			})
		} else {
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("running UI: %v", err))
		os.Exit(1)
	}
	if analysisErr != nil {
		cli.PrintError(fmt.Sprintf("analyzing audio: %v", analysisErr))
		os.Exit(1)
	}

	// Pass 2: render frames and encode the soundless video
	pass2Model := ui.NewPass2Model(CLI.NoPreview)
	p2 := tea.NewProgram(pass2Model)

	enc, err := encoder.New(encoder.Config{
		OutputPath: CLI.Silent,
		Width:      config.Width,
		Height:     config.Height,
		Framerate:  config.FPS,
	})
	if err != nil {
		cli.PrintError(fmt.Sprintf("creating encoder: %v", err))
		os.Exit(1)
	}
	if err := enc.Initialize(); err != nil {
		cli.PrintError(fmt.Sprintf("initializing encoder: %v", err))
		os.Exit(1)
	}

	var encodingErr error

	go func() {
		stream := audio.NewParamStream(profile, audio.StreamConfig{
			ColorChanging: colorChanging,
			Seed:          CLI.Seed,
		})

		frame := renderer.NewFrame(renderer.Config{
			Width:       config.Width,
			Height:      config.Height,
			CircleWidth: float64(CLI.CircleWidth),
			Title:       CLI.Title,
			FontFace:    loadTitleFace(),
		})

		codecInfo := fmt.Sprintf("H.264 %d×%d @ %d fps", config.Width, config.Height, config.FPS)

		var totalDraw, totalWrite time.Duration
		renderStart := time.Now()

		for {
			params, ok := stream.Next()
			if !ok {
				break
			}

			t0 := time.Now()
			frame.Draw(params)
			totalDraw += time.Since(t0)

			t0 = time.Now()
			if err := enc.WriteFrameRGBA(frame.Image().Pix); err != nil {
				encodingErr = fmt.Errorf("encoding frame %d: %w", params.Index, err)
				p2.Quit()
				return
			}
			totalWrite += time.Since(t0)

			if params.Index%3 == 0 {
				var frameData *image.RGBA
				if !CLI.NoPreview && params.Index%6 == 0 {
					frameData = frame.Image()
				}

				var fileSize int64
				if info, err := os.Stat(CLI.Silent); err == nil {
					fileSize = info.Size()
				}

				p2.Send(ui.Pass2Progress{
					Frame:       params.Index + 1,
					TotalFrames: stream.Len(),
					Elapsed:     time.Since(renderStart),
					FileSize:    fileSize,
					FrameData:   frameData,
					VideoCodec:  codecInfo,
				})
			}
		}

		if err := enc.Close(); err != nil {
			encodingErr = fmt.Errorf("closing encoder: %w", err)
			p2.Quit()
			return
		}

		var fileSize int64
		if info, err := os.Stat(CLI.Silent); err == nil {
			fileSize = info.Size()
		}

		p2.Send(ui.Pass2Complete{
			OutputFile:  CLI.Silent,
			TotalFrames: enc.FrameCount(),
			FileSize:    fileSize,
			DrawTime:    totalDraw,
			EncodeTime:  totalWrite,
			TotalTime:   time.Since(renderStart),
		})
	}()

	if _, err := p2.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("running UI: %v", err))
		os.Exit(1)
	}
	if encodingErr != nil {
		cli.PrintError(fmt.Sprintf("during encoding: %v", encodingErr))
		os.Exit(1)
	}

	if enc.FrameCount() != profile.NumFrames {
		cli.PrintError(fmt.Sprintf("frame count mismatch: rendered %d, expected %d", enc.FrameCount(), profile.NumFrames))
		os.Exit(1)
	}

	// Final stage: mux the original audio into the soundless video
	cli.PrintInfo("Muxing", fmt.Sprintf("%s + %s → %s", CLI.Silent, CLI.Input, CLI.Output))
	if err := encoder.Mux(CLI.Silent, CLI.Input, CLI.Output); err != nil {
		cli.PrintError(fmt.Sprintf("muxing audio: %v", err))
		os.Exit(1)
	}

	cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", CLI.Output))
}

// loadTitleFace resolves the overlay font, or nil when no title is set
// or the embedded font fails to parse.
func loadTitleFace() font.Face {
	if CLI.Title == "" {
		return nil
	}
	face, err := renderer.LoadTitleFace(config.TitleFontSize)
	if err != nil {
		cli.PrintWarning(fmt.Sprintf("could not load title font: %v", err))
		return nil
	}
	return face
}
