package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pass1Progress represents progress updates from Pass 1 audio analysis
type Pass1Progress struct {
	Frame       int
	TotalFrames int
	BandLevels  []float64
	Elapsed     time.Duration
}

// Pass1Complete signals completion of Pass 1
type Pass1Complete struct {
	NumFrames  int
	Channels   int
	SampleRate int
	Duration   time.Duration
}

// quitTimerMsg is sent when it's time to quit after showing completion
type quitTimerMsg struct{}

// pass1Model implements the Bubbletea model for Pass 1
type pass1Model struct {
	progress   progress.Model
	lastUpdate Pass1Progress
	complete   *Pass1Complete
	startTime  time.Time
	width      int
	height     int
}

// NewPass1Model creates a new Pass 1 UI model
func NewPass1Model() tea.Model {
	return &pass1Model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
		startTime: time.Now(),
	}
}

// Init initializes the model
func (m *pass1Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *pass1Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case Pass1Progress:
		m.lastUpdate = msg
		return m, nil

	case Pass1Complete:
		m.complete = &msg
		return m, tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
			return quitTimerMsg{}
		})

	case quitTimerMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *pass1Model) View() string {
	if m.complete != nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

func (m *pass1Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF00FF")).
		Render("Jivehalo 🪩")

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render("Pass 1: Analyzing Audio"))
	s.WriteString("\n\n")

	if m.lastUpdate.TotalFrames > 0 {
		ratio := float64(m.lastUpdate.Frame) / float64(m.lastUpdate.TotalFrames)
		s.WriteString(m.progress.ViewAs(ratio))
		s.WriteString(fmt.Sprintf("  %d/%d frames  │  Elapsed: %s\n\n",
			m.lastUpdate.Frame,
			m.lastUpdate.TotalFrames,
			formatElapsed(m.lastUpdate.Elapsed)))
	} else {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting analysis...\n\n"))
	}

	if len(m.lastUpdate.BandLevels) > 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Band Levels:"))
		s.WriteString("\n")
		s.WriteString(renderBandMeters(m.lastUpdate.BandLevels, 32))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FF00FF")).
		Padding(1, 2).
		Render(s.String())
}

func (m *pass1Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#39FF14")).
		Render("✓ Analysis Complete!")

	s.WriteString(title)
	s.WriteString("\n\n")

	channelStr := "single"
	if m.complete.Channels == 2 {
		channelStr = "dual"
	}

	s.WriteString(fmt.Sprintf("  Duration:     %.1fs\n", m.complete.Duration.Seconds()))
	s.WriteString(fmt.Sprintf("  Sample Rate:  %.1f kHz\n", float64(m.complete.SampleRate)/1000.0))
	s.WriteString(fmt.Sprintf("  Channels:     %s\n", channelStr))
	s.WriteString(fmt.Sprintf("  Frames:       %d\n\n", m.complete.NumFrames))

	s.WriteString(fmt.Sprintf("Analysis completed in %.2fs", time.Since(m.startTime).Seconds()))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#39FF14")).
		Padding(1, 2).
		Render(s.String()) + "\n"
}

// bandNames labels the default frequency bands, low to high.
var bandNames = []string{"bass", "mid ", "high"}

// renderBandMeters draws one horizontal block meter per band.
func renderBandMeters(levels []float64, width int) string {
	maxLevel := 0.0
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	if maxLevel == 0 {
		maxLevel = 1.0
	}

	var s strings.Builder
	for i, l := range levels {
		name := "band"
		if i < len(bandNames) {
			name = bandNames[i]
		}

		filled := int(l / maxLevel * float64(width))
		if filled > width {
			filled = width
		}

		s.WriteString("  ")
		s.WriteString(lipgloss.NewStyle().Faint(true).Render(name))
		s.WriteString("  ")
		s.WriteString(strings.Repeat("█", filled))
		s.WriteString(strings.Repeat("░", width-filled))
		s.WriteString("\n")
	}
	return s.String()
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
