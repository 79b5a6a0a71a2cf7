package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pass2Progress represents progress updates from Pass 2 video rendering
type Pass2Progress struct {
	Frame       int
	TotalFrames int
	Elapsed     time.Duration
	FileSize    int64       // Current soundless video size on disk
	FrameData   *image.RGBA // Current frame for the terminal preview (optional)
	VideoCodec  string      // e.g. "H.264 1920×1080"
}

// Pass2Complete signals completion of Pass 2
type Pass2Complete struct {
	OutputFile  string
	TotalFrames int
	FileSize    int64
	DrawTime    time.Duration
	EncodeTime  time.Duration
	TotalTime   time.Duration
}

// quitTimerMsg2 is sent when it's time to quit after showing completion
type quitTimerMsg2 struct{}

// pass2Model implements the Bubbletea model for Pass 2
type pass2Model struct {
	progress       progress.Model
	lastUpdate     Pass2Progress
	complete       *Pass2Complete
	startTime      time.Time
	width          int
	height         int
	noPreview      bool
	cachedPreview  string
	cachedFrameNum int
}

// NewPass2Model creates a new Pass 2 UI model
func NewPass2Model(noPreview bool) tea.Model {
	return &pass2Model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
		startTime: time.Now(),
		noPreview: noPreview,
	}
}

// Init initializes the model
func (m *pass2Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *pass2Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = minInt(msg.Width-30, 50)
		return m, nil

	case Pass2Progress:
		m.lastUpdate = msg
		return m, nil

	case Pass2Complete:
		m.complete = &msg
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return quitTimerMsg2{}
		})

	case quitTimerMsg2:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *pass2Model) View() string {
	if m.complete != nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

func (m *pass2Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF00FF")).
		Render("Jivehalo 🪩")

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render("Pass 2: Rendering Video"))
	s.WriteString("\n\n")

	if m.lastUpdate.TotalFrames > 0 {
		ratio := float64(m.lastUpdate.Frame) / float64(m.lastUpdate.TotalFrames)
		s.WriteString(m.progress.ViewAs(ratio))
		s.WriteString(fmt.Sprintf("  %d/%d frames\n", m.lastUpdate.Frame, m.lastUpdate.TotalFrames))

		fps := 0.0
		if m.lastUpdate.Elapsed > 0 {
			fps = float64(m.lastUpdate.Frame) / m.lastUpdate.Elapsed.Seconds()
		}
		s.WriteString(fmt.Sprintf("  %s elapsed  │  %.0f fps  │  %s\n",
			formatElapsed(m.lastUpdate.Elapsed),
			fps,
			formatSize(m.lastUpdate.FileSize)))

		if m.lastUpdate.VideoCodec != "" {
			s.WriteString(lipgloss.NewStyle().Faint(true).Render("  " + m.lastUpdate.VideoCodec))
			s.WriteString("\n")
		}
	} else {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting render...\n"))
	}

	if !m.noPreview && m.lastUpdate.FrameData != nil {
		// Re-render the preview only when a new frame arrives
		if m.cachedFrameNum != m.lastUpdate.Frame || m.cachedPreview == "" {
			m.cachedPreview = RenderFramePreview(m.lastUpdate.FrameData, DefaultPreviewConfig())
			m.cachedFrameNum = m.lastUpdate.Frame
		}
		s.WriteString("\n")
		s.WriteString(m.cachedPreview)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FF00FF")).
		Padding(1, 2).
		Render(s.String())
}

func (m *pass2Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#39FF14")).
		Render("✓ Render Complete!")

	s.WriteString(title)
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  Output:     %s\n", m.complete.OutputFile))
	s.WriteString(fmt.Sprintf("  Frames:     %d\n", m.complete.TotalFrames))
	s.WriteString(fmt.Sprintf("  File Size:  %s\n", formatSize(m.complete.FileSize)))
	s.WriteString(fmt.Sprintf("  Draw:       %s  │  Encode: %s\n",
		formatElapsed(m.complete.DrawTime),
		formatElapsed(m.complete.EncodeTime)))
	s.WriteString(fmt.Sprintf("  Total:      %s", formatElapsed(m.complete.TotalTime)))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#39FF14")).
		Padding(1, 2).
		Render(s.String()) + "\n"
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
