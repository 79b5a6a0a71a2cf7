package cli

import "github.com/charmbracelet/lipgloss"

// Neon halo palette 🪩
// Shared colours for consistent branding across CLI and TUI
var (
	// Core halo colours
	HaloMagenta = lipgloss.Color("#FF00FF") // Electric magenta
	HaloCyan    = lipgloss.Color("#00E5FF") // Bright cyan
	HaloViolet  = lipgloss.Color("#8A2BE2") // Blue-violet
	HaloGreen   = lipgloss.Color("#39FF14") // Neon green

	// Accent colours
	CoolGray = lipgloss.Color("#7A7A8C") // Muted slate for subtle text
)
