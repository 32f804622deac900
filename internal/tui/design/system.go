package design

import (
	"github.com/charmbracelet/lipgloss"
)

// Component dimensions
const (
	MinPanelHeight = 5
	MinPanelWidth  = 20

	// ActivityPaneHeight is the number of activity lines shown at the bottom.
	ActivityPaneHeight = 5
)

// Color Palette - semantic colors with light/dark mode support
var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#326CE5",
		Dark:  "#5B8DEF",
	}
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#D97706",
		Dark:  "#F59E0B",
	}
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#D1D5DB",
		Dark:  "#404040",
	}
	ColorBorderFocus = lipgloss.AdaptiveColor{
		Light: "#326CE5",
		Dark:  "#5B8DEF",
	}
	ColorText = lipgloss.AdaptiveColor{
		Light: "#111827",
		Dark:  "#F9FAFB",
	}
	ColorTextMuted = lipgloss.AdaptiveColor{
		Light: "#9CA3AF",
		Dark:  "#6B7280",
	}
	ColorHighlight = lipgloss.AdaptiveColor{
		Light: "#E8F0FE",
		Dark:  "#1E3A6E",
	}
	ColorStatusBar = lipgloss.AdaptiveColor{
		Light: "#E5E7EB",
		Dark:  "#262626",
	}
)

// Styles
var (
	AppStyle = lipgloss.NewStyle()

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Padding(0, 1)

	HeaderKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HeaderValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Underline(true).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelFocusedStyle = PanelStyle.
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTextMuted)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorHighlight).
				Foreground(ColorText)

	MarkedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorStatusBar).
			Foreground(ColorText).
			Padding(0, 1)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorBorderFocus).
			Padding(1, 2)
)

// GetStatusStyle returns the style for a pod or namespace status.
func GetStatusStyle(status string) lipgloss.Style {
	switch status {
	case "Running", "Active", "Succeeded", "Completed", "Normal":
		return SuccessStyle
	case "Pending", "ContainerCreating", "PodInitializing", "Terminating", "Warning":
		return WarningStyle
	case "Failed", "Error", "CrashLoopBackOff", "ImagePullBackOff", "ErrImagePull", "OOMKilled", "Unknown":
		return ErrorStyle
	default:
		return lipgloss.NewStyle().Foreground(ColorText)
	}
}

// Initialize sets up the design system
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
