package explore

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary    = lipgloss.Color("#00BFFF")
	colorMuted      = lipgloss.Color("#636363")
	colorMutedLight = lipgloss.Color("#8C8C8C")
	colorWhite      = lipgloss.Color("#EEEEEE")
	colorSurface    = lipgloss.Color("#1E1E2E")
)

const selectionIndicator = "▎"

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleList = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorMutedLight).
			Bold(true)
)
