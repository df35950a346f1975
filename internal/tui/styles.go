package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // cyan, primary accent
	colorSuccess    = lipgloss.Color("#00E676") // green, kept rows
	colorDanger     = lipgloss.Color("#FF5252") // red, errors
	colorMuted      = lipgloss.Color("#636363") // gray, dropped rows and separators
	colorMutedLight = lipgloss.Color("#8C8C8C") // lighter gray, normal text
	colorWhite      = lipgloss.Color("#EEEEEE") // off-white, selected row
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▸"

// Keep column icons.
const (
	iconKeep = "✓"
	iconDrop = "✗"
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleHeader = lipgloss.NewStyle().
			Foreground(colorMutedLight).
			Bold(true)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowDropped = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	styleKeep = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleDrop = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)
)
