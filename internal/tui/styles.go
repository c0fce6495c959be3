package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader   = lipgloss.Color("39")
	ColorBorder   = lipgloss.Color("240")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("252")
	ColorMuted    = lipgloss.Color("241")
	ColorWarning  = lipgloss.Color("214")
	ColorError    = lipgloss.Color("196")
	ColorOK       = lipgloss.Color("42")
	ColorSelected = lipgloss.Color("236")
)

// Text shown in place of an unresolved row.
const (
	LoadingText = "... loading"
	FailedText  = "! failed to load"
)

// paneSeparator is drawn between adjacent panes.
const paneSeparator = "│"

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	headerStyle      = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	groupHeaderStyle = lipgloss.NewStyle().Foreground(ColorLabel).Bold(true)
	cellStyle        = lipgloss.NewStyle().Foreground(ColorValue)
	selectedStyle    = lipgloss.NewStyle().Foreground(ColorValue).Background(ColorSelected).Bold(true)
	loadingStyle     = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	failedStyle      = lipgloss.NewStyle().Foreground(ColorError)
	separatorStyle   = lipgloss.NewStyle().Foreground(ColorBorder)
	statusStyle      = lipgloss.NewStyle().Foreground(ColorLabel)
	errorStyle       = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
)
