// Package tui renders the interactive cache-administration panel.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ViewState identifies the top-level screen the panel is showing.
type ViewState int

const (
	// ViewStateLoading is the spinner shown until the first status fetch
	// resolves.
	ViewStateLoading ViewState = iota
	// ViewStateList is the card list, the panel's home screen.
	ViewStateList
	// ViewStateConfirm is the modal confirmation shown before a clear.
	ViewStateConfirm
	// ViewStateQuitting means the session is over; late results are
	// discarded.
	ViewStateQuitting
)

// Key bindings shared across panel states.
const (
	keyQuit       = "q"
	keyCtrlC      = "ctrl+c"
	keyEnter      = "enter"
	keyEsc        = "esc"
	keySlash      = "/"
	keyUp         = "up"
	keyDown       = "down"
	keyJ          = "j"
	keyK          = "k"
	keyYes        = "y"
	keyNo         = "n"
	keyRefresh    = "r"
	keyRefreshAll = "a"
	keyClear      = "c"
	keyReload     = "g"
)

// Default dimensions used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// borderPadding accounts for box borders when sizing content width.
const borderPadding = 2

// Color palette.
//
//nolint:gochecknoglobals // Shared palette.
var (
	ColorOK        = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorCritical  = lipgloss.Color("196")
	ColorMuted     = lipgloss.Color("241")
	ColorHeader    = lipgloss.Color("99")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorHighlight = lipgloss.Color("212")
	ColorBorder    = lipgloss.Color("240")
	ColorSpinner   = lipgloss.Color("205")
)

// Severity icons shown on cache cards.
const (
	IconPositive    = "●"
	IconWarning     = "◐"
	IconDestructive = "○"
)

// Shared styles.
//
//nolint:gochecknoglobals // Shared styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	OKStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	SelectedBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorHighlight).
				Padding(0, 1)
)

// OutputMode selects how command output is rendered.
type OutputMode int

const (
	// OutputModePlain is unstyled text for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored static output on a TTY.
	OutputModeStyled
	// OutputModeInteractive is the full-screen panel.
	OutputModeInteractive
)

// DetectOutputMode picks the richest rendering the terminal supports.
// Interactive requires both a TTY and the caller asking for it; the plain
// flag or NO_COLOR downgrades everything to plain output.
func DetectOutputMode(interactive, plain, noColor bool) OutputMode {
	if plain || noColor || !IsTTY() {
		return OutputModePlain
	}
	if interactive {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the current terminal width, or defaultWidth when it
// cannot be determined.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// LoadingState couples a spinner with its status message.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: "Loading cache status..."}
}

// Init starts the spinner tick loop.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner animation.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the string to display for a loading screen. If
// loading is nil, it returns the plain text "Loading...".
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return "Loading..."
	}
	return fmt.Sprintf("\n %s %s\n\n", loading.spinner.View(), loading.message)
}

// newTextInput builds the filter input shared by panel screens.
func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter caches"
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}
