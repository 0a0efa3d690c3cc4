package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/campus"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Caret   lipgloss.Style
	UserBg  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t campus.Theme) Styles {
	return Styles{
		UserMsg: lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Caret:   lipgloss.NewStyle().Foreground(ansiColor(t.Caret)),
		UserBg:  lipgloss.NewStyle().Background(ansiColor(t.UserMsg)).PaddingLeft(1),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
