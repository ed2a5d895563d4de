// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette shared by every command's output.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED") // section titles
	ColorMuted     = lipgloss.Color("#6B7280") // subtitles, pending tasks
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B") // labels
	ColorHighlight = lipgloss.Color("#3B82F6") // task names, progress arrows
	ColorVerbose   = lipgloss.Color("#9CA3AF") // values, durations
)

var (
	TitleStyle            = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle         = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle          = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle            = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	CmdStyle              = lipgloss.NewStyle().Foreground(ColorHighlight)
	VerboseStyle          = lipgloss.NewStyle().Foreground(ColorVerbose)
	VerboseHighlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight)

	// labelStyle is widened per table by renderSections.
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	valueStyle = lipgloss.NewStyle().Foreground(ColorVerbose)
	hintStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)
