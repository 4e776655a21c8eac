// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     clock
// Description: Styles for the terminal clock
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package clock

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Clock face
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(0, 2)

	DateStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)
)

// Month calendar
var (
	MonthTitleStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	WeekdayStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(4).
			Align(lipgloss.Right)

	DayStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Width(4).
			Align(lipgloss.Right)

	TodayStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Width(4).
			Align(lipgloss.Right)

	WeekNumberStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Width(4).
			Align(lipgloss.Right)
)

// Status
var (
	AlarmStyle = lipgloss.NewStyle().
			Foreground(ColorBgPanel).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Logo
const Logo = "tempus"

// IconAlarm prefixes alarm notifications
const IconAlarm = "⏰ "
