// Package ui provides terminal styling for specguard CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorDone = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorActive = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
)

var (
	DoneStyle   = lipgloss.NewStyle().Foreground(ColorDone)
	ActiveStyle = lipgloss.NewStyle().Foreground(ColorActive)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// HeaderStyle for section headers in checkpoint summaries
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconDone    = "✓"
	IconActive  = "▸"
	IconFail    = "✗"
	IconPending = "○"
)

// RenderDone renders text with completed (green) styling
func RenderDone(s string) string {
	return DoneStyle.Render(s)
}

// RenderActive renders text with in-progress (yellow) styling
func RenderActive(s string) string {
	return ActiveStyle.Render(s)
}

// RenderFail renders text with failure (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderHeader renders a bold section header
func RenderHeader(s string) string {
	return HeaderStyle.Render(s)
}

// StatusIcon returns the styled icon for a todo status string.
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return DoneStyle.Render(IconDone)
	case "in_progress":
		return ActiveStyle.Render(IconActive)
	default:
		return MutedStyle.Render(IconPending)
	}
}

// RenderProgress renders a done/total counter, green when complete.
func RenderProgress(done, total int) string {
	s := fmt.Sprintf("%d/%d", done, total)
	if total > 0 && done >= total {
		return DoneStyle.Render(s)
	}
	return ActiveStyle.Render(s)
}
