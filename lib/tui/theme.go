// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for p2repo reports. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color

	// Artifact kinds.
	BundleColor  lipgloss.Color
	FeatureColor lipgloss.Color

	// Outcome colors.
	SuccessColor lipgloss.Color
	WarningColor lipgloss.Color
	ErrorColor   lipgloss.Color
}

// ArtifactColor returns the color for an artifact type ("bundle" or
// "feature"), or FaintText for anything else.
func (theme Theme) ArtifactColor(artifactType string) lipgloss.Color {
	switch artifactType {
	case "bundle":
		return theme.BundleColor
	case "feature":
		return theme.FeatureColor
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),

	BundleColor:  lipgloss.Color("75"),  // blue
	FeatureColor: lipgloss.Color("141"), // light purple

	SuccessColor: lipgloss.Color("114"), // green
	WarningColor: lipgloss.Color("220"), // amber
	ErrorColor:   lipgloss.Color("196"), // red
}

// Styles are the lipgloss styles a report renders with. They are
// bound to one output so color detection follows that writer rather
// than the process's stdout.
type Styles struct {
	Header  lipgloss.Style
	Faint   lipgloss.Style
	Normal  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	theme    Theme
	renderer *lipgloss.Renderer
}

// NewStyles builds the styles of theme for output written to w.
func NewStyles(w io.Writer, theme Theme) *Styles {
	renderer := lipgloss.NewRenderer(w)
	return &Styles{
		Header:   renderer.NewStyle().Foreground(theme.HeaderForeground).Bold(true),
		Faint:    renderer.NewStyle().Foreground(theme.FaintText),
		Normal:   renderer.NewStyle().Foreground(theme.NormalText),
		Success:  renderer.NewStyle().Foreground(theme.SuccessColor),
		Warning:  renderer.NewStyle().Foreground(theme.WarningColor),
		Error:    renderer.NewStyle().Foreground(theme.ErrorColor).Bold(true),
		theme:    theme,
		renderer: renderer,
	}
}

// Artifact returns the style for an artifact type.
func (styles *Styles) Artifact(artifactType string) lipgloss.Style {
	return styles.renderer.NewStyle().Foreground(styles.theme.ArtifactColor(artifactType))
}
