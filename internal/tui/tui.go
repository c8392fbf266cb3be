package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger
	// Theme is light|dark|auto; VENCE_TUI_THEME wins when set.
	Theme string
	// Glyphs is unicode|ascii; VENCE_TUI_GLYPHS wins when set.
	Glyphs string
}

// Run starts the interactive dashboard and blocks until the user quits.
func Run(ctx context.Context, b Backend, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(ctx, b, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
