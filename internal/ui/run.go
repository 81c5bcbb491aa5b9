package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/cramweek/internal/engine"
	"github.com/DaanHessen/cramweek/internal/store"
	"github.com/DaanHessen/cramweek/internal/text"
	"github.com/DaanHessen/cramweek/internal/util"
)

// Run boots the TUI program and blocks until it exits. archive may be nil.
func Run(ctx context.Context, game *engine.Game, archive store.ResultArchive, narrator text.Narrator, cfg util.Config) error {
	m := newModel(ctx, game, narrator, archive, cfg)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
