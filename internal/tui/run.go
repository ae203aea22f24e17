package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the editor full screen until the user quits or ctx is done.
// All mouse motion is requested so that hovering selects deletion targets.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
