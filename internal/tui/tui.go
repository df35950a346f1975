package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// Run opens the filament editor in the alternate screen buffer and blocks
// until the user confirms or cancels. It returns the edit set for the kept
// rows and whether the user confirmed.
func Run(fils []filament.Filament, types []string) (map[string]filament.Edit, bool, error) {
	p := tea.NewProgram(NewEditor(fils, types), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("tui: %w", err)
	}
	ed, ok := final.(Editor)
	if !ok {
		return nil, false, nil
	}
	edits, confirmed := ed.Edits()
	return edits, confirmed, nil
}
