package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonkit/internal/ui/layout"
)

// Screen is one full-window view managed by the router.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status in the
// right side of the header.
type StatusProvider interface {
	Status() string
}
