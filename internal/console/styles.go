package console

import "github.com/charmbracelet/lipgloss"

// Styles for console output.
type Styles struct {
	Header  lipgloss.Style
	Event   lipgloss.Style
	Street  lipgloss.Style
	Pot     lipgloss.Style
	Winner  lipgloss.Style
	Acting  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles builds the styles for a renderer. Renderers on non-terminals
// produce plain text.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Event: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Street: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Pot: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Acting: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
	}
}
