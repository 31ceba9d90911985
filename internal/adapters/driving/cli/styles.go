package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette shared by every command.
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#06B6D4")
	colorMuted     = lipgloss.Color("#6C7086")
	colorSuccess   = lipgloss.Color("#A6E3A1")
	colorWarning   = lipgloss.Color("#F9E2AF")
	colorError     = lipgloss.Color("#F38BA8")
	colorBorder    = lipgloss.Color("#45475A")
)

// styles renders for one output writer; colour is dropped when the
// writer is not a terminal.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	err      lipgloss.Style
	border   lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		title:    r.NewStyle().Bold(true).Foreground(colorPrimary),
		subtitle: r.NewStyle().Bold(true).Foreground(colorSecondary),
		muted:    r.NewStyle().Foreground(colorMuted),
		success:  r.NewStyle().Foreground(colorSuccess),
		warning:  r.NewStyle().Foreground(colorWarning),
		err:      r.NewStyle().Foreground(colorError),
		border:   r.NewStyle().Foreground(colorBorder),
		header:   r.NewStyle().Bold(true).Foreground(colorSecondary).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
	}
}

// table renders rows under headers with a rounded border.
func (s *styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		String()
}
