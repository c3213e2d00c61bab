package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/boxtower/pkg/box"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	barStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	barCurStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// barWidth is the width, in cells, of the widest box's bar.
const barWidth = 40

// =============================================================================
// TowerModel - Interactive tower browser
// =============================================================================

// TowerModel is the bubbletea model for browsing a tower. The cursor starts
// on the top box; rows are shown top to bottom like the tower itself.
type TowerModel struct {
	Boxes  []box.Box
	Title  string
	Cursor int // index into Boxes, 0 is the bottom box
	Height int // visible rows
	Offset int // index of the lowest visible box
}

// NewTowerModel creates a tower browser over boxes (bottom to top).
func NewTowerModel(boxes []box.Box, title string) TowerModel {
	m := TowerModel{
		Boxes:  boxes,
		Title:  title,
		Cursor: len(boxes) - 1,
		Height: 15,
	}
	m.follow()
	return m
}

func (m TowerModel) Init() tea.Cmd {
	return nil
}

func (m TowerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor < len(m.Boxes)-1 {
				m.Cursor++
			}
		case "down", "j":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "home", "g":
			m.Cursor = len(m.Boxes) - 1
		case "end", "G":
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 3)
	}
	m.follow()
	return m, nil
}

// follow scrolls the window so the cursor stays visible.
func (m *TowerModel) follow() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(0, min(m.Offset, len(m.Boxes)-m.Height))
}

func (m TowerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(m.Boxes) == 0 {
		b.WriteString(listDimStyle.Render("  empty tower"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Boxes))
	b.WriteString(towerTable(m.Boxes, m.Offset, end, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(m.bars(m.Offset, end))
	b.WriteString("\n")

	cur := m.Boxes[m.Cursor]
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s  tower height %d",
		m.Cursor+1, len(m.Boxes), cur, box.TotalHeight(m.Boxes))))
	return b.String()
}

// bars draws each visible box as a bar scaled to the widest box.
func (m TowerModel) bars(from, to int) string {
	widest := 0
	for _, bx := range m.Boxes {
		widest = max(widest, bx.Width)
	}

	var b strings.Builder
	for i := to - 1; i >= from; i-- {
		n := max(1, m.Boxes[i].Width*barWidth/widest)
		pad := strings.Repeat(" ", (barWidth-n)/2)
		bar := strings.Repeat("█", n)
		if i == m.Cursor {
			bar = barCurStyle.Render(bar)
		} else {
			bar = barStyle.Render(bar)
		}
		b.WriteString("  " + pad + bar + "\n")
	}
	return b.String()
}

// runTowerView opens the interactive browser and blocks until it quits.
func runTowerView(ctx context.Context, boxes []box.Box, title string) error {
	if _, err := tea.NewProgram(NewTowerModel(boxes, title), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("tower view: %w", err)
	}
	return nil
}
