package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mdouchement/platinumd"
)

type model struct {
	table table.Model
}

func newTUI() *model {
	columns := []table.Column{
		{Title: "Sensors", Width: 20},
		{Title: "Readings", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		Foreground(lipgloss.Color("#00afff")).
		BorderForeground(lipgloss.Color("#00afff")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Bold(false)
	t.SetStyles(s)

	return &model{
		table: t,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height)
	case platinumd.Snapshot:
		m.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return m.table.View()
}

func (m *model) update(snapshot platinumd.Snapshot) {
	rows := make([]table.Row, 0, len(snapshot.Fans)+2)

	rows = append(rows, table.Row{
		"coolant",
		fmt.Sprintf("%.1f°C", snapshot.Temperature),
	})
	rows = append(rows, table.Row{
		fmt.Sprintf("pump(%s)", snapshot.PumpMode),
		fmt.Sprintf("%4d RPM", snapshot.PumpRPM),
	})

	for i, fan := range snapshot.Fans {
		duty := "auto"
		if fan.Duty != platinumd.DutyAuto {
			duty = fmt.Sprintf("%2d%%", fan.Duty)
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("fan%d(%s)", i+1, fan.Label),
			fmt.Sprintf("%4d RPM (%s)", fan.RPM, duty),
		})
	}

	m.table.SetRows(rows)
}
