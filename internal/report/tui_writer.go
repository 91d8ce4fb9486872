// Terminal results view for validation runs.
package report

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	tuiBorderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	tuiFooterStyle = lipgloss.NewStyle().Faint(true)
)

// TUIWriter renders the skill records as an interactive terminal table after
// the run completes.
type TUIWriter struct{}

// WriteSummary blocks until the user dismisses the view.
func (w *TUIWriter) WriteSummary(s Summary) error {
	columns := []table.Column{
		{Title: "Cohort", Width: 8},
		{Title: "t_obs [h]", Width: 10},
		{Title: "t_sim [h]", Width: 10},
		{Title: "Kappa", Width: 10},
		{Title: "Obs area [km²]", Width: 15},
	}

	rows := make([]table.Row, 0, len(s.Records))
	for i, r := range s.Records {
		area := ""
		if i < len(s.ObsAreasKm2) {
			area = fmt.Sprintf("%.2f", s.ObsAreasKm2[i])
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Cohort),
			fmt.Sprintf("%.2f", r.ObsSeconds/3600),
			formatMeasureHours(r.SimSeconds.Ptr()),
			formatMeasure(r.Kappa.Ptr()),
			area,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 20)),
	)

	m := resultsModel{
		title: fmt.Sprintf("%s — run %s", s.Case, s.RunID),
		table: t,
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

func formatMeasure(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatMeasureHours(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v/3600)
}

type resultsModel struct {
	title string
	table table.Model
}

func (m resultsModel) Init() tea.Cmd { return nil }

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m resultsModel) View() string {
	return tuiTitleStyle.Render(m.title) + "\n" +
		tuiBorderStyle.Render(m.table.View()) + "\n" +
		tuiFooterStyle.Render("q: quit  ↑/↓: scroll")
}
