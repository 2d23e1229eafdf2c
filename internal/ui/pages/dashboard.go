package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
)

var cardStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("238")).
	Padding(0, 1).
	MarginRight(1)

// RenderDashboard draws the stat cards, system health and the validations
// chart for period.
func RenderDashboard(d api.Dashboard, period state.Period, width int, s *theme.Styles) []string {
	cards := []string{
		card("Customers", fmt.Sprint(d.Stats.TotalCustomers), s),
		card("Active licenses", fmt.Sprint(d.Stats.ActiveLicenses), s),
		card("Products", fmt.Sprint(d.Stats.TotalProducts), s),
		card("Validations today", fmt.Sprint(d.Stats.ValidationsToday), s),
	}
	lines := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cards...), "\n")
	lines = append(lines,
		"",
		theme.Render(s.CardLabel, "System health")+"  "+fmt.Sprintf("avg response %.1f ms", d.SystemHealth.AvgResponseTime),
		"",
		theme.Render(s.Header, "Validations")+"  "+periodSelector(period, s),
	)
	return append(lines, RenderChart(period, width, s)...)
}

func card(label, value string, s *theme.Styles) string {
	return cardStyle.Render(theme.Render(s.CardLabel, label) + "\n" + theme.Render(s.CardValue, value))
}

func periodSelector(active state.Period, s *theme.Styles) string {
	parts := make([]string, 0, 4)
	for _, p := range state.Periods() {
		label := fmt.Sprintf("[%s]%s", string(p)[:1], string(p)[1:])
		if p == active {
			label = theme.Render(s.PeriodActive, label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}
