package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Brand             *lipgloss.Style
	Header            *lipgloss.Style
	HeaderUser        *lipgloss.Style
	Sidebar           *lipgloss.Style
	SidebarItem       *lipgloss.Style
	SidebarActive     *lipgloss.Style
	PageTitle         *lipgloss.Style
	Loading           *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Footer            *lipgloss.Style
	TableHeader       *lipgloss.Style
	TableRow          *lipgloss.Style
	TableSelected     *lipgloss.Style
	CardLabel         *lipgloss.Style
	CardValue         *lipgloss.Style
	ChartBar          *lipgloss.Style
	ChartLabel        *lipgloss.Style
	PeriodActive      *lipgloss.Style
	FormLabel         *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	StatusGood        *lipgloss.Style
	StatusBad         *lipgloss.Style
}

var defaultStyles = Styles{
	Brand: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	HeaderUser: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Sidebar: ptr(
		lipgloss.NewStyle().PaddingRight(2).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("238")),
	),
	SidebarItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SidebarActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	PageTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	TableHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	TableRow: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	TableSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	CardLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	CardValue: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	ChartBar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	ChartLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	PeriodActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	FormLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	StatusGood: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	StatusBad: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Render applies style when it is set.
func Render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
