// Package pages renders the content region of the shell. Every function here
// is a pure function of page state; fetching and navigation live in package ui.
package pages

import (
	"fmt"
	"strings"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
)

// Status is the lifecycle of a page's data.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// Settings is what the settings page shows. It is local to the client.
type Settings struct {
	APIURL      string
	StorePath   string
	Timeout     string
	User        string
	MetricsAddr string
	LogFile     string
}

// Content is everything needed to draw one page.
type Content struct {
	Page      state.Page
	Status    Status
	Spinner   string
	Width     int
	Height    int
	Dashboard api.Dashboard
	Period    state.Period
	Table     *state.Table
	Filter    string
	Settings  Settings
}

// FailureMessage is the generic inline error for a page whose fetch failed.
func FailureMessage(p state.Page) string {
	return "Failed to load " + strings.ToLower(p.Title())
}

// Render draws the content region for c.
func Render(c Content, s *theme.Styles) string {
	lines := []string{theme.Render(s.PageTitle, c.Page.Title()), ""}
	switch c.Status {
	case StatusLoading:
		lines = append(lines, strings.TrimSpace(c.Spinner+" "+theme.Render(s.Loading, fmt.Sprintf("Loading %s…", strings.ToLower(c.Page.Title())))))
	case StatusFailed:
		lines = append(lines, theme.Render(s.Error, FailureMessage(c.Page)))
	default:
		switch c.Page {
		case state.PageDashboard:
			lines = append(lines, RenderDashboard(c.Dashboard, c.Period, c.Width, s)...)
		case state.PageSettings:
			lines = append(lines, RenderSettings(c.Settings, s)...)
		default:
			lines = append(lines, RenderTable(c.Page, c.Table, c.Filter, c.Height, s)...)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderSettings lists the client's local configuration.
func RenderSettings(st Settings, s *theme.Styles) []string {
	user := st.User
	if user == "" {
		user = "(restored session)"
	}
	metrics := st.MetricsAddr
	if metrics == "" {
		metrics = "disabled"
	}
	pairs := [][2]string{
		{"API URL", st.APIURL},
		{"Token store", st.StorePath},
		{"Request timeout", st.Timeout},
		{"Signed in as", user},
		{"Metrics", metrics},
		{"Log file", st.LogFile},
	}
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-len(p[0]))
		lines = append(lines, theme.Render(s.CardLabel, label)+"  "+p[1])
	}
	return lines
}
