package pages

import (
	"strings"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/format/table"
	"github.com/atomicstack/license-admin/internal/state"
)

var columnSpecs = map[state.Page][]table.Column{
	state.PageCustomers: {
		{Title: "Name", Max: 28},
		{Title: "Email", Max: 32},
		{Title: "Company", Max: 24},
		{Title: "Status"},
		{Title: "Created"},
	},
	state.PageProducts: {
		{Title: "Name", Max: 28},
		{Title: "Version"},
		{Title: "Rules", Max: 30},
		{Title: "Description", Max: 40},
	},
	state.PageLicenses: {
		{Title: "Key", Max: 24},
		{Title: "Customer", Max: 24},
		{Title: "Product", Max: 24},
		{Title: "Status"},
		{Title: "Expires"},
	},
	state.PageRules: {
		{Title: "Name", Max: 28},
		{Title: "Type"},
		{Title: "Enabled"},
		{Title: "Description", Max: 48},
	},
	state.PageSecurity: {
		{Title: "Time"},
		{Title: "Event", Max: 24},
		{Title: "Severity"},
		{Title: "IP"},
		{Title: "Description", Max: 48},
	},
}

// Columns returns the column layout of a table page.
func Columns(p state.Page) []table.Column {
	return columnSpecs[p]
}

func titles(p state.Page) []string {
	cols := columnSpecs[p]
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title
	}
	return out
}

// CustomerTable builds the customers page rows.
func CustomerTable(list []api.Customer) *state.Table {
	rows := make([]state.Row, len(list))
	for i, c := range list {
		rows[i] = state.Row{ID: string(c.ID), Cells: []string{c.Name, c.Email, dash(c.Company), dash(c.Status), shortDate(c.CreatedAt)}}
	}
	return state.NewTable(titles(state.PageCustomers), rows)
}

// ProductTable builds the products page rows.
func ProductTable(list []api.Product) *state.Table {
	rows := make([]state.Row, len(list))
	for i, p := range list {
		rules := "-"
		if len(p.Rules) > 0 {
			rules = strings.Join(p.Rules, ", ")
		}
		rows[i] = state.Row{ID: string(p.ID), Cells: []string{p.Name, p.Version, rules, dash(p.Description)}}
	}
	return state.NewTable(titles(state.PageProducts), rows)
}

// LicenseTable builds the licenses page rows.
func LicenseTable(list []api.License) *state.Table {
	rows := make([]state.Row, len(list))
	for i, l := range list {
		rows[i] = state.Row{ID: string(l.ID), Cells: []string{l.LicenseKey, dash(l.CustomerName), dash(l.ProductName), dash(l.Status), shortDate(l.ExpiresAt)}}
	}
	return state.NewTable(titles(state.PageLicenses), rows)
}

// RuleTable builds the rules page rows.
func RuleTable(list []api.Rule) *state.Table {
	rows := make([]state.Row, len(list))
	for i, r := range list {
		enabled := "no"
		if r.Enabled {
			enabled = "yes"
		}
		rows[i] = state.Row{ID: string(r.ID), Cells: []string{r.Name, dash(r.Type), enabled, dash(r.Description)}}
	}
	return state.NewTable(titles(state.PageRules), rows)
}

// SecurityTable builds the security page rows.
func SecurityTable(list []api.SecurityEvent) *state.Table {
	rows := make([]state.Row, len(list))
	for i, e := range list {
		rows[i] = state.Row{ID: string(e.ID), Cells: []string{shortTime(e.CreatedAt), dash(e.Type), dash(e.Severity), dash(e.IPAddress), dash(e.Description)}}
	}
	return state.NewTable(titles(state.PageSecurity), rows)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func shortDate(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return dash(s)
}

func shortTime(s string) string {
	if len(s) >= 16 && s[4] == '-' && (s[10] == 'T' || s[10] == ' ') {
		return s[:10] + " " + s[11:16]
	}
	return dash(s)
}
