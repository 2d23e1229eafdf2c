// Package state holds the client's UI state that outlives a single render:
// which page is showing, whether the shell has been built, and the rows of
// the table pages.
package state

import "strings"

// Page identifies one of the shell's content pages.
type Page int

const (
	PageDashboard Page = iota
	PageCustomers
	PageProducts
	PageLicenses
	PageRules
	PageSecurity
	PageSettings
)

var pageIDs = [...]string{"dashboard", "customers", "products", "licenses", "rules", "security", "settings"}

var pageTitles = [...]string{"Dashboard", "Customers", "Products", "Licenses", "Rules", "Security", "Settings"}

// Pages lists every page in sidebar order.
func Pages() []Page {
	out := make([]Page, len(pageIDs))
	for i := range pageIDs {
		out[i] = Page(i)
	}
	return out
}

// ParsePage maps a page identifier to its Page.
func ParsePage(id string) (Page, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for i, candidate := range pageIDs {
		if candidate == id {
			return Page(i), true
		}
	}
	return 0, false
}

func (p Page) Valid() bool {
	return p >= 0 && int(p) < len(pageIDs)
}

// String returns the page identifier.
func (p Page) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return pageIDs[p]
}

// Title returns the label shown in the sidebar and header.
func (p Page) Title() string {
	if !p.Valid() {
		return ""
	}
	return pageTitles[p]
}

// Next returns the following page, wrapping around.
func (p Page) Next() Page {
	return Page((int(p) + 1) % len(pageIDs))
}

// Prev returns the preceding page, wrapping around.
func (p Page) Prev() Page {
	return Page((int(p) + len(pageIDs) - 1) % len(pageIDs))
}

// Navigation tracks the current page, whether the shell has been rendered
// for this session, and a generation counter used to tag page fetches.
type Navigation struct {
	current        Page
	layoutRendered bool
	generation     uint64
}

// NewNavigation starts on the dashboard with no shell rendered.
func NewNavigation() *Navigation {
	return &Navigation{current: PageDashboard}
}

func (n *Navigation) Current() Page {
	return n.current
}

// Show makes p current and returns the new generation.
func (n *Navigation) Show(p Page) uint64 {
	n.current = p
	n.generation++
	return n.generation
}

// Generation returns the tag of the most recent dispatch.
func (n *Navigation) Generation() uint64 {
	return n.generation
}

// Accepts reports whether a result fetched for p at generation gen still
// belongs on screen.
func (n *Navigation) Accepts(p Page, gen uint64) bool {
	return n.current == p && n.generation == gen
}

func (n *Navigation) LayoutRendered() bool {
	return n.layoutRendered
}

// MarkLayoutRendered records the shell build. It reports false when the
// shell was already rendered.
func (n *Navigation) MarkLayoutRendered() bool {
	if n.layoutRendered {
		return false
	}
	n.layoutRendered = true
	return true
}

// Reset returns to the logged-out state. The generation keeps counting so
// fetches issued before the reset are recognised as stale.
func (n *Navigation) Reset() {
	n.current = PageDashboard
	n.layoutRendered = false
	n.generation++
}
