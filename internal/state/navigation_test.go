package state

import "testing"

func TestParsePage(t *testing.T) {
	for _, p := range Pages() {
		got, ok := ParsePage(p.String())
		if !ok || got != p {
			t.Fatalf("expected %s to round-trip, got %v/%v", p, got, ok)
		}
	}
	if _, ok := ParsePage("nonexistent"); ok {
		t.Fatal("expected unknown page to be rejected")
	}
	if got, ok := ParsePage(" Customers "); !ok || got != PageCustomers {
		t.Fatalf("expected case-insensitive match, got %v/%v", got, ok)
	}
}

func TestPageCycleWraps(t *testing.T) {
	if PageSettings.Next() != PageDashboard {
		t.Fatalf("expected settings to wrap to dashboard, got %s", PageSettings.Next())
	}
	if PageDashboard.Prev() != PageSettings {
		t.Fatalf("expected dashboard to wrap back to settings, got %s", PageDashboard.Prev())
	}
}

func TestNavigationGenerationTagsDispatches(t *testing.T) {
	nav := NewNavigation()
	first := nav.Show(PageCustomers)
	second := nav.Show(PageProducts)
	if second <= first {
		t.Fatalf("expected increasing generations, got %d then %d", first, second)
	}
	if nav.Accepts(PageCustomers, first) {
		t.Fatal("expected stale customers result to be rejected")
	}
	if !nav.Accepts(PageProducts, second) {
		t.Fatal("expected current products result to be accepted")
	}
	if nav.Accepts(PageProducts, first) {
		t.Fatal("expected result with old generation to be rejected")
	}
}

func TestLayoutRenderedOncePerSession(t *testing.T) {
	nav := NewNavigation()
	if !nav.MarkLayoutRendered() {
		t.Fatal("expected first mark to succeed")
	}
	if nav.MarkLayoutRendered() {
		t.Fatal("expected second mark to be refused")
	}
	gen := nav.Show(PageLicenses)
	nav.Reset()
	if nav.LayoutRendered() {
		t.Fatal("expected reset to clear layout flag")
	}
	if nav.Current() != PageDashboard {
		t.Fatalf("expected reset to return to dashboard, got %s", nav.Current())
	}
	if nav.Accepts(PageLicenses, gen) {
		t.Fatal("expected fetch from before reset to be stale")
	}
	if !nav.MarkLayoutRendered() {
		t.Fatal("expected mark to succeed after reset")
	}
}
