package events

import "github.com/atomicstack/license-admin/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Show(page string, generation uint64) {
	logging.Trace("nav.show", map[string]interface{}{"page": page, "generation": generation})
}

func (NavTracer) Unknown(id string) {
	logging.Trace("nav.unknown", map[string]interface{}{"id": id})
}

func (NavTracer) Stale(page string, generation, current uint64) {
	logging.Trace("nav.stale", map[string]interface{}{"page": page, "generation": generation, "current": current})
}

func (NavTracer) ShellBuild(count int) {
	logging.Trace("nav.shell.build", map[string]interface{}{"count": count})
}

func (NavTracer) Period(period string) {
	logging.Trace("nav.dashboard.period", map[string]interface{}{"period": period})
}
