package events

import "github.com/atomicstack/license-admin/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Command(name string) {
	logging.Trace("app.command", map[string]interface{}{"command": name})
}
