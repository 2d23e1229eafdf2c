package events

import (
	"time"

	"github.com/atomicstack/license-admin/internal/logging"
)

type APITracer struct{}

var API = APITracer{}

func (APITracer) Request(id, method, path string) {
	logging.Trace("api.request", map[string]interface{}{"id": id, "method": method, "path": path})
}

func (APITracer) Response(id string, status int, elapsed time.Duration) {
	logging.Trace("api.response", map[string]interface{}{"id": id, "status": status, "elapsed_ms": elapsed.Milliseconds()})
}

func (APITracer) Failure(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("api.failure", map[string]interface{}{"id": id, "error": err.Error()})
}
