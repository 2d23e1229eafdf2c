package events

import "github.com/atomicstack/license-admin/internal/logging"

type SessionTracer struct{}

type SessionReason string

const (
	SessionReasonUser    SessionReason = "user"
	SessionReasonExpired SessionReason = "expired"
	SessionReasonInvalid SessionReason = "invalid"
)

var Session = SessionTracer{}

func (SessionTracer) Restore(found bool) {
	logging.Trace("session.restore", map[string]interface{}{"found": found})
}

func (SessionTracer) Validate(valid bool) {
	logging.Trace("session.validate", map[string]interface{}{"valid": valid})
}

func (SessionTracer) LoginSubmit(username string) {
	logging.Trace("session.login.submit", map[string]interface{}{"username": username})
}

func (SessionTracer) LoginSuccess(username string) {
	logging.Trace("session.login.success", map[string]interface{}{"username": username})
}

func (SessionTracer) LoginFailure(username, message string) {
	logging.Trace("session.login.failure", map[string]interface{}{"username": username, "message": message})
}

func (SessionTracer) Logout(reason SessionReason) {
	logging.Trace("session.logout", map[string]interface{}{"reason": string(reason)})
}
