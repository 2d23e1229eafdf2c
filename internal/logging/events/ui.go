package events

import "github.com/atomicstack/license-admin/internal/logging"

type FormTracer struct{}

type ActionTracer struct{}

type FilterTracer struct{}

var (
	Form   = FormTracer{}
	Action = ActionTracer{}
	Filter = FilterTracer{}
)

func (FormTracer) Open(form string) {
	logging.Trace("form.open", map[string]interface{}{"form": form})
}

func (FormTracer) Submit(form string) {
	logging.Trace("form.submit", map[string]interface{}{"form": form})
}

func (FormTracer) Invalid(form, field string) {
	logging.Trace("form.invalid", map[string]interface{}{"form": form, "field": field})
}

func (FormTracer) Cancel(form string) {
	logging.Trace("form.cancel", map[string]interface{}{"form": form})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Update(page, query string) {
	logging.Trace("filter.update", map[string]interface{}{"page": page, "query": query})
}

func (FilterTracer) Cleared(page string) {
	logging.Trace("filter.clear", map[string]interface{}{"page": page})
}
