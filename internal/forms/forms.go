// Package forms implements the text-entry forms of the client: login and the
// add dialogs of the customers and products pages.
package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/logging/events"
)

const (
	IDLogin    = "login"
	IDCustomer = "customer"
	IDProduct  = "product"
)

// ValidationError reports a required field left empty. It is produced
// before any network call.
type ValidationError struct {
	Form  string
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

// Field describes one input of a form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
	Secret      bool
	CharLimit   int
}

// Form is a column of text inputs with one focused at a time.
type Form struct {
	id         string
	title      string
	help       string
	cancelable bool
	fields     []Field
	inputs     []textinput.Model
	focus      int
	err        string
}

// New builds a form focused on its first field.
func New(id, title string, cancelable bool, fields []Field) *Form {
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 128
		if field.CharLimit > 0 {
			ti.CharLimit = field.CharLimit
		}
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	help := "Tab to move between fields. Enter to submit."
	if cancelable {
		help += " Esc to cancel."
	}
	f := &Form{
		id:         id,
		title:      title,
		help:       help,
		cancelable: cancelable,
		fields:     append([]Field(nil), fields...),
		inputs:     inputs,
	}
	f.setFocus(0)
	events.Form.Open(id)
	return f
}

// NewLogin is the sign-in form.
func NewLogin() *Form {
	return New(IDLogin, "Sign in", false, []Field{
		{Key: "username", Label: "Username", Placeholder: "admin", Required: true, CharLimit: 64},
		{Key: "password", Label: "Password", Required: true, Secret: true, CharLimit: 128},
	})
}

// NewCustomer is the add-customer dialog.
func NewCustomer() *Form {
	return New(IDCustomer, "Add customer", true, []Field{
		{Key: "name", Label: "Name", Placeholder: "Acme Corp", Required: true},
		{Key: "email", Label: "Email", Placeholder: "ops@example.com", Required: true},
	})
}

// NewProduct is the add-product dialog. Rules are entered comma separated.
func NewProduct() *Form {
	return New(IDProduct, "Add product", true, []Field{
		{Key: "name", Label: "Name", Placeholder: "Widget Pro", Required: true},
		{Key: "version", Label: "Version", Placeholder: "1.0.0", Required: true, CharLimit: 32},
		{Key: "description", Label: "Description", CharLimit: 256},
		{Key: "rules", Label: "Rules", Placeholder: "rule-a, rule-b", CharLimit: 256},
	})
}

func (f *Form) ID() string    { return f.id }
func (f *Form) Title() string { return f.title }
func (f *Form) Help() string  { return f.help }
func (f *Form) Error() string { return f.err }
func (f *Form) Focused() int  { return f.focus }

// StaticCursor stops the inputs' cursors from blinking.
func (f *Form) StaticCursor() {
	for i := range f.inputs {
		f.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
}

// SetError shows message under the inputs. Server failures use it.
func (f *Form) SetError(message string) {
	f.err = message
}

// Value returns the trimmed value of the field named key. Secret fields are
// returned untrimmed.
func (f *Form) Value(key string) string {
	for i, field := range f.fields {
		if field.Key != key {
			continue
		}
		if field.Secret {
			return f.inputs[i].Value()
		}
		return strings.TrimSpace(f.inputs[i].Value())
	}
	return ""
}

// SetValue fills the field named key.
func (f *Form) SetValue(key, value string) {
	for i, field := range f.fields {
		if field.Key == key {
			f.inputs[i].SetValue(value)
			return
		}
	}
}

// List splits a comma separated field into its non-empty entries.
func (f *Form) List(key string) []string {
	parts := strings.Split(f.Value(key), ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate returns a *ValidationError for the first empty required field.
func (f *Form) Validate() error {
	for i, field := range f.fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(f.inputs[i].Value()) == "" {
			return &ValidationError{Form: f.id, Field: field.Key, Label: field.Label}
		}
	}
	return nil
}

// Submit validates the form. On failure the error is shown and focus moves
// to the offending field.
func (f *Form) Submit() error {
	if err := f.Validate(); err != nil {
		var field string
		if ve, ok := err.(*ValidationError); ok {
			field = ve.Field
			f.focusKey(field)
		}
		f.err = err.Error()
		events.Form.Invalid(f.id, field)
		return err
	}
	f.err = ""
	events.Form.Submit(f.id)
	return nil
}

// Update routes a message to the focused input. done is reported once the
// form validates on enter from the last field; cancel on esc.
func (f *Form) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if !f.cancelable {
				return nil, false, false
			}
			events.Form.Cancel(f.id)
			return nil, false, true
		case "tab", "down":
			return f.setFocus(f.focus + 1), false, false
		case "shift+tab", "up":
			return f.setFocus(f.focus - 1), false, false
		case "ctrl+u":
			f.inputs[f.focus].SetValue("")
			f.inputs[f.focus].CursorStart()
			return nil, false, false
		case "enter":
			if f.focus < len(f.inputs)-1 && f.inputs[f.focus].Value() != "" && f.nextEmpty() >= 0 {
				return f.setFocus(f.nextEmpty()), false, false
			}
			if err := f.Submit(); err != nil {
				return nil, false, false
			}
			return nil, true, false
		}
	}
	updated, cmd := f.inputs[f.focus].Update(msg)
	f.inputs[f.focus] = updated
	return cmd, false, false
}

// View renders labels and inputs, one field per line.
func (f *Form) View(label func(string) string) []string {
	if label == nil {
		label = func(s string) string { return s }
	}
	width := 0
	for _, field := range f.fields {
		if n := len([]rune(field.Label)); n > width {
			width = n
		}
	}
	lines := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "› "
		}
		name := field.Label + strings.Repeat(" ", width-len([]rune(field.Label)))
		lines = append(lines, marker+label(name)+"  "+f.inputs[i].View())
	}
	return lines
}

func (f *Form) nextEmpty() int {
	for i := f.focus + 1; i < len(f.inputs); i++ {
		if f.fields[i].Required && strings.TrimSpace(f.inputs[i].Value()) == "" {
			return i
		}
	}
	return -1
}

func (f *Form) focusKey(key string) {
	for i, field := range f.fields {
		if field.Key == key {
			f.setFocus(i)
			return
		}
	}
}

func (f *Form) setFocus(idx int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	idx = (idx%n + n) % n
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}
