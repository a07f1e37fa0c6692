package profileform

import (
	"sync"

	"github.com/a-h/templ"
	"github.com/duynhne/account-service/internal/core/domain"
)

// SubmitFunc receives the payload built on submit. Its outcome is not
// reported back to the form.
type SubmitFunc func(domain.ProfileUpdate)

// Links are the navigation targets rendered under the form.
type Links struct {
	ChangePassword string
	ResetPassword  string
}

// Form holds one form instance: its State, whether it has local edits, and
// the injected submit callback.
type Form struct {
	mu     sync.Mutex
	state  State
	dirty  bool
	submit SubmitFunc
	links  Links
}

// New creates a clean form seeded from user.
func New(user domain.User, submit SubmitFunc, links Links) *Form {
	return &Form{
		state:  StateFromUser(user),
		submit: submit,
		links:  links,
	}
}

// OnPropsChanged resets the form to user. Unsubmitted edits are lost and
// the form becomes clean.
func (f *Form) OnPropsChanged(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Reduce(f.state, PropsChanged{User: user})
	f.dirty = false
}

// OnFieldChange stores value as-is in field. Unknown fields are ignored.
func (f *Form) OnFieldChange(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.With(field, value); !ok {
		return
	}
	f.state = Reduce(f.state, FieldChanged{Field: field, Value: value})
	f.dirty = true
}

// OnSubmit hands the current state to the submit callback. It neither
// clears the form nor changes its dirty flag.
func (f *Form) OnSubmit() {
	f.mu.Lock()
	payload := f.state.Payload()
	submit := f.submit
	f.mu.Unlock()

	// called unlocked: the callback may synchronously reset this form
	if submit != nil {
		submit(payload)
	}
}

// State returns a snapshot of the current field values.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Dirty reports whether the form has edits made since the last reset.
func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Render returns the form markup for the current state.
func (f *Form) Render() templ.Component {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View(f.state, f.links)
}
