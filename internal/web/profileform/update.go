package profileform

import "github.com/duynhne/account-service/internal/core/domain"

// Msg is an input event for Reduce.
type Msg interface {
	isMsg()
}

// FieldChanged reports a new raw value for one field.
type FieldChanged struct {
	Field Field
	Value string
}

// PropsChanged reports a new user record from the store.
type PropsChanged struct {
	User domain.User
}

func (FieldChanged) isMsg() {}
func (PropsChanged) isMsg() {}

// Reduce computes the next state. FieldChanged replaces exactly one field;
// PropsChanged replaces the whole state, discarding local edits.
func Reduce(s State, msg Msg) State {
	switch m := msg.(type) {
	case FieldChanged:
		next, _ := s.With(m.Field, m.Value)
		return next
	case PropsChanged:
		return StateFromUser(m.User)
	}
	return s
}
