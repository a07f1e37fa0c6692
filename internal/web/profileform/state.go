// Package profileform implements the account profile edit form: a local,
// editable copy of four user attributes, updated through a pure reducer and
// submitted through an injected callback.
package profileform

import "github.com/duynhne/account-service/internal/core/domain"

// Field names one editable profile attribute. The value doubles as the HTML
// input name.
type Field string

const (
	FieldUsername  Field = "username"
	FieldEmail     Field = "email"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
)

// Fields lists the editable attributes in render order.
var Fields = []Field{FieldUsername, FieldEmail, FieldFirstName, FieldLastName}

// ParseField maps an input name to its Field.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// State is the form's local copy of the editable attributes.
type State struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// StateFromUser seeds a State from a user record. Attributes missing from
// the record are empty strings.
func StateFromUser(u domain.User) State {
	return State{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Value returns the current text of f.
func (s State) Value(f Field) string {
	switch f {
	case FieldUsername:
		return s.Username
	case FieldEmail:
		return s.Email
	case FieldFirstName:
		return s.FirstName
	case FieldLastName:
		return s.LastName
	}
	return ""
}

// With returns a copy of s with f set to value. ok is false for unknown
// fields, in which case s is returned unchanged.
func (s State) With(f Field, value string) (next State, ok bool) {
	switch f {
	case FieldUsername:
		s.Username = value
	case FieldEmail:
		s.Email = value
	case FieldFirstName:
		s.FirstName = value
	case FieldLastName:
		s.LastName = value
	default:
		return s, false
	}
	return s, true
}

// Payload builds the submit payload from s.
func (s State) Payload() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Username:  s.Username,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
