package account

import (
	"context"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/duynhne/account-service/internal/state"
	"github.com/duynhne/account-service/internal/web/profileform"
)

// Connection is a profile form bound to the store for one user. Store
// updates for that user reset the form; submits dispatch the update action.
type Connection struct {
	Form        *profileform.Form
	unsubscribe func()

	submitted bool
	submitErr error
}

// Connect loads userID's record through actions and returns a form seeded
// from it and subscribed to later changes.
func Connect(ctx context.Context, actions *state.Actions, userID string, links profileform.Links) (*Connection, error) {
	user, err := actions.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	conn := &Connection{}
	conn.Form = profileform.New(user, func(payload domain.ProfileUpdate) {
		_, err := actions.UpdateProfile(ctx, userID, payload)
		conn.submitted, conn.submitErr = true, err
	}, links)
	conn.unsubscribe = actions.Store().Subscribe(userID, conn.Form.OnPropsChanged)
	return conn, nil
}

// Result reports whether this connection's form has submitted and the
// outcome of its last update. It must be read by the goroutine that calls
// OnSubmit.
func (c *Connection) Result() (submitted bool, err error) {
	return c.submitted, c.submitErr
}

// Disconnect stops store updates from reaching the form.
func (c *Connection) Disconnect() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}
