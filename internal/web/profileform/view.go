package profileform

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

var labels = map[Field]string{
	FieldUsername:  "Username",
	FieldEmail:     "Email",
	FieldFirstName: "First name",
	FieldLastName:  "Last name",
}

func inputType(f Field) string {
	if f == FieldEmail {
		return "email"
	}
	return "text"
}

// View renders state as the profile form followed by the password links.
func View(state State, links Links) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="profile"><form class="profile-form" method="post">`); err != nil {
			return err
		}
		for _, f := range Fields {
			name := templ.EscapeString(string(f))
			if _, err := fmt.Fprintf(w,
				`<label for="%s">%s</label><input id="%s" name="%s" type="%s" value="%s">`,
				name, templ.EscapeString(labels[f]), name, name, inputType(f), templ.EscapeString(state.Value(f)),
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<button type="submit">Update profile</button></form>`); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div class="profile-links"><a href="%s">Change password</a><a href="%s">Reset password</a></div></div>`,
			templ.EscapeString(string(templ.URL(links.ChangePassword))),
			templ.EscapeString(string(templ.URL(links.ResetPassword))),
		)
		return err
	})
}
