package account

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/duynhne/account-service/internal/state"
)

// page wraps body in the account page document with an optional flash
// notice above it.
func page(title string, notice *state.Notice, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body><main><h1>%s</h1>`,
			templ.EscapeString(title), templ.EscapeString(title),
		); err != nil {
			return err
		}
		if notice != nil {
			if _, err := fmt.Fprintf(w, `<p class="notice notice-%s" role="status">%s</p>`,
				templ.EscapeString(string(notice.Kind)), templ.EscapeString(notice.Message),
			); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
