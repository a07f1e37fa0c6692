package account

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin/render"
)

var htmlContentType = []string{"text/html; charset=utf-8"}

// templRender adapts a templ component to gin's render.Render.
type templRender struct {
	ctx       context.Context
	component templ.Component
}

var _ render.Render = templRender{}

func (t templRender) Render(w http.ResponseWriter) error {
	t.WriteContentType(w)
	return t.component.Render(t.ctx, w)
}

func (t templRender) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}
