package response

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/ssrkit/core/handler"
)

// ErrorPage renders the minimal self-contained HTML document for a fault:
// "<status> - <text>" where text is the message for exposable faults and
// the reason phrase otherwise.
func ErrorPage(httpErr HTTPError) handler.Response {
	return TemplWithStatus(errorDocument(httpErr.Status, httpErr.PublicText()), httpErr.Status)
}

// ErrorHandler is the default error handler that renders HTML error pages.
// It classifies the error with Classify, so internal details never reach the client.
func ErrorHandler[C handler.Context](ctx C, err error) {
	Render(ctx, ErrorPage(Classify(err)))
}

func errorDocument(status int, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n  <body>\n    <h1>"+
			strconv.Itoa(status)+" - "+templ.EscapeString(text)+
			"</h1>\n  </body>\n</html>\n")
		return err
	})
}
