// Package view holds the server-rendered HTML components.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"
)

// DefaultTitle is the document title used when PageData.Title is empty.
const DefaultTitle = "ssrkit"

// PageData is everything the page renders. It is built per request.
type PageData struct {
	Title        string
	Stylesheet   string   // href of the stylesheet, omitted when empty
	Remote       any      // value returned by the fetch collaborator
	Comments     []string // rendered as a list, escaped
	MarkdownHTML string   // trusted HTML fragment, written as is
	LiveReload   string   // reload script, omitted when empty
}

// Page renders the full HTML document for data. Output is deterministic for
// equal data.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := data.Title
		if title == "" {
			title = DefaultTitle
		}

		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		b.WriteString("<title>" + templ.EscapeString(title) + "</title>\n")
		if data.Stylesheet != "" {
			b.WriteString("<link rel=\"stylesheet\" href=\"" + templ.EscapeString(data.Stylesheet) + "\">\n")
		}
		b.WriteString("</head>\n<body>\n<main>\n")

		remote, err := remoteText(data.Remote)
		if err != nil {
			return err
		}
		b.WriteString("<h1 class=\"remote\">" + templ.EscapeString(remote) + "</h1>\n")
		b.WriteString("<article class=\"markdown\">\n" + data.MarkdownHTML + "</article>\n")

		b.WriteString("<section class=\"comments\">\n<h2>Comments</h2>\n<ul>\n")
		for _, c := range data.Comments {
			b.WriteString("<li>" + templ.EscapeString(c) + "</li>\n")
		}
		b.WriteString("</ul>\n</section>\n</main>\n")

		if data.LiveReload != "" {
			b.WriteString("<script>" + data.LiveReload + "</script>\n")
		}
		b.WriteString("</body>\n</html>\n")

		_, err = io.WriteString(w, b.String())
		return err
	})
}

// remoteText renders strings verbatim and any other value as JSON.
func remoteText(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("view: encode remote value: %w", err)
	}
	return string(b), nil
}
