package handlers

import (
	"context"
	"html/template"
	"io"

	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/pkg/cookie"
)

var contentTemplate = template.Must(template.New("content").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Entity.Label}}</title>
</head>
<body>
{{range .Flashes}}<div class="flash flash-{{.Level}}" role="status">{{.Text}}</div>
{{end}}<article>
<h1>{{.Entity.Label}}</h1>
{{.Body}}
</article>
<form method="post" action="{{.EmailURL}}">
<button type="submit">Email as PDF</button>
</form>
</body>
</html>
`))

// contentPage is the canonical view of a content item.
type contentPage struct {
	Entity   *content.Entity
	Flashes  []cookie.FlashMessage
	Body     template.HTML
	EmailURL string
}

func newContentPage(e *content.Entity, flashes []cookie.FlashMessage, sanitize func(string) string) contentPage {
	return contentPage{
		Entity:   e,
		Flashes:  flashes,
		Body:     template.HTML(sanitize(e.Body)), //nolint:gosec // sanitized
		EmailURL: e.URL() + "/email",
	}
}

func (p contentPage) Render(_ context.Context, w io.Writer) error {
	return contentTemplate.Execute(w, p)
}
