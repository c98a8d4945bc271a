package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"joinRows": JoinRows,
}).ParseFS(files, "*.html"))

// FormPage renders the whole document.
func FormPage(p Page) templ.Component {
	return templ.FromGoHTML(views.Lookup("page"), p)
}

// FormPanel renders the swappable form panel.
func FormPanel(p Panel) templ.Component {
	return templ.FromGoHTML(views.Lookup("panel"), p)
}

// SubmitResult renders the outcome of a submission.
func SubmitResult(r Result) templ.Component {
	return templ.FromGoHTML(views.Lookup("result"), r)
}

// StatusLine renders a single message, used for errors.
func StatusLine(s Status) templ.Component {
	return templ.FromGoHTML(views.Lookup("status"), s)
}
