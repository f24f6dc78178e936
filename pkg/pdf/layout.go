package pdf

import "html/template"

type layoutSection struct {
	Title string
	Body  template.HTML
}

type layoutData struct {
	Title    string
	Sections []layoutSection
}

var defaultLayout = template.Must(template.New("printable").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; line-height: 1.45; color: #222; }
h1 { font-size: 18pt; margin: 0 0 12pt; }
section + section { page-break-before: always; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ccc; padding: 4pt 6pt; }
img { max-width: 100%; }
</style>
</head>
<body>
{{- range .Sections}}
<section>
<h1>{{.Title}}</h1>
{{.Body}}
</section>
{{- end}}
</body>
</html>
`))
