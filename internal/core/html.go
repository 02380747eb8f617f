package core

import (
	"bytes"
	"fmt"
	"html/template"
)

const DefaultPageTemplate = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <meta name="description" content="{{.Description}}" />
    <title>{{.Title}}</title>
{{- range .Styles}}
    <link rel="stylesheet" href="{{.}}" />
{{- end}}
  </head>
  <body>
    <div id="{{.Mount}}"></div>
{{- range .Scripts}}
    <script src="{{.}}" defer></script>
{{- end}}
  </body>
</html>
`

type PageData struct {
	Title       string
	Description string
	Mount       string
	Mode        string
	Scripts     []string
	Styles      []string
	Vars        map[string]string
}

// RenderPage executes a page template. Unknown fields and missing Vars
// keys are errors rather than empty output.
func RenderPage(name, text string, data PageData) ([]byte, error) {
	if data.Vars == nil {
		data.Vars = map[string]string{}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, NewConfigError("parse template", name, fmt.Errorf("%w: %v", ErrTemplate, err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, NewConfigError("render template", name, fmt.Errorf("%w: %v", ErrTemplate, err))
	}
	return buf.Bytes(), nil
}
