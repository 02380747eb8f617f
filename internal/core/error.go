package core

import (
	"errors"
	"fmt"
	"html/template"
)

var (
	ErrMissingEntry     = errors.New("entry source not found")
	ErrDuplicateEntry   = errors.New("duplicate entry name")
	ErrAmbiguousRule    = errors.New("file matches more than one processing rule")
	ErrUnknownStep      = errors.New("unknown processing step")
	ErrInvalidPattern   = errors.New("invalid pattern")
	ErrInvalidRule      = errors.New("invalid processing rule")
	ErrUnknownChunk     = errors.New("page references unknown chunk")
	ErrInvalidFilename  = errors.New("invalid output filename")
	ErrTemplate         = errors.New("page template error")
	ErrUnresolvedImport = errors.New("unresolved import")
	ErrUnsafeOutputDir  = errors.New("output directory would remove sources")
	ErrMissingContainer = errors.New("render target container is missing")
	ErrUnknownComponent = errors.New("unknown page component")
)

// ConfigError is fatal: the build aborts before writing when it is raised
// during validation or graph analysis.
type ConfigError struct {
	Op      string
	Subject string
	Err     error
}

func NewConfigError(op, subject string, err error) *ConfigError {
	return &ConfigError{Op: op, Subject: subject, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type RenderError struct {
	Component string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Component, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

type ErrorData struct {
	Message string
	IsDev   bool
}

var ErrorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Build failed</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>Build failed</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else}}
    <p>The last build did not complete.</p>
    {{end}}
</body>
</html>`))
