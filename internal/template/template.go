package template

import (
	"bytes"
	"fmt"
	"text/template"
)

// Executor renders a user-configurable text template, such as the shell prompt.
type Executor struct {
	template *template.Template
	name     string // used in error messages
}

// NewExecutor parses text as a template named name. Referencing a missing map
// key is an execution error rather than "<no value>".
func NewExecutor(name, text string) (*Executor, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}
	return &Executor{
		template: tmpl,
		name:     name,
	}, nil
}

// Execute applies the template to data.
func (e *Executor) Execute(data any) (string, error) {
	var rendered bytes.Buffer
	if err := e.template.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", e.name, err)
	}
	return rendered.String(), nil
}

// Name returns the name the template was parsed under.
func (e *Executor) Name() string {
	return e.name
}
