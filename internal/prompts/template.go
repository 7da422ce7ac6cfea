package prompts

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
)

// Template is an immutable prompt template with a declared set of required
// variables. Placeholders use text/template syntax: {{.extracted_text}}.
type Template struct {
	name     string
	required []string
	tmpl     *template.Template
}

// NewTemplate parses text and verifies that it renders using only the
// declared variables. A template that references an undeclared variable
// is rejected.
func NewTemplate(name, text string, required ...string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, name, err)
	}

	t := &Template{
		name:     name,
		required: slices.Clone(required),
		tmpl:     tmpl,
	}

	sample := make(map[string]string, len(required))
	for _, v := range required {
		sample[v] = v
	}

	if _, err := t.execute(sample); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, name, err)
	}

	return t, nil
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Required returns the declared variable names.
func (t *Template) Required() []string {
	return slices.Clone(t.required)
}

// Render substitutes vars into the template. Every required variable must be
// bound; extra bindings are ignored.
func (t *Template) Render(vars map[string]string) (string, error) {
	for _, name := range t.required {
		if _, ok := vars[name]; !ok {
			return "", &MissingVariableError{Template: t.name, Variable: name}
		}
	}

	bound := make(map[string]string, len(t.required))
	for _, name := range t.required {
		bound[name] = vars[name]
	}

	return t.execute(bound)
}

func (t *Template) execute(vars map[string]string) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, vars); err != nil {
		return "", err
	}
	return sb.String(), nil
}

