package prompts

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library holds the process-wide set of parsed templates. It is built once
// at startup and is read-only afterwards.
type Library struct {
	templates map[string]*Template
}

// NewLibrary builds the library from the built-in template texts, replacing
// any text named in overrides. Override keys must be known template names
// and override texts must use only the variables of the template they replace.
func NewLibrary(overrides map[string]string) (*Library, error) {
	for name := range overrides {
		if _, ok := definitions[name]; !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownTemplate, name, strings.Join(Names(), ", "))
		}
	}

	lib := &Library{templates: make(map[string]*Template, len(definitions))}
	for name, def := range definitions {
		text := def.text
		if o, ok := overrides[name]; ok && strings.TrimSpace(o) != "" {
			text = o
		}

		t, err := NewTemplate(name, text, def.required...)
		if err != nil {
			return nil, err
		}
		lib.templates[name] = t
	}

	return lib, nil
}

// LoadLibrary builds the library with overrides read from a YAML file that
// maps template names to template texts. An empty path loads the built-ins.
func LoadLibrary(path string) (*Library, error) {
	if path == "" {
		return NewLibrary(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	return NewLibrary(overrides)
}

// Template returns the named template.
func (l *Library) Template(name string) (*Template, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Render renders the named template with vars.
func (l *Library) Render(name string, vars map[string]string) (string, error) {
	t, err := l.Template(name)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}

// Names returns the known template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
