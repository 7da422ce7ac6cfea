package prompts

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingVariable indicates a required template variable was not bound.
	ErrMissingVariable = errors.New("missing template variable")
	// ErrUnknownTemplate indicates a template name outside the library.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrInvalidTemplate indicates template text failed to parse or references
	// variables the template does not declare.
	ErrInvalidTemplate = errors.New("invalid template")
)

// MissingVariableError names the template and the unbound variable.
type MissingVariableError struct {
	Template string
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("%s %q in template %q", ErrMissingVariable, e.Variable, e.Template)
}

func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}
