package forms

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/model"
)

// ControllerModeChangedMessage is the fixed diagnostic for the controller
// ownership invariant: a form must either own its controller or receive one
// externally for its whole lifetime. The message is part of the public
// contract so callers and tests can match on it.
const ControllerModeChangedMessage = "forms: a form must either own its controller or receive an external one for its entire lifetime; the controller cannot be introduced after the first render nor withdrawn once supplied"

// ErrControllerModeChanged is returned when the controller-supplied status
// flips between renders. It is a configuration error: not retried, not
// recoverable.
var ErrControllerModeChanged = errors.New(ControllerModeChangedMessage)

// ModeChangedMessage returns the fixed diagnostic string used when the
// controller ownership invariant is violated.
func ModeChangedMessage() string { return ControllerModeChangedMessage }

var (
	// ErrMissingSchema is returned when a render config carries no schema.
	ErrMissingSchema = errors.New("forms: config requires a schema")
	// ErrMissingOnSubmit is returned when a render config carries no submit
	// callback.
	ErrMissingOnSubmit = errors.New("forms: config requires an OnSubmit callback")
	// ErrNotRendered is returned when Submit is called before the first
	// render wired a schema and controller.
	ErrNotRendered = errors.New("forms: form has not been rendered")
)

// ComponentNotFoundError reports a field with no explicit component and no
// association-list match for its rule kind. Rendering aborts; nothing is
// written.
type ComponentNotFoundError struct {
	Field string
	Kind  model.Kind
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("forms: no component for field %q (kind %q): declare one on the field or add an association", e.Field, e.Kind)
}
