// Package formbind builds validated HTML forms from declarative field
// schemas. A schema maps field names to validation rules, optional component
// overrides, and presentation props; it compiles into a single composite
// validator whose field set matches the schema exactly. Forms render through
// a builder configured with kind-to-component associations, keep their state
// in a controller, and deliver validated values to a submit callback.
package formbind

import (
	"context"
	"io"

	"github.com/goliatone/go-formbind/pkg/components"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Schema maps field names to their rules, components, and props.
type Schema = schema.Schema

// Field is a single schema entry.
type Field = schema.Field

// Rule is an immutable validation rule; build instances with the kind
// constructors (String, Number, Enum, ...) and chain refinements.
type Rule = schema.Rule

// Props carries presentation hints through to components.
type Props = model.Props

// Binding is the per-field render context handed to components.
type Binding = model.Binding

// Component renders one field from its binding.
type Component = model.Component

// Association pairs a rule kind with the component that renders it.
type Association = model.Association

// Values is the validated value map delivered to submit callbacks.
type Values = forms.Values

// Config is the per-render form configuration.
type Config = forms.Config

// Controller holds form state across renders and submissions.
type Controller = forms.Controller

// ControllerOptions seeds a controller's initial state.
type ControllerOptions = forms.ControllerOptions

// NewBuilder returns a form builder over the given associations. Pass nil to
// fall back to the built-in component set.
func NewBuilder(assoc model.Associations, options ...forms.Option) *forms.Builder {
	if assoc == nil {
		assoc = components.DefaultAssociations()
	}
	return forms.New(assoc, options...)
}

// Render is the simplest entry point: build a form over the default
// components and render it once.
func Render(ctx context.Context, w io.Writer, cfg forms.Config) error {
	return NewBuilder(nil).Form().Render(ctx, w, cfg)
}
