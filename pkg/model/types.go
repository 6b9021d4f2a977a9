package model

import "github.com/a-h/templ"

// Kind is the discriminant identifying a validation rule's kind. Builders use
// it to resolve a default UI component when a field does not name one
// explicitly.
type Kind string

const (
	KindString  Kind = "string"
	KindText    Kind = "text"
	KindSecret  Kind = "secret"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

// Binding is the per-field data a component instance receives when a form
// renders. Value holds the controller's current value for the field (or the
// rule default when the field is untouched); Error is empty when the field
// has no validation error to display.
type Binding struct {
	Name    string
	ID      string
	Value   any
	Error   string
	Touched bool
	Props   Props
}

// Component turns a field binding into a renderable element. Implementations
// must write a complete field block (label, control, error chrome) so custom
// arrangements can place elements without extra wrapping.
type Component func(Binding) templ.Component

// Association pairs a rule kind with the default component used for fields of
// that kind.
type Association struct {
	Kind      Kind
	Component Component
}

// Associations is an ordered association list. Resolution is first match
// wins; duplicate kinds are tolerated and later entries are simply never
// reached.
type Associations []Association

// Resolve returns the first component associated with kind.
func (a Associations) Resolve(kind Kind) (Component, bool) {
	for _, entry := range a {
		if entry.Kind == kind && entry.Component != nil {
			return entry.Component, true
		}
	}
	return nil, false
}

// With returns a copy of the list with extra associations appended. The
// receiver keeps precedence because resolution scans front to back.
func (a Associations) With(extra ...Association) Associations {
	out := make(Associations, 0, len(a)+len(extra))
	out = append(out, a...)
	out = append(out, extra...)
	return out
}
