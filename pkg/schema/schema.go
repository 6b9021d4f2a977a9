package schema

import (
	"sort"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Field is a single schema entry: the validation rule, an optional explicit
// component, and optional partial component configuration. A field with no
// explicit component must be resolvable through the builder's association
// list at render time.
type Field struct {
	Rule      Rule
	Component model.Component
	Props     model.Props
	// VisibleWhen gates the field on a visibility expression evaluated
	// against the current values, for example `plan == "pro"`. Empty means
	// always visible. Visibility is presentational: hidden fields keep
	// their validation rules, so a field that can disappear should not be
	// Required.
	VisibleWhen string
}

// Schema maps field names to their entries. Names are unique by construction;
// iteration order is undefined, so rendering and compilation always work on
// the sorted name list.
type Schema map[string]Field

// Names returns the field names in sorted order. This is the default display
// order when no custom children arrangement is supplied.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
