package schema

import (
	"github.com/goliatone/go-formbind/pkg/model"
)

// Rule is a single field validation rule tagged with its kind. Rules are
// immutable values: every chained option returns a modified copy, so a rule
// can safely seed several fields.
type Rule struct {
	kind     model.Kind
	required bool
	def      any

	min     *float64
	max     *float64
	minLen  *int
	maxLen  *int
	pattern string
	enum    []string
}

// String declares a single-line string field.
func String() Rule { return Rule{kind: model.KindString} }

// Text declares a multi-line string field.
func Text() Rule { return Rule{kind: model.KindText} }

// Secret declares a string field whose value must not be echoed back by
// components (passwords, tokens).
func Secret() Rule { return Rule{kind: model.KindSecret} }

// Number declares a float64 field.
func Number() Rule { return Rule{kind: model.KindNumber} }

// Integer declares an int field.
func Integer() Rule { return Rule{kind: model.KindInteger} }

// Boolean declares a bool field.
func Boolean() Rule { return Rule{kind: model.KindBoolean} }

// Enum declares a string field restricted to the given values. Compiling a
// schema that contains an enum rule with no values fails.
func Enum(values ...string) Rule {
	return Rule{kind: model.KindEnum, enum: append([]string(nil), values...)}
}

// Kind reports the rule's kind discriminant.
func (r Rule) Kind() model.Kind { return r.kind }

// IsZero reports whether the rule was never constructed through one of the
// kind constructors.
func (r Rule) IsZero() bool { return r.kind == "" }

// IsRequired reports whether the rule was marked required.
func (r Rule) IsRequired() bool { return r.required }

// Required marks the field as required. For string kinds this also rejects
// empty submissions, matching what browsers post for untouched inputs.
func (r Rule) Required() Rule {
	r.required = true
	return r
}

// Default sets the value components render when the controller has nothing
// for the field yet.
func (r Rule) Default(v any) Rule {
	r.def = v
	return r
}

// Min sets the inclusive lower bound for numeric kinds.
func (r Rule) Min(v float64) Rule {
	r.min = &v
	return r
}

// Max sets the inclusive upper bound for numeric kinds.
func (r Rule) Max(v float64) Rule {
	r.max = &v
	return r
}

// MinLen sets the minimum length, in runes, for string kinds.
func (r Rule) MinLen(n int) Rule {
	r.minLen = &n
	return r
}

// MaxLen sets the maximum length, in runes, for string kinds.
func (r Rule) MaxLen(n int) Rule {
	r.maxLen = &n
	return r
}

// Pattern sets a regular expression string values must match. The expression
// is compiled when the schema compiles; an invalid expression aborts
// compilation.
func (r Rule) Pattern(expr string) Rule {
	r.pattern = expr
	return r
}

// DefaultValue returns the configured default, if any.
func (r Rule) DefaultValue() (any, bool) {
	if r.def == nil {
		return nil, false
	}
	return r.def, true
}

// EnumValues returns the allowed values for enum rules.
func (r Rule) EnumValues() []string {
	return append([]string(nil), r.enum...)
}

func (r Rule) isStringKind() bool {
	switch r.kind {
	case model.KindString, model.KindText, model.KindSecret, model.KindEnum:
		return true
	default:
		return false
	}
}

func (r Rule) isNumericKind() bool {
	return r.kind == model.KindNumber || r.kind == model.KindInteger
}
