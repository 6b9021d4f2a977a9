package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	goskema "github.com/reoring/goskema"
	"github.com/reoring/goskema/dsl"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/visibility"
)

// Compiled is the composite validation object produced from a schema. Its
// field set matches the source schema's field set exactly. The zero value is
// not usable; obtain instances through Compile.
type Compiled struct {
	object goskema.Schema[map[string]any]
	fields map[string]compiledField
	names  []string
}

type compiledField struct {
	rule      Rule
	check     fieldCheck
	condition *visibility.Condition
}

// Compile assembles the composite validator for a schema. It is fail-fast: a
// field with no validation rule, an enum with no values, or an invalid
// pattern expression aborts compilation and no partial object is returned.
func Compile(s Schema) (*Compiled, error) {
	names := s.Names()
	builder := dsl.Object().UnknownStrip()
	fields := make(map[string]compiledField, len(s))

	for _, name := range names {
		entry, ok := s[name]
		if !ok {
			// Unreachable for map-backed schemas; kept as a guard so future
			// schema sources fail loudly instead of compiling a subset.
			return nil, &FieldError{Name: name, Reason: "entry not found"}
		}
		rule := entry.Rule
		if rule.IsZero() {
			return nil, &FieldError{Name: name, Reason: "no validation rule"}
		}

		check, err := newFieldCheck(rule)
		if err != nil {
			return nil, &FieldError{Name: name, Reason: err.Error()}
		}

		condition, err := visibility.Compile(entry.VisibleWhen)
		if err != nil {
			return nil, &FieldError{Name: name, Reason: err.Error()}
		}

		step := builder.Field(name, rule.adapter())
		if def, hasDefault := rule.DefaultValue(); hasDefault {
			step.Default(def)
		}
		if rule.required {
			builder.Require(name)
		}
		builder.Refine("field:"+name, check.refine(name))

		fields[name] = compiledField{rule: rule, check: check, condition: condition}
	}

	object, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("schema: build validator: %w", err)
	}

	return &Compiled{object: object, fields: fields, names: names}, nil
}

// MustCompile panics on compilation failure. Useful for fixed schemas wired
// at program start.
func MustCompile(s Schema) *Compiled {
	compiled, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Validate parses raw values against the composite validator and returns the
// typed value map. Validation failures are returned as goskema.Issues with
// JSON-Pointer paths naming the offending fields.
func (c *Compiled) Validate(ctx context.Context, values map[string]any) (map[string]any, error) {
	if values == nil {
		values = map[string]any{}
	}
	return c.object.Parse(ctx, values)
}

// CheckField validates a single already-decoded value against the field's
// rule. It backs interactive flows that validate answers before the whole
// form submits.
func (c *Compiled) CheckField(ctx context.Context, name string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	field, ok := c.fields[name]
	if !ok {
		return &FieldError{Name: name, Reason: "not part of this schema"}
	}
	if value == nil {
		if field.rule.required {
			return goskema.Issues{requiredIssue(name)}
		}
		return nil
	}
	if iss := field.check.issues(name, value); len(iss) > 0 {
		return iss
	}
	return nil
}

// Names returns the field names in sorted order.
func (c *Compiled) Names() []string {
	return append([]string(nil), c.names...)
}

// Len reports the number of fields.
func (c *Compiled) Len() int { return len(c.fields) }

// Kind reports the rule kind for a field.
func (c *Compiled) Kind(name string) (model.Kind, bool) {
	field, ok := c.fields[name]
	if !ok {
		return "", false
	}
	return field.rule.kind, true
}

// Visible reports whether a field's visibility condition holds for the
// given values. Fields without a condition, and unknown names, report true.
func (c *Compiled) Visible(name string, values map[string]any) bool {
	field, ok := c.fields[name]
	if !ok {
		return true
	}
	return field.condition.Eval(values)
}

// Rule returns the compiled rule for a field.
func (c *Compiled) Rule(name string) (Rule, bool) {
	field, ok := c.fields[name]
	if !ok {
		return Rule{}, false
	}
	return field.rule, true
}

func (r Rule) adapter() dsl.AnyAdapter {
	switch r.kind {
	case model.KindNumber:
		return dsl.FloatOf[float64]()
	case model.KindInteger:
		return dsl.IntOf[int]()
	case model.KindBoolean:
		return dsl.SchemaOf(dsl.Bool())
	default:
		return dsl.SchemaOf(dsl.String())
	}
}

// fieldCheck evaluates a rule's constraints against a parsed value. Type
// mismatches are left to the composite validator; checks only fire once the
// value has the rule's native type.
type fieldCheck struct {
	rule Rule
	re   *regexp.Regexp
}

func newFieldCheck(rule Rule) (fieldCheck, error) {
	check := fieldCheck{rule: rule}
	if rule.kind == model.KindEnum && len(rule.enum) == 0 {
		return check, fmt.Errorf("enum rule declares no values")
	}
	if rule.pattern != "" {
		re, err := regexp.Compile(rule.pattern)
		if err != nil {
			return check, fmt.Errorf("invalid pattern: %v", err)
		}
		check.re = re
	}
	return check, nil
}

func (c fieldCheck) refine(name string) func(context.Context, map[string]any) error {
	return func(_ context.Context, obj map[string]any) error {
		value, ok := obj[name]
		if !ok || value == nil {
			return nil
		}
		if iss := c.issues(name, value); len(iss) > 0 {
			return iss
		}
		return nil
	}
}

func (c fieldCheck) issues(name string, value any) goskema.Issues {
	var iss goskema.Issues
	path := "/" + name

	if c.rule.isStringKind() {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if c.rule.required && s == "" {
			return goskema.Issues{requiredIssue(name)}
		}
		length := utf8.RuneCountInString(s)
		if c.rule.minLen != nil && length < *c.rule.minLen {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodeTooShort,
				Message: fmt.Sprintf("must be at least %d characters", *c.rule.minLen),
				Params:  map[string]any{"min": *c.rule.minLen, "got": length},
			})
		}
		if c.rule.maxLen != nil && length > *c.rule.maxLen {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodeTooLong,
				Message: fmt.Sprintf("must be at most %d characters", *c.rule.maxLen),
				Params:  map[string]any{"max": *c.rule.maxLen, "got": length},
			})
		}
		if c.re != nil && s != "" && !c.re.MatchString(s) {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodePattern,
				Message: "does not match the expected format",
				Rule:    c.rule.pattern,
			})
		}
		if c.rule.kind == model.KindEnum && s != "" && !containsString(c.rule.enum, s) {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodeInvalidEnum,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(c.rule.enum, ", ")),
				Params:  map[string]any{"expected": c.rule.enum},
			})
		}
		return iss
	}

	if c.rule.isNumericKind() {
		num, ok := asFloat(value)
		if !ok {
			return nil
		}
		if c.rule.min != nil && num < *c.rule.min {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodeTooSmall,
				Message: fmt.Sprintf("must be at least %s", trimFloat(*c.rule.min)),
				Params:  map[string]any{"min": *c.rule.min, "got": num},
			})
		}
		if c.rule.max != nil && num > *c.rule.max {
			iss = goskema.AppendIssues(iss, goskema.Issue{
				Path:    path,
				Code:    goskema.CodeTooBig,
				Message: fmt.Sprintf("must be at most %s", trimFloat(*c.rule.max)),
				Params:  map[string]any{"max": *c.rule.max, "got": num},
			})
		}
		return iss
	}

	return nil
}

func requiredIssue(name string) goskema.Issue {
	return goskema.Issue{
		Path:    "/" + name,
		Code:    goskema.CodeRequired,
		Message: "value is required",
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%v", v)
	return strings.TrimSuffix(s, ".0")
}
