package schema

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Library names components so declarative schema documents can reference
// them. Lookup is by exact name.
type Library map[string]model.Component

type yamlDocument struct {
	Fields map[string]yamlField `yaml:"fields"`
}

type yamlField struct {
	Kind        string    `yaml:"kind"`
	Required    bool      `yaml:"required"`
	Default     any       `yaml:"default"`
	Min         *float64  `yaml:"min"`
	Max         *float64  `yaml:"max"`
	MinLength   *int      `yaml:"minLength"`
	MaxLength   *int      `yaml:"maxLength"`
	Pattern     string    `yaml:"pattern"`
	Enum        []string  `yaml:"enum"`
	Component   string    `yaml:"component"`
	VisibleWhen string    `yaml:"visibleWhen"`
	Props       yamlProps `yaml:"props"`
}

type yamlProps struct {
	Label       string            `yaml:"label"`
	Placeholder string            `yaml:"placeholder"`
	Help        string            `yaml:"help"`
	Class       string            `yaml:"class"`
	Rows        int               `yaml:"rows"`
	Step        string            `yaml:"step"`
	Attrs       map[string]string `yaml:"attrs"`
	Options     []yamlOption      `yaml:"options"`
}

type yamlOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// LoadYAML parses a declarative schema document. Component names resolve
// against the supplied library; an unknown name is an error, while an empty
// name leaves resolution to the builder's association list.
//
// Document shape:
//
//	fields:
//	  email:
//	    kind: string
//	    required: true
//	    pattern: "^[^@]+@[^@]+$"
//	    props:
//	      label: Email address
func LoadYAML(data []byte, library Library) (Schema, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("schema: document declares no fields")
	}

	out := make(Schema, len(doc.Fields))
	for name, raw := range doc.Fields {
		field, err := raw.toField(library)
		if err != nil {
			return nil, &FieldError{Name: name, Reason: err.Error()}
		}
		out[name] = field
	}
	return out, nil
}

// LoadYAMLFile reads name from fsys and delegates to LoadYAML.
func LoadYAMLFile(fsys fs.FS, name string, library Library) (Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return LoadYAML(data, library)
}

func (f yamlField) toField(library Library) (Field, error) {
	rule, err := f.toRule()
	if err != nil {
		return Field{}, err
	}

	field := Field{Rule: rule, Props: f.Props.toProps(), VisibleWhen: f.VisibleWhen}
	if f.Component != "" {
		component, ok := library[f.Component]
		if !ok {
			return Field{}, fmt.Errorf("component %q is not in the library", f.Component)
		}
		field.Component = component
	}
	return field, nil
}

func (f yamlField) toRule() (Rule, error) {
	var rule Rule
	switch model.Kind(f.Kind) {
	case model.KindString:
		rule = String()
	case model.KindText:
		rule = Text()
	case model.KindSecret:
		rule = Secret()
	case model.KindNumber:
		rule = Number()
	case model.KindInteger:
		rule = Integer()
	case model.KindBoolean:
		rule = Boolean()
	case model.KindEnum:
		rule = Enum(f.Enum...)
	default:
		return Rule{}, fmt.Errorf("unknown kind %q", f.Kind)
	}

	if f.Required {
		rule = rule.Required()
	}
	if f.Default != nil {
		rule = rule.Default(f.Default)
	}
	if f.Min != nil {
		rule = rule.Min(*f.Min)
	}
	if f.Max != nil {
		rule = rule.Max(*f.Max)
	}
	if f.MinLength != nil {
		rule = rule.MinLen(*f.MinLength)
	}
	if f.MaxLength != nil {
		rule = rule.MaxLen(*f.MaxLength)
	}
	if f.Pattern != "" {
		rule = rule.Pattern(f.Pattern)
	}
	return rule, nil
}

func (p yamlProps) toProps() model.Props {
	props := model.Props{
		Label:       p.Label,
		Placeholder: p.Placeholder,
		Help:        p.Help,
		Class:       p.Class,
		Rows:        p.Rows,
		Step:        p.Step,
	}
	if len(p.Attrs) > 0 {
		props.Attrs = make(map[string]string, len(p.Attrs))
		for key, value := range p.Attrs {
			props.Attrs[key] = value
		}
	}
	for _, opt := range p.Options {
		props.Options = append(props.Options, model.SelectOption{Value: opt.Value, Label: opt.Label})
	}
	return props
}
