package components

import "github.com/goliatone/go-formbind/pkg/model"

// DefaultAssociations binds every built-in component to its natural rule
// kind. Pass the result to forms.New, optionally prepending overrides so
// they win the first-match scan.
func DefaultAssociations() model.Associations {
	return model.Associations{
		{Kind: model.KindString, Component: TextInput},
		{Kind: model.KindText, Component: TextArea},
		{Kind: model.KindSecret, Component: PasswordInput},
		{Kind: model.KindNumber, Component: NumberInput},
		{Kind: model.KindInteger, Component: NumberInput},
		{Kind: model.KindBoolean, Component: Checkbox},
		{Kind: model.KindEnum, Component: Select},
	}
}
