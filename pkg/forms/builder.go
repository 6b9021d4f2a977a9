package forms

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Builder is the form factory: it closes over an optional association list
// and presentation options, and mints per-mount Form instances. Builders are
// cheap and safe to share; Forms are not, one per mounted form.
type Builder struct {
	assoc    model.Associations
	chrome   chrome
	themeErr error
}

// Option customises a builder.
type Option func(*Builder)

// New constructs a builder. A nil association list is valid: every field
// must then declare an explicit component.
func New(assoc model.Associations, options ...Option) *Builder {
	b := &Builder{assoc: assoc}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// WithThemeSelector resolves a theme selection up front and applies its
// tokens as CSS custom properties on every form element the builder renders.
// Selection failures surface on the first render rather than here, keeping
// construction infallible.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(b *Builder) {
		if selector == nil {
			return
		}
		selection, err := selector.Select(name, variant)
		if err != nil {
			b.themeErr = fmt.Errorf("forms: select theme %s/%s: %w", name, variant, err)
			return
		}
		b.chrome = chromeFromSelection(selection)
	}
}

// Form creates a new form instance bound to this builder's associations.
func (b *Builder) Form() *Form {
	return &Form{builder: b}
}
