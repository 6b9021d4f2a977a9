package forms

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/components"
	"github.com/goliatone/go-formbind/pkg/schema"
)

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, s.err
}

func TestWithThemeSelector_AppliesClassAndTokens(t *testing.T) {
	selector := &stubThemeSelector{
		selection: &theme.Selection{
			Theme:   "acme",
			Variant: "dark",
			Manifest: &theme.Manifest{
				Name: "acme",
				Tokens: map[string]string{
					"brand":   "#123456",
					"surface": "#000",
				},
			},
		},
	}

	form := New(components.DefaultAssociations(), WithThemeSelector(selector, "acme", "dark")).Form()
	var sb strings.Builder
	err := form.Render(context.Background(), &sb, Config{
		Schema:   schema.Schema{"name": {Rule: schema.String()}},
		OnSubmit: func(context.Context, Values) error { return nil },
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"formbind-theme-acme",
		"formbind-variant-dark",
		`style="--brand:#123456;--surface:#000;"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWithThemeSelector_SelectionFailureSurfacesOnRender(t *testing.T) {
	boom := errors.New("unknown theme")
	selector := &stubThemeSelector{err: boom}

	form := New(components.DefaultAssociations(), WithThemeSelector(selector, "ghost", "")).Form()
	err := form.Render(context.Background(), io.Discard, Config{
		Schema:   schema.Schema{"name": {Rule: schema.String()}},
		OnSubmit: func(context.Context, Values) error { return nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the selection failure", err)
	}
}
