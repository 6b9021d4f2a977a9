package model

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"
)

func marker(name string) Component {
	return func(Binding) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, name)
			return err
		})
	}
}

func TestAssociations_FirstMatchWins(t *testing.T) {
	assoc := Associations{
		{Kind: KindString, Component: marker("first")},
		{Kind: KindString, Component: marker("second")},
		{Kind: KindBoolean, Component: marker("toggle")},
	}

	component, ok := assoc.Resolve(KindString)
	if !ok {
		t.Fatal("expected a match for string")
	}
	if got := renderToString(t, component(Binding{})); got != "first" {
		t.Fatalf("resolved %q, want the first entry", got)
	}

	if _, ok := assoc.Resolve(KindEnum); ok {
		t.Fatal("expected no match for enum")
	}
}

func TestAssociations_NilComponentSkipped(t *testing.T) {
	assoc := Associations{
		{Kind: KindNumber, Component: nil},
		{Kind: KindNumber, Component: marker("live")},
	}

	component, ok := assoc.Resolve(KindNumber)
	if !ok {
		t.Fatal("expected the nil entry to be skipped")
	}
	if got := renderToString(t, component(Binding{})); got != "live" {
		t.Fatalf("resolved %q, want live", got)
	}
}

func TestAssociations_WithKeepsPrecedence(t *testing.T) {
	base := Associations{{Kind: KindString, Component: marker("base")}}
	extended := base.With(Association{Kind: KindString, Component: marker("extra")})

	if len(base) != 1 {
		t.Fatalf("With mutated the receiver: %d entries", len(base))
	}
	component, _ := extended.Resolve(KindString)
	if got := renderToString(t, component(Binding{})); got != "base" {
		t.Fatalf("resolved %q, want base to keep precedence", got)
	}
}

func TestProps_Merge(t *testing.T) {
	cases := []struct {
		name     string
		props    Props
		defaults Props
		want     Props
	}{
		{
			name:     "zero receiver takes defaults",
			props:    Props{},
			defaults: Props{Label: "Name", Rows: 4, Step: "1"},
			want:     Props{Label: "Name", Rows: 4, Step: "1"},
		},
		{
			name:     "receiver wins",
			props:    Props{Label: "Override", Rows: 8},
			defaults: Props{Label: "Name", Rows: 4},
			want:     Props{Label: "Override", Rows: 8},
		},
		{
			name:     "attrs merge key-wise",
			props:    Props{Attrs: map[string]string{"autofocus": "", "min": "5"}},
			defaults: Props{Attrs: map[string]string{"min": "0", "required": ""}},
			want:     Props{Attrs: map[string]string{"autofocus": "", "min": "5", "required": ""}},
		},
		{
			name:     "options fall back as a unit",
			props:    Props{Options: []SelectOption{{Value: "a"}}},
			defaults: Props{Options: []SelectOption{{Value: "x"}, {Value: "y"}}},
			want:     Props{Options: []SelectOption{{Value: "a"}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.props.Merge(tc.defaults)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("merge mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func renderToString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}
