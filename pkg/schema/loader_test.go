package schema

import (
	"context"
	"io"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
)

const signupYAML = `
fields:
  email:
    kind: string
    required: true
    pattern: "^[^@]+@[^@]+$"
    props:
      label: Email address
      placeholder: you@example.com
  age:
    kind: integer
    min: 18
    max: 130
  plan:
    kind: enum
    enum: [free, pro, team]
    default: free
  bio:
    kind: text
    maxLength: 500
    visibleWhen: newsletter
    props:
      rows: 6
  newsletter:
    kind: boolean
    default: true
`

func TestLoadYAML(t *testing.T) {
	s, err := LoadYAML([]byte(signupYAML), nil)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if len(s) != 5 {
		t.Fatalf("got %d fields, want 5", len(s))
	}

	email := s["email"]
	if !email.Rule.IsRequired() || email.Rule.Kind() != model.KindString {
		t.Fatalf("email rule = %+v", email.Rule)
	}
	if email.Props.Label != "Email address" || email.Props.Placeholder != "you@example.com" {
		t.Fatalf("email props = %+v", email.Props)
	}

	plan := s["plan"]
	if diff := cmp.Diff([]string{"free", "pro", "team"}, plan.Rule.EnumValues()); diff != "" {
		t.Fatalf("enum values mismatch (-want +got):\n%s", diff)
	}
	if def, ok := plan.Rule.DefaultValue(); !ok || def != "free" {
		t.Fatalf("plan default = %v (ok=%v)", def, ok)
	}

	if s["bio"].Props.Rows != 6 {
		t.Fatalf("bio rows = %d, want 6", s["bio"].Props.Rows)
	}
	if s["bio"].VisibleWhen != "newsletter" {
		t.Fatalf("bio visibleWhen = %q", s["bio"].VisibleWhen)
	}

	if _, err := Compile(s); err != nil {
		t.Fatalf("loaded schema failed to compile: %v", err)
	}
}

func TestLoadYAML_ComponentLibrary(t *testing.T) {
	doc := []byte(`
fields:
  color:
    kind: string
    component: swatch
`)
	swatch := func(model.Binding) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { return nil })
	}

	s, err := LoadYAML(doc, Library{"swatch": swatch})
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if s["color"].Component == nil {
		t.Fatal("component did not resolve from the library")
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{name: "no fields", doc: "fields: {}"},
		{name: "unknown kind", doc: "fields:\n  x:\n    kind: widget"},
		{name: "unknown component", doc: "fields:\n  x:\n    kind: string\n    component: nope"},
		{name: "fields not a map", doc: "fields:\n  - one\n  - two"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadYAML([]byte(tc.doc), nil); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	fsys := fstest.MapFS{
		"schemas/signup.yaml": {Data: []byte(signupYAML)},
	}

	s, err := LoadYAMLFile(fsys, "schemas/signup.yaml", nil)
	if err != nil {
		t.Fatalf("LoadYAMLFile: %v", err)
	}
	if len(s) != 5 {
		t.Fatalf("got %d fields, want 5", len(s))
	}

	if _, err := LoadYAMLFile(fsys, "schemas/missing.yaml", nil); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
