package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// stubDriver returns scripted answers keyed by prompt message and records
// which prompt type each field hit.
type stubDriver struct {
	inputs    map[string]string
	passwords map[string]string
	confirms  map[string]bool
	selects   map[string]int
	textareas map[string]string
	asked     []string
}

func (d *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, "input:"+cfg.Message)
	answer := d.inputs[cfg.Message]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (d *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, "password:"+cfg.Message)
	answer := d.passwords[cfg.Message]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (d *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, "confirm:"+cfg.Message)
	answer, ok := d.confirms[cfg.Message]
	if !ok {
		return cfg.Default, nil
	}
	return answer, nil
}

func (d *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, "select:"+cfg.Message)
	idx, ok := d.selects[cfg.Message]
	if !ok {
		return cfg.DefaultIndex, nil
	}
	return idx, nil
}

func (d *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	d.asked = append(d.asked, "textarea:"+cfg.Message)
	return d.textareas[cfg.Message], nil
}

func (d *stubDriver) Info(context.Context, string) error { return nil }

func TestRunner_WalksSchemaByKind(t *testing.T) {
	s := schema.Schema{
		"name":       {Rule: schema.String().Required(), Props: model.Props{Label: "Full name"}},
		"password":   {Rule: schema.Secret().Required()},
		"age":        {Rule: schema.Integer().Min(18)},
		"plan":       {Rule: schema.Enum("free", "pro").Default("pro")},
		"bio":        {Rule: schema.Text()},
		"newsletter": {Rule: schema.Boolean()},
	}

	driver := &stubDriver{
		inputs:    map[string]string{"Full name": "Alice", "Age": "30"},
		passwords: map[string]string{"Password": "hunter22"},
		confirms:  map[string]bool{"Newsletter": true},
		selects:   map[string]int{"Plan": 0},
		textareas: map[string]string{"Bio": "hello"},
	}

	runner, err := NewRunner(s, driver)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	var submitted map[string]any
	values, err := runner.Run(context.Background(), func(_ context.Context, v map[string]any) error {
		submitted = v
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]any{
		"name":       "Alice",
		"password":   "hunter22",
		"age":        30,
		"plan":       "free",
		"bio":        "hello",
		"newsletter": true,
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("callback values mismatch (-want +got):\n%s", diff)
	}

	// Fields prompt in sorted name order with kind-appropriate prompts.
	wantAsked := []string{
		"input:Age",
		"textarea:Bio",
		"input:Full name",
		"confirm:Newsletter",
		"password:Password",
		"select:Plan",
	}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_ValidatorRejectsBadAnswers(t *testing.T) {
	s := schema.Schema{
		"email": {Rule: schema.String().Required().Pattern(`^[^@]+@[^@]+$`)},
	}

	driver := &stubDriver{inputs: map[string]string{"Email": "not-an-email"}}
	runner, err := NewRunner(s, driver)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	if _, err := runner.Run(context.Background(), nil); err == nil {
		t.Fatal("expected the validator rejection to surface")
	}
}

func TestRunner_OptionalEmptyAnswerOmitted(t *testing.T) {
	s := schema.Schema{
		"name": {Rule: schema.String().Required()},
		"nick": {Rule: schema.String()},
	}

	driver := &stubDriver{inputs: map[string]string{"Name": "Alice", "Nick": ""}}
	runner, err := NewRunner(s, driver)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	values, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, present := values["nick"]; present {
		t.Fatalf("empty optional answer kept: %v", values)
	}
}

func TestRunner_SkipsHiddenFields(t *testing.T) {
	s := schema.Schema{
		"newsletter": {Rule: schema.Boolean()},
		"frequency": {
			Rule:        schema.Enum("daily", "weekly"),
			VisibleWhen: "newsletter",
		},
	}

	driver := &stubDriver{confirms: map[string]bool{"Newsletter": false}}
	runner, err := NewRunner(s, driver)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	values, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, present := values["frequency"]; present {
		t.Fatalf("hidden field was prompted: %v", values)
	}
	for _, asked := range driver.asked {
		if asked == "select:Frequency" {
			t.Fatal("frequency prompt ran despite newsletter=false")
		}
	}
}

func TestRunner_CallbackErrorPropagates(t *testing.T) {
	s := schema.Schema{"name": {Rule: schema.String().Required()}}
	driver := &stubDriver{inputs: map[string]string{"Name": "Alice"}}

	runner, err := NewRunner(s, driver)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	boom := errors.New("downstream failed")
	if _, err := runner.Run(context.Background(), func(context.Context, map[string]any) error {
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the callback error", err)
	}
}

func TestNewRunner_RequiresDriverAndValidSchema(t *testing.T) {
	if _, err := NewRunner(schema.Schema{"x": {Rule: schema.String()}}, nil); err == nil {
		t.Fatal("expected an error for a nil driver")
	}
	if _, err := NewRunner(schema.Schema{"x": {}}, &stubDriver{}); err == nil {
		t.Fatal("expected compilation to fail for a field with no rule")
	}
}
