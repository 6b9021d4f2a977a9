// Package prompt walks a form schema as an interactive terminal session: one
// prompt per field, answers validated as they are typed, and the completed
// value set delivered through the same submit callback the HTML form uses.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	goskema "github.com/reoring/goskema"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Runner prompts for each field of a schema in turn.
type Runner struct {
	driver   Driver
	source   schema.Schema
	compiled *schema.Compiled
}

// NewRunner compiles the schema and prepares a prompt session. Compilation
// failures surface here, before any prompt is shown.
func NewRunner(s schema.Schema, driver Driver) (*Runner, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	compiled, err := schema.Compile(s)
	if err != nil {
		return nil, err
	}
	return &Runner{driver: driver, source: s, compiled: compiled}, nil
}

// Run prompts for every field in name order. Each answer is checked against
// its field rule before the session moves on, so the driver re-prompts on bad
// input. Once all fields are answered the whole value set runs through the
// composite validator and, when clean, is handed to onSubmit.
func (r *Runner) Run(ctx context.Context, onSubmit func(context.Context, map[string]any) error) (map[string]any, error) {
	values := make(map[string]any, r.compiled.Len())

	for _, name := range r.compiled.Names() {
		// Conditional fields see the answers given so far, so a gating
		// question asked earlier can reveal or hide later ones.
		if !r.compiled.Visible(name, values) {
			continue
		}
		value, err := r.ask(ctx, name)
		if err != nil {
			return nil, err
		}
		if value != nil {
			values[name] = value
		}
	}

	parsed, err := r.compiled.Validate(ctx, values)
	if err != nil {
		if iss, ok := goskema.AsIssues(err); ok {
			return nil, fmt.Errorf("prompt: answers failed validation: %s", iss.Error())
		}
		return nil, err
	}

	if onSubmit != nil {
		if err := onSubmit(ctx, parsed); err != nil {
			return parsed, err
		}
	}
	return parsed, nil
}

func (r *Runner) ask(ctx context.Context, name string) (any, error) {
	field := r.source[name]
	rule := field.Rule
	message := field.Props.Label
	if message == "" {
		message = promptLabel(name)
	}
	help := field.Props.Help

	switch rule.Kind() {
	case model.KindBoolean:
		def := false
		if raw, ok := rule.DefaultValue(); ok {
			if b, isBool := raw.(bool); isBool {
				def = b
			}
		}
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: help})

	case model.KindEnum:
		options := rule.EnumValues()
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: enumDefaultIndex(rule, options),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, fmt.Errorf("prompt: selection out of range for %q", name)
		}
		return options[idx], nil

	case model.KindText:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: stringDefault(rule),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return r.checkString(ctx, name, rule, answer)

	case model.KindSecret:
		answer, err := r.driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      help,
			Validator: r.stringValidator(ctx, name),
		})
		if err != nil {
			return nil, err
		}
		return r.checkString(ctx, name, rule, answer)

	case model.KindNumber, model.KindInteger:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   stringDefault(rule),
			Help:      help,
			Validator: r.numericValidator(ctx, name, rule.Kind()),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			return nil, nil
		}
		return parseNumeric(rule.Kind(), answer)

	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   stringDefault(rule),
			Help:      help,
			Validator: r.stringValidator(ctx, name),
		})
		if err != nil {
			return nil, err
		}
		return r.checkString(ctx, name, rule, answer)
	}
}

// checkString is the fallback for drivers that ignore the validator hook.
func (r *Runner) checkString(ctx context.Context, name string, rule schema.Rule, answer string) (any, error) {
	if answer == "" && !rule.IsRequired() {
		return nil, nil
	}
	if err := r.compiled.CheckField(ctx, name, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *Runner) stringValidator(ctx context.Context, name string) func(string) error {
	return func(answer string) error {
		if err := r.compiled.CheckField(ctx, name, answer); err != nil {
			return firstIssueError(err)
		}
		return nil
	}
}

func (r *Runner) numericValidator(ctx context.Context, name string, kind model.Kind) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			return r.compiled.CheckField(ctx, name, nil)
		}
		value, err := parseNumeric(kind, answer)
		if err != nil {
			return err
		}
		if err := r.compiled.CheckField(ctx, name, value); err != nil {
			return firstIssueError(err)
		}
		return nil
	}
}

func parseNumeric(kind model.Kind, answer string) (any, error) {
	answer = strings.TrimSpace(answer)
	if kind == model.KindInteger {
		n, err := strconv.Atoi(answer)
		if err != nil {
			return nil, errors.New("enter a whole number")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return nil, errors.New("enter a number")
	}
	return f, nil
}

func firstIssueError(err error) error {
	if iss, ok := goskema.AsIssues(err); ok && len(iss) > 0 {
		return errors.New(iss[0].Message)
	}
	return err
}

func stringDefault(rule schema.Rule) string {
	raw, ok := rule.DefaultValue()
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func enumDefaultIndex(rule schema.Rule, options []string) int {
	raw, ok := rule.DefaultValue()
	if !ok {
		return 0
	}
	want := fmt.Sprint(raw)
	for i, option := range options {
		if option == want {
			return i
		}
	}
	return 0
}

func promptLabel(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return name
	}
	runes := []rune(cleaned)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
