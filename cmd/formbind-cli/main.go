package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/components"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/prompt"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func main() {
	schemaPath := flag.String("schema", "", "YAML schema document path")
	openapiPath := flag.String("openapi", "", "OpenAPI document path")
	operation := flag.String("operation", "", "operation ID (with -openapi)")
	mode := flag.String("mode", "html", "html or prompt")
	action := flag.String("action", "/submit", "form action (html mode)")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	s, err := loadSchema(ctx, *schemaPath, *openapiPath, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	switch *mode {
	case "html":
		if err := renderHTML(ctx, s, *action, *output); err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
	case "prompt":
		if err := runPrompt(ctx, s, *output); err != nil {
			log.Fatalf("Prompt session failed: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q (want html or prompt)", *mode)
	}
}

func loadSchema(ctx context.Context, schemaPath, openapiPath, operation string) (schema.Schema, error) {
	switch {
	case schemaPath != "":
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, err
		}
		return schema.LoadYAML(data, nil)
	case openapiPath != "":
		if operation == "" {
			return nil, fmt.Errorf("-operation is required with -openapi")
		}
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return nil, err
		}
		return openapi.ImportOperation(ctx, data, operation, openapi.ImportOptions{})
	default:
		return nil, fmt.Errorf("one of -schema or -openapi is required")
	}
}

func renderHTML(ctx context.Context, s schema.Schema, action, output string) error {
	form := forms.New(components.DefaultAssociations()).Form()

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return form.Render(ctx, out, forms.Config{
		Schema: s,
		OnSubmit: func(context.Context, forms.Values) error {
			return nil
		},
		Attrs: forms.Attrs{Action: action, Method: "POST"},
	})
}

func runPrompt(ctx context.Context, s schema.Schema, output string) error {
	runner, err := prompt.NewRunner(s, prompt.NewSurveyDriver())
	if err != nil {
		return err
	}

	values, err := runner.Run(ctx, nil)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if output != "" {
		return os.WriteFile(output, append(encoded, '\n'), 0o644)
	}
	fmt.Println(string(encoded))
	return nil
}
