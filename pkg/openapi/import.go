// Package openapi derives form schemas from OpenAPI 3 documents: the request
// body of an operation becomes a flat field schema whose rules mirror the
// properties' types and constraints.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// ImportOptions tweaks the import.
type ImportOptions struct {
	// ResolveReferences validates the document and follows external refs.
	ResolveReferences bool
	// MediaTypes orders the request content types considered; defaults to
	// JSON then form encodings.
	MediaTypes []string
}

var defaultMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// ImportOperation loads an OpenAPI document and maps the named operation's
// request body onto a form schema. Nested objects and arrays have no flat
// form representation and are skipped silently; everything else maps by type
// and format.
func ImportOperation(ctx context.Context, doc []byte, operationID string, opts ImportOptions) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody, opts.mediaTypes())
	if body == nil {
		return nil, fmt.Errorf("openapi: operation %q has no usable request body schema", operationID)
	}
	if !body.Type.Is("object") {
		return nil, fmt.Errorf("openapi: operation %q request body is not an object", operationID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	out := make(schema.Schema, len(body.Properties))
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromProperty(ref.Value, required[name])
		if !ok {
			continue
		}
		out[name] = field
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request body has no bindable properties", operationID)
	}
	return out, nil
}

func (o ImportOptions) mediaTypes() []string {
	if len(o.MediaTypes) > 0 {
		return o.MediaTypes
	}
	return defaultMediaTypes
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef, mediaTypes []string) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromProperty(prop *openapi3.Schema, required bool) (schema.Field, bool) {
	rule, ok := ruleFromProperty(prop)
	if !ok {
		return schema.Field{}, false
	}
	if required {
		rule = rule.Required()
	}
	if prop.Default != nil {
		rule = rule.Default(prop.Default)
	}

	props := model.Props{
		Label: prop.Title,
		Help:  prop.Description,
	}
	return schema.Field{Rule: rule, Props: props}, true
}

func ruleFromProperty(prop *openapi3.Schema) (schema.Rule, bool) {
	switch {
	case prop.Type.Is("string"):
		return stringRule(prop), true
	case prop.Type.Is("integer"):
		return numericRule(schema.Integer(), prop), true
	case prop.Type.Is("number"):
		return numericRule(schema.Number(), prop), true
	case prop.Type.Is("boolean"):
		return schema.Boolean(), true
	default:
		// Arrays and nested objects do not flatten onto a form.
		return schema.Rule{}, false
	}
}

func stringRule(prop *openapi3.Schema) schema.Rule {
	if len(prop.Enum) > 0 {
		values := make([]string, 0, len(prop.Enum))
		for _, raw := range prop.Enum {
			values = append(values, fmt.Sprint(raw))
		}
		return schema.Enum(values...)
	}

	var rule schema.Rule
	switch strings.ToLower(prop.Format) {
	case "password":
		rule = schema.Secret()
	case "textarea", "markdown":
		rule = schema.Text()
	default:
		rule = schema.String()
	}

	if prop.MinLength != 0 {
		rule = rule.MinLen(int(prop.MinLength))
	}
	if prop.MaxLength != nil {
		rule = rule.MaxLen(int(*prop.MaxLength))
	}
	if prop.Pattern != "" {
		rule = rule.Pattern(prop.Pattern)
	}
	return rule
}

func numericRule(rule schema.Rule, prop *openapi3.Schema) schema.Rule {
	if prop.Min != nil {
		rule = rule.Min(*prop.Min)
	}
	if prop.Max != nil {
		rule = rule.Max(*prop.Max)
	}
	return rule
}
