package forms

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"
	goskema "github.com/reoring/goskema"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Values is the typed value map delivered to the submit callback. It is
// created per successful submission, handed to the callback once, and not
// retained.
type Values map[string]any

// Attrs configures the rendered form element. Methods other than GET and
// POST render as POST plus a hidden _method input, the usual browser
// workaround for PUT/PATCH/DELETE.
type Attrs struct {
	Action string
	Method string
	ID     string
	Class  string
	// Extra is rendered verbatim (escaped) onto the form element.
	Extra map[string]string
	// Hidden emits hidden inputs before the fields: CSRF tokens, versions,
	// anything the backend needs along for the ride.
	Hidden map[string]string
}

// Config is the per-render configuration. Schema and OnSubmit are required;
// everything else is optional. Controller, when set, must be set on every
// render of the same Form (and when unset, never set later).
type Config struct {
	Schema     schema.Schema
	OnSubmit   func(context.Context, Values) error
	Controller *Controller
	// Children arranges the per-field elements. When nil, fields render in
	// sorted name order followed by a default submit button.
	Children func(map[string]templ.Component) templ.Component
	Attrs    Attrs
	// Options configures the owned controller on first render. Ignored when
	// an external controller is supplied.
	Options ControllerOptions
}

// Form is a per-mount form instance. Render may be called repeatedly with
// fresh configs; Submit validates a submission against whatever was rendered
// last. A Form must not be shared across unrelated forms, but is safe for
// concurrent use by a single logical form (for example one HTTP route).
type Form struct {
	builder *Builder

	mu       sync.Mutex
	external *bool
	owned    *Controller
	active   *Controller
	compiled *schema.Compiled
	onSubmit func(context.Context, Values) error
}

// Render compiles the schema, resolves every field to a component, and
// writes the complete form element. All failures are synchronous and happen
// before anything is written; there is no partial render.
func (f *Form) Render(ctx context.Context, w io.Writer, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.builder != nil && f.builder.themeErr != nil {
		return f.builder.themeErr
	}
	if len(cfg.Schema) == 0 {
		return ErrMissingSchema
	}
	if cfg.OnSubmit == nil {
		return ErrMissingOnSubmit
	}

	compiled, err := schema.Compile(cfg.Schema)
	if err != nil {
		return err
	}

	ctrl, err := f.adoptController(cfg, compiled)
	if err != nil {
		return err
	}

	elements, order, err := f.resolveElements(cfg, compiled, ctrl)
	if err != nil {
		return err
	}

	var children templ.Component
	if cfg.Children != nil {
		children = cfg.Children(elements)
	} else {
		children = defaultArrangement(order, elements)
	}

	var buf bytes.Buffer
	if err := f.writeFormElement(ctx, &buf, cfg.Attrs, children); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// adoptController enforces the ownership invariant and returns the
// controller for this render, creating the owned one on first use.
func (f *Form) adoptController(cfg Config, compiled *schema.Compiled) (*Controller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	supplied := cfg.Controller != nil
	if f.external == nil {
		f.external = &supplied
	} else if *f.external != supplied {
		return nil, ErrControllerModeChanged
	}

	ctrl := cfg.Controller
	if ctrl == nil {
		if f.owned == nil {
			f.owned = NewController(cfg.Options)
		}
		ctrl = f.owned
	}
	ctrl.bind(compiled)

	f.active = ctrl
	f.compiled = compiled
	f.onSubmit = cfg.OnSubmit
	return ctrl, nil
}

func (f *Form) resolveElements(cfg Config, compiled *schema.Compiled, ctrl *Controller) (map[string]templ.Component, []string, error) {
	order := compiled.Names()
	elements := make(map[string]templ.Component, len(order))
	idBase := cfg.Attrs.ID
	if idBase == "" {
		idBase = "formbind"
	}

	current := ctrl.currentValues()
	visible := order[:0]
	for _, name := range order {
		if !compiled.Visible(name, current) {
			continue
		}
		visible = append(visible, name)

		entry := cfg.Schema[name]
		rule, _ := compiled.Rule(name)

		component := entry.Component
		if component == nil {
			resolved, ok := f.builder.assoc.Resolve(rule.Kind())
			if !ok {
				return nil, nil, &ComponentNotFoundError{Field: name, Kind: rule.Kind()}
			}
			component = resolved
		}

		elements[name] = component(f.binding(idBase, name, entry, rule, ctrl))
	}
	return elements, visible, nil
}

func (f *Form) binding(idBase, name string, entry schema.Field, rule schema.Rule, ctrl *Controller) model.Binding {
	state := ctrl.Field(name)
	value := state.Value()
	if value == nil {
		if def, ok := rule.DefaultValue(); ok {
			value = def
		}
	}
	msg, _ := state.Err()

	return model.Binding{
		Name:    name,
		ID:      idBase + "-" + name,
		Value:   value,
		Error:   msg,
		Touched: state.Touched(),
		Props:   entry.Props.Merge(derivedProps(rule)),
	}
}

// derivedProps fills component configuration the rule already implies: enum
// options, integer stepping, and the required attribute.
func derivedProps(rule schema.Rule) model.Props {
	props := model.Props{}
	if rule.Kind() == model.KindEnum {
		for _, value := range rule.EnumValues() {
			props.Options = append(props.Options, model.SelectOption{Value: value})
		}
	}
	if rule.Kind() == model.KindInteger {
		props.Step = "1"
	}
	if rule.IsRequired() {
		props.Attrs = map[string]string{"required": ""}
	}
	return props
}

func defaultArrangement(order []string, elements map[string]templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, name := range order {
			if err := elements[name].Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<div class="formbind-actions"><button type="submit">Submit</button></div>`)
		return err
	})
}

func (f *Form) writeFormElement(ctx context.Context, w io.Writer, attrs Attrs, children templ.Component) error {
	method := strings.ToUpper(strings.TrimSpace(attrs.Method))
	if method == "" {
		method = "POST"
	}
	spoofed := ""
	if method != "GET" && method != "POST" {
		spoofed = method
		method = "POST"
	}

	var sb strings.Builder
	sb.WriteString(`<form class="formbind-form`)
	if f.builder != nil && f.builder.chrome.class != "" {
		sb.WriteByte(' ')
		sb.WriteString(html.EscapeString(f.builder.chrome.class))
	}
	if attrs.Class != "" {
		sb.WriteByte(' ')
		sb.WriteString(html.EscapeString(attrs.Class))
	}
	sb.WriteString(`"`)
	if attrs.ID != "" {
		writeFormAttr(&sb, "id", attrs.ID)
	}
	if attrs.Action != "" {
		writeFormAttr(&sb, "action", attrs.Action)
	}
	writeFormAttr(&sb, "method", method)
	if f.builder != nil {
		if style := f.builder.chrome.styleAttr(); style != "" {
			writeFormAttr(&sb, "style", style)
		}
	}
	for _, key := range sortedKeys(attrs.Extra) {
		writeFormAttr(&sb, key, attrs.Extra[key])
	}
	sb.WriteString(`>`)

	if spoofed != "" {
		sb.WriteString(`<input type="hidden" name="_method" value="`)
		sb.WriteString(html.EscapeString(spoofed))
		sb.WriteString(`">`)
	}
	for _, name := range sortedKeys(attrs.Hidden) {
		sb.WriteString(`<input type="hidden" name="`)
		sb.WriteString(html.EscapeString(name))
		sb.WriteString(`" value="`)
		sb.WriteString(html.EscapeString(attrs.Hidden[name]))
		sb.WriteString(`">`)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if err := children.Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, `</form>`)
	return err
}

func writeFormAttr(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteByte('"')
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Submit decodes a form-encoded submission by rule kind and validates it.
// See SubmitValues for the result contract.
func (f *Form) Submit(ctx context.Context, raw url.Values) (bool, error) {
	f.mu.Lock()
	compiled := f.compiled
	f.mu.Unlock()
	if compiled == nil {
		return false, ErrNotRendered
	}
	return f.SubmitValues(ctx, decodeForm(compiled, raw))
}

// SubmitValues validates already-decoded values against the last rendered
// schema. On validation failure the callback is not invoked, the issues land
// on the controller as per-field errors, and (false, nil) is returned so the
// caller re-renders. On success the callback runs exactly once with the
// typed values; its error, if any, is returned alongside ok=true.
func (f *Form) SubmitValues(ctx context.Context, values map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	f.mu.Lock()
	compiled := f.compiled
	ctrl := f.active
	callback := f.onSubmit
	f.mu.Unlock()
	if compiled == nil || ctrl == nil || callback == nil {
		return false, ErrNotRendered
	}

	// Keep what the user typed so a failed validation re-renders their
	// input rather than a blank form.
	ctrl.mu.Lock()
	for name, value := range values {
		ctrl.values[name] = value
	}
	ctrl.mu.Unlock()

	vctx := ctx
	if ctrl.failFast() {
		vctx = goskema.WithFailFast(ctx, true)
	}
	typed, err := compiled.Validate(vctx, values)
	if err != nil {
		if iss, ok := goskema.AsIssues(err); ok {
			ctrl.setIssues(iss)
			return false, nil
		}
		return false, err
	}

	ctrl.clearErrors()
	return true, callback(ctx, Values(typed))
}
