package forms

import (
	"fmt"
	"strings"
	"sync"

	goskema "github.com/reoring/goskema"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// ControllerOptions configures a controller. The validation resolver is
// deliberately absent: it is always derived from the rendered schema.
type ControllerOptions struct {
	// Values pre-populates fields before any user interaction.
	Values map[string]any
	// FailFast stops validation at the first issue instead of collecting all
	// of them.
	FailFast bool
	// Messages overrides the display message per issue code (for example
	// "required" or "too_short").
	Messages map[string]string
}

// Controller tracks form state between renders: current values, touched
// flags, and per-field validation errors. A form either owns its controller
// or reuses one the caller supplies; either way the controller's single
// mutation path is the form's own submit and field handlers.
type Controller struct {
	mu       sync.Mutex
	opts     ControllerOptions
	compiled *schema.Compiled
	values   map[string]any
	errors   map[string]string
	touched  map[string]bool
	submits  int
}

// NewController creates a controller, applying any initial values.
func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		opts:    opts,
		values:  make(map[string]any),
		errors:  make(map[string]string),
		touched: make(map[string]bool),
	}
	for name, value := range opts.Values {
		c.values[name] = value
	}
	return c
}

// failFast reports whether submissions should stop at the first validation
// issue. Options are immutable after construction so no lock is needed.
func (c *Controller) failFast() bool {
	return c.opts.FailFast
}

// bind attaches the compiled validation object. The form calls this on every
// render so the resolver always reflects the schema actually rendered.
func (c *Controller) bind(compiled *schema.Compiled) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compiled = compiled
}

// Value returns the current value for a field.
func (c *Controller) Value(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[name]
	return v, ok
}

// SetValue records a value and marks the field touched. A previously recorded
// validation error for the field is cleared, mirroring edit-then-revalidate
// flows.
func (c *Controller) SetValue(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	c.touched[name] = true
	delete(c.errors, name)
}

// currentValues returns a copy of the value map for visibility evaluation.
func (c *Controller) currentValues() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.values))
	for name, value := range c.values {
		out[name] = value
	}
	return out
}

// Errors returns a copy of the per-field error messages.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errors))
	for name, msg := range c.errors {
		out[name] = msg
	}
	return out
}

// Submits reports how many successful submissions the controller has seen.
func (c *Controller) Submits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submits
}

// Reset clears values, errors, and touched flags, then re-applies the
// controller's initial values.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]any)
	c.errors = make(map[string]string)
	c.touched = make(map[string]bool)
	for name, value := range c.opts.Values {
		c.values[name] = value
	}
}

// Field returns the state accessor for one field.
func (c *Controller) Field(name string) FieldState {
	return FieldState{Name: name, ctrl: c}
}

// setIssues replaces the error map from a validation failure. The first
// issue per field wins; issues with unknown paths are dropped.
func (c *Controller) setIssues(iss goskema.Issues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = make(map[string]string, len(iss))
	for _, issue := range iss {
		name := fieldFromPointer(issue.Path)
		if name == "" {
			continue
		}
		if _, exists := c.errors[name]; exists {
			continue
		}
		c.errors[name] = c.displayMessage(issue)
	}
}

func (c *Controller) displayMessage(issue goskema.Issue) string {
	if msg, ok := c.opts.Messages[issue.Code]; ok && msg != "" {
		return msg
	}
	if issue.Message != "" {
		return issue.Message
	}
	return issue.Code
}

func (c *Controller) clearErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = make(map[string]string)
	c.submits++
}

// fieldFromPointer maps an issue's JSON-Pointer path onto a top-level field
// name. Form schemas are flat, so only the first segment matters.
func fieldFromPointer(path string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.ReplaceAll(trimmed, "~1", "/")
	return strings.ReplaceAll(trimmed, "~0", "~")
}

// FieldState is the per-field window into a controller, handed to callers
// that render custom controls.
type FieldState struct {
	Name string
	ctrl *Controller
}

// Value returns the field's current value.
func (f FieldState) Value() any {
	v, _ := f.ctrl.Value(f.Name)
	return v
}

// Touched reports whether the field has been set since the last reset.
func (f FieldState) Touched() bool {
	f.ctrl.mu.Lock()
	defer f.ctrl.mu.Unlock()
	return f.ctrl.touched[f.Name]
}

// Err returns the field's validation error. Empty messages collapse to
// absent so display code can test ok alone.
func (f FieldState) Err() (string, bool) {
	f.ctrl.mu.Lock()
	defer f.ctrl.mu.Unlock()
	msg := f.ctrl.errors[f.Name]
	if msg == "" {
		return "", false
	}
	return msg, true
}

// Set replaces the field's value. This is the change handler for scalar
// fields.
func (f FieldState) Set(value any) {
	f.ctrl.SetValue(f.Name, value)
}

// Merge applies a partial update. When both the current and incoming values
// are object-shaped maps the patch merges key-wise; otherwise it replaces
// the value, matching Set.
func (f FieldState) Merge(patch map[string]any) {
	f.ctrl.mu.Lock()
	current, ok := f.ctrl.values[f.Name].(map[string]any)
	if !ok {
		f.ctrl.mu.Unlock()
		f.Set(patch)
		return
	}
	merged := make(map[string]any, len(current)+len(patch))
	for key, value := range current {
		merged[key] = value
	}
	for key, value := range patch {
		merged[key] = value
	}
	f.ctrl.values[f.Name] = merged
	f.ctrl.touched[f.Name] = true
	delete(f.ctrl.errors, f.Name)
	f.ctrl.mu.Unlock()
}

type snapshot struct {
	Values  map[string]any    `msgpack:"values"`
	Errors  map[string]string `msgpack:"errors,omitempty"`
	Touched map[string]bool   `msgpack:"touched,omitempty"`
	Submits int               `msgpack:"submits,omitempty"`
}

// Snapshot serialises the controller state for cross-request persistence
// (session stores, hidden fields, caches). The maps are copied under the
// lock so snapshotting is safe alongside concurrent SetValue calls.
func (c *Controller) Snapshot() ([]byte, error) {
	c.mu.Lock()
	snap := snapshot{
		Values:  make(map[string]any, len(c.values)),
		Errors:  make(map[string]string, len(c.errors)),
		Touched: make(map[string]bool, len(c.touched)),
		Submits: c.submits,
	}
	for name, value := range c.values {
		snap.Values[name] = value
	}
	for name, msg := range c.errors {
		snap.Errors[name] = msg
	}
	for name, flag := range c.touched {
		snap.Touched[name] = flag
	}
	c.mu.Unlock()

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("forms: encode controller snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the controller state from a snapshot produced by
// Snapshot.
func (c *Controller) Restore(data []byte) error {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("forms: decode controller snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = snap.Values
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.errors = snap.Errors
	if c.errors == nil {
		c.errors = make(map[string]string)
	}
	c.touched = snap.Touched
	if c.touched == nil {
		c.touched = make(map[string]bool)
	}
	c.submits = snap.Submits
	return nil
}
