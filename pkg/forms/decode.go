package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// decodeForm converts a form-encoded submission into the value shapes the
// compiled validator expects. Conversion is lenient: an unparsable numeric
// stays a string so validation reports the type issue instead of this layer
// guessing. Unknown keys are dropped by the validator's strip policy.
func decodeForm(compiled *schema.Compiled, raw url.Values) map[string]any {
	values := make(map[string]any, compiled.Len())

	for _, name := range compiled.Names() {
		kind, _ := compiled.Kind(name)

		if kind == model.KindBoolean {
			// Browsers omit unchecked checkboxes entirely.
			values[name] = truthy(raw.Get(name))
			continue
		}

		vs, present := raw[name]
		if !present || len(vs) == 0 {
			continue
		}
		value := vs[0]

		switch kind {
		case model.KindNumber:
			if value == "" {
				continue
			}
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				values[name] = parsed
			} else {
				values[name] = value
			}
		case model.KindInteger:
			if value == "" {
				continue
			}
			if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
				values[name] = int(parsed)
			} else {
				values[name] = value
			}
		default:
			values[name] = value
		}
	}
	return values
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}
