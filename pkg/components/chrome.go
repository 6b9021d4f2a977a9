package components

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Semantic chrome classes emitted around every built-in control. Stylesheets
// hook these instead of element selectors.
const (
	ClassField = "formbind-field"
	ClassLabel = "formbind-label"
	ClassInput = "formbind-input"
	ClassHelp  = "formbind-help"
	ClassError = "formbind-error"
)

// fieldBlock wraps a rendered control with the shared field chrome: wrapper
// div, label, sanitized help text, and the error line when present.
func fieldBlock(b model.Binding, control string) string {
	var sb strings.Builder
	sb.Grow(len(control) + 256)

	sb.WriteString(`<div class="`)
	sb.WriteString(ClassField)
	if b.Props.Class != "" {
		sb.WriteByte(' ')
		sb.WriteString(html.EscapeString(b.Props.Class))
	}
	sb.WriteString(`" data-field="`)
	sb.WriteString(html.EscapeString(b.Name))
	sb.WriteString(`">`)

	label := b.Props.Label
	if label == "" {
		label = humanize(b.Name)
	}
	sb.WriteString(`<label class="`)
	sb.WriteString(ClassLabel)
	sb.WriteString(`" for="`)
	sb.WriteString(html.EscapeString(b.ID))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(label))
	sb.WriteString(`</label>`)

	sb.WriteString(control)

	if help := SanitizeHelp(b.Props.Help); help != "" {
		sb.WriteString(`<p class="`)
		sb.WriteString(ClassHelp)
		sb.WriteString(`" id="`)
		sb.WriteString(html.EscapeString(b.ID))
		sb.WriteString(`-help">`)
		sb.WriteString(help)
		sb.WriteString(`</p>`)
	}

	if b.Error != "" {
		sb.WriteString(`<p class="`)
		sb.WriteString(ClassError)
		sb.WriteString(`" id="`)
		sb.WriteString(html.EscapeString(b.ID))
		sb.WriteString(`-error" role="alert">`)
		sb.WriteString(html.EscapeString(b.Error))
		sb.WriteString(`</p>`)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// controlAttrs renders the attributes shared by every control: id, name,
// placeholder, validation state, and any extra attributes from props in
// sorted order.
func controlAttrs(b model.Binding) string {
	var sb strings.Builder

	writeAttr(&sb, "id", b.ID)
	writeAttr(&sb, "name", b.Name)
	if b.Props.Placeholder != "" {
		writeAttr(&sb, "placeholder", b.Props.Placeholder)
	}
	if b.Error != "" {
		writeAttr(&sb, "aria-invalid", "true")
		writeAttr(&sb, "aria-describedby", b.ID+"-error")
	}

	if len(b.Props.Attrs) > 0 {
		keys := make([]string, 0, len(b.Props.Attrs))
		for key := range b.Props.Attrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writeAttr(&sb, key, b.Props.Attrs[key])
		}
	}
	return sb.String()
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	if value == "" {
		return
	}
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteByte('"')
}

// formatValue renders a controller value into an attribute-safe string.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// humanize derives a display label from a field name: underscores, dashes and
// camel case humps become spaces, and the first rune is upper-cased.
func humanize(name string) string {
	if name == "" {
		return ""
	}
	var sb strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			sb.WriteByte(' ')
			prevLower = false
		case r >= 'A' && r <= 'Z' && prevLower:
			sb.WriteByte(' ')
			sb.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			sb.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z'
		}
	}
	out := sb.String()
	first, size := utf8.DecodeRuneInString(out)
	if first == utf8.RuneError && size <= 1 {
		return out
	}
	return string(unicode.ToUpper(first)) + out[size:]
}
