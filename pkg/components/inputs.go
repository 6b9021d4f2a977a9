package components

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/goliatone/go-formbind/pkg/model"
)

// TextInput renders a single-line text control.
func TextInput(b model.Binding) templ.Component {
	return inputControl(b, "text", formatValue(b.Value))
}

// PasswordInput renders a password control. The current value is never echoed
// back into the markup.
func PasswordInput(b model.Binding) templ.Component {
	return inputControl(b, "password", "")
}

// NumberInput renders a numeric control. Props.Step customises the step
// attribute; integer fields get step 1 from the form builder.
func NumberInput(b model.Binding) templ.Component {
	return componentFunc(b, func(sb *strings.Builder) {
		sb.WriteString(`<input class="`)
		sb.WriteString(ClassInput)
		sb.WriteString(`" type="number"`)
		sb.WriteString(controlAttrs(b))
		step := b.Props.Step
		if step == "" {
			step = "any"
		}
		writeAttr(sb, "step", step)
		if v := formatValue(b.Value); v != "" {
			writeAttr(sb, "value", v)
		}
		sb.WriteString(`>`)
	})
}

// TextArea renders a multi-line text control. Props.Rows defaults to 4.
func TextArea(b model.Binding) templ.Component {
	return componentFunc(b, func(sb *strings.Builder) {
		rows := b.Props.Rows
		if rows <= 0 {
			rows = 4
		}
		sb.WriteString(`<textarea class="`)
		sb.WriteString(ClassInput)
		sb.WriteString(`"`)
		sb.WriteString(controlAttrs(b))
		writeAttr(sb, "rows", strconv.Itoa(rows))
		sb.WriteString(`>`)
		sb.WriteString(html.EscapeString(formatValue(b.Value)))
		sb.WriteString(`</textarea>`)
	})
}

// Checkbox renders a boolean control, checked when the bound value is true.
func Checkbox(b model.Binding) templ.Component {
	return componentFunc(b, func(sb *strings.Builder) {
		sb.WriteString(`<input class="`)
		sb.WriteString(ClassInput)
		sb.WriteString(`" type="checkbox" value="true"`)
		sb.WriteString(controlAttrs(b))
		if checked, ok := b.Value.(bool); ok && checked {
			sb.WriteString(` checked`)
		}
		sb.WriteString(`>`)
	})
}

// Select renders a choice control. Options come from props; the form builder
// fills them from the rule's enum values when props leave them empty. A
// placeholder prop becomes a disabled leading option.
func Select(b model.Binding) templ.Component {
	return componentFunc(b, func(sb *strings.Builder) {
		current := formatValue(b.Value)
		sb.WriteString(`<select class="`)
		sb.WriteString(ClassInput)
		sb.WriteString(`"`)
		sb.WriteString(controlAttrs(b))
		sb.WriteString(`>`)
		if b.Props.Placeholder != "" {
			sb.WriteString(`<option value="" disabled`)
			if current == "" {
				sb.WriteString(` selected`)
			}
			sb.WriteString(`>`)
			sb.WriteString(html.EscapeString(b.Props.Placeholder))
			sb.WriteString(`</option>`)
		}
		for _, opt := range b.Props.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			sb.WriteString(`<option value="`)
			sb.WriteString(html.EscapeString(opt.Value))
			sb.WriteString(`"`)
			if current != "" && current == opt.Value {
				sb.WriteString(` selected`)
			}
			sb.WriteString(`>`)
			sb.WriteString(html.EscapeString(label))
			sb.WriteString(`</option>`)
		}
		sb.WriteString(`</select>`)
	})
}

// HiddenInput renders a hidden control with no field chrome.
func HiddenInput(b model.Binding) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<input type="hidden"`)
		writeAttr(&sb, "id", b.ID)
		writeAttr(&sb, "name", b.Name)
		if v := formatValue(b.Value); v != "" {
			writeAttr(&sb, "value", v)
		}
		sb.WriteString(`>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func inputControl(b model.Binding, inputType, value string) templ.Component {
	return componentFunc(b, func(sb *strings.Builder) {
		sb.WriteString(`<input class="`)
		sb.WriteString(ClassInput)
		sb.WriteString(`" type="`)
		sb.WriteString(inputType)
		sb.WriteString(`"`)
		sb.WriteString(controlAttrs(b))
		if value != "" {
			writeAttr(sb, "value", value)
		}
		sb.WriteString(`>`)
	})
}

func componentFunc(b model.Binding, control func(*strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		control(&sb)
		_, err := io.WriteString(w, fieldBlock(b, sb.String()))
		return err
	})
}
