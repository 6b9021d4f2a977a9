package model

// SelectOption is a single choice offered by select-style components. Label
// falls back to Value when empty.
type SelectOption struct {
	Value string
	Label string
}

// Props carries component configuration. Per-field props are partial: any
// zero-valued entry falls back to the association default and, failing that,
// to whatever the component derives from the binding itself.
type Props struct {
	Label       string
	Placeholder string
	// Help is inline help markup rendered below the control. It is sanitized
	// before rendering; see components.SanitizeHelp.
	Help    string
	Class   string
	Attrs   map[string]string
	Options []SelectOption
	Rows    int
	Step    string
}

// Merge overlays the receiver onto defaults. Entries set on the receiver win;
// Attrs merge key-wise with receiver keys taking precedence.
func (p Props) Merge(defaults Props) Props {
	out := p
	if out.Label == "" {
		out.Label = defaults.Label
	}
	if out.Placeholder == "" {
		out.Placeholder = defaults.Placeholder
	}
	if out.Help == "" {
		out.Help = defaults.Help
	}
	if out.Class == "" {
		out.Class = defaults.Class
	}
	if len(out.Options) == 0 {
		out.Options = defaults.Options
	}
	if out.Rows == 0 {
		out.Rows = defaults.Rows
	}
	if out.Step == "" {
		out.Step = defaults.Step
	}
	if len(defaults.Attrs) > 0 {
		merged := make(map[string]string, len(defaults.Attrs)+len(out.Attrs))
		for key, value := range defaults.Attrs {
			merged[key] = value
		}
		for key, value := range out.Attrs {
			merged[key] = value
		}
		out.Attrs = merged
	}
	return out
}
