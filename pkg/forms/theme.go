package forms

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// chrome carries the theme-derived presentation applied to the form element:
// a class hook naming the theme and CSS custom properties derived from the
// manifest tokens.
type chrome struct {
	class   string
	cssVars map[string]string
}

func chromeFromSelection(sel *theme.Selection) chrome {
	if sel == nil {
		return chrome{}
	}
	out := chrome{}
	if sel.Theme != "" {
		out.class = "formbind-theme-" + sel.Theme
		if sel.Variant != "" {
			out.class += " formbind-variant-" + sel.Variant
		}
	}
	if sel.Manifest != nil && len(sel.Manifest.Tokens) > 0 {
		out.cssVars = make(map[string]string, len(sel.Manifest.Tokens))
		for token, value := range sel.Manifest.Tokens {
			out.cssVars["--"+token] = value
		}
	}
	return out
}

// styleAttr renders the CSS custom properties as an inline style value, in
// sorted order for deterministic output.
func (c chrome) styleAttr() string {
	if len(c.cssVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.cssVars))
	for name := range c.cssVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s:%s;", name, c.cssVars[name])
	}
	return sb.String()
}
