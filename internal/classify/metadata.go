// File: internal/classify/metadata.go
package classify

import (
	"strconv"
	"strings"

	"github.com/mwielandt/autoform-cli/api/schemas"
)

// ResolveMetadata extracts identity, label, constraints and state from a
// candidate's snapshot. Every read tolerates absence; a control with no
// usable signals still yields valid (empty) metadata.
func ResolveMetadata(c schemas.FieldCandidate) schemas.FieldMetadata {
	meta := schemas.FieldMetadata{
		Name:         c.Attr("name"),
		ID:           c.Attr("id"),
		Placeholder:  c.Attr("placeholder"),
		Autocomplete: c.Attr("autocomplete"),
		Label:        resolveLabel(c),
		ARIA:         ariaAttributes(c),
		Checked:      c.Checked,
		Value:        c.Value,
		Disabled:     hasFlag(c, "disabled"),
		ReadOnly:     hasFlag(c, "readonly"),
		Constraints:  resolveConstraints(c),
	}
	return meta
}

// resolveLabel applies the label cascade: first non-empty source wins.
// The ordering matters; explicit accessibility wiring beats proximity
// guesses, which beat placeholder text.
func resolveLabel(c schemas.FieldCandidate) string {
	sources := []string{
		c.Labels.AriaLabel,
		c.Labels.LabelledBy,
		c.Labels.LabelFor,
		c.Labels.Ancestor,
		c.Labels.Sibling,
		c.Labels.Placeholder,
		c.Labels.Title,
	}
	for _, s := range sources {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func resolveConstraints(c schemas.FieldCandidate) schemas.Constraints {
	cons := schemas.Constraints{
		Required: hasFlag(c, "required") || c.Attr("aria-required") == "true" || c.HasRequiredMarker,
		Pattern:  c.Attr("pattern"),
		Min:      c.Attr("min"),
		Max:      c.Attr("max"),
		Step:     c.Attr("step"),
	}
	if raw := c.Attr("maxlength"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cons.MaxLength = n
		}
	}
	return cons
}

func ariaAttributes(c schemas.FieldCandidate) map[string]string {
	out := map[string]string{}
	for k, v := range c.Attributes {
		if strings.HasPrefix(k, "aria-") {
			out[k] = v
		}
	}
	return out
}

// hasFlag reports presence of a boolean attribute; an empty string value
// still counts as set.
func hasFlag(c schemas.FieldCandidate, name string) bool {
	v, ok := c.Attributes[name]
	if !ok {
		return false
	}
	return v == "" || strings.EqualFold(v, "true") || strings.EqualFold(v, name)
}
