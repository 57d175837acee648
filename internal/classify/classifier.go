// File: internal/classify/classifier.go

// Package classify assigns semantic kinds to discovered controls and
// resolves their metadata. Classification is a pure function of the
// candidate's attribute snapshot: it never touches the page, never
// errors, and always returns a kind.
package classify

import (
	"strings"

	"github.com/mwielandt/autoform-cli/api/schemas"
)

// nativeTypes maps the type attribute of an input element directly to a
// kind. Types that can never be filled map to hidden.
var nativeTypes = map[string]schemas.FieldKind{
	"text":           schemas.KindText,
	"email":          schemas.KindEmail,
	"tel":            schemas.KindTel,
	"url":            schemas.KindURL,
	"number":         schemas.KindNumber,
	"password":       schemas.KindPassword,
	"date":           schemas.KindDate,
	"datetime-local": schemas.KindDate,
	"time":           schemas.KindTime,
	"radio":          schemas.KindRadio,
	"checkbox":       schemas.KindCheckbox,
	"file":           schemas.KindFile,
	"range":          schemas.KindRange,
	"search":         schemas.KindText,
	"hidden":         schemas.KindHidden,
	"submit":         schemas.KindHidden,
	"button":         schemas.KindHidden,
	"image":          schemas.KindHidden,
	"reset":          schemas.KindHidden,
}

// customTypes maps the machine-readable data-field-type attribute, which
// is authoritative when present.
var customTypes = map[string]schemas.FieldKind{
	"text":     schemas.KindText,
	"email":    schemas.KindEmail,
	"tel":      schemas.KindTel,
	"url":      schemas.KindURL,
	"number":   schemas.KindNumber,
	"password": schemas.KindPassword,
	"date":     schemas.KindDate,
	"time":     schemas.KindTime,
	"file":     schemas.KindFile,
}

// ariaRoles maps ARIA roles to kinds. Consulted after all explicit
// signals but before class-name heuristics.
var ariaRoles = map[string]schemas.FieldKind{
	"textbox":    schemas.KindText,
	"combobox":   schemas.KindAutocomplete,
	"searchbox":  schemas.KindAutocomplete,
	"listbox":    schemas.KindSelect,
	"spinbutton": schemas.KindNumber,
	"slider":     schemas.KindRange,
	"checkbox":   schemas.KindCheckbox,
	"switch":     schemas.KindCheckbox,
	"radio":      schemas.KindRadio,
}

var richTextClasses = []string{"ql-editor", "mce-content-body", "ck-content", "ProseMirror", "trix-content"}

var calendarClasses = []string{"datepicker", "date-picker", "calendar", "flatpickr", "air-datepicker", "react-datepicker"}

var autocompleteClasses = []string{"autocomplete", "typeahead", "selectize", "tagify"}

// Classify maps a candidate to its semantic kind. The cascade is ordered
// by signal strength and the order is load-bearing: explicit signals
// outrank heuristics, heuristics outrank the text default.
func Classify(c schemas.FieldCandidate) schemas.FieldKind {
	tag := strings.ToLower(c.TagName)
	class := strings.ToLower(c.Attr("class"))
	role := strings.ToLower(c.Attr("role"))
	editable := isEditable(c)

	// 1. Structural tags decide on their own.
	switch tag {
	case "select":
		return schemas.KindSelect
	case "textarea":
		return schemas.KindTextarea
	case "iframe", "frame":
		// Framed editors expose themselves only as an iframe shell.
		return schemas.KindRichText
	}

	// 2. Native input types map directly.
	if tag == "input" {
		if kind, ok := nativeTypes[strings.ToLower(c.Attr("type"))]; ok && c.Attr("type") != "" {
			if kind != schemas.KindText {
				return kind
			}
			// Plain text inputs fall through: a custom widget may dress
			// itself as type=text and reveal its nature further down.
		}
	}

	// 3. An explicit machine-readable custom type is authoritative.
	if custom := strings.ToLower(c.Attr("data-field-type")); custom != "" {
		if kind, ok := customTypes[custom]; ok {
			return kind
		}
	}

	// 4. Content-editable surfaces and rich-editor class markers.
	if editable && (role == "textbox" || role == "") {
		return schemas.KindRichText
	}
	if containsAny(class, richTextClasses) {
		return schemas.KindRichText
	}

	// 5. Combobox/searchbox roles and autocomplete class markers.
	ariaAuto := strings.ToLower(c.Attr("aria-autocomplete"))
	if role == "combobox" || role == "searchbox" || ariaAuto == "list" || ariaAuto == "both" {
		return schemas.KindAutocomplete
	}
	if containsAny(class, autocompleteClasses) {
		return schemas.KindAutocomplete
	}

	// 6. Remaining ARIA roles.
	if kind, ok := ariaRoles[role]; ok {
		return kind
	}

	// 7. Class-name heuristics, weakest signal before the default.
	if containsAny(class, calendarClasses) {
		return schemas.KindDate
	}
	if strings.Contains(class, "toggle") || strings.Contains(class, "switch") {
		return schemas.KindCheckbox
	}
	if strings.Contains(class, "multiselect") {
		return schemas.KindSelect
	}

	// 8. Inputs default to text; anything unreadable is unknown.
	if tag == "input" {
		return schemas.KindText
	}
	return schemas.KindUnknown
}

func isEditable(c schemas.FieldCandidate) bool {
	v, ok := c.Attributes["contenteditable"]
	if !ok {
		return false
	}
	return v == "" || strings.EqualFold(v, "true")
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
