// api/schemas/fields.go
package schemas

// FieldKind is the semantic category assigned to a discovered form control.
// It drives which strategy executor handles the fill.
type FieldKind string

const (
	KindText         FieldKind = "text"
	KindEmail        FieldKind = "email"
	KindTel          FieldKind = "tel"
	KindURL          FieldKind = "url"
	KindNumber       FieldKind = "number"
	KindPassword     FieldKind = "password"
	KindTextarea     FieldKind = "textarea"
	KindSelect       FieldKind = "select"
	KindDate         FieldKind = "date"
	KindTime         FieldKind = "time"
	KindRadio        FieldKind = "radio"
	KindCheckbox     FieldKind = "checkbox"
	KindFile         FieldKind = "file"
	KindRange        FieldKind = "range"
	KindAutocomplete FieldKind = "autocomplete"
	KindRichText     FieldKind = "richtext"
	KindHidden       FieldKind = "hidden"
	KindUnknown      FieldKind = "unknown"
)

// Target addresses one element on the page. FramePath is the chain of
// iframe indexes (document order) leading from the top document to the
// frame that contains the element; an empty path means the top document.
type Target struct {
	FramePath []int  `json:"framePath"`
	Selector  string `json:"selector"`
}

// InFrame reports whether the target lives inside a nested frame.
func (t Target) InFrame() bool { return len(t.FramePath) > 0 }

// Rect is an element's bounding box in page coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the box.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// OptionData is one option of a select element or one member of a radio
// group, as read from the live DOM.
type OptionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Index    int    `json:"index"`
	Selected bool   `json:"selected"`
}

// LabelHints carries every labelling source gathered for a control during
// discovery. The metadata resolver applies the precedence cascade over it.
type LabelHints struct {
	AriaLabel   string `json:"ariaLabel"`
	LabelledBy  string `json:"labelledByText"`
	LabelFor    string `json:"labelForText"`
	Ancestor    string `json:"ancestorLabelText"`
	Sibling     string `json:"siblingLabelText"`
	Placeholder string `json:"placeholder"`
	Title       string `json:"title"`
}

// FieldCandidate is one discovered interactive control eligible for
// filling. Candidates are produced fresh on every discovery pass and are
// never reused across passes; dynamic pages replace elements at will.
type FieldCandidate struct {
	Target     Target            `json:"target"`
	TagName    string            `json:"tagName"`
	Attributes map[string]string `json:"attributes"`
	Labels     LabelHints        `json:"labels"`
	Rect       Rect              `json:"rect"`
	Visible    bool              `json:"visible"`
	InForm     bool              `json:"inForm"`
	Checked    bool              `json:"checked"`
	Value      string            `json:"value"`
	Options    []OptionData      `json:"options"`
	// ErrorText is the text of a validation-error indicator associated
	// with this control (same container, aria-describedby target, or an
	// error-classed sibling). Empty when no indicator is present.
	ErrorText string `json:"errorText"`
	// HasRequiredMarker is set when the control's label or a nearby
	// ancestor carries an asterisk-style required marker.
	HasRequiredMarker bool `json:"hasRequiredMarker"`
}

// Attr returns an attribute value from the candidate's snapshot.
func (c FieldCandidate) Attr(name string) string {
	if c.Attributes == nil {
		return ""
	}
	return c.Attributes[name]
}

// Constraints are the validation constraints read from a control.
type Constraints struct {
	Required  bool
	Pattern   string
	Min       string
	Max       string
	Step      string
	MaxLength int
}

// FieldMetadata is the resolved identity and state of one candidate.
type FieldMetadata struct {
	Name         string
	ID           string
	Label        string
	Placeholder  string
	Autocomplete string
	ARIA         map[string]string
	Constraints  Constraints
	Disabled     bool
	ReadOnly     bool
	Checked      bool
	Value        string
}

// ValueMapping is the result of normalizing a canonical config value for
// one field: ordered literal option values and ordered literal labels the
// target UI is likely to expose. Candidates are tried in order.
type ValueMapping struct {
	Values []string
	Labels []string
}

// FillOutcome reports what happened to one field. Success is only set
// after a post-action read-back matched the intended value; it is never
// assumed from a strategy completing without error.
type FillOutcome struct {
	Success  bool
	Strategy string
	Verified string
}

// ConfigBinding pairs a discovered control with the profile value that
// should fill it. Bindings are ephemeral and recomputed every pass.
type ConfigBinding struct {
	Key     string
	Value   string
	Values  []string
	Section string
}

// Bound reports whether the binding carries any value.
func (b ConfigBinding) Bound() bool {
	return b.Value != "" || len(b.Values) > 0
}
