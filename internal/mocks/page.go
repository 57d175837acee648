// File: internal/mocks/page.go

// Package mocks provides hand-written fakes for tests. FakePage is an
// in-memory browser.Page backed by a map of scripted elements; it records
// every interaction so tests can assert on ordering and strategy choice.
package mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// FakeElement is the scripted state of one element on a FakePage.
type FakeElement struct {
	Tag      string
	Attrs    map[string]string
	Value    string
	Text     string
	Checked  bool
	Visible  bool
	Disabled bool
	Rect     schemas.Rect
	Options  []schemas.OptionData
	Files    []string

	// RejectSetValue makes SetValue silently not stick, simulating a
	// widget that discards programmatic writes.
	RejectSetValue bool
	// RejectType does the same for keystroke input.
	RejectType bool
}

// FakePage implements browser.Page over scripted elements keyed by
// selector. Frame paths are flattened into the key with keyFor.
type FakePage struct {
	mu           sync.Mutex
	elements     map[string]*FakeElement
	Interactions []string

	// CurrentURL is returned by URL.
	CurrentURL string
	// EvaluateFunc, when set, handles Evaluate calls.
	EvaluateFunc func(script string, out interface{}) error
	// OnClick, when set, runs after a successful Click with the key
	// that was clicked. Used to script page reactions.
	OnClick func(key string)
	// NavigateErr is returned by Navigate when set.
	NavigateErr error
	// Screenshots records the paths passed to Screenshot.
	Screenshots []string
}

func NewFakePage() *FakePage {
	return &FakePage{elements: make(map[string]*FakeElement)}
}

// AddElement registers an element under the given selector in the top
// document.
func (p *FakePage) AddElement(selector string, el *FakeElement) {
	p.AddFramedElement(nil, selector, el)
}

// AddFramedElement registers an element inside a frame.
func (p *FakePage) AddFramedElement(framePath []int, selector string, el *FakeElement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el.Attrs == nil {
		el.Attrs = map[string]string{}
	}
	p.elements[keyFor(framePath, selector)] = el
}

// Element returns the scripted element for assertions.
func (p *FakePage) Element(selector string) *FakeElement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elements[keyFor(nil, selector)]
}

// Recorded returns a copy of the interaction log.
func (p *FakePage) Recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Interactions))
	copy(out, p.Interactions)
	return out
}

func keyFor(framePath []int, selector string) string {
	if len(framePath) == 0 {
		return selector
	}
	parts := make([]string, len(framePath))
	for i, idx := range framePath {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".") + "|" + selector
}

func (p *FakePage) record(format string, args ...interface{}) {
	p.Interactions = append(p.Interactions, fmt.Sprintf(format, args...))
}

func (p *FakePage) lookup(t schemas.Target) (*FakeElement, bool) {
	el, ok := p.elements[keyFor(t.FramePath, t.Selector)]
	return el, ok
}

func (p *FakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Navigate(%s)", url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.CurrentURL = url
	return nil
}

func (p *FakePage) URL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentURL, nil
}

func (p *FakePage) Evaluate(ctx context.Context, script string, out interface{}) error {
	p.mu.Lock()
	fn := p.EvaluateFunc
	p.record("Evaluate(%.40s)", script)
	p.mu.Unlock()
	if fn == nil {
		return schemas.ErrNotFound
	}
	return fn(script, out)
}

func (p *FakePage) Screenshot(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Screenshot(%s)", path)
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *FakePage) Exists(ctx context.Context, t schemas.Target) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.lookup(t)
	return ok
}

func (p *FakePage) IsVisible(ctx context.Context, t schemas.Target) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	return ok && el.Visible
}

func (p *FakePage) Query(ctx context.Context, framePath []int, selector string) (schemas.Target, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := schemas.Target{FramePath: framePath, Selector: selector}
	if _, ok := p.lookup(t); ok {
		return t, true
	}
	return schemas.Target{}, false
}

func (p *FakePage) QueryWithText(ctx context.Context, framePath []int, selector, text string) (schemas.Target, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefix := keyFor(framePath, "")
	for key, el := range p.elements {
		if len(framePath) == 0 && strings.Contains(key, "|") {
			continue
		}
		if len(framePath) > 0 && !strings.HasPrefix(key, prefix) {
			continue
		}
		if matchesSelector(key, el, selector) && strings.Contains(el.Text, text) {
			return targetFromKey(key), true
		}
	}
	return schemas.Target{}, false
}

func (p *FakePage) QueryAll(ctx context.Context, framePath []int, selector string) ([]browser.ElementInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []browser.ElementInfo
	for key, el := range p.elements {
		if len(framePath) == 0 && strings.Contains(key, "|") {
			continue
		}
		if !matchesSelector(key, el, selector) {
			continue
		}
		out = append(out, browser.ElementInfo{
			Target:   targetFromKey(key),
			TagName:  el.Tag,
			Text:     el.Text,
			Rect:     el.Rect,
			Visible:  el.Visible,
			Disabled: el.Disabled,
		})
	}
	return out, nil
}

// matchesSelector supports the selector shapes the engine actually
// issues against fakes: the exact registered key, or a comma list
// containing it.
func matchesSelector(key string, el *FakeElement, selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == key {
			return true
		}
		if part == el.Tag {
			return true
		}
	}
	return false
}

func targetFromKey(key string) schemas.Target {
	if i := strings.Index(key, "|"); i >= 0 {
		var framePath []int
		for _, part := range strings.Split(key[:i], ".") {
			if n, err := strconv.Atoi(part); err == nil {
				framePath = append(framePath, n)
			}
		}
		return schemas.Target{FramePath: framePath, Selector: key[i+1:]}
	}
	return schemas.Target{Selector: key}
}

func (p *FakePage) Attr(ctx context.Context, t schemas.Target, name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return "", false
	}
	v, ok := el.Attrs[name]
	return v, ok
}

func (p *FakePage) Value(ctx context.Context, t schemas.Target) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return "", schemas.ErrNotFound
	}
	return el.Value, nil
}

func (p *FakePage) Text(ctx context.Context, t schemas.Target) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return "", schemas.ErrNotFound
	}
	return el.Text, nil
}

func (p *FakePage) IsChecked(ctx context.Context, t schemas.Target) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return false, schemas.ErrNotFound
	}
	return el.Checked, nil
}

func (p *FakePage) Options(ctx context.Context, t schemas.Target) ([]schemas.OptionData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return nil, schemas.ErrNotFound
	}
	return el.Options, nil
}

func (p *FakePage) FileCount(ctx context.Context, t schemas.Target) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(t)
	if !ok {
		return 0, schemas.ErrNotFound
	}
	return len(el.Files), nil
}

func (p *FakePage) ScrollIntoView(ctx context.Context, t schemas.Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("ScrollIntoView(%s)", t.Selector)
	if _, ok := p.lookup(t); !ok {
		return schemas.ErrNotFound
	}
	return nil
}

func (p *FakePage) Focus(ctx context.Context, t schemas.Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Focus(%s)", t.Selector)
	if _, ok := p.lookup(t); !ok {
		return schemas.ErrNotFound
	}
	return nil
}

func (p *FakePage) Clear(ctx context.Context, t schemas.Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Clear(%s)", t.Selector)
	el, ok := p.lookup(t)
	if !ok {
		return schemas.ErrNotFound
	}
	el.Value = ""
	return nil
}

func (p *FakePage) SetValue(ctx context.Context, t schemas.Target, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SetValue(%s, %s)", t.Selector, value)
	el, ok := p.lookup(t)
	if !ok {
		return schemas.ErrNotFound
	}
	if !el.RejectSetValue {
		el.Value = value
		// Non-form elements (contenteditable surfaces, frame bodies)
		// reflect a written value as their text content.
		if el.Tag != "input" && el.Tag != "select" {
			el.Text = value
		}
	}
	return nil
}

func (p *FakePage) Type(ctx context.Context, t schemas.Target, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("Type(%s, %s)", t.Selector, text)
	el, ok := p.lookup(t)
	if !ok {
		return schemas.ErrNotFound
	}
	if !el.RejectType {
		el.Value += text
	}
	return nil
}

func (p *FakePage) Click(ctx context.Context, t schemas.Target) error {
	p.mu.Lock()
	p.record("Click(%s)", t.Selector)
	el, ok := p.lookup(t)
	var hook func(string)
	if ok {
		if el.Tag == "input" && el.Attrs["type"] == "checkbox" {
			el.Checked = !el.Checked
		}
		if el.Tag == "input" && el.Attrs["type"] == "radio" {
			el.Checked = true
		}
		hook = p.OnClick
	}
	p.mu.Unlock()
	if !ok {
		return schemas.ErrNotFound
	}
	if hook != nil {
		hook(keyFor(t.FramePath, t.Selector))
	}
	return nil
}

func (p *FakePage) SetChecked(ctx context.Context, t schemas.Target, checked bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SetChecked(%s, %t)", t.Selector, checked)
	el, ok := p.lookup(t)
	if !ok {
		return schemas.ErrNotFound
	}
	el.Checked = checked
	return nil
}

func (p *FakePage) SelectValue(ctx context.Context, t schemas.Target, value string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SelectValue(%s, %s)", t.Selector, value)
	el, ok := p.lookup(t)
	if !ok {
		return "", schemas.ErrNotFound
	}
	for i, o := range el.Options {
		if o.Value == value || strings.EqualFold(o.Value, value) {
			selectOption(el, i)
			return o.Value, nil
		}
	}
	return "", schemas.ErrNotFound
}

func (p *FakePage) SelectLabel(ctx context.Context, t schemas.Target, label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SelectLabel(%s, %s)", t.Selector, label)
	el, ok := p.lookup(t)
	if !ok {
		return "", schemas.ErrNotFound
	}
	for i, o := range el.Options {
		if strings.EqualFold(o.Label, label) {
			selectOption(el, i)
			return o.Value, nil
		}
	}
	for i, o := range el.Options {
		if strings.Contains(strings.ToLower(o.Label), strings.ToLower(label)) {
			selectOption(el, i)
			return o.Value, nil
		}
	}
	return "", schemas.ErrNotFound
}

func (p *FakePage) SelectIndex(ctx context.Context, t schemas.Target, index int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SelectIndex(%s, %d)", t.Selector, index)
	el, ok := p.lookup(t)
	if !ok {
		return "", schemas.ErrNotFound
	}
	if index < 0 || index >= len(el.Options) {
		return "", schemas.ErrNotFound
	}
	selectOption(el, index)
	return el.Options[index].Value, nil
}

func selectOption(el *FakeElement, index int) {
	for i := range el.Options {
		el.Options[i].Selected = i == index
	}
	el.Value = el.Options[index].Value
}

func (p *FakePage) SetFiles(ctx context.Context, t schemas.Target, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("SetFiles(%s, %v)", t.Selector, paths)
	el, ok := p.lookup(t)
	if !ok {
		return schemas.ErrNotFound
	}
	el.Files = append(el.Files, paths...)
	return nil
}

func (p *FakePage) PressKey(ctx context.Context, t schemas.Target, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("PressKey(%s, %q)", t.Selector, key)
	if _, ok := p.lookup(t); !ok {
		return schemas.ErrNotFound
	}
	return nil
}

func (p *FakePage) DispatchEvents(ctx context.Context, t schemas.Target, names ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("DispatchEvents(%s, %v)", t.Selector, names)
	if _, ok := p.lookup(t); !ok {
		return schemas.ErrNotFound
	}
	return nil
}

var _ browser.Page = (*FakePage)(nil)
