// File: internal/browser/page.go
package browser

import (
	"context"

	"github.com/mwielandt/autoform-cli/api/schemas"
)

// ElementInfo is a lightweight snapshot of one element matched by a
// query, enough for callers to choose among candidates.
type ElementInfo struct {
	Target   schemas.Target `json:"target"`
	TagName  string         `json:"tagName"`
	Text     string         `json:"text"`
	Rect     schemas.Rect   `json:"rect"`
	Visible  bool           `json:"visible"`
	Disabled bool           `json:"disabled"`
}

// Page is the automation-driver surface the fill engine runs against.
// Every call is a bounded suspension point: implementations apply their
// own per-operation timeouts, and a timed-out probe reports absence (or
// schemas.ErrNotFound), never a fatal error. Calls against one Page are
// strictly sequential; the engine never issues overlapping operations.
type Page interface {
	// Navigation and page-level state.
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, script string, out interface{}) error
	Screenshot(ctx context.Context, path string) error

	// Queries.
	Exists(ctx context.Context, t schemas.Target) bool
	IsVisible(ctx context.Context, t schemas.Target) bool
	Query(ctx context.Context, framePath []int, selector string) (schemas.Target, bool)
	QueryWithText(ctx context.Context, framePath []int, selector, text string) (schemas.Target, bool)
	QueryAll(ctx context.Context, framePath []int, selector string) ([]ElementInfo, error)

	// Reads.
	Attr(ctx context.Context, t schemas.Target, name string) (string, bool)
	Value(ctx context.Context, t schemas.Target) (string, error)
	Text(ctx context.Context, t schemas.Target) (string, error)
	IsChecked(ctx context.Context, t schemas.Target) (bool, error)
	Options(ctx context.Context, t schemas.Target) ([]schemas.OptionData, error)
	FileCount(ctx context.Context, t schemas.Target) (int, error)

	// Actions.
	ScrollIntoView(ctx context.Context, t schemas.Target) error
	Focus(ctx context.Context, t schemas.Target) error
	Clear(ctx context.Context, t schemas.Target) error
	SetValue(ctx context.Context, t schemas.Target, value string) error
	Type(ctx context.Context, t schemas.Target, text string) error
	Click(ctx context.Context, t schemas.Target) error
	SetChecked(ctx context.Context, t schemas.Target, checked bool) error
	SelectValue(ctx context.Context, t schemas.Target, value string) (string, error)
	SelectLabel(ctx context.Context, t schemas.Target, label string) (string, error)
	SelectIndex(ctx context.Context, t schemas.Target, index int) (string, error)
	SetFiles(ctx context.Context, t schemas.Target, paths []string) error
	PressKey(ctx context.Context, t schemas.Target, key string) error
	DispatchEvents(ctx context.Context, t schemas.Target, names ...string) error
}
