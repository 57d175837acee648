// File: internal/engine/autocomplete.go
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/config"
)

// suggestionSelectors cover the popup containers common autocomplete
// widgets render their suggestions into.
var suggestionSelectors = []string{
	"[role='option']", ".autocomplete-item", ".suggestion", ".tt-suggestion",
	"[class*='suggestion']", "[class*='autocomplete'] li", "ul[id*='listbox'] li",
}

// AutocompleteExecutor fills type-ahead widgets: type the value, wait for
// the suggestion popup, click the matching suggestion. Falls back to
// committing the typed text with Enter, then to a raw value write.
type AutocompleteExecutor struct {
	page   browser.Page
	cfg    config.EngineConfig
	logger *zap.Logger
}

func (e *AutocompleteExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	t := f.Candidate.Target

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.Value(ctx, t)
		if err != nil {
			return false, err
		}
		got = strings.ToLower(strings.TrimSpace(got))
		want := strings.ToLower(strings.TrimSpace(value))
		return got != "" && (strings.Contains(got, want) || strings.Contains(want, got)), nil
	}

	typeValue := func(ctx context.Context) error {
		if err := e.page.Focus(ctx, t); err != nil {
			return err
		}
		if err := e.page.Clear(ctx, t); err != nil {
			return err
		}
		if err := e.page.Type(ctx, t, value); err != nil {
			return err
		}
		e.settle(ctx)
		return nil
	}

	outcome := RunLadder(ctx, e.logger, []Attempt{
		{
			Name: "pick-suggestion",
			Run: func(ctx context.Context) error {
				if err := typeValue(ctx); err != nil {
					return err
				}
				for _, sel := range suggestionSelectors {
					if hit, ok := e.page.QueryWithText(ctx, t.FramePath, sel, value); ok {
						return e.page.Click(ctx, hit)
					}
				}
				// Accept the top suggestion when none echoes the text.
				for _, sel := range suggestionSelectors {
					if hit, ok := e.page.Query(ctx, t.FramePath, sel); ok && e.page.IsVisible(ctx, hit) {
						return e.page.Click(ctx, hit)
					}
				}
				return schemas.ErrNotFound
			},
			Verify: verify,
		},
		{
			Name: "commit-with-enter",
			Run: func(ctx context.Context) error {
				if err := typeValue(ctx); err != nil {
					return err
				}
				return e.page.PressKey(ctx, t, "\r")
			},
			Verify: verify,
		},
		{
			Name: "set-value",
			Run: func(ctx context.Context) error {
				if err := e.page.SetValue(ctx, t, value); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "input", "change", "blur")
			},
			Verify: verify,
		},
	})
	if outcome.Success {
		if got, err := e.page.Value(ctx, t); err == nil {
			outcome.Verified = got
		}
	}
	return outcome, nil
}

// settle gives the widget time to render its popup.
func (e *AutocompleteExecutor) settle(ctx context.Context) {
	d := e.cfg.SettleTime
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
