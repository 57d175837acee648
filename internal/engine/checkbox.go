// File: internal/engine/checkbox.go
package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// CheckboxExecutor drives a checkbox to the desired state. The operation
// is idempotent: a box already in the target state succeeds without any
// page interaction.
type CheckboxExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *CheckboxExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	want := wantChecked(value)
	t := f.Candidate.Target

	if current, err := e.page.IsChecked(ctx, t); err == nil && current == want {
		return schemas.FillOutcome{Success: true, Strategy: "already-set"}, nil
	}

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.IsChecked(ctx, t)
		if err != nil {
			return false, err
		}
		return got == want, nil
	}

	outcome := RunLadder(ctx, e.logger, []Attempt{
		{
			Name: "click",
			Run: func(ctx context.Context) error {
				if err := e.page.ScrollIntoView(ctx, t); err != nil {
					return err
				}
				return e.page.Click(ctx, t)
			},
			Verify: verify,
		},
		{
			Name: "set-checked",
			Run: func(ctx context.Context) error {
				if err := e.page.SetChecked(ctx, t, want); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "change", "click", "input")
			},
			Verify: verify,
		},
	})
	if outcome.Success {
		if want {
			outcome.Verified = "checked"
		} else {
			outcome.Verified = "unchecked"
		}
	}
	return outcome, nil
}

// wantChecked interprets the bound value. Anything not an explicit
// negative means check: a checkbox bound at all is a checkbox wanted.
func wantChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "no", "nein", "off", "0", "unchecked":
		return false
	}
	return true
}
