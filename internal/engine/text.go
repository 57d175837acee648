// File: internal/engine/text.go
package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// TextExecutor fills plain value-carrying inputs: text, email, tel, url,
// number, password, time and textareas. Direct value assignment with an
// event volley first, simulated typing when a widget swallows the
// assignment.
type TextExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *TextExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	// maxlength counts characters, not bytes; slicing by bytes could
	// split a multi-byte rune and feed invalid UTF-8 into the field.
	if max := f.Meta.Constraints.MaxLength; max > 0 {
		if runes := []rune(value); len(runes) > max {
			value = string(runes[:max])
		}
	}
	t := f.Candidate.Target

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.Value(ctx, t)
		if err != nil {
			return false, err
		}
		return strings.TrimSpace(got) == strings.TrimSpace(value), nil
	}

	outcome := RunLadder(ctx, e.logger, []Attempt{
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
		{
			Name: "type",
			Run: func(ctx context.Context) error {
				if err := e.page.Focus(ctx, t); err != nil {
					return err
				}
				if err := e.page.Clear(ctx, t); err != nil {
					return err
				}
				if err := e.page.Type(ctx, t, value); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "change", "blur")
			},
			Verify: verify,
		},
	})
	if outcome.Success {
		outcome.Verified = value
	}
	return outcome, nil
}
