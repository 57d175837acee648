// File: internal/engine/select.go
package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/normalize"
)

// SelectExecutor fills native select elements. The normalized candidate
// values and labels are matched against the live option list first, so
// the executor picks one concrete option instead of guessing through
// the browser's matching rules.
type SelectExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *SelectExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	t := f.Candidate.Target
	mapping := normalize.Normalize(bindingName(f), value)

	options := f.Candidate.Options
	if live, err := e.page.Options(ctx, t); err == nil && len(live) > 0 {
		options = live
	}

	var attempts []Attempt
	if picked, ok := matchOption(options, mapping); ok {
		attempts = append(attempts, selectAttempt(e.page, t, "option-match", picked.Value))
	}
	for _, v := range mapping.Values {
		attempts = append(attempts, selectAttempt(e.page, t, "value", v))
	}
	for _, label := range mapping.Labels {
		label := label
		attempts = append(attempts, Attempt{
			Name: "label",
			Run: func(ctx context.Context) error {
				_, err := e.page.SelectLabel(ctx, t, label)
				if err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "change")
			},
			Verify: verifySelected(e.page, t, mapping),
		})
	}
	attempts = append(attempts, selectAttempt(e.page, t, "raw", value))

	outcome := RunLadder(ctx, e.logger, attempts)
	if outcome.Success {
		if got, err := e.page.Value(ctx, t); err == nil {
			outcome.Verified = got
		}
	}
	return outcome, nil
}

func selectAttempt(page browser.Page, t schemas.Target, name, value string) Attempt {
	return Attempt{
		Name: name,
		Run: func(ctx context.Context) error {
			_, err := page.SelectValue(ctx, t, value)
			if err != nil {
				return err
			}
			return page.DispatchEvents(ctx, t, "change")
		},
		Verify: func(ctx context.Context) (bool, error) {
			got, err := page.Value(ctx, t)
			if err != nil {
				return false, err
			}
			return strings.EqualFold(got, value), nil
		},
	}
}

// verifySelected accepts any of the mapping's values as a read-back.
func verifySelected(page browser.Page, t schemas.Target, mapping schemas.ValueMapping) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		got, err := page.Value(ctx, t)
		if err != nil {
			return false, err
		}
		for _, v := range mapping.Values {
			if strings.EqualFold(got, v) {
				return true, nil
			}
		}
		return got != "", nil
	}
}

// matchOption finds the live option best matching the mapping: exact
// value match first, then exact label, then label containment. The
// mapping order is the preference order.
func matchOption(options []schemas.OptionData, mapping schemas.ValueMapping) (schemas.OptionData, bool) {
	for _, want := range mapping.Values {
		for _, o := range options {
			if strings.EqualFold(o.Value, want) {
				return o, true
			}
		}
	}
	for _, want := range mapping.Labels {
		for _, o := range options {
			if strings.EqualFold(strings.TrimSpace(o.Label), want) {
				return o, true
			}
		}
	}
	for _, want := range mapping.Labels {
		lw := strings.ToLower(want)
		for _, o := range options {
			if strings.Contains(strings.ToLower(o.Label), lw) {
				return o, true
			}
		}
	}
	return schemas.OptionData{}, false
}

func bindingName(f Field) string {
	if f.Binding.Key != "" {
		return f.Binding.Key
	}
	if f.Meta.Name != "" {
		return f.Meta.Name
	}
	return f.Meta.ID
}
