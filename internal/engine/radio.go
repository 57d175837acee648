// File: internal/engine/radio.go
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/normalize"
)

// RadioExecutor picks one member of a radio group. The group's members
// arrive on the candidate's Options, so matching happens off-page and
// only the chosen member is clicked.
type RadioExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *RadioExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	name := f.Candidate.Attr("name")
	if name == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	mapping := normalize.Normalize(bindingName(f), value)
	picked, ok := matchOption(f.Candidate.Options, mapping)
	if !ok {
		e.logger.Debug("no radio member matches",
			zap.String("group", name),
			zap.String("value", value))
		return schemas.FillOutcome{}, nil
	}

	t := schemas.Target{
		FramePath: f.Candidate.Target.FramePath,
		Selector:  memberSelector(name, picked.Value),
	}
	verify := func(ctx context.Context) (bool, error) {
		return e.page.IsChecked(ctx, t)
	}

	outcome := RunLadder(ctx, e.logger, []Attempt{
		{
			Name: "click-member",
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
				return e.page.SetChecked(ctx, t, true)
			},
			Verify: verify,
		},
	})
	if outcome.Success {
		outcome.Verified = picked.Value
	}
	return outcome, nil
}

func memberSelector(name, value string) string {
	return fmt.Sprintf(`input[type="radio"][name="%s"][value="%s"]`,
		escapeQuotes(name), escapeQuotes(value))
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
