// File: internal/engine/numeric.go
package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// RangeExecutor fills range sliders. The value is validated as a number
// up front, clamped into the live min/max window, and snapped to the
// step grid before being written.
type RangeExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *RangeExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return schemas.FillOutcome{}, fmt.Errorf("%w: %q is not numeric", schemas.ErrInvalidInput, value)
	}
	t := f.Candidate.Target

	// Constraints can change after discovery, read them live.
	min := e.liveFloat(ctx, t, "min", f.Meta.Constraints.Min, math.Inf(-1))
	max := e.liveFloat(ctx, t, "max", f.Meta.Constraints.Max, math.Inf(1))
	step := e.liveFloat(ctx, t, "step", f.Meta.Constraints.Step, 0)

	clamped := math.Min(math.Max(n, min), max)
	if step > 0 && !math.IsInf(min, -1) {
		clamped = min + math.Round((clamped-min)/step)*step
		clamped = math.Min(clamped, max)
	}
	want := formatNumber(clamped)

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.Value(ctx, t)
		if err != nil {
			return false, err
		}
		g, err := strconv.ParseFloat(strings.TrimSpace(got), 64)
		if err != nil {
			return false, nil
		}
		tolerance := step
		if tolerance <= 0 {
			tolerance = 1e-9
		}
		return math.Abs(g-clamped) <= tolerance, nil
	}

	outcome := RunLadder(ctx, e.logger, []Attempt{
		{
			Name: "set-value",
			Run: func(ctx context.Context) error {
				if err := e.page.SetValue(ctx, t, want); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "input", "change")
			},
			Verify: verify,
		},
		{
			Name: "type",
			Run: func(ctx context.Context) error {
				if err := e.page.Clear(ctx, t); err != nil {
					return err
				}
				if err := e.page.Type(ctx, t, want); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, t, "change")
			},
			Verify: verify,
		},
	})
	if outcome.Success {
		outcome.Verified = want
	}
	return outcome, nil
}

func (e *RangeExecutor) liveFloat(ctx context.Context, t schemas.Target, attr, fallback string, def float64) float64 {
	raw, ok := e.page.Attr(ctx, t, attr)
	if !ok || raw == "" {
		raw = fallback
	}
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return def
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
