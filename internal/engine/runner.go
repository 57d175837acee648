// File: internal/engine/runner.go

// Package engine fills classified fields. Each kind has an executor that
// runs an ordered ladder of strategies; a strategy only counts when its
// read-back verification confirms the value actually landed.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
)

// Attempt is one rung of a fill ladder: an action plus the verification
// that decides whether the action took effect.
type Attempt struct {
	Name   string
	Run    func(ctx context.Context) error
	Verify func(ctx context.Context) (bool, error)
}

// RunLadder executes attempts in order and stops at the first one whose
// verification passes. Action errors demote to the next rung; only a
// fully exhausted ladder reports failure, and even that failure is a
// value, not an error.
func RunLadder(ctx context.Context, logger *zap.Logger, attempts []Attempt) schemas.FillOutcome {
	for _, a := range attempts {
		if ctx.Err() != nil {
			return schemas.FillOutcome{}
		}
		if err := a.Run(ctx); err != nil {
			logger.Debug("strategy failed, trying next",
				zap.String("strategy", a.Name),
				zap.Error(err))
			continue
		}
		ok, err := a.Verify(ctx)
		if err != nil {
			logger.Debug("verification errored, trying next",
				zap.String("strategy", a.Name),
				zap.Error(err))
			continue
		}
		if ok {
			return schemas.FillOutcome{Success: true, Strategy: a.Name}
		}
		logger.Debug("verification mismatched, trying next", zap.String("strategy", a.Name))
	}
	return schemas.FillOutcome{}
}
