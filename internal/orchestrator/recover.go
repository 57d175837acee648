// File: internal/orchestrator/recover.go
package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/classify"
	"github.com/mwielandt/autoform-cli/internal/engine"
)

// submitWithRecovery submits the form and, when validation bounces it,
// refills the flagged fields and tries again, up to the configured retry
// budget.
func (o *Orchestrator) submitWithRecovery(ctx context.Context, res *Result) error {
	before, _ := o.page.URL(ctx)

	if err := o.submit(ctx); err != nil {
		o.logger.Warn("submit failed", zap.Error(err))
		return nil
	}

	for retry := 0; ; retry++ {
		if o.submissionSucceeded(ctx, before) {
			res.Submitted = true
			return nil
		}

		flagged, err := o.collectValidationFailures(ctx)
		if err != nil {
			return err
		}
		if len(flagged) == 0 {
			// No error indicators and no confirmation either; count the
			// submission as sent rather than loop forever.
			res.Submitted = true
			return nil
		}
		res.ErrorsRemaining = len(flagged)
		if retry >= o.cfg.MaxRecoveryRetries {
			o.logger.Warn("validation errors remain after retries",
				zap.Int("remaining", len(flagged)))
			return nil
		}

		o.logger.Info("recovering from validation errors", zap.Int("flagged", len(flagged)))
		fixed := o.refill(ctx, flagged)
		res.ErrorsFixed += fixed
		res.ErrorsRemaining = len(flagged) - fixed
		if fixed == 0 {
			o.logger.Warn("no flagged field could be fixed, not resubmitting")
			return nil
		}

		if err := o.submit(ctx); err != nil {
			o.logger.Warn("resubmit failed", zap.Error(err))
			return nil
		}
	}
}

// collectValidationFailures rediscovers the page and returns the fields
// the form flagged: an attached error indicator, or required and still
// empty.
func (o *Orchestrator) collectValidationFailures(ctx context.Context) ([]schemas.FieldCandidate, error) {
	candidates, err := o.discover.Discover(ctx)
	if err != nil {
		return nil, err
	}
	var flagged []schemas.FieldCandidate
	for _, c := range candidates {
		if strings.TrimSpace(c.ErrorText) != "" {
			flagged = append(flagged, c)
			continue
		}
		meta := classify.ResolveMetadata(c)
		kind := classify.Classify(c)
		switch kind {
		case schemas.KindCheckbox, schemas.KindRadio:
			if meta.Constraints.Required && !c.Checked {
				flagged = append(flagged, c)
			}
		default:
			if meta.Constraints.Required && strings.TrimSpace(c.Value) == "" {
				flagged = append(flagged, c)
			}
		}
	}
	return flagged, nil
}

// refill re-runs binding and filling for flagged candidates, ignoring
// the processed set: validation explicitly asked for these again.
func (o *Orchestrator) refill(ctx context.Context, flagged []schemas.FieldCandidate) int {
	fixed := 0
	for _, c := range flagged {
		kind := classify.Classify(c)
		meta := classify.ResolveMetadata(c)
		field := engine.Field{Candidate: c, Meta: meta, Kind: kind}
		field.Binding = o.binder.Bind(meta, kind)
		if !field.Binding.Bound() {
			if kind == schemas.KindCheckbox && c.HasRequiredMarker {
				field.Binding = schemas.ConfigBinding{Key: "required_consent", Value: "true"}
			} else {
				o.logger.Warn("flagged field has no profile value",
					zap.String("field", fieldName(meta)),
					zap.String("error", c.ErrorText))
				continue
			}
		}
		outcome, err := o.fill.Fill(ctx, field)
		if err != nil || !outcome.Success {
			o.logger.Warn("flagged field still failing",
				zap.String("field", fieldName(meta)))
			continue
		}
		fixed++
		o.logger.Info("flagged field fixed",
			zap.String("field", fieldName(meta)),
			zap.String("strategy", outcome.Strategy))
	}
	return fixed
}
