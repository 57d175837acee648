// File: internal/orchestrator/orchestrator.go

// Package orchestrator drives a whole form through one session: discover
// the fields, bind profile values, fill kind by kind, sweep required
// checkboxes, then optionally submit and recover from validation errors.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/bind"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/classify"
	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/engine"
)

// Discoverer produces the current candidates of the page. Separated out
// so tests can script discovery passes.
type Discoverer interface {
	Discover(ctx context.Context) ([]schemas.FieldCandidate, error)
}

// Filler fills one classified field. *engine.Registry satisfies it.
type Filler interface {
	Fill(ctx context.Context, f engine.Field) (schemas.FillOutcome, error)
}

// Result summarizes one form run.
type Result struct {
	Filled          int
	Skipped         int
	Failed          int
	Submitted       bool
	ErrorsFixed     int
	ErrorsRemaining int
}

// maxFillPasses bounds re-discovery after dependent fields appear.
const maxFillPasses = 3

// Orchestrator runs the fill pipeline over one page.
type Orchestrator struct {
	page      browser.Page
	discover  Discoverer
	fill      Filler
	binder    *bind.Binder
	profile   *config.Profile
	cfg       config.EngineConfig
	logger    *zap.Logger
	processed map[string]struct{}
}

func New(page browser.Page, discover Discoverer, fill Filler, binder *bind.Binder, profile *config.Profile, cfg config.EngineConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		page:      page,
		discover:  discover,
		fill:      fill,
		binder:    binder,
		profile:   profile,
		cfg:       cfg,
		logger:    logger.Named("orchestrator"),
		processed: make(map[string]struct{}),
	}
}

// Run fills the form end to end. Only navigation-level faults propagate
// as errors; individual field failures are counted in the Result.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	var res Result

	if o.profile.TalentPool.Enabled {
		o.revealTalentPool(ctx)
	}

	for pass := 0; pass < maxFillPasses; pass++ {
		candidates, err := o.discover.Discover(ctx)
		if err != nil {
			return res, fmt.Errorf("discovery pass %d: %w", pass+1, err)
		}
		revealed := o.fillPass(ctx, candidates, &res)
		if !revealed {
			break
		}
		o.settle(ctx)
	}

	o.sweepCheckboxes(ctx, &res)

	if o.cfg.FilledScreenshot != "" {
		if err := o.page.Screenshot(ctx, o.cfg.FilledScreenshot); err != nil {
			o.logger.Warn("screenshot failed", zap.Error(err))
		}
	}

	if o.cfg.AutoSubmit {
		if err := o.submitWithRecovery(ctx, &res); err != nil {
			return res, err
		}
	}

	o.logger.Info("form run complete",
		zap.Int("filled", res.Filled),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Bool("submitted", res.Submitted))
	return res, nil
}

// fillPass fills every unprocessed candidate of one discovery pass and
// reports whether a dependent-field reveal warrants another pass.
func (o *Orchestrator) fillPass(ctx context.Context, candidates []schemas.FieldCandidate, res *Result) bool {
	revealed := false
	for _, c := range candidates {
		if ctx.Err() != nil {
			return false
		}
		key := candidateKey(c)
		if _, done := o.processed[key]; done {
			continue
		}

		kind := classify.Classify(c)
		meta := classify.ResolveMetadata(c)
		field := engine.Field{Candidate: c, Meta: meta, Kind: kind}

		if meta.Disabled || meta.ReadOnly {
			o.processed[key] = struct{}{}
			res.Skipped++
			continue
		}

		field.Binding = o.binder.Bind(meta, kind)
		if !field.Binding.Bound() {
			// Unbound checkboxes are handled by the sweep; everything
			// else unbound is simply skipped.
			if kind != schemas.KindCheckbox {
				o.processed[key] = struct{}{}
				res.Skipped++
			}
			continue
		}

		o.processed[key] = struct{}{}
		outcome, err := o.fill.Fill(ctx, field)
		switch {
		case errors.Is(err, schemas.ErrFatalNavigation):
			o.logger.Error("navigation fault during fill", zap.Error(err))
			return false
		case err != nil:
			o.logger.Warn("field rejected",
				zap.String("field", fieldName(meta)),
				zap.Error(err))
			res.Failed++
			continue
		case !outcome.Success:
			o.logger.Warn("field could not be filled",
				zap.String("field", fieldName(meta)),
				zap.String("kind", string(kind)))
			res.Failed++
			continue
		}

		res.Filled++
		o.logger.Info("field filled",
			zap.String("field", fieldName(meta)),
			zap.String("kind", string(kind)),
			zap.String("strategy", outcome.Strategy))

		// Attaching a resume or cover letter can reveal further upload
		// fields (typically a photo); schedule another pass.
		if kind == schemas.KindFile &&
			(field.Binding.Key == "resume" || field.Binding.Key == "cover_letter") {
			revealed = true
		}
	}
	return revealed
}

// revealTalentPool checks the opt-in box that expands the talent-pool
// section before the first discovery pass, so its fields are present.
func (o *Orchestrator) revealTalentPool(ctx context.Context) {
	for _, sel := range []string{`input[name="app_register"]`, `#app_register_btn`} {
		t, ok := o.page.Query(ctx, nil, sel)
		if !ok {
			continue
		}
		if checked, err := o.page.IsChecked(ctx, t); err == nil && checked {
			return
		}
		if err := o.page.Click(ctx, t); err != nil {
			o.logger.Debug("talent pool toggle click failed", zap.Error(err))
			continue
		}
		o.logger.Info("talent pool section revealed", zap.String("selector", sel))
		o.settle(ctx)
		return
	}
}

// sweepCheckboxes makes a final pass over every checkbox no profile
// entry bound. Boxes carrying a required marker are re-driven even when
// the snapshot reports them checked, because the snapshot can be stale
// on dynamic pages; the rest are checked only when still unchecked.
// Profile-bound checkboxes were handled in the fill passes and keep
// their value.
func (o *Orchestrator) sweepCheckboxes(ctx context.Context, res *Result) {
	candidates, err := o.discover.Discover(ctx)
	if err != nil {
		o.logger.Warn("checkbox sweep discovery failed", zap.Error(err))
		return
	}
	for _, c := range candidates {
		if classify.Classify(c) != schemas.KindCheckbox {
			continue
		}
		key := candidateKey(c)
		if _, done := o.processed[key]; done {
			continue
		}
		o.processed[key] = struct{}{}
		if !c.HasRequiredMarker && c.Checked {
			res.Skipped++
			continue
		}
		meta := classify.ResolveMetadata(c)
		binding := schemas.ConfigBinding{Key: "consent", Value: "true"}
		if c.HasRequiredMarker {
			binding.Key = "required_consent"
		}
		field := engine.Field{
			Candidate: c,
			Meta:      meta,
			Kind:      schemas.KindCheckbox,
			Binding:   binding,
		}
		outcome, err := o.fill.Fill(ctx, field)
		if err != nil || !outcome.Success {
			o.logger.Warn("checkbox resisted", zap.String("field", fieldName(meta)))
			res.Failed++
			continue
		}
		res.Filled++
		o.logger.Info("checkbox checked",
			zap.String("field", fieldName(meta)),
			zap.Bool("required", c.HasRequiredMarker))
	}
}

func (o *Orchestrator) settle(ctx context.Context) {
	if o.cfg.SettleTime <= 0 {
		return
	}
	select {
	case <-time.After(o.cfg.SettleTime):
	case <-ctx.Done():
	}
}

func candidateKey(c schemas.FieldCandidate) string {
	// Radio groups collapse to their group name so a re-discovered
	// group is not refilled under a different member selector.
	if strings.EqualFold(c.Attr("type"), "radio") && c.Attr("name") != "" {
		return fmt.Sprintf("radio:%v:%s", c.Target.FramePath, c.Attr("name"))
	}
	return fmt.Sprintf("%v:%s", c.Target.FramePath, c.Target.Selector)
}

func fieldName(meta schemas.FieldMetadata) string {
	switch {
	case meta.Name != "":
		return meta.Name
	case meta.ID != "":
		return meta.ID
	case meta.Label != "":
		return meta.Label
	}
	return "(anonymous)"
}
