// File: internal/discovery/scanner.go

// Package discovery finds the fillable controls on a page. One scripted
// pass snapshots every control in the document and its reachable frames;
// the Go side then filters, deduplicates and orders the candidates so
// everything downstream works on plain data.
package discovery

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/classify"
	"github.com/mwielandt/autoform-cli/internal/config"
)

//go:embed js/collect.js
var collectJS string

// Scanner discovers candidates through a live page.
type Scanner struct {
	page   browser.Page
	cfg    config.EngineConfig
	logger *zap.Logger
}

func NewScanner(page browser.Page, cfg config.EngineConfig, logger *zap.Logger) *Scanner {
	return &Scanner{page: page, cfg: cfg, logger: logger.Named("discovery")}
}

// Discover runs the collection pass and returns the fillable candidates
// in document order: top to bottom, left to right within a row.
func (s *Scanner) Discover(ctx context.Context) ([]schemas.FieldCandidate, error) {
	var raw []schemas.FieldCandidate
	if err := s.page.Evaluate(ctx, collectJS, &raw); err != nil {
		return nil, fmt.Errorf("collecting form controls: %w", err)
	}

	candidates := s.filter(raw)
	candidates = collapseRadioGroups(candidates)
	sortByPosition(candidates, s.cfg.RowTolerancePx)

	s.logger.Debug("discovery pass complete",
		zap.Int("raw", len(raw)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// filter drops controls that can never be filled and applies the
// visibility policy: controls inside a form are kept even when a widget
// library hides the native element, controls outside a form must be
// strictly visible.
func (s *Scanner) filter(raw []schemas.FieldCandidate) []schemas.FieldCandidate {
	seen := make(map[string]struct{}, len(raw))
	out := make([]schemas.FieldCandidate, 0, len(raw))
	for _, c := range raw {
		kind := classify.Classify(c)
		if kind == schemas.KindHidden || kind == schemas.KindUnknown {
			continue
		}
		if !c.Visible && !c.InForm {
			continue
		}
		key := targetKey(c.Target)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// collapseRadioGroups keeps only the first member of each radio group;
// its Options already carry every member, so one candidate represents
// the whole group.
func collapseRadioGroups(candidates []schemas.FieldCandidate) []schemas.FieldCandidate {
	seen := make(map[string]struct{})
	out := candidates[:0]
	for _, c := range candidates {
		if strings.EqualFold(c.Attr("type"), "radio") && c.Attr("name") != "" {
			key := fmt.Sprintf("%v|%s", c.Target.FramePath, c.Attr("name"))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}

// sortByPosition orders candidates the way a person reads the form.
// Fields whose vertical positions differ by no more than the tolerance
// sit in the same row and order left to right.
func sortByPosition(candidates []schemas.FieldCandidate, tolerancePx int) {
	tol := float64(tolerancePx)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Rect, candidates[j].Rect
		dy := a.Y - b.Y
		if dy < -tol {
			return true
		}
		if dy > tol {
			return false
		}
		return a.X < b.X
	})
}

func targetKey(t schemas.Target) string {
	return fmt.Sprintf("%v|%s", t.FramePath, t.Selector)
}
