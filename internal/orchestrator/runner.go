// File: internal/orchestrator/runner.go
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwielandt/autoform-cli/internal/bind"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/discovery"
	"github.com/mwielandt/autoform-cli/internal/engine"
)

// URLResult pairs one target URL with its run outcome.
type URLResult struct {
	URL    string
	Result Result
	Err    error
}

// Runner fans a batch of form URLs out over independent browser
// sessions, bounded by the configured concurrency.
type Runner struct {
	cfg     *config.Config
	profile *config.Profile
	logger  *zap.Logger
}

func NewRunner(cfg *config.Config, profile *config.Profile, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, profile: profile, logger: logger.Named("runner")}
}

// Run processes every URL and returns a result per URL in input order.
// A failing URL never aborts its siblings.
func (r *Runner) Run(ctx context.Context, urls []string) []URLResult {
	results := make([]URLResult, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Sessions().Concurrency)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			res, err := r.runOne(gctx, url)
			mu.Lock()
			results[i] = URLResult{URL: url, Result: res, Err: err}
			mu.Unlock()
			// Errors are carried per URL, never through the group.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, url string) (Result, error) {
	logger := r.logger.With(zap.String("url", url))

	session, err := browser.NewSession(ctx, r.cfg.Browser(), r.cfg.Engine(), logger)
	if err != nil {
		return Result{}, fmt.Errorf("starting browser session: %w", err)
	}
	defer session.Close()

	if err := session.Navigate(ctx, url); err != nil {
		r.errorScreenshot(ctx, session)
		return Result{}, err
	}

	browser.DismissCookieConsent(ctx, session, r.cfg.Engine().SettleTime, logger)

	scanner := discovery.NewScanner(session, r.cfg.Engine(), logger)
	binder := bind.NewBinder(r.profile, logger)
	registry := engine.NewRegistry(session, r.cfg.Engine(), logger)
	orch := New(session, scanner, registry, binder, r.profile, r.cfg.Engine(), logger)

	res, err := orch.Run(ctx)
	if err != nil {
		r.errorScreenshot(ctx, session)
		return res, err
	}
	return res, nil
}

func (r *Runner) errorScreenshot(ctx context.Context, page browser.Page) {
	path := r.cfg.Engine().ErrorScreenshot
	if path == "" {
		return
	}
	if err := page.Screenshot(ctx, path); err != nil {
		r.logger.Debug("error screenshot failed", zap.Error(err))
	}
}
