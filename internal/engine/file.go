// File: internal/engine/file.go
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/config"
)

// FileExecutor attaches a local file to an upload control. The file must
// exist before any page interaction happens; a missing file fails fast
// without touching the form. Upload widgets hide the real input behind
// trigger spans and dropzones, so the executor hunts for the input in
// widening scopes.
type FileExecutor struct {
	page   browser.Page
	cfg    config.EngineConfig
	logger *zap.Logger
}

func (e *FileExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	path := value
	if !filepath.IsAbs(path) && e.cfg.FileBaseDir != "" {
		path = filepath.Join(e.cfg.FileBaseDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return schemas.FillOutcome{}, fmt.Errorf("%w: upload file %s", schemas.ErrInvalidInput, path)
	}

	framePath := f.Candidate.Target.FramePath
	id := f.Candidate.Attr("id")
	name := f.Candidate.Attr("name")

	// Each attempt records which input it actually fed so verification
	// reads evidence from the right element.
	uploaded := f.Candidate.Target
	verify := e.verifier(&uploaded, framePath, id)

	attempts := []Attempt{
		{
			Name: "direct-input",
			Run: func(ctx context.Context) error {
				uploaded = f.Candidate.Target
				return e.page.SetFiles(ctx, uploaded, []string{path})
			},
			Verify: verify,
		},
	}
	// Some platforms wrap the input in a trigger span keyed by the
	// field id; the real input hides inside it.
	if id != "" {
		spanSel := fmt.Sprintf("span#%s_add input[type=\"file\"]", id)
		attempts = append(attempts, e.setFilesAttempt("trigger-span", framePath, spanSel, path, &uploaded, verify))
	}
	if name != "" {
		nameSel := fmt.Sprintf("input[type=\"file\"][name=\"%s\"]", escapeQuotes(name))
		attempts = append(attempts, e.setFilesAttempt("by-name", framePath, nameSel, path, &uploaded, verify))
	}
	attempts = append(attempts,
		e.scanAttempt("any-file-input", framePath, path, &uploaded, verify),
		e.setFilesAttempt("dropzone-input", framePath, ".dropzone input[type=\"file\"], [class*=\"dropzone\"] input[type=\"file\"]", path, &uploaded, verify),
	)

	outcome := RunLadder(ctx, e.logger, attempts)
	if outcome.Success {
		outcome.Verified = filepath.Base(path)
		if err := e.page.DispatchEvents(ctx, uploaded, "change", "input"); err != nil {
			e.logger.Debug("post-upload event dispatch failed", zap.Error(err))
		}
	}
	return outcome, nil
}

func (e *FileExecutor) setFilesAttempt(strategy string, framePath []int, selector, path string, uploaded *schemas.Target, verify func(context.Context) (bool, error)) Attempt {
	return Attempt{
		Name: strategy,
		Run: func(ctx context.Context) error {
			t, ok := e.page.Query(ctx, framePath, selector)
			if !ok {
				return schemas.ErrNotFound
			}
			if err := e.page.SetFiles(ctx, t, []string{path}); err != nil {
				return err
			}
			*uploaded = t
			return nil
		},
		Verify: verify,
	}
}

// scanAttempt walks every file input on the page and feeds the first one
// that accepts the file.
func (e *FileExecutor) scanAttempt(strategy string, framePath []int, path string, uploaded *schemas.Target, verify func(context.Context) (bool, error)) Attempt {
	return Attempt{
		Name: strategy,
		Run: func(ctx context.Context) error {
			infos, err := e.page.QueryAll(ctx, framePath, "input[type=\"file\"]")
			if err != nil {
				return err
			}
			for _, info := range infos {
				if err := e.page.SetFiles(ctx, info.Target, []string{path}); err == nil {
					*uploaded = info.Target
					return nil
				}
			}
			return schemas.ErrNotFound
		},
		Verify: verify,
	}
}

// verifier accepts any of the evidence upload widgets leave behind: the
// fed input's file list, a filename echoed into a text value, or a
// preview image keyed by the field id becoming visible.
func (e *FileExecutor) verifier(uploaded *schemas.Target, framePath []int, id string) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		if n, err := e.page.FileCount(ctx, *uploaded); err == nil && n > 0 {
			return true, nil
		}
		if v, err := e.page.Value(ctx, *uploaded); err == nil && strings.TrimSpace(v) != "" {
			return true, nil
		}
		if id != "" {
			preview := schemas.Target{
				FramePath: framePath,
				Selector:  fmt.Sprintf("img#%s_preview", id),
			}
			if e.page.IsVisible(ctx, preview) {
				return true, nil
			}
		}
		return false, nil
	}
}
