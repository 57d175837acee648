// File: internal/engine/richtext.go
package engine

import (
	"context"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// RichTextExecutor fills WYSIWYG editors. Editor frameworks keep their
// own model, so a DOM write alone is not enough: the framework APIs are
// tried first through their global registries, then the contenteditable
// surface, then the body of a framed editor.
type RichTextExecutor struct {
	page   browser.Page
	logger *zap.Logger
}

func (e *RichTextExecutor) Fill(ctx context.Context, f Field, value string) (schemas.FillOutcome, error) {
	if value == "" {
		return schemas.FillOutcome{}, schemas.ErrInvalidInput
	}
	t := f.Candidate.Target

	verify := func(ctx context.Context) (bool, error) {
		got, err := e.page.Text(ctx, t)
		if err != nil {
			return false, err
		}
		prefix := value
		if len(prefix) > 40 {
			prefix = prefix[:40]
		}
		return strings.Contains(got, prefix), nil
	}

	var attempts []Attempt

	if id := f.Candidate.Attr("id"); id != "" {
		attempts = append(attempts, Attempt{
			Name: "editor-api",
			Run: func(ctx context.Context) error {
				return e.writeThroughEditorAPI(ctx, id, value)
			},
			Verify: verify,
		})
	}

	if strings.EqualFold(f.Candidate.TagName, "iframe") || strings.EqualFold(f.Candidate.TagName, "frame") {
		// A framed editor's writable surface is the body of the frame
		// one level below the shell element.
		attempts = append(attempts, Attempt{
			Name: "frame-body",
			Run: func(ctx context.Context) error {
				body, ok := e.page.Query(ctx, append(t.FramePath, 0), "body")
				if !ok {
					return schemas.ErrNotFound
				}
				if err := e.page.SetValue(ctx, body, value); err != nil {
					return err
				}
				return e.page.DispatchEvents(ctx, body, "input", "change")
			},
			Verify: func(ctx context.Context) (bool, error) {
				body, ok := e.page.Query(ctx, append(t.FramePath, 0), "body")
				if !ok {
					return false, nil
				}
				got, err := e.page.Text(ctx, body)
				return err == nil && strings.Contains(got, value), nil
			},
		})
	}

	attempts = append(attempts, Attempt{
		Name: "contenteditable",
		Run: func(ctx context.Context) error {
			if err := e.page.Focus(ctx, t); err != nil {
				return err
			}
			if err := e.page.SetValue(ctx, t, value); err != nil {
				return err
			}
			return e.page.DispatchEvents(ctx, t, "input", "change", "blur")
		},
		Verify: verify,
	})

	outcome := RunLadder(ctx, e.logger, attempts)
	if outcome.Success {
		outcome.Verified = value
	}
	return outcome, nil
}

// writeThroughEditorAPI looks for the editor instance in the registries
// the major frameworks expose and writes through it, keeping the
// framework model and the DOM consistent.
func (e *RichTextExecutor) writeThroughEditorAPI(ctx context.Context, id, value string) error {
	encoded, err := json.MarshalToString(value)
	if err != nil {
		return err
	}
	idEnc, err := json.MarshalToString(id)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`(() => {
		const id = %s;
		const text = %s;
		if (window.tinymce && tinymce.get(id)) {
			tinymce.get(id).setContent(text);
			return true;
		}
		const host = document.getElementById(id);
		if (!host) return null;
		if (window.Quill) {
			const q = Quill.find ? Quill.find(host) : null;
			if (q) { q.setText(text); return true; }
		}
		if (host.ckeditorInstance) {
			host.ckeditorInstance.setData(text);
			return true;
		}
		return null;
	})()`, idEnc, encoded)

	var ok bool
	if err := e.page.Evaluate(ctx, script, &ok); err != nil {
		return err
	}
	if !ok {
		return schemas.ErrNotFound
	}
	return nil
}
