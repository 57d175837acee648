// File: internal/orchestrator/submit.go
package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
)

// submitSelectors match the controls that can send a form.
const submitSelectors = `button[type="submit"], input[type="submit"], button, a[class*="submit"], a[class*="btn"]`

// submitTexts are the labels a real submit control carries.
var submitTexts = []string{
	"bewerben", "absenden", "senden", "submit", "apply", "send", "weiter", "continue",
}

// excludedTexts mark buttons that add rows or attachments instead of
// submitting; clicking those multiplies form sections.
var excludedTexts = []string{"hinzufügen", "add"}

// successMarkers are the phrases confirmation pages show.
var successMarkers = []string{
	"vielen dank", "thank you", "erfolgreich", "success",
	"bewerbung wurde", "application has been", "eingegangen", "received",
}

// findSubmit picks the submit control: among visible, submit-looking,
// non-excluded elements the bottom-most wins, because multi-section
// forms put intermediate buttons above the real one.
func findSubmit(ctx context.Context, page browser.Page) (schemas.Target, bool) {
	infos, err := page.QueryAll(ctx, nil, submitSelectors)
	if err != nil {
		return schemas.Target{}, false
	}
	var best browser.ElementInfo
	found := false
	for _, info := range infos {
		if !info.Visible || info.Disabled {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(info.Text))
		if containsAny(text, excludedTexts) {
			continue
		}
		explicit := strings.EqualFold(info.TagName, "input") || containsAny(text, submitTexts)
		if !explicit && !strings.EqualFold(info.TagName, "button") {
			continue
		}
		if !found || info.Rect.Bottom() > best.Rect.Bottom() {
			best = info
			found = true
		}
	}
	return best.Target, found
}

// submit clicks the submit control and waits for the page to settle.
func (o *Orchestrator) submit(ctx context.Context) error {
	t, ok := findSubmit(ctx, o.page)
	if !ok {
		o.logger.Warn("no submit control found")
		return schemas.ErrNotFound
	}
	if err := o.page.ScrollIntoView(ctx, t); err != nil {
		o.logger.Debug("scroll to submit failed", zap.Error(err))
	}
	if err := o.page.Click(ctx, t); err != nil {
		return err
	}
	o.logger.Info("form submitted", zap.String("selector", t.Selector))
	o.settle(ctx)
	return nil
}

// submissionSucceeded applies the success heuristics: a confirmation
// phrase on the page, or the form having no remaining error indicators
// and no required empties.
func (o *Orchestrator) submissionSucceeded(ctx context.Context, before string) bool {
	if after, err := o.page.URL(ctx); err == nil && after != before && after != "" {
		return true
	}
	var bodyText string
	if err := o.page.Evaluate(ctx, `document.body ? document.body.innerText.slice(0, 4000) : ""`, &bodyText); err == nil {
		if containsAny(strings.ToLower(bodyText), successMarkers) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
