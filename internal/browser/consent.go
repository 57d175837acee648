// File: internal/browser/consent.go
package browser

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// consentScript finds a cookie/GDPR wrapper, then clicks the first
// visible accept or close control it can associate with it. Entirely
// best effort; the result is informational only.
const consentScript = `(function(){
	const wrapper = document.querySelector(
		'[id*="cookie"], [class*="cookie"], [id*="consent"], [class*="consent"], [id*="gdpr"], [class*="gdpr"]');
	if (!wrapper) return { present: false, dismissed: false };

	const acceptTexts = ['alle akzeptieren', 'accept all', 'akzeptieren', 'accept', 'zustimmen', 'agree'];
	const buttons = Array.from(document.querySelectorAll('button, [role="button"], input[type="button"]'));

	for (const text of acceptTexts) {
		for (const btn of buttons) {
			if (!__afVisible(btn)) continue;
			const label = ((btn.textContent || btn.value || '') + ' ' + (btn.getAttribute('aria-label') || '')).toLowerCase();
			if (label.includes(text)) {
				btn.scrollIntoView({ block: 'center' });
				btn.click();
				return { present: true, dismissed: true, via: text };
			}
		}
	}

	const attrProbe = wrapper.querySelector('[id*="accept" i], [class*="accept" i]');
	if (attrProbe && __afVisible(attrProbe)) {
		attrProbe.click();
		return { present: true, dismissed: true, via: 'accept-attr' };
	}

	const close = document.querySelector(
		'button[aria-label*="close" i], button[aria-label*="schließen" i], .cookie-consent .close, [class*="cookie"] [class*="close"]');
	if (close && __afVisible(close)) {
		close.click();
		return { present: true, dismissed: true, via: 'close' };
	}

	return { present: true, dismissed: false };
})()`

// DismissCookieConsent performs the best-effort consent pre-pass. A
// wrapper that exists but cannot be dismissed is logged and ignored; the
// fill proceeds regardless.
func DismissCookieConsent(ctx context.Context, p Page, settle time.Duration, logger *zap.Logger) {
	var res struct {
		Present   bool   `json:"present"`
		Dismissed bool   `json:"dismissed"`
		Via       string `json:"via"`
	}
	if err := p.Evaluate(ctx, consentScript, &res); err != nil {
		logger.Debug("Cookie consent probe failed", zap.Error(err))
		return
	}
	switch {
	case !res.Present:
		logger.Debug("No cookie consent wrapper on page")
	case res.Dismissed:
		logger.Info("Cookie consent dismissed", zap.String("via", res.Via))
		select {
		case <-time.After(settle):
		case <-ctx.Done():
		}
	default:
		logger.Warn("Cookie consent wrapper present but no dismiss control found")
	}
}
