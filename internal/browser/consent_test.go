// File: internal/browser/consent_test.go
package browser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/browser"
	"github.com/mwielandt/autoform-cli/internal/mocks"
)

func TestDismissCookieConsent_Dismissed(t *testing.T) {
	page := mocks.NewFakePage()
	evaluated := false
	page.EvaluateFunc = func(script string, out interface{}) error {
		assert.True(t, strings.Contains(script, "cookie"))
		evaluated = true
		res := out.(*struct {
			Present   bool   `json:"present"`
			Dismissed bool   `json:"dismissed"`
			Via       string `json:"via"`
		})
		res.Present = true
		res.Dismissed = true
		res.Via = "alle akzeptieren"
		return nil
	}

	browser.DismissCookieConsent(context.Background(), page, 0, zap.NewNop())
	assert.True(t, evaluated)
}

// A failed probe must never abort the run.
func TestDismissCookieConsent_ProbeFailureIsIgnored(t *testing.T) {
	page := mocks.NewFakePage()
	page.EvaluateFunc = func(script string, out interface{}) error {
		return schemas.ErrNotFound
	}
	browser.DismissCookieConsent(context.Background(), page, 0, zap.NewNop())
}
