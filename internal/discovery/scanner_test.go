// File: internal/discovery/scanner_test.go
package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/mocks"
)

func newTestScanner(raw []schemas.FieldCandidate) *Scanner {
	page := mocks.NewFakePage()
	page.EvaluateFunc = func(script string, out interface{}) error {
		*(out.(*[]schemas.FieldCandidate)) = raw
		return nil
	}
	cfg := config.NewDefaultConfig().Engine()
	return NewScanner(page, cfg, zap.NewNop())
}

func input(selector, typ, name string, y, x float64) schemas.FieldCandidate {
	return schemas.FieldCandidate{
		Target:     schemas.Target{Selector: selector},
		TagName:    "input",
		Attributes: map[string]string{"type": typ, "name": name},
		Rect:       schemas.Rect{X: x, Y: y, Width: 200, Height: 30},
		Visible:    true,
		InForm:     true,
	}
}

func TestDiscover_FiltersUnfillable(t *testing.T) {
	raw := []schemas.FieldCandidate{
		input("#first", "text", "first_name", 10, 0),
		input("#hidden", "hidden", "csrf", 0, 0),
		input("#send", "submit", "send", 500, 0),
		{
			Target: schemas.Target{Selector: "#decor"}, TagName: "div",
			Attributes: map[string]string{}, Visible: true, InForm: true,
		},
	}
	s := newTestScanner(raw)

	got, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "#first", got[0].Target.Selector)
}

func TestDiscover_VisibilityPolicy(t *testing.T) {
	inFormHidden := input("#styled-widget", "text", "city", 20, 0)
	inFormHidden.Visible = false

	orphanHidden := input("#orphan", "text", "stray", 30, 0)
	orphanHidden.Visible = false
	orphanHidden.InForm = false

	orphanVisible := input("#standalone", "text", "standalone", 40, 0)
	orphanVisible.InForm = false

	s := newTestScanner([]schemas.FieldCandidate{inFormHidden, orphanHidden, orphanVisible})
	got, err := s.Discover(context.Background())
	require.NoError(t, err)

	selectors := make([]string, 0, len(got))
	for _, c := range got {
		selectors = append(selectors, c.Target.Selector)
	}
	// Widget-hidden in-form controls stay, invisible orphans go.
	assert.Contains(t, selectors, "#styled-widget")
	assert.Contains(t, selectors, "#standalone")
	assert.NotContains(t, selectors, "#orphan")
}

func TestDiscover_CollapsesRadioGroups(t *testing.T) {
	members := []schemas.OptionData{
		{Value: "m", Label: "Männlich", Index: 0},
		{Value: "w", Label: "Weiblich", Index: 1},
	}
	first := input(`input[name="gender"]`, "radio", "gender", 10, 0)
	first.Options = members
	second := input(`input[name="gender"]`, "radio", "gender", 10, 50)
	second.Options = members
	// Same selector, deduplicated before the group collapse even runs.
	second.Target.Selector = `input[name="gender"]#second`

	s := newTestScanner([]schemas.FieldCandidate{first, second})
	got, err := s.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Len(t, got[0].Options, 2)
}

func TestDiscover_OrdersByPosition(t *testing.T) {
	raw := []schemas.FieldCandidate{
		input("#bottom", "text", "c", 200, 0),
		input("#top-right", "text", "b", 14, 300),
		input("#top-left", "text", "a", 10, 0),
	}
	s := newTestScanner(raw)

	got, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	// 10 and 14 sit within the row tolerance band: left to right, then
	// the next row.
	assert.Equal(t, "#top-left", got[0].Target.Selector)
	assert.Equal(t, "#top-right", got[1].Target.Selector)
	assert.Equal(t, "#bottom", got[2].Target.Selector)
}

func TestDiscover_EvaluateFailure(t *testing.T) {
	page := mocks.NewFakePage()
	s := NewScanner(page, config.NewDefaultConfig().Engine(), zap.NewNop())

	_, err := s.Discover(context.Background())
	assert.Error(t, err)
}
