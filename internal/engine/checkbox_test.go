// File: internal/engine/checkbox_test.go
package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/mocks"
)

func checkboxField(selector string) Field {
	return Field{
		Candidate: schemas.FieldCandidate{
			Target:     schemas.Target{Selector: selector},
			TagName:    "input",
			Attributes: map[string]string{"type": "checkbox"},
		},
		Kind: schemas.KindCheckbox,
	}
}

func TestCheckboxExecutor_ChecksByClick(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#agree", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true,
	})
	e := &CheckboxExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), checkboxField("#agree"), "true")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "click", outcome.Strategy)
	assert.True(t, page.Element("#agree").Checked)
}

// A box already in the desired state must succeed without touching the
// page; a second toggle would undo the state.
func TestCheckboxExecutor_Idempotent(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#agree", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "checkbox"},
		Visible: true, Checked: true,
	})
	e := &CheckboxExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), checkboxField("#agree"), "true")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "already-set", outcome.Strategy)
	assert.True(t, page.Element("#agree").Checked)
	assert.NotContains(t, page.Recorded(), "Click(#agree)")
}

func TestCheckboxExecutor_Unchecks(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#newsletter", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "checkbox"},
		Visible: true, Checked: true,
	})
	e := &CheckboxExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), checkboxField("#newsletter"), "nein")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.False(t, page.Element("#newsletter").Checked)
}

func TestWantChecked(t *testing.T) {
	for _, v := range []string{"true", "yes", "ja", "1", "on", "", "anything"} {
		assert.True(t, wantChecked(v), "value %q", v)
	}
	for _, v := range []string{"false", "no", "nein", "off", "0", "unchecked", " FALSE "} {
		assert.False(t, wantChecked(v), "value %q", v)
	}
}
