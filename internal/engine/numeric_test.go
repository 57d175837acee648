// File: internal/engine/numeric_test.go
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

func rangeField(selector string, attrs map[string]string) Field {
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrs["type"] = "range"
	return Field{
		Candidate: schemas.FieldCandidate{
			Target:     schemas.Target{Selector: selector},
			TagName:    "input",
			Attributes: attrs,
		},
		Kind: schemas.KindRange,
	}
}

func TestRangeExecutor_SetsValue(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#slider", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "range", "min": "0", "max": "100"}, Visible: true,
	})
	e := &RangeExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), rangeField("#slider", nil), "42")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "42", page.Element("#slider").Value)
}

// A value beyond the live max clamps to the boundary: 150 against a
// 0..100 slider lands on exactly 100.
func TestRangeExecutor_ClampsToMax(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#slider", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "range", "min": "0", "max": "100", "step": "1"}, Visible: true,
	})
	e := &RangeExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), rangeField("#slider", nil), "150")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "100", outcome.Verified)
	assert.Equal(t, "100", page.Element("#slider").Value)
}

func TestRangeExecutor_ClampsToMin(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#slider", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "range", "min": "10", "max": "100"}, Visible: true,
	})
	e := &RangeExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), rangeField("#slider", nil), "-5")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "10", page.Element("#slider").Value)
}

func TestRangeExecutor_SnapsToStep(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#slider", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "range", "min": "0", "max": "100", "step": "10"}, Visible: true,
	})
	e := &RangeExecutor{page: page, logger: zap.NewNop()}

	outcome, err := e.Fill(context.Background(), rangeField("#slider", nil), "44")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "40", page.Element("#slider").Value)
}

// Non-numeric input is an input error, detected before any page
// interaction.
func TestRangeExecutor_RejectsNonNumeric(t *testing.T) {
	page := mocks.NewFakePage()
	e := &RangeExecutor{page: page, logger: zap.NewNop()}

	_, err := e.Fill(context.Background(), rangeField("#slider", nil), "plenty")
	assert.ErrorIs(t, err, schemas.ErrInvalidInput)
	assert.Empty(t, page.Recorded())
}
