// File: internal/engine/registry_test.go
package engine

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

func newTestRegistry(page *mocks.FakePage) *Registry {
	cfg := config.NewDefaultConfig().Engine()
	cfg.SettleTime = 0
	return NewRegistry(page, cfg, zap.NewNop())
}

// Number inputs go through the text ladder: the value is written as
// given, min/max clamping never rewrites it.
func TestRegistry_NumberInputIsNotClamped(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#amount", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "number", "min": "0", "max": "100"}, Visible: true,
	})
	r := newTestRegistry(page)

	f := Field{
		Candidate: schemas.FieldCandidate{
			Target:     schemas.Target{Selector: "#amount"},
			TagName:    "input",
			Attributes: map[string]string{"type": "number", "min": "0", "max": "100"},
		},
		Kind:    schemas.KindNumber,
		Binding: schemas.ConfigBinding{Key: "amount", Value: "150"},
	}
	outcome, err := r.Fill(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "set-value", outcome.Strategy)
	assert.Equal(t, "150", page.Element("#amount").Value)
}

// Range sliders keep the clamping executor.
func TestRegistry_RangeInputClamps(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#slider", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "range", "min": "0", "max": "100"}, Visible: true,
	})
	r := newTestRegistry(page)

	f := Field{
		Candidate: schemas.FieldCandidate{
			Target:     schemas.Target{Selector: "#slider"},
			TagName:    "input",
			Attributes: map[string]string{"type": "range", "min": "0", "max": "100"},
		},
		Kind:    schemas.KindRange,
		Binding: schemas.ConfigBinding{Key: "radius", Value: "150"},
	}
	outcome, err := r.Fill(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "100", page.Element("#slider").Value)
}

func TestRegistry_UnknownKindIsSkipped(t *testing.T) {
	page := mocks.NewFakePage()
	r := newTestRegistry(page)

	outcome, err := r.Fill(context.Background(), Field{Kind: schemas.KindUnknown})
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Empty(t, page.Recorded())
}
