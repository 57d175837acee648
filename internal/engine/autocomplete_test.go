// File: internal/engine/autocomplete_test.go
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

func autocompleteField(selector string) Field {
	return Field{
		Candidate: schemas.FieldCandidate{
			Target:     schemas.Target{Selector: selector},
			TagName:    "input",
			Attributes: map[string]string{"type": "text", "role": "combobox"},
		},
		Kind: schemas.KindAutocomplete,
	}
}

func newAutocompleteExecutor(page *mocks.FakePage) *AutocompleteExecutor {
	cfg := config.NewDefaultConfig().Engine()
	cfg.SettleTime = 0
	return &AutocompleteExecutor{page: page, cfg: cfg, logger: zap.NewNop()}
}

func TestAutocompleteExecutor_PicksSuggestion(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#city", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "text"}, Visible: true,
	})
	page.AddElement("[role='option']", &mocks.FakeElement{
		Tag: "li", Text: "Berlin, Deutschland", Visible: true,
	})
	page.OnClick = func(key string) {
		if key == "[role='option']" {
			page.Element("#city").Value = "Berlin, Deutschland"
		}
	}
	e := newAutocompleteExecutor(page)

	outcome, err := e.Fill(context.Background(), autocompleteField("#city"), "Berlin")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "pick-suggestion", outcome.Strategy)
	assert.Equal(t, "Berlin, Deutschland", page.Element("#city").Value)
}

// Without a suggestion popup the typed text is committed with Enter.
func TestAutocompleteExecutor_CommitsWithEnter(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#tags", &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "text"}, Visible: true,
	})
	e := newAutocompleteExecutor(page)

	outcome, err := e.Fill(context.Background(), autocompleteField("#tags"), "Go")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "commit-with-enter", outcome.Strategy)
	assert.Contains(t, page.Recorded(), `PressKey(#tags, "\r")`)
}

func TestAutocompleteExecutor_EmptyValue(t *testing.T) {
	e := newAutocompleteExecutor(mocks.NewFakePage())
	_, err := e.Fill(context.Background(), autocompleteField("#city"), "")
	assert.ErrorIs(t, err, schemas.ErrInvalidInput)
}
