// File: internal/normalize/normalize_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected Date
		ok       bool
	}{
		{"1990-05-23", Date{1990, 5, 23}, true},
		{"23.05.1990", Date{1990, 5, 23}, true},
		{"23.5.1990", Date{1990, 5, 23}, true},
		{"23/05/1990", Date{1990, 5, 23}, true},
		{"1990", Date{1990, 1, 1}, true},
		{"  1990-05-23  ", Date{1990, 5, 23}, true},
		{"31.02.1990", Date{}, false},
		{"not a date", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseDate(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

// Every accepted input format must normalize to the same ISO string.
func TestNormalizeDate_RoundTrip(t *testing.T) {
	for _, input := range []string{"1990-05-23", "23.05.1990", "23/05/1990"} {
		assert.Equal(t, "1990-05-23", NormalizeDate(input), "input %q", input)
	}
	assert.Equal(t, "1990-01-01", NormalizeDate("1990"))
	// Unparsable input passes through untouched.
	assert.Equal(t, "soonish", NormalizeDate("soonish"))
}

func TestMatchesDate(t *testing.T) {
	want, ok := ParseDate("1990-05-23")
	require.True(t, ok)

	for _, current := range []string{"1990-05-23", "23.05.1990", "23.5.1990", "23/05/1990", "Geburtsdatum: 23.05.1990"} {
		assert.True(t, MatchesDate(current, want), "current %q", current)
	}
	for _, current := range []string{"", "24.05.1990", "1990-05-24", "unrelated"} {
		assert.False(t, MatchesDate(current, want), "current %q", current)
	}
}

func TestDateFormats(t *testing.T) {
	d := Date{Year: 1990, Month: 5, Day: 3}
	assert.Equal(t, []string{"3.5.1990", "03.05.1990", "1990-05-03"}, DateFormats(d))

	// Every emitted literal must parse back to the same date.
	for _, s := range DateFormats(d) {
		got, ok := ParseDate(s)
		require.True(t, ok, "format %q", s)
		assert.Equal(t, d, got, "format %q", s)
	}
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, []string{"March", "März", "Mar", "Mär"}, MonthNames(3))
	assert.Nil(t, MonthNames(0))
	assert.Nil(t, MonthNames(13))
}

// The canonical gender values must expand to both locales' option values
// so "female" can land on a German form exposing value "w".
func TestNormalize_Gender(t *testing.T) {
	m := Normalize("gender", "female")
	assert.Contains(t, m.Values, "w")
	assert.Contains(t, m.Values, "female")
	assert.Contains(t, m.Labels, "Weiblich")

	m = Normalize("geschlecht", "männlich")
	assert.Contains(t, m.Values, "m")
	assert.Contains(t, m.Labels, "Male")

	// Both locales' spellings of the same gender must share candidates,
	// regardless of input casing.
	german := Normalize("gender", "MÄNNLICH")
	english := Normalize("gender", "male")
	assert.Equal(t, german.Values, english.Values)
}

func TestNormalize_Country(t *testing.T) {
	m := Normalize("country", "Germany")
	assert.Contains(t, m.Values, "de")
	assert.Contains(t, m.Labels, "Deutschland")
}

func TestNormalize_NumericPassthrough(t *testing.T) {
	m := Normalize("job_experience", "7")
	assert.Equal(t, []string{"7"}, m.Values)

	m = Normalize("berufserfahrung", "5 years")
	assert.Contains(t, m.Values, "5")
}

func TestNormalize_LanguageLevels(t *testing.T) {
	m := Normalize("german_knowledge", "fluent")
	assert.Contains(t, m.Values, "fluent")
	assert.Contains(t, m.Labels, "Verhandlungssicher")

	m = Normalize("english_knowledge", "native")
	assert.Contains(t, m.Labels, "Muttersprache")
}

// Unmatched field names or values degrade to identity, never to empty.
func TestNormalize_IdentityFallback(t *testing.T) {
	m := Normalize("favorite_color", "teal")
	assert.Equal(t, []string{"teal"}, m.Values)
	assert.Equal(t, []string{"teal"}, m.Labels)

	m = Normalize("gender", "unmapped value")
	assert.Equal(t, []string{"unmapped value"}, m.Values)
}
