// File: internal/config/profile_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `{
  "personal_info": {
    "first_name": "Max",
    "last_name": "Mustermann",
    "email": "max@example.com",
    "gender": "male",
    "date_of_birth": "23.05.1990"
  },
  "file_paths": {
    "resume": "docs/lebenslauf.pdf",
    "cover_letter": "docs/anschreiben.pdf"
  },
  "questions": {
    "Why do you want to work here?": "Because of the team."
  },
  "talent_pool": {
    "enabled": true,
    "job_title": "Backend Engineer",
    "location": "Berlin",
    "career_levels": ["3", "4"]
  }
}`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "Max", p.Personal("first_name"))
	assert.Equal(t, "max@example.com", p.Personal("email"))
	assert.Equal(t, "docs/lebenslauf.pdf", p.File("resume"))
	assert.Equal(t, "Because of the team.", p.Question("Why do you want to work here?"))
	assert.True(t, p.TalentPool.Enabled)
	assert.Equal(t, "Backend Engineer", p.TalentPool.JobTitle)
	assert.Equal(t, []string{"3", "4"}, p.TalentPool.CareerLevels)
}

func TestParseProfile_EmptySections(t *testing.T) {
	p, err := ParseProfile([]byte(`{"personal_info": {"email": "a@b.c"}}`))
	require.NoError(t, err)

	// Absent sections still read safely.
	assert.Equal(t, "", p.File("resume"))
	assert.Equal(t, "", p.Question("anything"))
	assert.False(t, p.TalentPool.Enabled)
}

func TestParseProfile_Invalid(t *testing.T) {
	_, err := ParseProfile([]byte(`{"personal_info": [`))
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Mustermann", p.Personal("last_name"))

	_, err = LoadProfile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFirstOf(t *testing.T) {
	assert.Equal(t, "b", FirstOf("", "b", "c"))
	assert.Equal(t, "", FirstOf("", ""))
}
