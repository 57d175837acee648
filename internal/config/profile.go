// File: internal/config/profile.go
package config

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"
)

// Profile is the declarative set of semantic values a run fills forms
// from. Missing keys simply skip the corresponding fields.
type Profile struct {
	// PersonalInfo holds flat semantic keys such as first_name, email,
	// date_of_birth, gender, country.
	PersonalInfo map[string]string `json:"personal_info"`
	// FilePaths maps semantic document keys (resume, cover_letter,
	// photo) to filesystem paths, relative or absolute.
	FilePaths map[string]string `json:"file_paths"`
	// Questions holds employer-specific answers, keyed semantically
	// (salary, remote_work) or positionally (question_1, question_2).
	Questions map[string]string `json:"questions"`
	// TalentPool configures the optional talent-pool opt-in flow.
	TalentPool TalentPool `json:"talent_pool"`
}

// TalentPool describes the fields revealed by a talent-pool opt-in
// checkbox on application forms.
type TalentPool struct {
	Enabled       bool     `json:"enabled"`
	JobTitle      string   `json:"job_title"`
	Location      string   `json:"location"`
	Radius        string   `json:"radius"`
	Salary        string   `json:"salary"`
	SalaryType    string   `json:"salary_type"`
	JobTimeModel  string   `json:"job_time_model"`
	JobCategories string   `json:"job_categories"`
	CareerLevels  []string `json:"career_levels"`
}

// LoadProfile reads and decodes a fill profile from disk.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %q: %w", path, err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid profile JSON in %q: %w", path, err)
	}
	p.normalize()
	return &p, nil
}

// ParseProfile decodes a profile from raw JSON. Used by tests and by
// callers that fetch profiles from elsewhere than the filesystem.
func ParseProfile(raw []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}
	p.normalize()
	return &p, nil
}

func (p *Profile) normalize() {
	if p.PersonalInfo == nil {
		p.PersonalInfo = map[string]string{}
	}
	if p.FilePaths == nil {
		p.FilePaths = map[string]string{}
	}
	if p.Questions == nil {
		p.Questions = map[string]string{}
	}
}

// Personal returns a personal_info value, empty when absent.
func (p *Profile) Personal(key string) string { return p.PersonalInfo[key] }

// File returns a file_paths value, empty when absent.
func (p *Profile) File(key string) string { return p.FilePaths[key] }

// Question returns a questions value, empty when absent.
func (p *Profile) Question(key string) string { return p.Questions[key] }

// FirstOf returns the first non-empty value among the given lookups.
func FirstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
