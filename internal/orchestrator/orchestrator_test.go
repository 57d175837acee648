// File: internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/bind"
	"github.com/mwielandt/autoform-cli/internal/config"
	"github.com/mwielandt/autoform-cli/internal/engine"
	"github.com/mwielandt/autoform-cli/internal/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedDiscoverer replays prepared discovery passes; the final pass
// repeats once the script runs out.
type scriptedDiscoverer struct {
	mu     sync.Mutex
	passes [][]schemas.FieldCandidate
	calls  int
}

func (d *scriptedDiscoverer) Discover(ctx context.Context) ([]schemas.FieldCandidate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	d.calls++
	if i >= len(d.passes) {
		i = len(d.passes) - 1
	}
	return d.passes[i], nil
}

func textCandidate(selector, name string) schemas.FieldCandidate {
	return schemas.FieldCandidate{
		Target:     schemas.Target{Selector: selector},
		TagName:    "input",
		Attributes: map[string]string{"type": "text", "name": name},
		Visible:    true,
		InForm:     true,
	}
}

func testEngineConfig() config.EngineConfig {
	cfg := config.NewDefaultConfig().Engine()
	cfg.SettleTime = 0
	cfg.FilledScreenshot = ""
	cfg.ErrorScreenshot = ""
	return cfg
}

func newOrchestrator(page *mocks.FakePage, d Discoverer, profile *config.Profile, cfg config.EngineConfig) *Orchestrator {
	logger := zap.NewNop()
	binder := bind.NewBinder(profile, logger)
	registry := engine.NewRegistry(page, cfg, logger)
	return New(page, d, registry, binder, profile, cfg, logger)
}

func TestRun_FillsBoundFields(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#vorname", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "text"}, Visible: true})
	page.AddElement("#mystery", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "text"}, Visible: true})

	d := &scriptedDiscoverer{passes: [][]schemas.FieldCandidate{{
		textCandidate("#vorname", "vorname"),
		textCandidate("#mystery", "internal_tracking_xyz"),
	}}}
	profile := &config.Profile{
		PersonalInfo: map[string]string{"first_name": "Max"},
		FilePaths:    map[string]string{},
		Questions:    map[string]string{},
	}
	orch := newOrchestrator(page, d, profile, testEngineConfig())

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Max", page.Element("#vorname").Value)
	assert.Empty(t, page.Element("#mystery").Value)
	assert.False(t, res.Submitted)
}

// The sweep checks every unbound checkbox: the required-marked consent
// box and the plain newsletter opt-in both end up checked.
func TestRun_SweepsUnboundCheckboxes(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#agree", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true})
	page.AddElement("#newsletter", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true})

	agree := schemas.FieldCandidate{
		Target:            schemas.Target{Selector: "#agree"},
		TagName:           "input",
		Attributes:        map[string]string{"type": "checkbox", "name": "agree_terms"},
		Labels:            schemas.LabelHints{LabelFor: "I agree to the terms *"},
		Visible:           true,
		InForm:            true,
		HasRequiredMarker: true,
	}
	newsletter := schemas.FieldCandidate{
		Target:     schemas.Target{Selector: "#newsletter"},
		TagName:    "input",
		Attributes: map[string]string{"type": "checkbox", "name": "newsletter_opt_in"},
		Visible:    true,
		InForm:     true,
	}

	d := &scriptedDiscoverer{passes: [][]schemas.FieldCandidate{{agree, newsletter}}}
	profile := &config.Profile{PersonalInfo: map[string]string{}, FilePaths: map[string]string{}, Questions: map[string]string{}}
	orch := newOrchestrator(page, d, profile, testEngineConfig())

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, page.Element("#agree").Checked)
	assert.True(t, page.Element("#newsletter").Checked)
	assert.Equal(t, 2, res.Filled)
}

// A required-marked checkbox is re-driven even when the discovery
// snapshot claims it is checked; the live element decides. A checked
// box without the marker stays untouched.
func TestRun_SweepForceChecksStaleRequired(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement("#privacy", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true})
	page.AddElement("#promo", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true, Checked: true})

	// Snapshot says checked, the live element is not.
	privacy := schemas.FieldCandidate{
		Target:            schemas.Target{Selector: "#privacy"},
		TagName:           "input",
		Attributes:        map[string]string{"type": "checkbox", "name": "privacy_policy"},
		Labels:            schemas.LabelHints{LabelFor: "Datenschutzerklärung *"},
		Visible:           true,
		InForm:            true,
		Checked:           true,
		HasRequiredMarker: true,
	}
	promo := schemas.FieldCandidate{
		Target:     schemas.Target{Selector: "#promo"},
		TagName:    "input",
		Attributes: map[string]string{"type": "checkbox", "name": "promo_consent"},
		Visible:    true,
		InForm:     true,
		Checked:    true,
	}

	d := &scriptedDiscoverer{passes: [][]schemas.FieldCandidate{{privacy, promo}}}
	profile := &config.Profile{PersonalInfo: map[string]string{}, FilePaths: map[string]string{}, Questions: map[string]string{}}
	orch := newOrchestrator(page, d, profile, testEngineConfig())

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, page.Element("#privacy").Checked)
	assert.True(t, page.Element("#promo").Checked, "untouched, was already checked")
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, 1, res.Skipped)
}

// Uploading the resume reveals a photo field on the next discovery pass;
// the second pass must pick it up.
func TestRun_FileUploadRevealsDependentField(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "cv.pdf")
	photoPath := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(resumePath, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(photoPath, []byte("x"), 0o600))

	page := mocks.NewFakePage()
	page.AddElement("#file_app_map", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "file"}, Visible: true})
	page.AddElement("#file_photo", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "file"}, Visible: true})

	resumeCandidate := schemas.FieldCandidate{
		Target:     schemas.Target{Selector: "#file_app_map"},
		TagName:    "input",
		Attributes: map[string]string{"type": "file", "name": "file_app_map", "id": "file_app_map"},
		Visible:    true, InForm: true,
	}
	photoCandidate := schemas.FieldCandidate{
		Target:     schemas.Target{Selector: "#file_photo"},
		TagName:    "input",
		Attributes: map[string]string{"type": "file", "name": "file_photo", "id": "file_photo"},
		Visible:    true, InForm: true,
	}

	d := &scriptedDiscoverer{passes: [][]schemas.FieldCandidate{
		{resumeCandidate},
		{resumeCandidate, photoCandidate},
	}}
	profile := &config.Profile{
		PersonalInfo: map[string]string{},
		FilePaths:    map[string]string{"resume": resumePath, "photo": photoPath},
		Questions:    map[string]string{},
	}
	orch := newOrchestrator(page, d, profile, testEngineConfig())

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Filled)
	assert.NotEmpty(t, page.Element("#file_app_map").Files)
	assert.NotEmpty(t, page.Element("#file_photo").Files)
}

func TestRun_TalentPoolReveal(t *testing.T) {
	page := mocks.NewFakePage()
	page.AddElement(`input[name="app_register"]`, &mocks.FakeElement{
		Tag: "input", Attrs: map[string]string{"type": "checkbox"}, Visible: true,
	})
	page.AddElement("#job_title", &mocks.FakeElement{Tag: "input", Attrs: map[string]string{"type": "text"}, Visible: true})

	d := &scriptedDiscoverer{passes: [][]schemas.FieldCandidate{{
		textCandidate("#job_title", "job_title"),
	}}}
	profile := &config.Profile{
		PersonalInfo: map[string]string{},
		FilePaths:    map[string]string{},
		Questions:    map[string]string{},
		TalentPool:   config.TalentPool{Enabled: true, JobTitle: "Backend Engineer"},
	}
	orch := newOrchestrator(page, d, profile, testEngineConfig())

	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, page.Element(`input[name="app_register"]`).Checked)
	assert.Equal(t, "Backend Engineer", page.Element("#job_title").Value)
	assert.Equal(t, 1, res.Filled)
}
