// File: internal/bind/binder.go

// Package bind decides which profile value belongs in which discovered
// field. Matching is purely lexical over the field's metadata, ordered
// by signal strength: name, then id, then exact label, then a
// word-boundary label match. Talent-pool mappings take precedence when
// that section is active so its generic keys (location, salary) don't
// collide with the personal ones.
package bind

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mwielandt/autoform-cli/api/schemas"
	"github.com/mwielandt/autoform-cli/internal/config"
)

// mapping couples a profile key with the identifiers that select it.
type mapping struct {
	key     string
	value   string
	values  []string
	section string
	hints   []string
}

// Binder matches metadata against a profile's mappings.
type Binder struct {
	profile  *config.Profile
	mappings []mapping
	logger   *zap.Logger
}

func NewBinder(profile *config.Profile, logger *zap.Logger) *Binder {
	b := &Binder{profile: profile, logger: logger.Named("bind")}
	b.mappings = buildMappings(profile)
	return b
}

// personalHints keys each personal_info entry to the identifiers forms
// use for it, across English and German sites.
var personalHints = map[string][]string{
	"first_name":       {"first_name", "firstname", "first-name", "vorname", "given-name", "givenname"},
	"last_name":        {"last_name", "lastname", "last-name", "nachname", "family-name", "familyname", "surname"},
	"email":            {"email", "e-mail", "e_mail", "mail"},
	"phone":            {"phone", "telefon", "tel", "mobile", "mobil", "handy", "phonenumber"},
	"date_of_birth":    {"date_of_birth", "birthdate", "birthday", "geburtsdatum", "dob", "geburtstag"},
	"birth_year":       {"birth_year", "geburtsjahr", "yearofbirth"},
	"gender":           {"gender", "geschlecht", "salutation", "anrede", "sex"},
	"country":          {"country", "land", "staat", "nationality"},
	"location":         {"standort", "location", "city", "stadt", "ort", "wohnort"},
	"address":          {"address", "street", "strasse", "straße", "adresse"},
	"postcode":         {"postcode", "postal", "plz", "postleitzahl", "zip"},
	"job_experience":   {"job_experience", "berufserfahrung", "experience"},
	"german_knowledge": {"german_knowledge", "deutschkenntnisse", "german", "deutsch"},
	"english_knowledge": {"english_knowledge", "englischkenntnisse", "english", "englisch"},
	"graduation":       {"graduation", "abschluss", "degree", "education"},
	"comment":          {"comment", "kommentar", "message", "nachricht", "anmerkung"},
	"salary":           {"salary", "gehalt", "gehaltsvorstellung"},
	"remote_work":      {"remote_work", "home_office", "homeoffice", "remote"},
	"earliest_start":   {"earliest_start", "start_date", "eintrittsdatum", "eintrittstermin", "verfügbar", "available"},
}

// fileHints keys each file_paths entry the same way; platform-specific
// ids like file_app_map come first so they win an exact match.
var fileHints = map[string][]string{
	"resume":       {"file_app_map", "resume", "cv", "lebenslauf", "file-upload", "fileupload"},
	"cover_letter": {"file_cover_letter", "cover_letter", "coverletter", "anschreiben", "motivationsschreiben"},
	"photo":        {"file_photo", "photo", "foto", "profilbild", "picture", "bild"},
}

// talentPoolHints map the talent-pool profile section; these are checked
// before everything else when the section is enabled.
var talentPoolHints = map[string][]string{
	"job_title":      {"job_title", "wunschberuf", "search_query", "jobtitle", "beruf"},
	"location":       {"search_geo", "wunschort", "location", "einsatzort"},
	"radius":         {"geo_radius", "radius", "umkreis"},
	"salary":         {"gehaltswunsch", "salary_expectation", "wunschgehalt"},
	"salary_type":    {"salary_type", "gehaltsart"},
	"job_time_model": {"job_time_model", "arbeitszeit", "worktime", "zeitmodell"},
	"job_categories": {"job_categories", "kategorie", "category", "berufsfeld"},
	"career_levels":  {"career_levels", "karrierestufe", "career_level"},
}

// autocompleteTokens maps HTML autocomplete attribute tokens to profile
// keys, the smart fallback when nothing lexical matched.
var autocompleteTokens = map[string]string{
	"given-name":     "first_name",
	"family-name":    "last_name",
	"email":          "email",
	"tel":            "phone",
	"bday":           "date_of_birth",
	"country-name":   "country",
	"postal-code":    "postcode",
	"street-address": "address",
}

func buildMappings(p *config.Profile) []mapping {
	var out []mapping

	if p.TalentPool.Enabled {
		tp := map[string]string{
			"job_title":      p.TalentPool.JobTitle,
			"location":       p.TalentPool.Location,
			"radius":         p.TalentPool.Radius,
			"salary":         p.TalentPool.Salary,
			"salary_type":    p.TalentPool.SalaryType,
			"job_time_model": p.TalentPool.JobTimeModel,
			"job_categories": p.TalentPool.JobCategories,
		}
		for _, key := range sortedKeys(tp) {
			value := tp[key]
			if value == "" {
				continue
			}
			out = append(out, mapping{key: key, value: value, section: "talent_pool", hints: talentPoolHints[key]})
		}
		if len(p.TalentPool.CareerLevels) > 0 {
			out = append(out, mapping{
				key:     "career_levels",
				value:   p.TalentPool.CareerLevels[0],
				values:  p.TalentPool.CareerLevels,
				section: "talent_pool",
				hints:   talentPoolHints["career_levels"],
			})
		}
	}

	for _, key := range sortedKeys(p.PersonalInfo) {
		value := p.PersonalInfo[key]
		if value == "" {
			continue
		}
		hints := personalHints[key]
		if hints == nil {
			hints = []string{key}
		}
		out = append(out, mapping{key: key, value: value, section: "personal_info", hints: hints})
	}

	for _, key := range sortedKeys(p.FilePaths) {
		value := p.FilePaths[key]
		if value == "" {
			continue
		}
		hints := fileHints[key]
		if hints == nil {
			hints = []string{key}
		}
		out = append(out, mapping{key: key, value: value, section: "file_paths", hints: hints})
	}

	for _, key := range sortedKeys(p.Questions) {
		value := p.Questions[key]
		if value == "" {
			continue
		}
		out = append(out, mapping{key: key, value: value, section: "questions", hints: []string{key}})
	}

	return out
}

// sortedKeys keeps the mapping order, and with it same-tier tie breaks,
// stable across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bind finds the profile entry for a field. Match strength descends:
// name, id, exact label, label word boundary. The first mapping winning
// the strongest tier applies; talent-pool mappings sit first in the
// slice and therefore win ties.
func (b *Binder) Bind(meta schemas.FieldMetadata, kind schemas.FieldKind) schemas.ConfigBinding {
	name := strings.ToLower(strings.TrimSpace(meta.Name))
	id := strings.ToLower(strings.TrimSpace(meta.ID))
	label := strings.ToLower(strings.TrimSpace(meta.Label))

	type tiered struct {
		m    mapping
		tier int
	}
	best := tiered{tier: 99}
	for _, m := range b.mappings {
		for _, hint := range m.hints {
			h := strings.ToLower(hint)
			switch {
			case name != "" && tokenMatch(name, h):
				if best.tier > 0 {
					best = tiered{m: m, tier: 0}
				}
			case id != "" && tokenMatch(id, h):
				if best.tier > 1 {
					best = tiered{m: m, tier: 1}
				}
			case label == h:
				if best.tier > 2 {
					best = tiered{m: m, tier: 2}
				}
			case labelWordMatch(label, h) && !looksLikeFilePath(m.value):
				if best.tier > 3 {
					best = tiered{m: m, tier: 3}
				}
			}
		}
		if best.tier == 0 {
			break
		}
	}
	if best.tier < 99 {
		b.logger.Debug("bound field",
			zap.String("field", meta.Name),
			zap.String("key", best.m.key),
			zap.Int("tier", best.tier))
		return schemas.ConfigBinding{Key: best.m.key, Value: best.m.value, Values: best.m.values, Section: best.m.section}
	}

	return b.fallback(meta, kind)
}

// fallback consults the autocomplete attribute and the field kind when
// no identifier matched.
func (b *Binder) fallback(meta schemas.FieldMetadata, kind schemas.FieldKind) schemas.ConfigBinding {
	if token := strings.ToLower(meta.Autocomplete); token != "" {
		if key, ok := autocompleteTokens[token]; ok {
			if v := b.profile.Personal(key); v != "" {
				return schemas.ConfigBinding{Key: key, Value: v, Section: "personal_info"}
			}
		}
	}
	switch kind {
	case schemas.KindEmail:
		if v := b.profile.Personal("email"); v != "" {
			return schemas.ConfigBinding{Key: "email", Value: v, Section: "personal_info"}
		}
	case schemas.KindTel:
		if v := b.profile.Personal("phone"); v != "" {
			return schemas.ConfigBinding{Key: "phone", Value: v, Section: "personal_info"}
		}
	case schemas.KindFile:
		if v := b.profile.File("resume"); v != "" {
			return schemas.ConfigBinding{Key: "resume", Value: v, Section: "file_paths"}
		}
	}
	return schemas.ConfigBinding{}
}

// tokenMatch reports whether the hint occurs in the identifier as whole
// tokens. A bare substring is too loose for names and ids: "ort" must
// not match "sort_order", "tel" must not match "hotel". Hint tokens of
// five or more characters also match as a token prefix so German
// compounds ("telefonnummer", "emailadresse") still bind.
func tokenMatch(identifier, hint string) bool {
	if identifier == hint {
		return true
	}
	idTokens := splitTokens(identifier)
	hintTokens := splitTokens(hint)
	if len(hintTokens) == 0 || len(idTokens) < len(hintTokens) {
		return false
	}
	for start := 0; start+len(hintTokens) <= len(idTokens); start++ {
		matched := true
		for j, ht := range hintTokens {
			if !tokenEq(idTokens[start+j], ht) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func tokenEq(token, hint string) bool {
	if token == hint {
		return true
	}
	return len(hint) >= 5 && strings.HasPrefix(token, hint)
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '_', '-', '.', ' ', '[', ']':
			return true
		}
		return false
	})
}

// labelWordMatch reports whether the hint appears in the label at a word
// boundary. A bare substring is too loose for labels: "age" must not
// match "language".
func labelWordMatch(label, hint string) bool {
	if label == "" || hint == "" {
		return false
	}
	return strings.HasPrefix(label, hint+" ") ||
		strings.HasSuffix(label, " "+hint) ||
		strings.Contains(label, " "+hint+" ") ||
		strings.Contains(label, hint+":") ||
		strings.Contains(label, hint+"*")
}

// looksLikeFilePath guards label matching against binding a path-valued
// entry to an unrelated text field.
func looksLikeFilePath(v string) bool {
	lower := strings.ToLower(v)
	for _, ext := range []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.ContainsAny(v, "/\\") && strings.Contains(v, ".")
}
