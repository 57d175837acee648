// File: internal/normalize/synonyms.go
package normalize

import (
	"strconv"
	"strings"

	"github.com/mwielandt/autoform-cli/api/schemas"
)

// synonymTable maps a lower-cased canonical input to the ordered option
// values and option labels a target UI is likely to carry for it.
type synonymTable map[string]schemas.ValueMapping

// fieldDomain couples a synonym table with the field-name hints that
// activate it.
type fieldDomain struct {
	hints   []string
	table   synonymTable
	numeric bool // numeric-looking input bypasses the table verbatim
}

var domains = []fieldDomain{
	{
		hints: []string{"gender", "geschlecht", "sex", "salutation", "anrede"},
		table: synonymTable{
			"male":        {Values: []string{"m", "male"}, Labels: []string{"Männlich", "Male", "männlich", "Herr"}},
			"männlich":    {Values: []string{"m", "male"}, Labels: []string{"Männlich", "Male", "männlich", "Herr"}},
			"female":      {Values: []string{"w", "f", "female"}, Labels: []string{"Weiblich", "Female", "weiblich", "Frau"}},
			"weiblich":    {Values: []string{"w", "f", "female"}, Labels: []string{"Weiblich", "Female", "weiblich", "Frau"}},
			"divers":      {Values: []string{"d", "divers"}, Labels: []string{"Divers", "divers", "Diverse"}},
			"diverse":     {Values: []string{"d", "divers"}, Labels: []string{"Divers", "divers", "Diverse"}},
			"ohne angabe":  {Values: []string{"u", "ohne_angabe", "keine_angabe"}, Labels: []string{"Ohne Angabe", "ohne angabe", "keine angabe"}},
			"ohne_angabe":  {Values: []string{"u", "ohne_angabe", "keine_angabe"}, Labels: []string{"Ohne Angabe", "ohne angabe", "keine angabe"}},
			"keine_angabe": {Values: []string{"u", "ohne_angabe", "keine_angabe"}, Labels: []string{"Ohne Angabe", "ohne angabe", "keine angabe"}},
		},
	},
	{
		hints: []string{"country", "land", "staat", "nationality", "nationalität"},
		table: synonymTable{
			"germany":     {Values: []string{"de", "germany", "deutschland"}, Labels: []string{"Germany", "Deutschland"}},
			"deutschland": {Values: []string{"de", "germany", "deutschland"}, Labels: []string{"Deutschland", "Germany"}},
			"austria":     {Values: []string{"at", "austria", "österreich"}, Labels: []string{"Austria", "Österreich"}},
			"österreich":  {Values: []string{"at", "austria", "österreich"}, Labels: []string{"Österreich", "Austria"}},
			"switzerland": {Values: []string{"ch", "switzerland", "schweiz"}, Labels: []string{"Switzerland", "Schweiz"}},
			"schweiz":     {Values: []string{"ch", "switzerland", "schweiz"}, Labels: []string{"Schweiz", "Switzerland"}},
			"iran":        {Values: []string{"ir", "iran"}, Labels: []string{"Iran", "Iran (Islamic Republic of)", "Iran, Islamic Republic of"}},
			"persia":      {Values: []string{"ir", "iran"}, Labels: []string{"Iran", "Iran (Islamic Republic of)", "Iran, Islamic Republic of"}},
		},
	},
	{
		hints:   []string{"job_experience", "berufserfahrung", "professional experience", "experience"},
		numeric: true,
		table: synonymTable{
			"beginners":  {Values: []string{"0"}, Labels: []string{"Einsteiger", "Beginners"}},
			"einsteiger": {Values: []string{"0"}, Labels: []string{"Einsteiger", "Beginners"}},
			"1 year":     {Values: []string{"1"}, Labels: []string{"bis 1 Jahr", "up to 1 year"}},
			"bis 1 jahr": {Values: []string{"1"}, Labels: []string{"bis 1 Jahr", "up to 1 year"}},
			"2 years":    {Values: []string{"2"}, Labels: []string{"bis 2 Jahre", "up to 2 years"}},
			"5 years":    {Values: []string{"5"}, Labels: []string{"bis 5 Jahre", "up to 5 years"}},
			"10 years":   {Values: []string{"10"}, Labels: []string{"bis 10 Jahre", "up to 10 years"}},
			"15 years":   {Values: []string{"15"}, Labels: []string{"bis 15 Jahre oder mehr", "up to 15 years or more"}},
			"15+":        {Values: []string{"15"}, Labels: []string{"bis 15 Jahre oder mehr", "up to 15 years or more"}},
		},
	},
	{
		hints:   []string{"career_levels", "career level", "karrierestufe"},
		numeric: true,
		table:   synonymTable{},
	},
	{
		hints: []string{"graduation", "highest degree", "höchster abschluss", "abschluss", "degree", "education"},
		table: synonymTable{
			"hauptschulabschluss": {Values: []string{"Hauptschulabschluss"}, Labels: []string{"Hauptschulabschluss", "Secondary school leaving certificate / lower secondary school"}},
			"realschulabschluss":  {Values: []string{"Realschulabschluss"}, Labels: []string{"Realschulabschluss", "Secondary school leaving certificate / vocational baccalaureate"}},
			"abitur":              {Values: []string{"Abitur / Matura"}, Labels: []string{"Abitur / Matura", "Abitur", "Matura"}},
			"matura":              {Values: []string{"Abitur / Matura"}, Labels: []string{"Abitur / Matura", "Matura", "Abitur"}},
			"university":          {Values: []string{"Hochschule / Uni / FH /etc."}, Labels: []string{"College / University / University of Applied Sciences / etc.", "Hochschule / Uni / FH /etc.", "University", "College"}},
			"college":             {Values: []string{"Hochschule / Uni / FH /etc."}, Labels: []string{"College / University / University of Applied Sciences / etc.", "Hochschule / Uni / FH /etc.", "College", "University"}},
			"bachelor":            {Values: []string{"Hochschule / Uni / FH /etc."}, Labels: []string{"College / University / University of Applied Sciences / etc.", "Hochschule / Uni / FH /etc.", "University"}},
			"master":              {Values: []string{"Hochschule / Uni / FH /etc."}, Labels: []string{"College / University / University of Applied Sciences / etc.", "Hochschule / Uni / FH /etc.", "University"}},
		},
	},
	{
		hints: []string{"german_knowledge", "deutschkenntnisse", "deutsch", "german", "english_knowledge", "englisch", "english", "language", "sprache"},
		table: synonymTable{
			"unknown":          {Values: []string{"unknown"}, Labels: []string{"Keine Kenntnis", "No knowledge"}},
			"no knowledge":     {Values: []string{"unknown"}, Labels: []string{"Keine Kenntnis", "No knowledge"}},
			"keine kenntnis":   {Values: []string{"unknown"}, Labels: []string{"Keine Kenntnis", "No knowledge"}},
			"basic":            {Values: []string{"little_known"}, Labels: []string{"Geringe Kenntnis", "Little knowledge"}},
			"little knowledge": {Values: []string{"little_known"}, Labels: []string{"Geringe Kenntnis", "Little knowledge"}},
			"geringe kenntnis": {Values: []string{"little_known"}, Labels: []string{"Geringe Kenntnis", "Little knowledge"}},
			"advanced":           {Values: []string{"advanced"}, Labels: []string{"Fortgeschritten", "Advanced"}},
			"fortgeschritten":    {Values: []string{"advanced"}, Labels: []string{"Fortgeschritten", "Advanced"}},
			"fluent":             {Values: []string{"fluent"}, Labels: []string{"Verhandlungssicher", "Fluent"}},
			"verhandlungssicher": {Values: []string{"fluent"}, Labels: []string{"Verhandlungssicher", "Fluent"}},
			"native":             {Values: []string{"fluent"}, Labels: []string{"Verhandlungssicher", "Fluent", "Muttersprache", "Native speaker"}},
			"native speaker":     {Values: []string{"fluent"}, Labels: []string{"Verhandlungssicher", "Fluent", "Muttersprache", "Native speaker"}},
		},
	},
}

// Normalize maps a canonical config value plus a field-name hint to the
// ordered candidates worth attempting. Numeric-looking input for
// numeric domains passes through verbatim. Unmatched input degrades to
// identity so the engine always attempts something.
func Normalize(fieldName, value string) schemas.ValueMapping {
	loweredName := strings.ToLower(strings.TrimSpace(fieldName))
	loweredValue := strings.ToLower(strings.TrimSpace(value))

	for _, domain := range domains {
		if !matchesHint(loweredName, domain.hints) {
			continue
		}
		if domain.numeric {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				return schemas.ValueMapping{Values: []string{strconv.Itoa(n)}}
			}
		}
		if mapping, ok := domain.table[loweredValue]; ok {
			return mapping
		}
	}

	return schemas.ValueMapping{Values: []string{value}, Labels: []string{value}}
}

func matchesHint(name string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}
