package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/fiadvisor"
)

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": func(types []fiadvisor.RecordType, sep string) string {
		s := make([]string, len(types))
		for i, t := range types {
			s[i] = string(t)
		}
		return strings.Join(s, sep)
	},
}).Parse(promptText))

type promptData struct {
	Persona  string
	Question string
	Profile  string
	Failed   []fiadvisor.RecordType
	Figures  []Figure

	NetWorth, CreditReport fiadvisor.RecordType
	LoanRate, GrowthRate   fiadvisor.Percent
	LoanMonths, DefaultAge int
	PoorCredit             int
	Verdicts               []fiadvisor.Verdict
}

// ComposePrompt builds the narrator prompt: persona, the whole profile as
// indented JSON, the three analysis recipes, reference figures when the
// question could be classified, and the question verbatim.
func ComposePrompt(q Query) (string, error) {
	if q.Profile == nil {
		return "", ErrNoProfile
	}
	profile, err := json.MarshalIndent(q.Profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot serialize profile: %w", err)
	}

	data := promptData{
		Persona:      q.Persona,
		Question:     q.Question,
		Profile:      string(profile),
		Failed:       q.Profile.Failed(),
		Figures:      Classify(q.Question).Figures(q.Profile),
		NetWorth:     fiadvisor.NetWorth,
		CreditReport: fiadvisor.CreditReport,
		LoanRate:     fiadvisor.LoanRate,
		GrowthRate:   fiadvisor.GrowthRate,
		LoanMonths:   fiadvisor.LoanMonths,
		DefaultAge:   fiadvisor.DefaultAge,
		PoorCredit:   fiadvisor.PoorCreditThreshold,
		Verdicts:     fiadvisor.Verdicts(),
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("cannot compose prompt: %w", err)
	}
	return b.String(), nil
}
