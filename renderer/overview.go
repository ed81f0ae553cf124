package renderer

import (
	"github.com/etnz/fiadvisor"
)

// Overview is the headline view of a profile.
type Overview struct {
	Persona          string         `json:"persona"`
	Phone            string         `json:"phone"`
	NetWorth         string         `json:"netWorth"`
	TotalAssets      string         `json:"totalAssets"`
	TotalLiabilities string         `json:"totalLiabilities"`
	CreditScore      int            `json:"creditScore,omitempty"` // 0 when unknown
	CreditClass      string         `json:"creditClass,omitempty"`
	Records          []RecordStatus `json:"records"`
}

// RecordStatus tells whether a record was fetched.
type RecordStatus struct {
	Type  fiadvisor.RecordType `json:"type"`
	OK    bool                 `json:"ok"`
	Error string               `json:"error,omitempty"`
}

// NewOverview extracts the snapshot figures of p. Missing figures are shown as zero.
func NewOverview(persona fiadvisor.Persona, p *fiadvisor.Profile) *Overview {
	s := &Overview{Persona: persona.Name, Phone: persona.Phone}

	nw, _ := p.NetWorth()
	assets, _ := p.TotalAssets()
	liabilities, _ := p.TotalLiabilities()
	s.NetWorth = orZero(nw).Whole()
	s.TotalAssets = orZero(assets).Whole()
	s.TotalLiabilities = orZero(liabilities).Whole()

	if score, ok := p.CreditScore(); ok {
		s.CreditScore = score
		s.CreditClass = fiadvisor.ClassifyCredit(score).String()
	}

	for _, t := range p.Types() {
		r, _ := p.Record(t)
		status := RecordStatus{Type: t, OK: r.OK()}
		if !r.OK() {
			status.Error = r.Err.Error()
		}
		s.Records = append(s.Records, status)
	}
	return s
}

func orZero(m fiadvisor.Money) fiadvisor.Money {
	if m.Currency() == "" {
		return fiadvisor.INR(0)
	}
	return m
}

// Reply is an advisor answer to a question.
type Reply struct {
	Persona  string `json:"persona"`
	Question string `json:"question"`
	Text     string `json:"text"`
	Failed   bool   `json:"failed,omitempty"`
}
