package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/etnz/fiadvisor"
	"github.com/shopspring/decimal"
)

// Intent is the kind of question asked.
type Intent int

const (
	General Intent = iota
	Loan
	Projection
)

func (i Intent) String() string {
	switch i {
	case Loan:
		return "loan affordability"
	case Projection:
		return "wealth projection"
	default:
		return "general"
	}
}

// Hint is what could be understood of a question without the narrator.
// Zero fields were not found.
type Hint struct {
	Intent     Intent
	Principal  fiadvisor.Money
	TargetAge  int
	CurrentAge int
}

var (
	// whole words only, "emi" must not match "premium".
	loanRE       = regexp.MustCompile(`(?i)\b(?:loans?|emis?|afford\w*|borrow\w*|mortgages?)\b`)
	projectionRE = regexp.MustCompile(`(?i)\b(?:will i have|will my|project(?:ed|ion|ions)?|future|retire\w*|worth at|be worth)\b`)

	// amounts like "₹50L", "Rs 2 crore", "500k", "50,00,000"
	amountRE = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)?\s*(\d[\d,]*(?:\.\d+)?)\s*(crores?|cr|lakhs?|lacs?|l|k)?\b`)
	targetRE = regexp.MustCompile(`(?i)\b(?:by|at|when i(?:'m| am)|until|till|reach(?:ing)?)\s+(?:the\s+)?(?:age\s+(?:of\s+)?)?(\d{2})\b`)
	// "I'm 30 years old", "my age is 30", "aged 30"
	currentRE = regexp.MustCompile(`(?i)\bi(?:'m| am)\s+(\d{2})\s*(?:years?|yrs?)\b|\bmy age is\s+(\d{2})\b|\baged\s+(\d{2})\b`)
)

// minPlainAmount is the smallest number without a unit read as an amount, smaller ones are ages or counts.
const minPlainAmount = 10000

// Classify inspects question for an intent, a loan principal and ages.
func Classify(question string) Hint {
	var h Hint
	h.TargetAge = firstAge(targetRE, question)
	h.CurrentAge = firstAge(currentRE, question)
	if p, ok := parsePrincipal(question); ok {
		h.Principal = p
	}

	switch {
	case loanRE.MatchString(question):
		h.Intent = Loan
	case projectionRE.MatchString(question) || h.TargetAge > 0:
		h.Intent = Projection
	}
	return h
}

// firstAge returns the first plausible age captured by re.
func firstAge(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		age, err := strconv.Atoi(g)
		if err == nil && age >= 16 && age <= 100 {
			return age
		}
	}
	return 0
}

var units = map[string]int64{
	"k": 1_000,
	"l": 100_000, "lakh": 100_000, "lakhs": 100_000, "lac": 100_000, "lacs": 100_000,
	"cr": 10_000_000, "crore": 10_000_000, "crores": 10_000_000,
}

// parsePrincipal returns the first amount of s.
func parsePrincipal(s string) (fiadvisor.Money, bool) {
	for _, m := range amountRE.FindAllStringSubmatch(s, -1) {
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		if unit := strings.ToLower(m[2]); unit != "" {
			return fiadvisor.INR(d.Mul(decimal.NewFromInt(units[unit]))), true
		}
		if d.GreaterThanOrEqual(decimal.NewFromInt(minPlainAmount)) {
			return fiadvisor.INR(d), true
		}
	}
	return fiadvisor.Money{}, false
}

// Figure is a reference value computed ahead of the narrator.
type Figure struct {
	Label string
	Value string
}

// Figures computes the reference values for h against profile p.
func (h Hint) Figures(p *fiadvisor.Profile) []Figure {
	var figs []Figure
	switch h.Intent {
	case Loan:
		if h.Principal.IsZero() {
			break
		}
		emi := fiadvisor.EMI(h.Principal, fiadvisor.LoanRate, fiadvisor.LoanMonths)
		figs = append(figs, Figure{
			Label: fmt.Sprintf("Monthly EMI for %s at %s over %d months", h.Principal, fiadvisor.LoanRate, fiadvisor.LoanMonths),
			Value: emi.Round().String(),
		})
		if score, ok := p.CreditScore(); ok {
			figs = append(figs, Figure{Label: "Credit score class", Value: fmt.Sprintf("%d is %s", score, fiadvisor.ClassifyCredit(score))})
		}
		if l, ok := p.TotalLiabilities(); ok {
			figs = append(figs, Figure{Label: "Existing liabilities", Value: l.String()})
		}
	case Projection:
		pv, ok := p.TotalAssets()
		if !ok || h.TargetAge == 0 {
			break
		}
		current := h.CurrentAge
		if current == 0 {
			current = fiadvisor.DefaultAge
		}
		years := fiadvisor.YearsTo(current, h.TargetAge)
		if years <= 0 {
			break
		}
		fv := fiadvisor.FutureValue(pv, fiadvisor.GrowthRate, years)
		figs = append(figs, Figure{
			Label: fmt.Sprintf("Future value of %s at %s over %d years (age %d to %d)", pv, fiadvisor.GrowthRate, years, current, h.TargetAge),
			Value: fv.Round().String(),
		})
	}
	return figs
}
