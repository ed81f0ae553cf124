package fiadvisor

import (
	"github.com/shopspring/decimal"
)

// Assumptions of the advisory recipes.
const (
	LoanRate            Percent = 8.5 // annual home loan rate
	LoanMonths                  = 240 // 20 years
	GrowthRate          Percent = 11  // blended annual return for wealth projections
	DefaultAge                  = 28  // current age when the user does not say
	PoorCreditThreshold         = 650 // scores strictly below are poor
)

// Verdict is the conclusion of a loan affordability analysis.
type Verdict string

const (
	VerdictYes     Verdict = "Yes"
	VerdictNo      Verdict = "No"
	VerdictStretch Verdict = "It might be a stretch"
)

// Verdicts lists the only conclusions a loan affordability analysis may reach.
func Verdicts() []Verdict { return []Verdict{VerdictYes, VerdictNo, VerdictStretch} }

// CreditClass classifies a credit score.
type CreditClass int

const (
	CreditUnknown CreditClass = iota
	CreditPoor
	CreditFair
)

func (c CreditClass) String() string {
	switch c {
	case CreditPoor:
		return "poor"
	case CreditFair:
		return "not poor"
	default:
		return "unknown"
	}
}

// ClassifyCredit returns CreditPoor for scores below PoorCreditThreshold.
func ClassifyCredit(score int) CreditClass {
	if score < PoorCreditThreshold {
		return CreditPoor
	}
	return CreditFair
}

var one = decimal.NewFromInt(1)

// EMI returns the equated monthly installment of an amortizing loan:
//
//	EMI = P·r·(1+r)^n / ((1+r)^n − 1)
//
// with r the monthly rate (annualRate/12) and n the number of months.
// A zero rate spreads the principal evenly. A non positive term returns zero.
func EMI(principal Money, annualRate Percent, months int) Money {
	if months <= 0 {
		return Money{cur: principal.cur}
	}
	n := decimal.NewFromInt(int64(months))
	r := annualRate.Rate().Div(decimal.NewFromInt(12))
	if r.IsZero() {
		return Money{value: principal.value.Div(n), cur: principal.cur}
	}
	f := compound(r, months)
	emi := principal.value.Mul(r).Mul(f).Div(f.Sub(one))
	return Money{value: emi, cur: principal.cur}
}

// FutureValue returns pv compounded yearly at annualRate for years:
//
//	FV = PV·(1+r)^t
//
// A non positive horizon returns pv.
func FutureValue(pv Money, annualRate Percent, years int) Money {
	if years <= 0 {
		return pv
	}
	f := compound(annualRate.Rate(), years)
	return Money{value: pv.value.Mul(f), cur: pv.cur}
}

// compound returns (1+r)^n, rounded to keep the precision bounded.
func compound(r decimal.Decimal, n int) decimal.Decimal {
	f := one
	base := one.Add(r)
	for range n {
		f = f.Mul(base).Round(24)
	}
	return f
}

// YearsTo returns the horizon between two ages, DefaultAge is used when currentAge is zero.
func YearsTo(currentAge, targetAge int) int {
	if currentAge <= 0 {
		currentAge = DefaultAge
	}
	return targetAge - currentAge
}
