package fiadvisor

import (
	"math"
	"testing"
)

func TestEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal Money
		rate      Percent
		months    int
		want      float64
		tolerance float64
	}{
		{"home loan 50L over 20 years", INR(5_000_000), LoanRate, LoanMonths, 43391, 1},
		{"closed form", INR(5_000_000), LoanRate, LoanMonths, closedFormEMI(5_000_000, 8.5, 240), 0.01},
		{"one year at 12%", INR(100_000), 12, 12, closedFormEMI(100_000, 12, 12), 0.01},
		{"zero rate", INR(120_000), 0, 12, 10_000, 0},
		{"zero term", INR(120_000), LoanRate, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EMI(tt.principal, tt.rate, tt.months)
			if diff := math.Abs(got.AsFloat() - tt.want); diff > tt.tolerance {
				t.Errorf("EMI(%v, %v, %d) = %v, want %v (±%v)", tt.principal, tt.rate, tt.months, got.AsFloat(), tt.want, tt.tolerance)
			}
			if got.Currency() != tt.principal.Currency() {
				t.Errorf("EMI() currency = %q, want %q", got.Currency(), tt.principal.Currency())
			}
		})
	}
}

func closedFormEMI(p, annual float64, n int) float64 {
	r := annual / 100 / 12
	f := math.Pow(1+r, float64(n))
	return p * r * f / (f - 1)
}

func TestFutureValue(t *testing.T) {
	tests := []struct {
		name  string
		pv    Money
		rate  Percent
		years int
		want  float64
	}{
		{"12 years at 11%", INR(1_000_000), GrowthRate, 12, 3_498_450},
		{"one year", INR(1_000), 10, 1, 1_100},
		{"no horizon", INR(1_000), GrowthRate, 0, 1_000},
		{"negative horizon", INR(1_000), GrowthRate, -3, 1_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValue(tt.pv, tt.rate, tt.years)
			if diff := math.Abs(got.AsFloat() - tt.want); diff > 1 {
				t.Errorf("FutureValue(%v, %v, %d) = %v, want ≈%v", tt.pv, tt.rate, tt.years, got.AsFloat(), tt.want)
			}
		})
	}
}

func TestClassifyCredit(t *testing.T) {
	tests := []struct {
		score int
		want  CreditClass
	}{
		{300, CreditPoor},
		{649, CreditPoor},
		{650, CreditFair},
		{820, CreditFair},
	}
	for _, tt := range tests {
		if got := ClassifyCredit(tt.score); got != tt.want {
			t.Errorf("ClassifyCredit(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestYearsTo(t *testing.T) {
	if got := YearsTo(0, 40); got != 12 {
		t.Errorf("YearsTo(0, 40) = %d, want 12", got)
	}
	if got := YearsTo(35, 60); got != 25 {
		t.Errorf("YearsTo(35, 60) = %d, want 25", got)
	}
}
