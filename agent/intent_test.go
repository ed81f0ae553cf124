package agent

import (
	"strings"
	"testing"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/fimcp/fimcptest"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question   string
		intent     Intent
		principal  int64
		targetAge  int
		currentAge int
	}{
		{"Can I afford a ₹50L home loan?", Loan, 5_000_000, 0, 0},
		{"can i take a loan of 2 crore", Loan, 20_000_000, 0, 0},
		{"Should I borrow 5000000 for a flat?", Loan, 5_000_000, 0, 0},
		{"What would be the EMI on a 500k car loan?", Loan, 500_000, 0, 0},
		{"Is a Rs 50,00,000 mortgage ok?", Loan, 5_000_000, 0, 0},
		{"Can I afford a 50 lakh loan?", Loan, 5_000_000, 0, 0},
		{"How much money will I have at 40?", Projection, 0, 40, 0},
		{"I'm 30 years old, how much will I have by age 45?", Projection, 0, 45, 30},
		{"What will my net worth be when I'm 50? My age is 35.", Projection, 0, 50, 35},
		{"How is my net worth growing?", General, 0, 0, 0},
		{"Give me 3 tips", General, 0, 0, 0},
		{"Is a 25000 yearly health insurance premium too much for me?", General, 25_000, 0, 0},
		{"Should I invest in academic courses?", General, 0, 0, 0},
		{"Are my EMIs too high?", Loan, 0, 0, 0},
		{"Is borrowing 10 lakh affordable?", Loan, 1_000_000, 0, 0},
		{"What is my projected net worth in the future?", Projection, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			h := Classify(tt.question)
			if h.Intent != tt.intent {
				t.Errorf("Classify(%q).Intent = %v, want %v", tt.question, h.Intent, tt.intent)
			}
			if want := fiadvisor.INR(tt.principal); !h.Principal.Decimal().Equal(want.Decimal()) {
				t.Errorf("Classify(%q).Principal = %v, want %v", tt.question, h.Principal.Decimal(), want.Decimal())
			}
			if h.TargetAge != tt.targetAge {
				t.Errorf("Classify(%q).TargetAge = %d, want %d", tt.question, h.TargetAge, tt.targetAge)
			}
			if h.CurrentAge != tt.currentAge {
				t.Errorf("Classify(%q).CurrentAge = %d, want %d", tt.question, h.CurrentAge, tt.currentAge)
			}
		})
	}
}

func fullProfile() *fiadvisor.Profile {
	p := fiadvisor.NewProfile()
	for t, data := range fimcptest.FullDataset() {
		p.Set(t, data)
	}
	return p
}

func TestHintFigures(t *testing.T) {
	tests := []struct {
		name     string
		question string
		profile  *fiadvisor.Profile
		want     []string // substrings expected in the figures, in order
	}{
		{
			name:     "loan",
			question: "Can I afford a ₹50L home loan?",
			profile:  fullProfile(),
			want:     []string{"₹43,391.16", "746 is not poor", "₹22,000.00"},
		},
		{
			name:     "projection with default age",
			question: "How much money will I have at 40?",
			profile:  fullProfile(),
			want:     []string{"12 years (age 28 to 40)", "₹2,561,233.17"},
		},
		{
			name:     "projection with current age",
			question: "I am 39 years old, how much will I have at 40?",
			profile:  fullProfile(),
			want:     []string{"1 years (age 39 to 40)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got strings.Builder
			for _, f := range Classify(tt.question).Figures(tt.profile) {
				got.WriteString(f.Label + ": " + f.Value + "\n")
			}
			rest := got.String()
			for _, w := range tt.want {
				i := strings.Index(rest, w)
				if i < 0 {
					t.Fatalf("Figures() = %q, want it to contain %q", got.String(), w)
				}
				rest = rest[i+len(w):]
			}
		})
	}
}

func TestHintFiguresWithoutData(t *testing.T) {
	p := fiadvisor.NewProfile()
	p.SetError(fiadvisor.NetWorth, nil)
	p.SetError(fiadvisor.CreditReport, nil)

	if figs := Classify("How much will I have at 40?").Figures(p); len(figs) != 0 {
		t.Errorf("projection Figures() without assets = %v, want none", figs)
	}
	// the EMI does not depend on the profile
	figs := Classify("Can I afford a ₹50L home loan?").Figures(p)
	if len(figs) != 1 {
		t.Fatalf("loan Figures() without records = %v, want only the EMI", figs)
	}
	if figs[0].Value != "₹43,391.16" {
		t.Errorf("EMI figure = %q, want ₹43,391.16", figs[0].Value)
	}
	if figs := Classify("How is my net worth growing?").Figures(fullProfile()); len(figs) != 0 {
		t.Errorf("general Figures() = %v, want none", figs)
	}
	// an amount in a non loan question is not a principal to amortize.
	if figs := Classify("Is a 25000 yearly health insurance premium too much for me?").Figures(fullProfile()); len(figs) != 0 {
		t.Errorf("premium Figures() = %v, want none", figs)
	}
}
