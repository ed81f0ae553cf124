package fiadvisor

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is an annual rate expressed in percent (8.5 means 8.5%).
type Percent float64

// Rate returns the percent as a fraction (8.5% is 0.085).
func (p Percent) Rate() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Div(decimal.NewFromInt(100))
}

func (p Percent) String() string {
	return fmt.Sprintf("%g%%", float64(p))
}
