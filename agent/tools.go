package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fiadvisor"
	"google.golang.org/genai"
)

// Tools returns the functions exposed to the narrator.
func Tools() []Function {
	return []Function{emiTool{}, futureValueTool{}}
}

// emiTool computes a loan installment with the advisory assumptions.
type emiTool struct{}

func (emiTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "compute_emi",
		Description: fmt.Sprintf("Computes the monthly EMI of a loan. The rate defaults to %s per year and the term to %d months.", fiadvisor.LoanRate, fiadvisor.LoanMonths),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"principal":   {Type: genai.TypeNumber, Description: "Loan amount in rupees."},
				"annual_rate": {Type: genai.TypeNumber, Description: "Annual interest rate in percent, e.g. 8.5."},
				"months":      {Type: genai.TypeInteger, Description: "Loan term in months."},
			},
			Required: []string{"principal"},
		},
	}
}

func (t emiTool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	name := t.Declaration().Name
	principal, err := number(args, "principal", 0)
	if err != nil {
		return errorResponse(id, name, err)
	}
	if principal <= 0 {
		return errorResponse(id, name, fmt.Errorf("principal must be positive, got %v", principal))
	}
	rate, err := number(args, "annual_rate", float64(fiadvisor.LoanRate))
	if err != nil {
		return errorResponse(id, name, err)
	}
	months, err := number(args, "months", fiadvisor.LoanMonths)
	if err != nil {
		return errorResponse(id, name, err)
	}

	emi := fiadvisor.EMI(fiadvisor.INR(principal), fiadvisor.Percent(rate), int(months)).Round()
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"emi":       emi.AsFloat(),
			"formatted": emi.String(),
		},
	}
}

// futureValueTool projects an amount with the advisory growth assumption.
type futureValueTool struct{}

func (futureValueTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "project_future_value",
		Description: fmt.Sprintf("Projects a present value compounded yearly. The rate defaults to %s per year and the current age to %d.", fiadvisor.GrowthRate, fiadvisor.DefaultAge),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"present_value": {Type: genai.TypeNumber, Description: "Present value in rupees, usually the total assets."},
				"target_age":    {Type: genai.TypeInteger, Description: "Age at which the value is projected."},
				"current_age":   {Type: genai.TypeInteger, Description: "Current age of the user."},
				"annual_rate":   {Type: genai.TypeNumber, Description: "Annual rate of return in percent."},
			},
			Required: []string{"present_value", "target_age"},
		},
	}
}

func (t futureValueTool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	name := t.Declaration().Name
	pv, err := number(args, "present_value", 0)
	if err != nil {
		return errorResponse(id, name, err)
	}
	target, err := number(args, "target_age", 0)
	if err != nil {
		return errorResponse(id, name, err)
	}
	current, err := number(args, "current_age", fiadvisor.DefaultAge)
	if err != nil {
		return errorResponse(id, name, err)
	}
	rate, err := number(args, "annual_rate", float64(fiadvisor.GrowthRate))
	if err != nil {
		return errorResponse(id, name, err)
	}

	years := fiadvisor.YearsTo(int(current), int(target))
	if years < 0 {
		return errorResponse(id, name, fmt.Errorf("target age %v is before current age %v", target, current))
	}
	fv := fiadvisor.FutureValue(fiadvisor.INR(pv), fiadvisor.Percent(rate), years).Round()
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"future_value": fv.AsFloat(),
			"formatted":    fv.String(),
			"years":        years,
		},
	}
}

// number reads a numeric argument, def is returned when it is absent.
func number(args map[string]any, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		if def == 0 {
			return 0, fmt.Errorf("missing argument %q", key)
		}
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("argument %q: invalid type %T, expected a number", key, v)
	}
}
