package fiadvisor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// JSONPath of the figures read from the records, they follow the Fi MCP payloads.
const (
	pathNetWorth         = "$.netWorthResponse.totalNetWorthValue"
	pathTotalAssets      = "$.netWorthResponse.totalAssets"
	pathTotalLiabilities = "$.netWorthResponse.totalLiabilities"
	pathBureauScore      = "$.creditReports[0].creditReportData.score.bureauScore"
)

// NetWorth returns the total net worth from the net worth record.
func (p *Profile) NetWorth() (Money, bool) { return p.money(NetWorth, pathNetWorth) }

// TotalAssets returns the total assets from the net worth record.
func (p *Profile) TotalAssets() (Money, bool) { return p.money(NetWorth, pathTotalAssets) }

// TotalLiabilities returns the total liabilities from the net worth record.
func (p *Profile) TotalLiabilities() (Money, bool) { return p.money(NetWorth, pathTotalLiabilities) }

// CreditScore returns the bureau score of the first credit report.
func (p *Profile) CreditScore() (int, bool) {
	v, err := p.Lookup(CreditReport, pathBureauScore)
	if err != nil {
		return 0, false
	}
	switch s := v.(type) {
	case float64:
		return int(s), true
	case string:
		score, err := strconv.Atoi(s)
		return score, err == nil
	}
	return 0, false
}

// Lookup evaluates a JSONPath expression against the record t.
func (p *Profile) Lookup(t RecordType, path string) (any, error) {
	r, ok := p.Record(t)
	if !ok {
		return nil, fmt.Errorf("no %s record in profile", t)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	var doc any
	if err := json.Unmarshal(r.Data, &doc); err != nil {
		return nil, fmt.Errorf("could not decode %s record: %w", t, err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q on %s: %w", path, t, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	return v, nil
}

// money reads a Fi money object ({"currencyCode","units","nanos"}) at path.
func (p *Profile) money(t RecordType, path string) (Money, bool) {
	v, err := p.Lookup(t, path)
	if err != nil {
		return Money{}, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Money{}, false
	}
	m := Money{cur: DefaultCurrency}
	if code, ok := obj["currencyCode"].(string); ok && code != "" {
		m.cur = code
	}
	switch u := obj["units"].(type) {
	case string:
		d, err := decimal.NewFromString(u)
		if err != nil {
			return Money{}, false
		}
		m.value = d
	case float64:
		m.value = decimal.NewFromFloat(u)
	default:
		return Money{}, false
	}
	if nanos, ok := obj["nanos"].(float64); ok {
		m.value = m.value.Add(decimal.New(int64(nanos), -9))
	}
	return m, true
}
