package fiadvisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// RecordType names one of the data categories served by the Fi MCP backend.
// It is also the name of the backend tool that returns it.
type RecordType string

const (
	NetWorth       RecordType = "fetch_net_worth"
	CreditReport   RecordType = "fetch_credit_report"
	EPFDetails     RecordType = "fetch_epf_details"
	MFTransactions RecordType = "fetch_mf_transactions"
)

// RecordTypes returns the fixed list of record types, in fetch order.
func RecordTypes() []RecordType {
	return []RecordType{NetWorth, CreditReport, EPFDetails, MFTransactions}
}

// Valid reports whether t is one of RecordTypes.
func (t RecordType) Valid() bool { return slices.Contains(RecordTypes(), t) }

// FetchError is the marker stored in a Profile in place of a record that could not be fetched.
type FetchError struct {
	Type  RecordType
	Cause error // possibly nil, when decoded from JSON
}

func (e *FetchError) Error() string { return "fetch failed for " + string(e.Type) }
func (e *FetchError) Unwrap() error { return e.Cause }

// MarshalJSON encodes the marker as {"error":"fetch failed for <recordType>"}, the cause is not exposed.
func (e *FetchError) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("error", e.Error())
	return w.MarshalJSON()
}

// Record is the outcome of fetching one record type: either Data or Err is set.
type Record struct {
	Data json.RawMessage // the record as returned by the backend, verbatim.
	Err  *FetchError
}

// OK reports whether the record was fetched.
func (r Record) OK() bool { return r.Err == nil }

// Profile aggregates the records fetched for one persona.
//
// A Profile built by the aggregator has exactly one entry per requested record
// type, whether the fetch succeeded or not.
type Profile struct {
	records map[RecordType]Record
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{records: make(map[RecordType]Record)}
}

// Set stores a successfully fetched record. data must be valid JSON.
func (p *Profile) Set(t RecordType, data json.RawMessage) {
	p.records[t] = Record{Data: slices.Clone(data)}
}

// SetError stores the error marker for t.
func (p *Profile) SetError(t RecordType, cause error) {
	p.records[t] = Record{Err: &FetchError{Type: t, Cause: cause}}
}

// Record returns the entry for t.
func (p *Profile) Record(t RecordType) (Record, bool) {
	if p == nil {
		return Record{}, false
	}
	r, ok := p.records[t]
	return r, ok
}

// Len returns the number of entries, successful or not.
func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.records)
}

// Types returns the record types present in the profile, known types first in
// fetch order, then any other type sorted by name.
func (p *Profile) Types() []RecordType {
	if p == nil {
		return nil
	}
	var types []RecordType
	for _, t := range RecordTypes() {
		if _, ok := p.records[t]; ok {
			types = append(types, t)
		}
	}
	others := slices.Sorted(maps.Keys(p.records))
	for _, t := range others {
		if !t.Valid() {
			types = append(types, t)
		}
	}
	return types
}

// Failed returns the record types that hold an error marker.
func (p *Profile) Failed() []RecordType {
	var failed []RecordType
	for _, t := range p.Types() {
		if !p.records[t].OK() {
			failed = append(failed, t)
		}
	}
	return failed
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := NewProfile()
	for t, r := range p.records {
		if r.Err != nil {
			e := *r.Err
			c.records[t] = Record{Err: &e}
			continue
		}
		c.records[t] = Record{Data: slices.Clone(r.Data)}
	}
	return c
}

// MarshalJSON encodes the profile as an object keyed by record type, in the Types order.
func (p *Profile) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, t := range p.Types() {
		r := p.records[t]
		if r.Err != nil {
			w.Append(string(t), r.Err)
			continue
		}
		w.AppendRaw(string(t), r.Data)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a profile encoded by MarshalJSON. An entry whose only
// member is a string "error" is decoded as an error marker.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[RecordType]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("could not decode profile json: %w", err)
	}
	p.records = make(map[RecordType]Record, len(raw))
	for t, v := range raw {
		if isErrorMarker(v) {
			p.records[t] = Record{Err: &FetchError{Type: t}}
			continue
		}
		p.records[t] = Record{Data: bytes.Clone(v)}
	}
	return nil
}

func isErrorMarker(v json.RawMessage) bool {
	var marker map[string]json.RawMessage
	if err := json.Unmarshal(v, &marker); err != nil || len(marker) != 1 {
		return false
	}
	var msg string
	return json.Unmarshal(marker["error"], &msg) == nil && msg != ""
}
