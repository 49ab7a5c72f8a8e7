// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package session

import (
	"encoding/json"
	"fmt"

	"github.com/dalzilio/dvn"
	"github.com/dalzilio/dvn/internal/netdef"
)

// Operations supported in the "op" field of a request.
const (
	OpMPE      = "MPE"
	OpMAP      = "MAP"
	OpDecision = "DECISION"
)

// Request is a self-contained query: the variables, the factors, the query
// variables, the evidence and the operation.
type Request struct {
	VarDb        []netdef.Variable `json:"VarDb"`
	FactorSet    []netdef.Factor   `json:"FactorSet"`
	QueryVarSet  []string          `json:"QueryVarSet,omitempty"`
	SampleClause *Sample           `json:"SampleClause,omitempty"`
	Op           string            `json:"op"`
}

// Sample is the evidence of a request. The states of the variables in
// VarSet are given, in order, by Values; or the variables listed in Raised
// (or On) are in state 1 and the others in state 0.
type Sample struct {
	VarSet []string     `json:"varset"`
	Values []StateValue `json:"values,omitempty"`
	Raised []string     `json:"raised,omitempty"`
	On     []string     `json:"on,omitempty"`
}

// StateValue is the state of a variable in a sample: an index, a boolean or
// the label of a state.
type StateValue struct {
	Index int
	Label string
}

func (s *StateValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = StateValue{}
		if b {
			s.Index = 1
		}
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*s = StateValue{Label: label}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("sample value %s: %w", data, err)
	}
	*s = StateValue{Index: int(f)}
	return nil
}

func (s StateValue) MarshalJSON() ([]byte, error) {
	if s.Label != "" {
		return json.Marshal(s.Label)
	}
	return json.Marshal(s.Index)
}

// network returns the network definition of the request.
func (r *Request) network() *netdef.Network {
	return &netdef.Network{Variables: r.VarDb, Factors: r.FactorSet}
}

// query returns the query variables of r.
func (r *Request) query(cat *dvn.Catalog) (dvn.VarSet, error) {
	return cat.VarSetOf(r.QueryVarSet...)
}

// evidence returns the clause of the sample of r, the empty clause if there
// is none. Names in Raised or On that are not in VarSet are ignored, like
// surplus values.
func (r *Request) evidence(cat *dvn.Catalog) (dvn.Clause, error) {
	if r.SampleClause == nil {
		return dvn.NewClause(cat.NewVarSet()), nil
	}
	vs, err := cat.VarSetOf(r.SampleClause.VarSet...)
	if err != nil {
		return dvn.Clause{}, err
	}
	c := dvn.NewClause(vs)
	ids := vs.IDs()
	for k, v := range r.SampleClause.Values {
		if k >= len(ids) {
			break
		}
		state := v.Index
		if v.Label != "" {
			if state = cat.StateIndex(ids[k], v.Label); state < 0 {
				return dvn.Clause{}, fmt.Errorf("variable %s has no state %q", cat.Name(ids[k]), v.Label)
			}
		}
		c.Set(ids[k], state)
	}
	for _, names := range [][]string{r.SampleClause.Raised, r.SampleClause.On} {
		for _, name := range names {
			c.Set(cat.Lookup(name), 1)
		}
	}
	return c, nil
}
