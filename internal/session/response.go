// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package session

import (
	"github.com/dalzilio/dvn"
)

// Error messages of the query protocol.
const (
	ErrParse       = "parse error"
	ErrNoVars      = "No Vars"
	ErrNoOperation = "No operation"
	ErrUnsupported = "Unsupported operation"
)

// Response is the answer to a request. Exactly one of Error, MPE, MAP or
// Decision is set.
type Response struct {
	ID       string            `json:"id"`
	Error    string            `json:"error,omitempty"`
	MPE      *FactorJSON       `json:"mpe,omitempty"`
	MAP      *FactorJSON       `json:"map,omitempty"`
	Clause   map[string]string `json:"clause,omitempty"`
	Decision map[string]string `json:"decision,omitempty"`
	Value    *float64          `json:"value,omitempty"`
	Policy   []PolicyJSON      `json:"policy,omitempty"`

	op    string
	stats dvn.Stats
}

// Failed reports whether r is an error response.
func (r Response) Failed() bool {
	return r.Error != ""
}

// Op returns the operation of the request, empty if it could not be read.
func (r Response) Op() string {
	return r.op
}

// Stats returns the statistics of the computation.
func (r Response) Stats() dvn.Stats {
	return r.stats
}

// Total returns the sum of the statistics of a list of responses; the
// largest factor is the maximum over the list.
func Total(res []Response) dvn.Stats {
	var total dvn.Stats
	for _, r := range res {
		total = total.Add(r.stats)
	}
	return total
}

// FactorJSON is the JSON form of a factor: its variables, the maximized
// variables, the table and, for every instance, the states of the maximized
// variables.
type FactorJSON struct {
	VarSet  []string            `json:"varset"`
	ExtSet  []string            `json:"extset"`
	Vals    []float64           `json:"vals"`
	ExtVals []map[string]string `json:"extvals,omitempty"`
}

// PolicyJSON describes a decision function.
type PolicyJSON struct {
	Decision string   `json:"decision"`
	Observed []string `json:"observed"`
}

func factorJSON(f *dvn.Factor) *FactorJSON {
	res := &FactorJSON{
		VarSet: f.Vars().Names(),
		ExtSet: f.Extended().Names(),
		Vals:   f.Values(),
	}
	if f.HasTrace() {
		for k := 0; k < f.Size(); k++ {
			res.ExtVals = append(res.ExtVals, clauseJSON(f.Trace(k)))
		}
	}
	return res
}

// clauseJSON maps every variable of c to the label of its state.
func clauseJSON(c dvn.Clause) map[string]string {
	vs := c.VarSet()
	cat := vs.Catalog()
	res := make(map[string]string, vs.Len())
	for _, a := range c.Assignments() {
		res[cat.Name(a.Var)] = cat.StateName(a.Var, a.State)
	}
	return res
}

func policyJSON(p *dvn.Policy) []PolicyJSON {
	var res []PolicyJSON
	for _, df := range p.Functions() {
		cat := df.Factor().Vars().Catalog()
		res = append(res, PolicyJSON{
			Decision: cat.Name(df.Var()),
			Observed: df.Factor().Vars().Names(),
		})
	}
	return res
}
