// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"log/slog"
	"sort"
)

// DecisionFunction is the optimal rule for one decision variable. It is a
// utility factor where the decision has been maximized out: for every
// instance of its variables (the observations available when the decision is
// taken) the factor holds the expected utility of the best choice, and its
// trace holds the choice itself.
type DecisionFunction struct {
	factor   *Factor
	decision VarID
}

// Var returns the decision variable.
func (df DecisionFunction) Var() VarID {
	return df.decision
}

// Factor returns the maximized utility factor.
func (df DecisionFunction) Factor() *Factor {
	return df.factor
}

// Decision returns the best state of the decision for the given instance of
// the factor variables, or -1 if the instance is out of range.
func (df DecisionFunction) Decision(instance int) int {
	if df.factor.trace == nil || instance < 0 || instance >= df.factor.Size() {
		return -1
	}
	return df.factor.trace[instance].State(df.decision)
}

// Value returns the expected utility for the given instance.
func (df DecisionFunction) Value(instance int) float64 {
	return df.factor.Get(instance)
}

// Policy is the list of decision functions of a decision network, from the
// last decision to the first.
type Policy struct {
	functions []DecisionFunction
}

// Functions returns the decision functions of p.
func (p *Policy) Functions() []DecisionFunction {
	return append([]DecisionFunction(nil), p.functions...)
}

// Len returns the number of decision functions in p.
func (p *Policy) Len() int {
	return len(p.functions)
}

// IsEmpty reports whether p has no decision function.
func (p *Policy) IsEmpty() bool {
	return len(p.functions) == 0
}

// Resolve computes the decisions for a sample of observations. We repeatedly
// look for a decision function whose variables are all known and whose
// decision is not yet known; we apply it and add the decision to the known
// variables, until no function can be applied. A decision already given in
// the sample is kept as is. The result is the clause of
// the decisions taken, in order, with the expected utility computed by the
// last function applied (0 if none).
func (p *Policy) Resolve(sample Clause) (Clause, float64) {
	var cat *Catalog
	if len(p.functions) > 0 {
		cat = p.functions[0].factor.vars.cat
	}
	known := sample.Copy()
	known.vars = known.vars.with(cat)
	res := NewClause(VarSet{cat: cat})
	value := 0.0
	for progress := true; progress; {
		progress = false
		for _, df := range p.functions {
			if known.Has(df.decision) || !known.vars.ContainsAll(df.factor.vars) {
				continue
			}
			instance := known.Project(df.factor.vars)
			d := df.Decision(instance)
			if d < 0 {
				continue
			}
			value = df.Value(instance)
			res = res.With(df.decision, d)
			known = known.With(df.decision, d)
			progress = true
		}
	}
	return res, value
}

// SolveDecisionPolicy computes the optimal policy of an influence diagram.
// The factor set must hold exactly one utility variable (the head of the
// utility factors), decision factors (role Decision, with the decision as
// single head) and the conditional probabilities of the chance variables.
//
// Factors that do not influence the utility are removed first. Decisions are
// then solved from the last to the first: all the variables that are not
// observed by a decision are summed out, the decision is maximized out of the
// utility factor, and the result becomes the utility factor for the earlier
// decisions.
//
// The set is consumed by the computation; use a Copy to keep the network.
func (fs *FactorSet) SolveDecisionPolicy() (*Policy, error) {
	policy := &Policy{}
	utilities := fs.cat.Filter(fs.AllVariables(), Utility)
	if utilities.Len() != 1 {
		return policy, fmt.Errorf("%w: found %d", ErrUtilityCount, utilities.Len())
	}
	u := utilities.First()
	fs.RemoveByHead(fs.AllVariables().Difference(fs.Ancestors(u)).Without(u))

	decisions, err := fs.decisionOrder()
	if err != nil {
		return policy, err
	}
	for k := len(decisions) - 1; k >= 0; k-- {
		d := decisions[k]
		retain := fs.cat.NewVarSet()
		for _, f := range fs.factors {
			if f.head.Len() == 1 && fs.cat.RoleOf(f.head.First()) == Decision {
				retain = retain.Union(f.vars).Union(f.head)
			}
		}
		fs.EliminateVariables(fs.AllVariables().Difference(retain))
		if fs.Errored() {
			return policy, fs.Err()
		}
		if j := fs.firstByHead(u); j >= 0 {
			res := fs.factors[j].MaximizeVar(d)
			fs.stats.Maximizations++
			policy.functions = append(policy.functions, DecisionFunction{factor: res, decision: d})
			fs.remove(j)
			fs.factors = append(fs.factors, res.EraseTrace())
			fs.cfg.logger.Debug("decision",
				slog.String("var", fs.cat.Name(d)),
				slog.String("observed", res.vars.String()))
		}
		if j := fs.firstByHead(d); j >= 0 {
			fs.remove(j)
		}
	}
	return policy, nil
}

// decisionOrder returns the decision variables of fs, from the first to the
// last. A decision precedes another when it is one of its ancestors; we
// return ErrDecisionOrder when the decisions do not form a chain.
func (fs *FactorSet) decisionOrder() ([]VarID, error) {
	var decisions []VarID
	for _, f := range fs.factors {
		if f.head.Len() == 1 && fs.cat.RoleOf(f.head.First()) == Decision {
			decisions = append(decisions, f.head.First())
		}
	}
	ancestors := make(map[VarID]VarSet, len(decisions))
	for _, d := range decisions {
		ancestors[d] = fs.cat.Filter(fs.Ancestors(d), Decision)
	}
	sort.SliceStable(decisions, func(i, j int) bool {
		return ancestors[decisions[i]].Len() < ancestors[decisions[j]].Len()
	})
	for k := 1; k < len(decisions); k++ {
		prev, next := decisions[k-1], decisions[k]
		if ancestors[prev].Len() == ancestors[next].Len() || !ancestors[next].Contains(prev) {
			return nil, fmt.Errorf("%w: %s and %s", ErrDecisionOrder, fs.cat.Name(prev), fs.cat.Name(next))
		}
	}
	return decisions, nil
}
