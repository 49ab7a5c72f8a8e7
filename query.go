// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

// Result is the answer to an MPE or MAP query.
type Result struct {
	// Factor is the product of the factors left at the end of the query. It
	// has no variable when every variable has been eliminated or observed.
	Factor *Factor
	// Value is the (unnormalized) probability of the best assignment.
	Value float64
	// Assignment gives the state of the maximized variables followed by the
	// evidence.
	Assignment Clause
}

// MPE computes the Most Probable Explanation of the evidence: the assignment
// of all the unobserved variables with the highest joint probability. The
// query is computed on a copy of fs; only the statistics of fs are updated.
func (fs *FactorSet) MPE(evidence Clause) (Result, error) {
	evidence.vars = evidence.vars.with(fs.cat)
	work := fs.Copy()
	work.PruneEdges(evidence)
	work.ApplyClause(evidence)
	work.MaximizeVariables(work.order(work.AllVariables().Difference(evidence.vars)))
	return fs.result(work, evidence)
}

// MAP computes the Maximum A Posteriori assignment of the query variables
// given the evidence. The variables that are neither queried nor observed are
// summed out first; the query variables are then maximized. The query is
// computed on a copy of fs.
func (fs *FactorSet) MAP(query VarSet, evidence Clause) (Result, error) {
	evidence.vars = evidence.vars.with(fs.cat)
	work := fs.Copy()
	elim := work.AllVariables().Difference(query)
	work.PruneLeafFactors(query.Union(evidence.vars))
	work.PruneEdges(evidence)
	work.ApplyClause(evidence)
	work.EliminateVariables(work.order(elim))
	work.MaximizeVariables(work.order(query))
	return fs.result(work, evidence)
}

// Posterior returns the distribution of the query variables given the
// evidence, as a normalized factor over the query variables. The query is
// computed on a copy of fs.
func (fs *FactorSet) Posterior(query VarSet, evidence Clause) (*Factor, error) {
	evidence.vars = evidence.vars.with(fs.cat)
	work := fs.Copy()
	work.ApplyClause(evidence)
	work.EliminateVariables(work.order(work.AllVariables().Difference(query).Difference(evidence.vars)))
	f := work.Merge()
	fs.stats = work.stats
	if work.Errored() {
		return nil, work.Err()
	}
	return f.Normalize(), nil
}

func (fs *FactorSet) result(work *FactorSet, evidence Clause) (Result, error) {
	f := work.Merge()
	fs.stats = work.stats
	if work.Errored() {
		return Result{}, work.Err()
	}
	tr := f.Trace(0)
	return Result{
		Factor:     f,
		Value:      f.Get(0),
		Assignment: AppendClauses(tr.vars.Union(evidence.vars), tr, evidence),
	}, nil
}

// order returns the variables of vs in the order used for elimination. With
// the InteractionOrder option, the members of vs that are vertices of the
// interaction graph of fs come first, in elimination order.
func (fs *FactorSet) order(vs VarSet) VarSet {
	if !fs.cfg.interaction {
		return vs
	}
	return vs.Intersect(NewInteractionGraph(fs).EliminationOrder()).Union(vs)
}
