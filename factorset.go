// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"log/slog"
)

// FactorSet is an ordered collection of factors that represents a network:
// the joint distribution (or the expected utility) is the product of all its
// factors. Operations that modify a FactorSet replace factors and never
// modify them in place, so a Copy can be queried independently of the
// original.
//
// Errors do not stop a computation. An operation that fails (for instance
// because a merged factor would exceed the MaxFactorSize limit) records an
// error and leaves the set unchanged; the following operations on an errored
// set are no-ops. Use Errored or Err to check the status.
type FactorSet struct {
	errstate
	cat     *Catalog
	factors []*Factor
	cfg     *configs
	stats   Stats
}

// NewFactorSet returns an empty factor set over the variables of cat. It
// accepts configuration options: Logger, MaxFactorSize and InteractionOrder.
func NewFactorSet(cat *Catalog, options ...func(*configs)) *FactorSet {
	cfg := makeconfigs()
	for _, f := range options {
		f(cfg)
	}
	return &FactorSet{cat: cat, cfg: cfg}
}

// Catalog returns the catalog of fs.
func (fs *FactorSet) Catalog() *Catalog {
	return fs.cat
}

// Stats returns the statistics accumulated by fs.
func (fs *FactorSet) Stats() Stats {
	return fs.stats
}

// Add appends factors to fs. Nil factors are ignored.
func (fs *FactorSet) Add(factors ...*Factor) {
	for _, f := range factors {
		if f != nil {
			fs.factors = append(fs.factors, f)
		}
	}
}

// Factors returns the factors of fs, in order.
func (fs *FactorSet) Factors() []*Factor {
	return append([]*Factor(nil), fs.factors...)
}

// Len returns the number of factors in fs.
func (fs *FactorSet) Len() int {
	return len(fs.factors)
}

// IsEmpty reports whether fs has no factor.
func (fs *FactorSet) IsEmpty() bool {
	return len(fs.factors) == 0
}

// Copy returns an independent copy of fs with the same configuration.
// Factors are immutable and are shared.
func (fs *FactorSet) Copy() *FactorSet {
	res := &FactorSet{
		errstate: fs.errstate,
		cat:      fs.cat,
		cfg:      fs.cfg,
		stats:    fs.stats,
	}
	res.factors = append([]*Factor(nil), fs.factors...)
	return res
}

// Merge returns the product of all the factors of fs, in order. The result
// for an empty set is an empty factor (no variable and no value). It returns
// nil if the product is too large.
func (fs *FactorSet) Merge() *Factor {
	if len(fs.factors) == 0 {
		return NewFactor(fs.cat.NewVarSet(), fs.cat.NewVarSet())
	}
	return fs.merge(fs.factors, "merge")
}

// merge computes the product of a non-empty list of factors, checking the
// size limit first.
func (fs *FactorSet) merge(list []*Factor, context string) *Factor {
	if fs.cfg.maxsize > 0 {
		vs := fs.cat.NewVarSet()
		for _, f := range list {
			vs = vs.Union(f.vars)
		}
		if vs.Size() > fs.cfg.maxsize {
			fs.seterror(ErrFactorTooLarge, "%s over %s (%d instances, limit %d)", context, vs, vs.Size(), fs.cfg.maxsize)
			return nil
		}
	}
	res := list[0]
	for _, f := range list[1:] {
		res = res.Merge(f)
		fs.stats.merged(res)
	}
	return res
}

// AllVariables returns the union of the variables and heads of the factors
// of fs. The head is included so that the utility variable, which never
// indexes a table, is a member of the result.
func (fs *FactorSet) AllVariables() VarSet {
	res := fs.cat.NewVarSet()
	for _, f := range fs.factors {
		res = res.Union(f.vars).Union(f.head)
	}
	return res
}

// Ancestors returns the variables that id depends on. The parents of id are
// the tail of the first factor whose head is exactly {id}; the result is the
// union of the parents and of their own ancestors.
func (fs *FactorSet) Ancestors(id VarID) VarSet {
	return fs.ancestors(id, make(map[VarID]bool))
}

func (fs *FactorSet) ancestors(id VarID, visiting map[VarID]bool) VarSet {
	res := fs.cat.NewVarSet()
	if visiting[id] {
		return res
	}
	visiting[id] = true
	defer delete(visiting, id)
	for _, f := range fs.factors {
		if f.head.Len() != 1 || !f.head.Contains(id) {
			continue
		}
		res = f.Tail()
		for _, p := range f.Tail().ids {
			res = res.Union(fs.ancestors(p, visiting))
		}
		return res
	}
	return res
}

// LeafVariables returns the variables of fs that are not in the tail of any
// factor.
func (fs *FactorSet) LeafVariables() VarSet {
	tails := fs.cat.NewVarSet()
	for _, f := range fs.factors {
		tails = tails.Union(f.Tail())
	}
	return fs.AllVariables().Difference(tails)
}

// EliminateVariables sums out the variables of vs, one at a time and in the
// order of vs. For each variable we merge, in order, the factors that mention
// it, sum it out of the product and append the result at the end of fs.
// Factors with role Decision are left untouched.
func (fs *FactorSet) EliminateVariables(vs VarSet) {
	fs.eliminate(vs, false)
}

// MaximizeVariables maximizes out the variables of vs, one at a time and in
// the order of vs, like EliminateVariables. Every factor mentioning the
// variable takes part in the product, and the resulting factors record the
// states that reach the maximum (see Factor.Trace).
func (fs *FactorSet) MaximizeVariables(vs VarSet) {
	fs.eliminate(vs, true)
}

func (fs *FactorSet) eliminate(vs VarSet, maximize bool) {
	for _, id := range vs.ids {
		if fs.Errored() {
			return
		}
		var selected, others []*Factor
		for _, f := range fs.factors {
			if f.vars.Contains(id) && (maximize || f.role != Decision) {
				selected = append(selected, f)
			} else {
				others = append(others, f)
			}
		}
		if len(selected) == 0 {
			continue
		}
		prod := fs.merge(selected, "eliminate "+fs.cat.Name(id))
		if prod == nil {
			return
		}
		var res *Factor
		if maximize {
			res = prod.MaximizeVar(id)
			fs.stats.Maximizations++
		} else {
			res = prod.EliminateVar(id)
			fs.stats.Eliminations++
		}
		fs.factors = append(others, res)
		fs.cfg.logger.Debug("eliminate",
			slog.String("var", fs.cat.Name(id)),
			slog.Bool("max", maximize),
			slog.Int("merged", len(selected)),
			slog.Int("size", res.Size()),
			slog.Int("factors", len(fs.factors)))
	}
}

// RemoveByHead deletes the factors whose head shares a variable with vs.
func (fs *FactorSet) RemoveByHead(vs VarSet) {
	n := len(fs.factors)
	fs.factors = fs.filter(func(f *Factor) bool {
		return !f.head.ContainsAny(vs)
	})
	fs.stats.Pruned += n - len(fs.factors)
}

// PruneLeafFactors removes, until a fixed point is reached, the factors
// whose head contains a leaf variable and no protected variable. A leaf that
// is neither observed nor queried has no influence on the result and can be
// summed out by just forgetting its factor. Factors without head are never
// removed.
func (fs *FactorSet) PruneLeafFactors(protected VarSet) {
	for {
		leaves := fs.LeafVariables()
		n := len(fs.factors)
		fs.factors = fs.filter(func(f *Factor) bool {
			return f.head.IsEmpty() || f.head.ContainsAny(protected) || !leaves.ContainsAny(f.head)
		})
		if len(fs.factors) == n {
			return
		}
		fs.stats.Pruned += n - len(fs.factors)
		fs.cfg.logger.Debug("prune", slog.Int("removed", n-len(fs.factors)))
	}
}

// PruneEdges restricts the factors that are conditioned on an observed
// variable. Every factor whose tail intersects the evidence is replaced by
// its restriction (one PruneEdge per observed variable of its tail, in the
// order of the clause). The restricted factors are moved to the front of fs;
// the other factors keep their relative order.
func (fs *FactorSet) PruneEdges(evidence Clause) {
	var pruned, others []*Factor
	for _, f := range fs.factors {
		tail := f.Tail()
		if !tail.ContainsAny(evidence.vars) {
			others = append(others, f)
			continue
		}
		for _, id := range evidence.vars.ids {
			if tail.Contains(id) {
				f = f.PruneEdge(id, evidence.State(id))
				fs.stats.Restrictions++
			}
		}
		pruned = append(pruned, f)
	}
	fs.factors = append(pruned, others...)
}

// ApplyClause restricts every factor that mentions an observed variable to
// the instances that agree with the evidence. Factors keep their position;
// restrictions that leave a factor without variables and without value are
// dropped.
func (fs *FactorSet) ApplyClause(evidence Clause) {
	res := fs.factors[:0:0]
	for _, f := range fs.factors {
		if f.vars.ContainsAny(evidence.vars) {
			f = f.ApplyClause(evidence)
			fs.stats.Restrictions++
			if f.IsEmpty() {
				continue
			}
		}
		res = append(res, f)
	}
	fs.factors = res
}

func (fs *FactorSet) filter(keep func(*Factor) bool) []*Factor {
	var res []*Factor
	for _, f := range fs.factors {
		if keep(f) {
			res = append(res, f)
		}
	}
	return res
}

// remove deletes the k-th factor of fs, keeping the order of the others.
func (fs *FactorSet) remove(k int) {
	fs.factors = append(fs.factors[:k:k], fs.factors[k+1:]...)
}

// firstByHead returns the position of the first factor whose head contains
// id, or -1.
func (fs *FactorSet) firstByHead(id VarID) int {
	for k, f := range fs.factors {
		if f.head.Contains(id) {
			return k
		}
	}
	return -1
}
