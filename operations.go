// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

// walker enumerates the instances of a target VarSet, in increasing order,
// and maintains the instance id of the same assignment in a list of operand
// sets. Variables of the target that are missing from an operand do not
// contribute to its instance id.
type walker struct {
	radix   Radix
	digits  []int
	strides [][]int
	idx     []int
}

func newWalker(target VarSet, operands ...VarSet) *walker {
	w := &walker{
		radix:   target.radix,
		digits:  make([]int, target.Len()),
		strides: make([][]int, len(operands)),
		idx:     make([]int, len(operands)),
	}
	for j, o := range operands {
		w.strides[j] = make([]int, target.Len())
		for k, id := range target.ids {
			w.strides[j][k] = o.Multiplier(id)
		}
	}
	return w
}

// next moves to the following instance of the target. It returns false, and
// goes back to instance 0, after the last one.
func (w *walker) next() bool {
	for k := range w.digits {
		w.digits[k]++
		for j := range w.idx {
			w.idx[j] += w.strides[j][k]
		}
		if w.digits[k] < w.radix.Dim(k) {
			return true
		}
		for j := range w.idx {
			w.idx[j] -= w.strides[j][k] * w.digits[k]
		}
		w.digits[k] = 0
	}
	return false
}

// Merge returns the pointwise product of f and g, over the union of their
// variables. A variable is in the head of the result if it is in the head of
// one operand and in the tail of none. The traces of the operands, if any,
// are joined.
func (f *Factor) Merge(g *Factor) *Factor {
	vars := f.vars.Union(g.vars)
	head := f.head.Union(g.head).Difference(f.Tail()).Difference(g.Tail())
	role := Normal
	if f.role == Utility || g.role == Utility {
		role = Utility
	}
	res := newFactor(vars, head, role)
	res.ext = f.ext.Union(g.ext).with(vars.cat)
	traced := f.trace != nil || g.trace != nil
	if traced {
		res.trace = make([]*Trace, len(res.values))
	}
	w := newWalker(vars, f.vars, g.vars)
	for i := range res.values {
		a, b := w.idx[0], w.idx[1]
		res.Set(i, f.Get(a)*g.Get(b))
		if traced {
			res.trace[i] = joinTraces(f.traceAt(a), g.traceAt(b))
		}
		w.next()
	}
	return res
}

func (f *Factor) traceAt(instance int) *Trace {
	if f.trace == nil {
		return nil
	}
	return f.trace[instance]
}

// EliminateVar sums variable id out of f. The result is f itself when id is
// not a variable of f. The trace of f is not kept in the result.
func (f *Factor) EliminateVar(id VarID) *Factor {
	k := f.vars.Offset(id)
	if k < 0 {
		return f
	}
	vars := f.vars.Without(id)
	res := newFactor(vars, f.head.Without(id), f.role)
	mult, dim := f.vars.radix.Mult(k), f.vars.radix.Dim(k)
	w := newWalker(vars, f.vars)
	for i := range res.values {
		sum := 0.0
		for s := 0; s < dim; s++ {
			sum += f.Get(w.idx[0] + s*mult)
		}
		res.Set(i, sum)
		w.next()
	}
	return res
}

// Eliminate sums out every variable of vs, in the order of vs.
func (f *Factor) Eliminate(vs VarSet) *Factor {
	res := f
	for _, id := range vs.ids {
		res = res.EliminateVar(id)
	}
	return res
}

// MaximizeVar maximizes variable id out of f. For every instance of the
// result we keep the largest value among the states of id and record the
// winning state in the trace. States are visited in increasing order and a
// value greater or equal to the current maximum replaces it, so ties go to
// the highest state. The result is f itself when id is not a variable of f.
func (f *Factor) MaximizeVar(id VarID) *Factor {
	k := f.vars.Offset(id)
	if k < 0 {
		return f
	}
	vars := f.vars.Without(id)
	res := newFactor(vars, f.head.Without(id), f.role)
	res.ext = f.ext.with(f.vars.cat)
	res.ext.Add(id)
	res.trace = make([]*Trace, len(res.values))
	mult, dim := f.vars.radix.Mult(k), f.vars.radix.Dim(k)
	w := newWalker(vars, f.vars)
	for i := range res.values {
		best, bests, besti := 0.0, 0, w.idx[0]
		for s := 0; s < dim; s++ {
			j := w.idx[0] + s*mult
			if v := f.Get(j); s == 0 || v >= best {
				best, bests, besti = v, s, j
			}
		}
		res.Set(i, best)
		res.trace[i] = f.traceAt(besti).step(id, bests)
		w.next()
	}
	return res
}

// Maximize maximizes out every variable of vs, in the order of vs.
func (f *Factor) Maximize(vs VarSet) *Factor {
	res := f
	for _, id := range vs.ids {
		res = res.MaximizeVar(id)
	}
	return res
}

// ApplyClause restricts f to the instances that agree with the evidence c.
// The result is over the variables of f that are not assigned by c. Absent
// instances stay absent and traces are kept.
func (f *Factor) ApplyClause(c Clause) *Factor {
	vars := f.vars.Difference(c.vars)
	res := newFactor(vars, f.head.Difference(c.vars), f.role)
	res.ext = f.ext
	if f.trace != nil {
		res.trace = make([]*Trace, len(res.values))
	}
	base := 0
	for k, id := range f.vars.ids {
		if s := c.State(id); s > 0 {
			base += s * f.vars.radix.Mult(k)
		}
	}
	w := newWalker(vars, f.vars)
	for i := range res.values {
		j := base + w.idx[0]
		if f.present[j] {
			res.Set(i, f.values[j])
		}
		if f.trace != nil {
			res.trace[i] = f.trace[j]
		}
		w.next()
	}
	return res
}

// PruneEdge restricts f to the instances where variable id is in the given
// state. It is ApplyClause for a single assignment.
func (f *Factor) PruneEdge(id VarID, state int) *Factor {
	if !f.vars.Contains(id) {
		return f
	}
	return f.ApplyClause(ClauseOf(f.vars.cat, Assignment{Var: id, State: state}))
}

// Normalize returns a copy of f where, for every assignment of the tail, the
// values of the head instances sum to 1. Rows that sum to 0 are left
// unchanged. A factor without head is normalized as a whole.
func (f *Factor) Normalize() *Factor {
	head := f.ownHead()
	if head.IsEmpty() {
		head = f.vars
	}
	res := newFactor(f.vars, f.head, f.role)
	res.ext, res.trace = f.ext, f.trace
	tw := newWalker(f.vars.Difference(head), f.vars)
	for {
		sum := 0.0
		hw := newWalker(head, f.vars)
		for {
			sum += f.Get(tw.idx[0] + hw.idx[0])
			if !hw.next() {
				break
			}
		}
		if sum == 0 {
			sum = 1
		}
		for {
			k := tw.idx[0] + hw.idx[0]
			res.Set(k, f.Get(k)/sum)
			if !hw.next() {
				break
			}
		}
		if !tw.next() {
			break
		}
	}
	return res
}
