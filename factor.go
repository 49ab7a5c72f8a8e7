// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

// Factor is a table of values indexed by the instances of a VarSet. The head
// of a factor is the subset of its variables that the table is a
// distribution of; the other variables (the tail) are the conditioning
// variables. For example the conditional probability P(B | A) is a factor over
// {A, B} with head {B}.
//
// Every instance is either absent, which reads as 0, or holds a value. A
// factor is only modified while it is built (Set, Load, Loader,
// CompleteProbabilities); all the other operations return a new factor and
// factors can be shared freely afterwards.
type Factor struct {
	vars    VarSet
	head    VarSet
	role    Role
	values  []float64
	present []bool
	ext     VarSet   // variables recorded in trace
	trace   []*Trace // one per instance, nil if no variable was maximized
}

// NewFactor returns a factor over vars, with all its instances absent. The
// head is usually a subset of vars; utility factors are the exception (see
// NewUtilityFactor).
func NewFactor(vars, head VarSet) *Factor {
	return newFactor(vars, head, Normal)
}

// NewUtilityFactor returns a utility factor over vars. The head of a utility
// factor is the utility variable itself, which is not a member of vars.
func NewUtilityFactor(vars VarSet, utility VarID) *Factor {
	head := VarSet{cat: vars.cat}
	head.Add(utility)
	return newFactor(vars, head, Utility)
}

func newFactor(vars, head VarSet, role Role) *Factor {
	n := vars.Size()
	return &Factor{
		vars:    vars,
		head:    head.with(vars.cat),
		role:    role,
		ext:     VarSet{cat: vars.cat},
		values:  make([]float64, n),
		present: make([]bool, n),
	}
}

// WithRole sets the role of f and returns it. Decision factors are kept out of
// the sum-out steps of FactorSet.EliminateVariables.
func (f *Factor) WithRole(r Role) *Factor {
	f.role = r
	return f
}

// Role returns the role of f.
func (f *Factor) Role() Role {
	return f.role
}

// Vars returns the variables of f.
func (f *Factor) Vars() VarSet {
	return f.vars
}

// Head returns the head variables of f.
func (f *Factor) Head() VarSet {
	return f.head
}

// Tail returns the variables of f that are not in its head.
func (f *Factor) Tail() VarSet {
	return f.vars.Difference(f.head)
}

// ownHead returns the head variables that index the table of f.
func (f *Factor) ownHead() VarSet {
	return f.vars.Intersect(f.head)
}

// Size returns the number of instances of f.
func (f *Factor) Size() int {
	return len(f.values)
}

// Set stores value v for the given instance. Out of range instances are
// ignored.
func (f *Factor) Set(instance int, v float64) {
	if instance < 0 || instance >= len(f.values) {
		return
	}
	f.values[instance] = v
	f.present[instance] = true
}

// Get returns the value of the given instance, or 0 if the instance is absent
// or out of range.
func (f *Factor) Get(instance int) float64 {
	if !f.Has(instance) {
		return 0
	}
	return f.values[instance]
}

// Has reports whether the given instance holds a value.
func (f *Factor) Has(instance int) bool {
	return instance >= 0 && instance < len(f.values) && f.present[instance]
}

// Values returns a copy of the table of f; absent instances are 0.
func (f *Factor) Values() []float64 {
	res := make([]float64, len(f.values))
	for k := range f.values {
		res[k] = f.Get(k)
	}
	return res
}

// IsEmpty reports whether f has no variable and no value.
func (f *Factor) IsEmpty() bool {
	if !f.vars.IsEmpty() {
		return false
	}
	for _, p := range f.present {
		if p {
			return false
		}
	}
	return true
}

// Extended returns the set of variables recorded in the trace of f.
func (f *Factor) Extended() VarSet {
	return f.ext
}

// HasTrace reports whether f records maximized variables.
func (f *Factor) HasTrace() bool {
	return f.trace != nil
}

// Trace returns the assignment of the maximized variables that produced the
// value of the given instance, as a clause over Extended().
func (f *Factor) Trace(instance int) Clause {
	c := NewClause(f.ext)
	if f.trace == nil || instance < 0 || instance >= len(f.trace) {
		return c
	}
	t := f.trace[instance]
	for _, id := range f.ext.ids {
		if s := t.State(id); s >= 0 {
			c.Set(id, s)
		}
	}
	return c
}

// EraseTrace returns a copy of f without the record of maximized variables.
func (f *Factor) EraseTrace() *Factor {
	res := f.shallow()
	res.ext = VarSet{cat: f.vars.cat}
	res.trace = nil
	return res
}

// shallow returns a copy of f that shares its tables.
func (f *Factor) shallow() *Factor {
	res := *f
	return &res
}

// Load appends values to f, starting from instance 0, and returns f. It is a
// shorthand for f.Loader().Append(vals...).
func (f *Factor) Load(vals ...float64) *Factor {
	f.Loader().Append(vals...)
	return f
}

// Loader returns a sequential loader for f. Values are stored in instance
// order, starting from 0.
func (f *Factor) Loader() *Loader {
	return &Loader{f: f}
}

// Loader fills the table of a factor in instance order.
type Loader struct {
	f    *Factor
	next int
}

// Append stores the next values of the table.
func (l *Loader) Append(vals ...float64) *Loader {
	for _, v := range vals {
		l.f.Set(l.next, v)
		l.next++
	}
	return l
}

// Skip leaves the next n instances absent.
func (l *Loader) Skip(n int) *Loader {
	l.next += n
	return l
}

// Fin is the end-of-table marker. It completes the conditional probabilities
// of the factor (see Factor.CompleteProbabilities).
func (l *Loader) Fin() *Factor {
	return l.f.CompleteProbabilities()
}

// Factor returns the factor being loaded.
func (l *Loader) Factor() *Factor {
	return l.f
}

// CompleteProbabilities fills missing conditional probabilities. For every
// assignment of the tail we sum the values of the head instances that are
// present. When the sum is less than 1 and some instance is absent, the first
// absent instance receives 1 - sum. Only the first gap is filled; the other
// absent instances (if any) stay absent. It returns f.
func (f *Factor) CompleteProbabilities() *Factor {
	head := f.ownHead()
	tw := newWalker(f.Tail(), f.vars)
	for {
		sum := 0.0
		gap := -1
		hw := newWalker(head, f.vars)
		for {
			k := tw.idx[0] + hw.idx[0]
			if f.present[k] {
				sum += f.values[k]
			} else if gap < 0 {
				gap = k
			}
			if !hw.next() {
				break
			}
		}
		if sum < 1 && gap >= 0 {
			f.Set(gap, 1-sum)
		}
		if !tw.next() {
			break
		}
	}
	return f
}
