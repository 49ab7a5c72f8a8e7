// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

// rainAB returns the factors P(A) and P(B | A) of the rain network.
func rainAB() (*Catalog, VarID, VarID, *Factor, *Factor) {
	cat := NewCatalog()
	a, b := cat.Add("A"), cat.Add("B")
	fa := NewFactor(vset(cat, a), vset(cat, a)).Load(0.4, 0.6)
	fb := NewFactor(vset(cat, a, b), vset(cat, b)).Load(0.25, 0.8, 0.75, 0.2)
	return cat, a, b, fa, fb
}

func TestFactorAccess(t *testing.T) {
	cat, a, b, _, fb := rainAB()
	assert.Equal(t, 4, fb.Size())
	assert.Equal(t, Normal, fb.Role())
	assert.Equal(t, []VarID{b}, fb.Head().IDs())
	assert.Equal(t, []VarID{a}, fb.Tail().IDs())
	assert.Equal(t, 0.75, fb.Get(2))
	assert.Equal(t, 0.0, fb.Get(4), "out of range")
	assert.False(t, fb.Has(-1))

	f := NewFactor(vset(cat, a, b), vset(cat, b))
	f.Loader().Append(0.1).Skip(2).Append(0.3)
	assert.Equal(t, []bool{true, false, false, true}, []bool{f.Has(0), f.Has(1), f.Has(2), f.Has(3)})
	assert.Equal(t, []float64{0.1, 0, 0, 0.3}, f.Values())
	f.Set(7, 1)
	assert.Equal(t, 4, f.Size())

	u := NewUtilityFactor(vset(cat, a), b)
	assert.Equal(t, Utility, u.Role())
	assert.Equal(t, []VarID{a}, u.Tail().IDs(), "the utility variable does not index the table")
	assert.Equal(t, 2, u.Size())
}

//****************************************************************************

func TestMerge(t *testing.T) {
	cat, a, b, fa, fb := rainAB()
	m := fa.Merge(fb)
	assert.Equal(t, []VarID{a, b}, m.Vars().IDs())
	assert.Equal(t, []VarID{b}, m.Head().IDs(), "A is in the tail of P(B | A)")
	assert.InDeltaSlice(t, []float64{0.1, 0.48, 0.3, 0.12}, m.Values(), delta)

	// merging is commutative up to the order of the variables
	r := fb.Merge(fa)
	require.True(t, m.Vars().Equal(r.Vars()))
	for i := 0; i < m.Size(); i++ {
		j := ClauseAt(m.Vars(), i).Project(r.Vars())
		assert.InDelta(t, m.Get(i), r.Get(j), delta)
	}

	c := cat.Add("C")
	fc := NewFactor(vset(cat, c), vset(cat, c)).Load(0.5, 0.5)
	mc := fc.Merge(fb)
	assert.Equal(t, []VarID{c, a, b}, mc.Vars().IDs())
	assert.ElementsMatch(t, []VarID{c, b}, mc.Head().IDs())

	u := NewUtilityFactor(vset(cat, a), c).Load(10, 20)
	assert.Equal(t, Utility, u.Merge(fa).Role())

	absent := NewFactor(vset(cat, a), cat.NewVarSet()).Load(1)
	assert.Equal(t, []float64{0.4, 0}, absent.Merge(fa).Values(), "absent instances read as 0")
}

func TestEliminate(t *testing.T) {
	_, a, b, fa, fb := rainAB()
	m := fa.Merge(fb)

	pb := m.EliminateVar(a)
	assert.Equal(t, []VarID{b}, pb.Vars().IDs())
	assert.Equal(t, []VarID{b}, pb.Head().IDs())
	assert.InDeltaSlice(t, []float64{0.58, 0.42}, pb.Values(), delta)

	pa := m.EliminateVar(b)
	assert.InDeltaSlice(t, []float64{0.4, 0.6}, pa.Values(), delta)
	assert.True(t, pa.Head().IsEmpty())

	assert.Same(t, pb, pb.EliminateVar(a), "eliminating a missing variable")

	all := m.Eliminate(m.Vars())
	assert.True(t, all.Vars().IsEmpty())
	assert.InDelta(t, 1.0, all.Get(0), delta)

	// summing out a variable of a single operand commutes with the product
	assert.InDeltaSlice(t, m.EliminateVar(b).Values(), fa.Merge(fb.EliminateVar(b)).Values(), delta)

	// the order of elimination does not matter
	assert.InDelta(t, m.EliminateVar(a).EliminateVar(b).Get(0), m.EliminateVar(b).EliminateVar(a).Get(0), delta)
}

func TestMaximize(t *testing.T) {
	cat, a, b, _, fb := rainAB()
	m := fb.MaximizeVar(b)
	assert.Equal(t, []VarID{a}, m.Vars().IDs())
	assert.Equal(t, []VarID{b}, m.Extended().IDs())
	assert.InDeltaSlice(t, []float64{0.75, 0.8}, m.Values(), delta)
	require.True(t, m.HasTrace())
	assert.Equal(t, 1, m.Trace(0).State(b))
	assert.Equal(t, 0, m.Trace(1).State(b))

	mm := m.MaximizeVar(a)
	assert.InDelta(t, 0.8, mm.Get(0), delta)
	assert.Equal(t, []Assignment{{b, 0}, {a, 1}}, mm.Trace(0).Assignments())

	tie := NewFactor(vset(cat, a), vset(cat, a)).Load(0.5, 0.5).MaximizeVar(a)
	assert.Equal(t, 1, tie.Trace(0).State(a), "ties go to the highest state")

	assert.Same(t, m, m.MaximizeVar(b))
	assert.False(t, m.EraseTrace().HasTrace())
	assert.True(t, m.EraseTrace().Extended().IsEmpty())
	assert.True(t, m.HasTrace(), "EraseTrace returns a copy")

	// sums drop the trace, restrictions keep it
	assert.False(t, m.EliminateVar(a).HasTrace())
	r := m.ApplyClause(clause(cat, int(a), 1))
	assert.True(t, r.HasTrace())
	assert.Equal(t, 0, r.Trace(0).State(b))
}

func TestTraceJoin(t *testing.T) {
	cat := NewCatalog()
	a, b, c := cat.Add("A"), cat.Add("B"), cat.Add("C")
	f := NewFactor(vset(cat, a, b), cat.NewVarSet()).Load(1, 2, 3, 4).MaximizeVar(a)
	g := NewFactor(vset(cat, b, c), cat.NewVarSet()).Load(4, 3, 2, 1).MaximizeVar(c)
	m := f.Merge(g)
	assert.ElementsMatch(t, []VarID{a, c}, m.Extended().IDs())
	// B=0: f gives 2 with A=1, g gives 4 with C=0
	tr := m.Trace(0)
	assert.Equal(t, 1, tr.State(a))
	assert.Equal(t, 0, tr.State(c))
	assert.InDeltaSlice(t, []float64{8, 12}, m.Values(), delta)
	assert.Equal(t, -1, (*Trace)(nil).State(a))
}

//****************************************************************************

func TestApplyClause(t *testing.T) {
	cat, a, b, fa, fb := rainAB()

	tests := []struct {
		name     string
		f        *Factor
		evidence Clause
		vars     []VarID
		values   []float64
	}{
		{"tail", fb, clause(cat, int(a), 1), []VarID{b}, []float64{0.8, 0.2}},
		{"head", fb, clause(cat, int(b), 0), []VarID{a}, []float64{0.25, 0.8}},
		{"both", fb, clause(cat, int(b), 1, int(a), 0), nil, []float64{0.75}},
		{"unrelated", fa, clause(cat, int(b), 1), []VarID{a}, []float64{0.4, 0.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.f.ApplyClause(tt.evidence)
			assert.Equal(t, tt.vars, r.Vars().IDs())
			assert.InDeltaSlice(t, tt.values, r.Values(), delta)
			assert.False(t, r.Head().ContainsAny(tt.evidence.VarSet()))
		})
	}

	assert.InDeltaSlice(t, []float64{0.25, 0.75}, fb.PruneEdge(a, 0).Values(), delta)
	assert.Same(t, fa, fa.PruneEdge(b, 0))

	empty := NewFactor(vset(cat, a), vset(cat, a)).ApplyClause(clause(cat, int(a), 0))
	assert.True(t, empty.IsEmpty())
	assert.False(t, fa.ApplyClause(clause(cat, int(a), 0)).IsEmpty())
}

func TestNormalize(t *testing.T) {
	cat, a, b, _, _ := rainAB()
	tests := []struct {
		name     string
		f        *Factor
		expected []float64
	}{
		{"rows", NewFactor(vset(cat, a, b), vset(cat, b)).Load(1, 2, 3, 2), []float64{0.25, 0.5, 0.75, 0.5}},
		{"no head", NewFactor(vset(cat, a), cat.NewVarSet()).Load(1, 3), []float64{0.25, 0.75}},
		{"zero row", NewFactor(vset(cat, a, b), vset(cat, b)).Load(0, 1, 0, 3), []float64{0, 0.25, 0, 0.75}},
		{"tail head", NewFactor(vset(cat, a, b), vset(cat, a)).Load(1, 3, 2, 2), []float64{0.25, 0.75, 0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.f.Normalize()
			assert.InDeltaSlice(t, tt.expected, n.Values(), delta)
			assert.True(t, n.Head().Equal(tt.f.Head()))
		})
	}
}

func TestCompleteProbabilities(t *testing.T) {
	cat := NewCatalog()
	a := cat.Add("A")
	l := cat.AddVariable("L", []string{"low", "mid", "high"}, Normal)

	f := NewFactor(vset(cat, a, l), vset(cat, l))
	f.Set(0, 0.2)
	f.Set(2, 0.3)
	f.CompleteProbabilities()
	// A=0: the first gap (L=high) receives the remainder
	assert.InDelta(t, 0.5, f.Get(4), delta)
	// A=1: nothing is known, L=low gets everything, the other gaps stay absent
	assert.InDelta(t, 1.0, f.Get(1), delta)
	assert.False(t, f.Has(3))
	assert.False(t, f.Has(5))

	full := NewFactor(vset(cat, a), vset(cat, a)).Loader().Append(0.7, 0.3).Fin()
	assert.Equal(t, []float64{0.7, 0.3}, full.Values())

	over := NewFactor(vset(cat, a, l), vset(cat, l)).Loader().Append(0.6, 0.5, 0.6, 0.5).Fin()
	assert.False(t, over.Has(4), "no completion when the row sums to 1 or more")
	assert.InDelta(t, 0.0, over.Get(5), delta)
}

func TestFactorPrint(t *testing.T) {
	cat, a, _, _, fb := rainAB()
	var sb strings.Builder
	require.NoError(t, fb.Fprint(&sb))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "head {B}")
	assert.Contains(t, lines[1], "value")

	m := fb.MaximizeVar(a)
	sb.Reset()
	require.NoError(t, m.Fprint(&sb))
	assert.Contains(t, sb.String(), "trace")
	assert.Contains(t, sb.String(), "[A=1]")

	partial := NewFactor(vset(cat, a), vset(cat, a)).Load(0.5)
	sb.Reset()
	require.NoError(t, partial.Fprint(&sb))
	assert.Contains(t, sb.String(), "-")
}

func BenchmarkMerge(b *testing.B) {
	fs := newJoints()
	factors := fs.Factors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := factors[0]
		for _, f := range factors[1:12] {
			res = res.Merge(f)
		}
	}
}
