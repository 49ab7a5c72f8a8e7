// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

// Trace records the states chosen for the variables maximized out of a
// factor. A trace is immutable and is shared between the factors derived from
// one another. A nil *Trace is the empty trace.
//
// There are two kinds of nodes: a step extends a trace with one (variable,
// state) pair, as done by MaximizeVar; a join is the union of the traces of
// the two operands of a Merge.
type Trace struct {
	kind  traceKind
	v     VarID
	state int
	left  *Trace // previous trace for a step, left operand for a join
	right *Trace
}

type traceKind uint8

const (
	traceStep traceKind = iota
	traceJoin
)

func (t *Trace) step(v VarID, state int) *Trace {
	return &Trace{kind: traceStep, v: v, state: state, left: t}
}

func joinTraces(a, b *Trace) *Trace {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &Trace{kind: traceJoin, left: a, right: b}
}

// State returns the state recorded for v, or -1. When a variable appears
// more than once the most recent step wins.
func (t *Trace) State(v VarID) int {
	for t != nil {
		switch t.kind {
		case traceStep:
			if t.v == v {
				return t.state
			}
			t = t.left
		case traceJoin:
			if s := t.left.State(v); s >= 0 {
				return s
			}
			t = t.right
		}
	}
	return -1
}

// Assignments returns the recorded pairs, most recent first, without
// duplicates.
func (t *Trace) Assignments() []Assignment {
	var res []Assignment
	seen := make(map[VarID]bool)
	var walk func(*Trace)
	walk = func(t *Trace) {
		for t != nil {
			if t.kind == traceJoin {
				walk(t.left)
				t = t.right
				continue
			}
			if !seen[t.v] {
				seen[t.v] = true
				res = append(res, Assignment{Var: t.v, State: t.state})
			}
			t = t.left
		}
	}
	walk(t)
	return res
}
