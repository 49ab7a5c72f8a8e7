// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"strings"
)

// Assignment is a (variable, state) pair.
type Assignment struct {
	Var   VarID
	State int
}

// Clause is an assignment of a state to every variable of a VarSet. The
// instance id of a clause is only meaningful with respect to its own VarSet;
// use Project to translate it to another set.
//
// Clauses are values but a plain copy shares its states with the original.
// Use Copy before mutating a copy with Set, Increment or Decrement.
type Clause struct {
	vars     VarSet
	states   []int // indexed by position in vars
	instance int
}

// NewClause returns the clause over vs where every variable is in state 0.
func NewClause(vs VarSet) Clause {
	return Clause{vars: vs, states: make([]int, vs.Len())}
}

// ClauseAt returns the clause over vs with the given instance id. Out of
// range instances are reduced modulo the size of vs.
func ClauseAt(vs VarSet, instance int) Clause {
	instance %= vs.Size()
	if instance < 0 {
		instance += vs.Size()
	}
	return Clause{
		vars:     vs,
		states:   vs.radix.Decode(instance, nil),
		instance: instance,
	}
}

// ClauseFromStates returns the clause over vs taking the state of each
// variable id from dense[id]. Variables beyond the end of dense are in state
// 0.
func ClauseFromStates(vs VarSet, dense []int) Clause {
	c := NewClause(vs)
	for k, id := range vs.ids {
		if int(id) < len(dense) {
			c.setpos(k, dense[id])
		}
	}
	return c
}

// ClauseOf returns the clause defined by a list of assignments. The VarSet of
// the result follows the order of the list.
func ClauseOf(cat *Catalog, pairs ...Assignment) Clause {
	vs := cat.NewVarSet()
	for _, p := range pairs {
		vs.Add(p.Var)
	}
	c := NewClause(vs)
	for _, p := range pairs {
		c.Set(p.Var, p.State)
	}
	return c
}

// VarSet returns the variables of c.
func (c Clause) VarSet() VarSet {
	return c.vars
}

// Instance returns the instance id of c in the addressing of its VarSet.
func (c Clause) Instance() int {
	return c.instance
}

// Has reports whether id is assigned by c.
func (c Clause) Has(id VarID) bool {
	return c.vars.Contains(id)
}

// State returns the state of id in c, or -1 if id is not a member of the
// clause.
func (c Clause) State(id VarID) int {
	k := c.vars.Offset(id)
	if k < 0 {
		return -1
	}
	return c.states[k]
}

// Set changes the state of id. It is a no-op when id is not in the clause.
// States are taken modulo the domain of the variable.
func (c *Clause) Set(id VarID, state int) {
	k := c.vars.Offset(id)
	if k < 0 {
		return
	}
	c.setpos(k, state)
}

func (c *Clause) setpos(k int, state int) {
	d := c.vars.radix.Dim(k)
	state %= d
	if state < 0 {
		state += d
	}
	c.instance += (state - c.states[k]) * c.vars.radix.Mult(k)
	c.states[k] = state
}

// Increment moves c to the next instance of its VarSet and returns true when
// it wraps around to instance 0.
func (c *Clause) Increment() bool {
	for k := range c.states {
		if c.states[k]+1 < c.vars.radix.Dim(k) {
			c.states[k]++
			c.instance += c.vars.radix.Mult(k)
			return false
		}
		c.instance -= c.states[k] * c.vars.radix.Mult(k)
		c.states[k] = 0
	}
	return true
}

// Decrement moves c to the previous instance of its VarSet and returns true
// when it wraps around to the last instance.
func (c *Clause) Decrement() bool {
	for k := range c.states {
		if c.states[k] > 0 {
			c.states[k]--
			c.instance -= c.vars.radix.Mult(k)
			return false
		}
		c.states[k] = c.vars.radix.Dim(k) - 1
		c.instance += c.states[k] * c.vars.radix.Mult(k)
	}
	return true
}

// Project returns the instance id, in the addressing of target, of the
// clause that agrees with c on their common variables and assigns state 0 to
// the others.
func (c Clause) Project(target VarSet) int {
	id := 0
	for k, v := range target.ids {
		if s := c.State(v); s > 0 {
			id += s * target.radix.Mult(k)
		}
	}
	return id
}

// With returns a copy of c extended with the assignment (id, state). If id
// is already a member its state is replaced.
func (c Clause) With(id VarID, state int) Clause {
	vs := c.vars
	vs.Add(id)
	res := NewClause(vs)
	for k, s := range c.states {
		res.setpos(k, s)
	}
	res.Set(id, state)
	return res
}

// Copy returns an independent copy of c.
func (c Clause) Copy() Clause {
	c.states = append([]int(nil), c.states...)
	return c
}

// AppendClauses returns the clause over target where each variable takes
// its state from a when a assigns it, otherwise from b. Variables in neither
// are in state 0. Callers use it with disjoint clauses.
func AppendClauses(target VarSet, a, b Clause) Clause {
	res := NewClause(target)
	for k, id := range target.ids {
		if s := a.State(id); s >= 0 {
			res.setpos(k, s)
		} else if s := b.State(id); s >= 0 {
			res.setpos(k, s)
		}
	}
	return res
}

// Assignments returns the (variable, state) pairs of c, in the order of its
// VarSet.
func (c Clause) Assignments() []Assignment {
	res := make([]Assignment, len(c.states))
	for k, id := range c.vars.ids {
		res[k] = Assignment{Var: id, State: c.states[k]}
	}
	return res
}

func (c Clause) String() string {
	if c.vars.cat == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for k, id := range c.vars.ids {
		if k > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", c.vars.cat.Name(id), c.vars.cat.StateName(id, c.states[k]))
	}
	sb.WriteString("]")
	return sb.String()
}
