// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"log"
)

// VarID is the identity of a variable in a Catalog. Identities are positive;
// the zero value is used as a sentinel for "no variable".
type VarID int

// Variable is an entry of a Catalog. A variable has an ordered list of states
// (at least two) that never changes after its creation.
type Variable struct {
	ID     VarID
	Name   string
	Role   Role
	States []string
}

// Domain returns the number of states of v.
func (v Variable) Domain() int {
	return len(v.States)
}

// Catalog stores the variables of a network. Identities are assigned densely,
// starting from 1, in insertion order.
type Catalog struct {
	errstate
	vars   []Variable
	byname map[string]VarID
}

var booleanStates = []string{"0", "1"}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byname: make(map[string]VarID)}
}

// AddVariable registers a variable and returns its identity. When a variable
// with the same name already exists we return its identity and ignore the
// other parameters. A nil or empty list of states means a boolean variable,
// with states "0" and "1". A single-state domain is an error: we return 0 and
// record the error in the catalog.
func (c *Catalog) AddVariable(name string, states []string, role Role) VarID {
	if id, ok := c.byname[name]; ok {
		return id
	}
	switch len(states) {
	case 0:
		states = booleanStates
	case 1:
		c.seterror(ErrDomain, "variable %q", name)
		return 0
	}
	id := VarID(len(c.vars) + 1)
	c.vars = append(c.vars, Variable{
		ID:     id,
		Name:   name,
		Role:   role,
		States: append([]string(nil), states...),
	})
	c.byname[name] = id
	if _LOGLEVEL > 0 {
		log.Printf("variable %s (%d) with %d states\n", name, id, len(states))
	}
	return id
}

// Add registers a boolean variable with role Normal.
func (c *Catalog) Add(name string) VarID {
	return c.AddVariable(name, nil, Normal)
}

// Len returns the number of variables in the catalog.
func (c *Catalog) Len() int {
	return len(c.vars)
}

// Lookup returns the identity of a variable, or 0 if there is no variable
// with this name.
func (c *Catalog) Lookup(name string) VarID {
	return c.byname[name]
}

// MustLookup is like Lookup but returns an error wrapping ErrUnknownVariable
// for unknown names.
func (c *Catalog) MustLookup(name string) (VarID, error) {
	id, ok := c.byname[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownVariable, name)
	}
	return id, nil
}

func (c *Catalog) valid(id VarID) bool {
	return id > 0 && int(id) <= len(c.vars)
}

// Variable returns the record of variable id.
func (c *Catalog) Variable(id VarID) (Variable, bool) {
	if !c.valid(id) {
		return Variable{}, false
	}
	return c.vars[id-1], true
}

// Name returns the name of variable id, or the empty string if id is not
// valid.
func (c *Catalog) Name(id VarID) string {
	if !c.valid(id) {
		return ""
	}
	return c.vars[id-1].Name
}

// Domain returns the number of states of variable id (0 if id is not valid).
func (c *Catalog) Domain(id VarID) int {
	if !c.valid(id) {
		return 0
	}
	return len(c.vars[id-1].States)
}

// RoleOf returns the role of variable id; invalid identities are Normal.
func (c *Catalog) RoleOf(id VarID) Role {
	if !c.valid(id) {
		return Normal
	}
	return c.vars[id-1].Role
}

// StateName returns the label of state s of variable id.
func (c *Catalog) StateName(id VarID, s int) string {
	if !c.valid(id) {
		return ""
	}
	st := c.vars[id-1].States
	if s < 0 || s >= len(st) {
		return ""
	}
	return st[s]
}

// StateIndex returns the index of the state with the given label, or -1.
func (c *Catalog) StateIndex(id VarID, label string) int {
	if !c.valid(id) {
		return -1
	}
	for k, s := range c.vars[id-1].States {
		if s == label {
			return k
		}
	}
	return -1
}

// AllVariables returns the set of all the variables in the catalog, in
// identity order.
func (c *Catalog) AllVariables() VarSet {
	vs := c.NewVarSet()
	for k := range c.vars {
		vs.Add(VarID(k + 1))
	}
	return vs
}

// Filter returns the members of vs with the given role, in the order of vs.
func (c *Catalog) Filter(vs VarSet, role Role) VarSet {
	res := c.NewVarSet()
	for _, id := range vs.ids {
		if c.RoleOf(id) == role {
			res.Add(id)
		}
	}
	return res
}

// NewVarSet returns a set with the given variables, in this order.
// Duplicates are ignored.
func (c *Catalog) NewVarSet(ids ...VarID) VarSet {
	vs := VarSet{cat: c}
	for _, id := range ids {
		vs.Add(id)
	}
	return vs
}

// VarSetOf returns the set of variables with the given names, in this order.
func (c *Catalog) VarSetOf(names ...string) (VarSet, error) {
	vs := VarSet{cat: c}
	for _, n := range names {
		id, err := c.MustLookup(n)
		if err != nil {
			return VarSet{}, err
		}
		vs.Add(id)
	}
	return vs, nil
}
