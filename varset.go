// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"strings"
)

// VarSet is an ordered set of variables. The order of insertion defines the
// mixed-radix addressing of the instances of the set: the first variable is
// the least significant. The zero value is an empty set; it must be obtained
// from a Catalog (NewVarSet) before adding variables.
//
// VarSet has value semantics. Set operations return new sets and never share
// their storage with the operands.
type VarSet struct {
	cat   *Catalog
	ids   []VarID
	radix Radix
}

// Catalog returns the catalog associated with vs (possibly nil for an empty
// zero value).
func (vs VarSet) Catalog() *Catalog {
	return vs.cat
}

// Add appends variable id to vs if it is not already a member. It panics if
// id is not a variable of the catalog.
func (vs *VarSet) Add(id VarID) {
	if vs.cat == nil || !vs.cat.valid(id) {
		panic(fmt.Sprintf("dvn: invalid variable %d in VarSet.Add", id))
	}
	if vs.Contains(id) {
		return
	}
	n := len(vs.ids)
	vs.ids = append(vs.ids[:n:n], id)
	vs.radix = vs.radix.clone()
	vs.radix.push(vs.cat.Domain(id))
}

func (vs VarSet) with(cat *Catalog) VarSet {
	if vs.cat == nil {
		vs.cat = cat
	}
	return vs
}

// Size returns the number of instances of vs, the product of the domains of
// its members. The size of the empty set is 1.
func (vs VarSet) Size() int {
	return vs.radix.Size()
}

// Len returns the number of variables in vs.
func (vs VarSet) Len() int {
	return len(vs.ids)
}

// IsEmpty reports whether vs has no variable.
func (vs VarSet) IsEmpty() bool {
	return len(vs.ids) == 0
}

// Radix returns the mixed-radix codec of vs.
func (vs VarSet) Radix() Radix {
	return vs.radix
}

// IDs returns a copy of the members of vs, in order.
func (vs VarSet) IDs() []VarID {
	return append([]VarID(nil), vs.ids...)
}

// Offset returns the position of id in vs, or -1.
func (vs VarSet) Offset(id VarID) int {
	for k, v := range vs.ids {
		if v == id {
			return k
		}
	}
	return -1
}

// Contains reports whether id is a member of vs.
func (vs VarSet) Contains(id VarID) bool {
	return vs.Offset(id) >= 0
}

// ContainsAny reports whether vs and o have a common member.
func (vs VarSet) ContainsAny(o VarSet) bool {
	for _, id := range o.ids {
		if vs.Contains(id) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every member of o is in vs.
func (vs VarSet) ContainsAll(o VarSet) bool {
	for _, id := range o.ids {
		if !vs.Contains(id) {
			return false
		}
	}
	return true
}

// First returns the first member of vs, or 0 if vs is empty.
func (vs VarSet) First() VarID {
	if len(vs.ids) == 0 {
		return 0
	}
	return vs.ids[0]
}

// Next returns the member following id in vs, or 0 at the end of the set or
// if id is not a member.
func (vs VarSet) Next(id VarID) VarID {
	k := vs.Offset(id)
	if k < 0 || k+1 >= len(vs.ids) {
		return 0
	}
	return vs.ids[k+1]
}

// Multiplier returns the weight of id in the addressing of vs, or 0 if id is
// not a member.
func (vs VarSet) Multiplier(id VarID) int {
	k := vs.Offset(id)
	if k < 0 {
		return 0
	}
	return vs.radix.Mult(k)
}

// DomainOf returns the number of states of member id, or 0.
func (vs VarSet) DomainOf(id VarID) int {
	k := vs.Offset(id)
	if k < 0 {
		return 0
	}
	return vs.radix.Dim(k)
}

// StateAt returns the state of id in the given instance of vs. It returns -1
// if id is not a member.
func (vs VarSet) StateAt(id VarID, instance int) int {
	k := vs.Offset(id)
	if k < 0 {
		return -1
	}
	return vs.radix.Digit(instance, k)
}

// Equal reports whether vs and o have the same members, in any order.
func (vs VarSet) Equal(o VarSet) bool {
	return len(vs.ids) == len(o.ids) && vs.ContainsAll(o)
}

// Intersect returns the members of o that are also in vs, in the order of o.
func (vs VarSet) Intersect(o VarSet) VarSet {
	res := VarSet{cat: vs.cat}.with(o.cat)
	for _, id := range o.ids {
		if vs.Contains(id) {
			res.Add(id)
		}
	}
	return res
}

// Union returns the members of vs followed by the members of o that are not
// in vs, in the order of o.
func (vs VarSet) Union(o VarSet) VarSet {
	res := VarSet{cat: vs.cat}.with(o.cat)
	for _, id := range vs.ids {
		res.Add(id)
	}
	for _, id := range o.ids {
		res.Add(id)
	}
	return res
}

// Difference returns the members of vs that are not in o, in the order of vs.
func (vs VarSet) Difference(o VarSet) VarSet {
	res := VarSet{cat: vs.cat}.with(o.cat)
	for _, id := range vs.ids {
		if !o.Contains(id) {
			res.Add(id)
		}
	}
	return res
}

// Without returns vs minus variable id.
func (vs VarSet) Without(id VarID) VarSet {
	res := VarSet{cat: vs.cat}
	for _, v := range vs.ids {
		if v != id {
			res.Add(v)
		}
	}
	return res
}

// Names returns the names of the members of vs.
func (vs VarSet) Names() []string {
	res := make([]string, len(vs.ids))
	for k, id := range vs.ids {
		res[k] = vs.cat.Name(id)
	}
	return res
}

func (vs VarSet) String() string {
	if vs.cat == nil {
		return "{}"
	}
	return "{" + strings.Join(vs.Names(), ", ") + "}"
}
