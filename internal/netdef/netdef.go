// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package netdef reads network definitions, in YAML or JSON, and builds the
// corresponding factor sets.
//
// A network lists its variables, with their states and role, and its
// factors. Factor values are given in instance order (the first variable of
// the factor is the least significant); the string "fin" marks the end of a
// table and completes the missing conditional probabilities:
//
//	variables:
//	  - name: Rain
//	  - name: Sprinkler
//	    states: [off, on]
//	factors:
//	  - vars: [Rain]
//	    head: [Rain]
//	    values: [0.8, fin]
package netdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dalzilio/dvn"
)

// ErrInvalidNetwork is returned when a network definition is not consistent.
var ErrInvalidNetwork = errors.New("invalid network")

// Format is the syntax of a network definition.
type Format int

const (
	YAML Format = iota
	JSON
)

// Network is the definition of a Bayesian or decision network.
type Network struct {
	Variables []Variable `json:"variables" yaml:"variables" validate:"required,min=1,dive"`
	Factors   []Factor   `json:"factors" yaml:"factors" validate:"dive"`
}

// Variable declares a variable. A variable without states is boolean, with
// states "0" and "1".
type Variable struct {
	Name   string   `json:"name" yaml:"name" validate:"required"`
	States []string `json:"states,omitempty" yaml:"states,omitempty" validate:"omitempty,min=2,unique,dive,required"`
	Role   dvn.Role `json:"role,omitempty" yaml:"role,omitempty"`
}

// UnmarshalJSON accepts a plain name as a shorthand for a boolean chance
// variable.
func (v *Variable) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*v = Variable{Name: name}
		return nil
	}
	type plain Variable
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = Variable(p)
	return nil
}

// UnmarshalYAML accepts a plain name as a shorthand for a boolean chance
// variable.
func (v *Variable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = Variable{Name: node.Value}
		return nil
	}
	type plain Variable
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*v = Variable(p)
	return nil
}

// Factor declares a factor. The role is optional: a factor whose head is a
// single decision (or utility) variable gets the role of its head.
type Factor struct {
	Vars   []string `json:"vars" yaml:"vars" validate:"required,min=1,unique,dive,required"`
	Head   []string `json:"head,omitempty" yaml:"head,omitempty" validate:"unique,dive,required"`
	Role   dvn.Role `json:"type,omitempty" yaml:"role,omitempty"`
	Values []Value  `json:"vals,omitempty" yaml:"values,omitempty"`
}

// Value is an entry in the table of a factor: a number, or the end-of-table
// marker "fin".
type Value struct {
	V   float64
	Fin bool
}

const finMarker = "fin"

// Fin returns the end-of-table marker.
func Fin() Value {
	return Value{Fin: true}
}

// Num returns a numeric value.
func Num(v float64) Value {
	return Value{V: v}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Fin {
		return json.Marshal(finMarker)
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return v.parse(s)
	}
	v.Fin = false
	return json.Unmarshal(data, &v.V)
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.Fin {
		return finMarker, nil
	}
	return v.V, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: factor value must be a number or %q", node.Line, finMarker)
	}
	return v.parse(node.Value)
}

func (v *Value) parse(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), finMarker) {
		*v = Fin()
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("factor value %q: %w", s, err)
	}
	*v = Num(f)
	return nil
}

var validate = validator.New()

// Parse reads a network definition.
func Parse(data []byte, format Format) (*Network, error) {
	var n Network
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &n)
	default:
		err = yaml.Unmarshal(data, &n)
	}
	if err != nil {
		return nil, fmt.Errorf("parse network: %w", err)
	}
	return &n, nil
}

// Load reads a network definition from a file. Files with extension .json
// are read as JSON, all the others as YAML.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	format := YAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = JSON
	}
	return Parse(data, format)
}

// Validate checks the structure of n: required fields, duplicate names and
// references to undeclared variables.
func (n *Network) Validate() error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}
	declared := make(map[string]bool, len(n.Variables))
	for _, v := range n.Variables {
		if declared[v.Name] {
			return fmt.Errorf("%w: variable %q declared twice", ErrInvalidNetwork, v.Name)
		}
		declared[v.Name] = true
	}
	for k, f := range n.Factors {
		for _, name := range append(append([]string(nil), f.Vars...), f.Head...) {
			if !declared[name] {
				return fmt.Errorf("%w: factor %d: %w %q", ErrInvalidNetwork, k, dvn.ErrUnknownVariable, name)
			}
		}
	}
	return nil
}

// Catalog builds the catalog of the variables of n.
func (n *Network) Catalog() (*dvn.Catalog, error) {
	cat := dvn.NewCatalog()
	for _, v := range n.Variables {
		cat.AddVariable(v.Name, v.States, v.Role)
	}
	if cat.Errored() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, cat.Err())
	}
	return cat, nil
}

// Build validates n and returns its factor set. Options are passed to
// dvn.NewFactorSet.
func (n *Network) Build(options ...dvn.Option) (*dvn.FactorSet, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	cat, err := n.Catalog()
	if err != nil {
		return nil, err
	}
	fs := dvn.NewFactorSet(cat, options...)
	for k, fd := range n.Factors {
		f, err := fd.build(cat)
		if err != nil {
			return nil, fmt.Errorf("%w: factor %d: %w", ErrInvalidNetwork, k, err)
		}
		fs.Add(f)
	}
	return fs, nil
}

func (fd Factor) build(cat *dvn.Catalog) (*dvn.Factor, error) {
	vars, err := cat.VarSetOf(fd.Vars...)
	if err != nil {
		return nil, err
	}
	head, err := cat.VarSetOf(fd.Head...)
	if err != nil {
		return nil, err
	}
	role := fd.Role
	if role == dvn.Normal && head.Len() == 1 {
		role = cat.RoleOf(head.First())
	}
	f := dvn.NewFactor(vars, head).WithRole(role)
	count := 0
	loader := f.Loader()
	for _, v := range fd.Values {
		if v.Fin {
			loader.Fin()
			continue
		}
		count++
		loader.Append(v.V)
	}
	if count > f.Size() {
		return nil, fmt.Errorf("%d values for %d instances", count, f.Size())
	}
	return f, nil
}

// Definition returns the network definition of a factor set, the inverse of
// Build. Absent instances are written as 0.
func Definition(fs *dvn.FactorSet) *Network {
	cat := fs.Catalog()
	n := &Network{}
	for _, id := range cat.AllVariables().IDs() {
		v, _ := cat.Variable(id)
		nv := Variable{Name: v.Name, Role: v.Role}
		if !isBoolean(v.States) {
			nv.States = v.States
		}
		n.Variables = append(n.Variables, nv)
	}
	for _, f := range fs.Factors() {
		fd := Factor{Vars: f.Vars().Names(), Head: f.Head().Names(), Role: f.Role()}
		for _, v := range f.Values() {
			fd.Values = append(fd.Values, Num(v))
		}
		n.Factors = append(n.Factors, fd)
	}
	return n
}

func isBoolean(states []string) bool {
	return len(states) == 2 && states[0] == "0" && states[1] == "1"
}
