// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"strings"
)

// vset builds a VarSet from a list of identities.
func vset(cat *Catalog, ids ...VarID) VarSet {
	return cat.NewVarSet(ids...)
}

// clause builds a clause from (variable, state) pairs given as a flat list.
func clause(cat *Catalog, pairs ...int) Clause {
	var as []Assignment
	for k := 0; k+1 < len(pairs); k += 2 {
		as = append(as, Assignment{Var: VarID(pairs[k]), State: pairs[k+1]})
	}
	return ClauseOf(cat, as...)
}

//****************************************************************************

// player is the network of a sports player: injury and preparation are
// independent causes of the result of a match. The factors have no head.
type player struct {
	cat          *Catalog
	injury, prep VarID
	result       VarID
	fi, fp, fr   *Factor
}

func newPlayer(pi, pp [2]float64) player {
	cat := NewCatalog()
	p := player{cat: cat}
	p.injury = cat.Add("injury")
	p.prep = cat.Add("prep")
	p.result = cat.Add("result")
	none := cat.NewVarSet()
	p.fi = NewFactor(vset(cat, p.injury), none).Load(pi[0], pi[1])
	p.fp = NewFactor(vset(cat, p.prep), none).Load(pp[0], pp[1])
	p.fr = NewFactor(vset(cat, p.injury, p.prep, p.result), none).
		Load(0.4, 0.9, 0.1, 0.8, 0.6, 0.1, 0.9, 0.2)
	return p
}

func (p player) factorSet(options ...Option) *FactorSet {
	fs := NewFactorSet(p.cat, options...)
	fs.Add(p.fi, p.fp, p.fr)
	return fs
}

//****************************************************************************

// newRain returns the network A -> B, A -> C, (B, C) -> D, C -> E.
func newRain() (*FactorSet, []VarID) {
	cat := NewCatalog()
	var ids []VarID
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, cat.Add(n))
	}
	a, b, c, d, e := ids[0], ids[1], ids[2], ids[3], ids[4]
	fs := NewFactorSet(cat)
	fs.Add(
		NewFactor(vset(cat, a), vset(cat, a)).Load(0.4, 0.6),
		NewFactor(vset(cat, a, b), vset(cat, b)).Load(0.25, 0.8, 0.75, 0.2),
		NewFactor(vset(cat, a, c), vset(cat, c)).Load(0.9, 0.2, 0.1, 0.8),
		NewFactor(vset(cat, b, c, d), vset(cat, d)).Load(1, 0.1, 0.2, 0.05, 0, 0.9, 0.8, 0.95),
		NewFactor(vset(cat, c, e), vset(cat, e)).Load(1, 0.3, 0, 0.7),
	)
	return fs, ids
}

//****************************************************************************

// circuit is a small digital circuit with two inputs (I and J), two gates (X
// and Y) and an output O. Variables are declared in the order J, I, Y, X, O.
type circuit struct {
	fs            *FactorSet
	j, i, y, x, o VarID
}

func newCircuit(options ...Option) circuit {
	cat := NewCatalog()
	c := circuit{}
	c.j, c.i, c.y, c.x, c.o = cat.Add("J"), cat.Add("I"), cat.Add("Y"), cat.Add("X"), cat.Add("O")
	c.fs = NewFactorSet(cat, options...)
	c.fs.Add(
		NewFactor(vset(cat, c.i), vset(cat, c.i)).Load(0.5, 0.5),
		NewFactor(vset(cat, c.j), vset(cat, c.j)).Load(0.5, 0.5),
		NewFactor(vset(cat, c.i, c.j, c.x), vset(cat, c.x)).Load(0.95, 0.95, 0.95, 0.05, 0.05, 0.05, 0.05, 0.95),
		NewFactor(vset(cat, c.j, c.y), vset(cat, c.y)).Load(0.01, 0.99, 0.99, 0.01),
		NewFactor(vset(cat, c.x, c.y, c.o), vset(cat, c.o)).Load(0.98, 0.02, 0.02, 0.02, 0.02, 0.98, 0.98, 0.98),
	)
	return c
}

//****************************************************************************

// security is the fire alarm influence diagram. We check the smoke detector
// (CheckSmoke) after a report, then decide to call the fire department (Call).
// With walking set, Leaving has three states and depends on the smoke.
type security struct {
	fs                                    *FactorSet
	tampering, fire, alarm, smoke         VarID
	leaving, report, checkSmoke, seeSmoke VarID
	call, utility                         VarID
}

func newSecurity(walking bool) security {
	cat := NewCatalog()
	s := security{}
	s.tampering = cat.Add("Tampering")
	s.fire = cat.Add("Fire")
	s.alarm = cat.Add("Alarm")
	s.smoke = cat.Add("Smoke")
	if walking {
		s.leaving = cat.AddVariable("Leaving", []string{"None", "Walking", "Running"}, Normal)
	} else {
		s.leaving = cat.Add("Leaving")
	}
	s.report = cat.Add("Report")
	s.checkSmoke = cat.AddVariable("CheckSmoke", nil, Decision)
	s.seeSmoke = cat.Add("SeeSmoke")
	s.call = cat.AddVariable("Call", nil, Decision)
	s.utility = cat.AddVariable("Utility", nil, Utility)

	fs := NewFactorSet(cat)
	fs.Add(
		NewFactor(vset(cat, s.tampering), vset(cat, s.tampering)).Loader().Append(0.98).Fin(),
		NewFactor(vset(cat, s.fire), vset(cat, s.fire)).Loader().Append(0.99).Fin(),
		NewFactor(vset(cat, s.fire, s.tampering, s.alarm), vset(cat, s.alarm)).
			Load(0.9999, 0.01, 0.15, 0.5, 0.0001, 0.99, 0.85, 0.5),
	)
	if walking {
		fs.Add(
			NewFactor(vset(cat, s.alarm, s.smoke, s.leaving), vset(cat, s.leaving)).Loader().
				Append(0.88, 0.12, 0.5, 0.1, 0.1, 0.6, 0.4, 0.4).Fin(),
			NewFactor(vset(cat, s.leaving, s.report), vset(cat, s.report)).Loader().
				Append(0.99, 0.7, 0.1).Fin(),
		)
	} else {
		fs.Add(
			NewFactor(vset(cat, s.alarm, s.leaving), vset(cat, s.leaving)).Load(0.999, 0.12, 0.001, 0.88),
			NewFactor(vset(cat, s.leaving, s.report), vset(cat, s.report)).Load(0.99, 0.25, 0.01, 0.75),
		)
	}
	fs.Add(
		NewFactor(vset(cat, s.fire, s.smoke), vset(cat, s.smoke)).Load(0.99, 0.1, 0.01, 0.9),
		NewFactor(vset(cat, s.smoke, s.checkSmoke, s.seeSmoke), vset(cat, s.seeSmoke)).Load(1, 1, 1, 0, 0, 0, 0, 1),
		NewFactor(vset(cat, s.report, s.checkSmoke), vset(cat, s.checkSmoke)).WithRole(Decision),
		NewFactor(vset(cat, s.report, s.checkSmoke, s.seeSmoke, s.call), vset(cat, s.call)).WithRole(Decision),
		NewUtilityFactor(vset(cat, s.fire, s.checkSmoke, s.call), s.utility).
			Load(0, -5000, -20, -5020, -200, -200, -220, -220),
	)
	s.fs = fs
	return s
}

//****************************************************************************

var jointTables = map[string][]float64{
	"drlo":  {0.99, 0.7, 0.7, 0.6, 0.7, 0.6, 0.6, 0.55, 0.01, 0.3, 0.3, 0.4, 0.3, 0.4, 0.4, 0.45},
	"drhi":  {0.998, 0.9, 0.9, 0.8, 0.9, 0.7, 0.7, 0.65, 0.002, 0.1, 0.1, 0.2, 0.1, 0.3, 0.3, 0.35},
	"drloa": {0.95, 0.5, 0.5, 0.4, 0.4, 0.4, 0.4, 0.30, 0.05, 0.5, 0.5, 0.6, 0.6, 0.6, 0.6, 0.70},
	"drhia": {0.999, 0.8, 0.7, 0.7, 0.7, 0.6, 0.7, 0.55, 0.001, 0.2, 0.3, 0.3, 0.3, 0.4, 0.3, 0.45},
}

// newJoints returns a network of 45 variables modelling four joints (cj*)
// observed through drill measurements (dr*), with a shared cause cjE.
func newJoints(options ...Option) *FactorSet {
	cat := NewCatalog()
	for n := 1; n <= 4; n++ {
		for _, f := range []string{"cjl%d", "cjl%d_1", "cjl%d_2", "drhi%d_1", "drhi%d_2", "drlo%d_1",
			"drlo%d_2", "drhia%d_1", "drhia%d_2", "drloa%d_1", "drloa%d_2"} {
			cat.Add(fmt.Sprintf(f, n))
		}
	}
	e := cat.Add("cjE")
	fs := NewFactorSet(cat, options...)
	for n := 1; n <= 4; n++ {
		l := cat.Lookup(fmt.Sprintf("cjl%d", n))
		fs.Add(NewFactor(vset(cat, l), vset(cat, l)).Load(0.95, 0.05))
		for k := 1; k <= 2; k++ {
			s := cat.Lookup(fmt.Sprintf("cjl%d_%d", n, k))
			fs.Add(NewFactor(vset(cat, s), vset(cat, s)).Load(0.9, 0.1))
		}
		for _, kind := range []string{"drlo", "drhi", "drloa", "drhia"} {
			for k := 1; k <= 2; k++ {
				s := cat.Lookup(fmt.Sprintf("cjl%d_%d", n, k))
				h := cat.Lookup(fmt.Sprintf("%s%d_%d", kind, n, k))
				fs.Add(NewFactor(vset(cat, l, s, e, h), vset(cat, h)).Load(jointTables[kind]...))
			}
		}
	}
	fs.Add(NewFactor(vset(cat, e), vset(cat, e)).Load(0.92, 0.08))
	return fs
}

// jointsEvidence observes every drill measurement: all are low except for
// three measurements on the third joint.
func jointsEvidence(cat *Catalog) Clause {
	vs := cat.NewVarSet()
	for _, id := range cat.AllVariables().IDs() {
		if !strings.HasPrefix(cat.Name(id), "cj") {
			vs.Add(id)
		}
	}
	c := NewClause(vs)
	for _, n := range []string{"drhi3_1", "drlo3_1", "drloa3_1"} {
		c.Set(cat.Lookup(n), 1)
	}
	return c
}
