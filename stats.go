// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import "fmt"

// Stats stores information about the work done by a FactorSet.
type Stats struct {
	Merges        int // number of pairwise merges
	Eliminations  int // variables summed out
	Maximizations int // variables maximized out
	Restrictions  int // factors restricted by evidence (ApplyClause, PruneEdge)
	Pruned        int // factors removed by pruning
	LargestFactor int // largest number of instances in a merged factor
}

func (s *Stats) merged(f *Factor) {
	s.Merges++
	if n := f.Size(); n > s.LargestFactor {
		s.LargestFactor = n
	}
}

// Add returns the sum of two statistics; LargestFactor is the maximum.
func (s Stats) Add(o Stats) Stats {
	res := Stats{
		Merges:        s.Merges + o.Merges,
		Eliminations:  s.Eliminations + o.Eliminations,
		Maximizations: s.Maximizations + o.Maximizations,
		Restrictions:  s.Restrictions + o.Restrictions,
		Pruned:        s.Pruned + o.Pruned,
		LargestFactor: s.LargestFactor,
	}
	if o.LargestFactor > res.LargestFactor {
		res.LargestFactor = o.LargestFactor
	}
	return res
}

func (s Stats) String() string {
	res := fmt.Sprintf("Merges:        %d\n", s.Merges)
	res += fmt.Sprintf("Eliminations:  %d\n", s.Eliminations)
	res += fmt.Sprintf("Maximizations: %d\n", s.Maximizations)
	res += fmt.Sprintf("Restrictions:  %d\n", s.Restrictions)
	res += fmt.Sprintf("Pruned:        %d\n", s.Pruned)
	res += fmt.Sprintf("Largest:       %d", s.LargestFactor)
	return res
}
