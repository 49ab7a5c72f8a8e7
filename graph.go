// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"bufio"
	"fmt"
	"io"
)

// InteractionGraph is the undirected graph over the variables of a factor
// set where two variables are adjacent when they appear together in a
// factor. It is used to compute an elimination order that keeps the
// intermediate factors small.
type InteractionGraph struct {
	vertices VarSet
	adj      map[VarID]map[VarID]bool
}

// NewInteractionGraph returns the interaction graph of fs. The vertices are
// the variables of fs (AllVariables), edges only take into account the
// variables that index the factors.
func NewInteractionGraph(fs *FactorSet) *InteractionGraph {
	g := &InteractionGraph{
		vertices: fs.AllVariables(),
		adj:      make(map[VarID]map[VarID]bool),
	}
	for _, id := range g.vertices.ids {
		g.adj[id] = make(map[VarID]bool)
	}
	for _, f := range fs.factors {
		for _, a := range f.vars.ids {
			for _, b := range f.vars.ids {
				if a != b {
					g.adj[a][b] = true
				}
			}
		}
	}
	return g
}

// Vertices returns the vertices of g.
func (g *InteractionGraph) Vertices() VarSet {
	return g.vertices
}

// Degree returns the number of neighbours of id, 0 if id is not a vertex.
func (g *InteractionGraph) Degree(id VarID) int {
	return len(g.adj[id])
}

// Neighbors returns the neighbours of id, in the order of Vertices.
func (g *InteractionGraph) Neighbors(id VarID) VarSet {
	res := VarSet{cat: g.vertices.cat}
	for _, v := range g.vertices.ids {
		if g.adj[id][v] {
			res.Add(v)
		}
	}
	return res
}

// EliminationOrder computes a greedy elimination order. At each step we
// select the vertex with the smallest positive degree (the first one in the
// order of Vertices in case of a tie), connect all its neighbours together
// and remove it from the graph. We stop when there are no edges left; if a
// single vertex remains it is added at the end of the order. Isolated
// vertices are not part of the result. The graph is not modified.
func (g *InteractionGraph) EliminationOrder() VarSet {
	adj := make(map[VarID]map[VarID]bool, len(g.adj))
	for v, nb := range g.adj {
		adj[v] = make(map[VarID]bool, len(nb))
		for x := range nb {
			adj[v][x] = true
		}
	}
	remaining := g.vertices.IDs()
	res := VarSet{cat: g.vertices.cat}
	for {
		best := -1
		for k, v := range remaining {
			if d := len(adj[v]); d > 0 && (best < 0 || d < len(adj[remaining[best]])) {
				best = k
			}
		}
		if best < 0 {
			break
		}
		v := remaining[best]
		for x := range adj[v] {
			delete(adj[x], v)
			for y := range adj[v] {
				if x != y {
					adj[x][y] = true
				}
			}
		}
		delete(adj, v)
		remaining = append(remaining[:best], remaining[best+1:]...)
		res.Add(v)
	}
	if len(remaining) == 1 {
		res.Add(remaining[0])
	}
	return res
}

// WriteDot writes a description of g in the DOT format of Graphviz.
func (g *InteractionGraph) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph G {")
	for _, v := range g.vertices.ids {
		fmt.Fprintf(bw, "%d [label=%q];\n", v, g.vertices.cat.Name(v))
	}
	for k, a := range g.vertices.ids {
		for _, b := range g.vertices.ids[k+1:] {
			if g.adj[a][b] {
				fmt.Fprintf(bw, "%d -- %d;\n", a, b)
			}
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
