// Package graph holds the directed exchange-rate graph and the path
// primitives the arbitrage search is built on. Nodes are normalized
// tickers; an edge u->v carries the rate "1 unit of u buys w units of v".
package graph

import (
	"math"
	"sort"
)

type Graph struct {
	nodes     []string
	adj       map[string]map[string]float64
	neighbors map[string][]string // out-neighbors, sorted for deterministic walks
	edges     int
}

// Build constructs the graph from a rate table restricted to the allowed
// tickers. Edges require a finite rate > 0; self-referential quotes are
// dropped. Nodes that end up with no incident edge are pruned, so every
// node of the returned graph participates in at least one edge.
func Build(table map[string]map[string]float64, allowed []string) *Graph {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allowSet[t] = struct{}{}
	}

	adj := make(map[string]map[string]float64)
	edges := 0
	for from, quotes := range table {
		if _, ok := allowSet[from]; !ok {
			continue
		}
		for to, rate := range quotes {
			if from == to {
				continue
			}
			if _, ok := allowSet[to]; !ok {
				continue
			}
			if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
				continue
			}
			m, ok := adj[from]
			if !ok {
				m = make(map[string]float64)
				adj[from] = m
			}
			if _, dup := m[to]; !dup {
				edges++
			}
			m[to] = rate // duplicates overwrite, never accumulate
		}
	}

	// prune isolated nodes: keep only tickers touched by an edge
	connected := make(map[string]struct{})
	for from, quotes := range adj {
		connected[from] = struct{}{}
		for to := range quotes {
			connected[to] = struct{}{}
		}
	}
	nodes := make([]string, 0, len(connected))
	for n := range connected {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	neighbors := make(map[string][]string, len(adj))
	for from, quotes := range adj {
		ns := make([]string, 0, len(quotes))
		for to := range quotes {
			ns = append(ns, to)
		}
		sort.Strings(ns)
		neighbors[from] = ns
	}

	return &Graph{nodes: nodes, adj: adj, neighbors: neighbors, edges: edges}
}

// Nodes returns the node set in sorted order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return g.edges }

func (g *Graph) HasNode(n string) bool {
	i := sort.SearchStrings(g.nodes, n)
	return i < len(g.nodes) && g.nodes[i] == n
}

// Rate returns the edge weight u->v and whether the edge exists.
func (g *Graph) Rate(u, v string) (float64, bool) {
	m, ok := g.adj[u]
	if !ok {
		return 0, false
	}
	r, ok := m[v]
	return r, ok
}

func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.Rate(u, v)
	return ok
}

// Neighbors returns the sorted out-neighbors of u.
func (g *Graph) Neighbors(u string) []string {
	return append([]string(nil), g.neighbors[u]...)
}
