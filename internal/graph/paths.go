package graph

import (
	"errors"
	"fmt"
)

// ErrMissingEdge reports a path that references an edge the graph does not
// hold. Paths produced by SimplePaths on the same graph never trigger it;
// seeing it means graph construction and enumeration disagree.
var ErrMissingEdge = errors.New("missing edge")

// SimplePaths returns every simple directed path from source to target
// using at most maxHops edges. Traversal is depth-first with neighbors in
// sorted order, so the result order is stable across runs on an unchanged
// graph. source == target or unknown endpoints yield no paths.
func (g *Graph) SimplePaths(source, target string, maxHops int) [][]string {
	if source == target || maxHops <= 0 {
		return nil
	}
	if !g.HasNode(source) || !g.HasNode(target) {
		return nil
	}

	var out [][]string
	visited := map[string]bool{source: true}
	path := []string{source}

	var dfs func(u string, hops int)
	dfs = func(u string, hops int) {
		if hops >= maxHops {
			return
		}
		for _, v := range g.neighbors[u] {
			if visited[v] {
				continue
			}
			path = append(path, v)
			if v == target {
				out = append(out, append([]string(nil), path...))
			} else {
				visited[v] = true
				dfs(v, hops+1)
				delete(visited, v)
			}
			path = path[:len(path)-1]
		}
	}
	dfs(source, 0)
	return out
}

// PathWeight multiplies the edge rates along path. Paths shorter than two
// nodes weigh 0 (the "no edge" sentinel, never a valid trading factor).
// A missing edge also yields 0 together with ErrMissingEdge.
func (g *Graph) PathWeight(path []string) (float64, error) {
	if len(path) < 2 {
		return 0, nil
	}
	w := 1.0
	for i := 0; i < len(path)-1; i++ {
		r, ok := g.Rate(path[i], path[i+1])
		if !ok {
			return 0, fmt.Errorf("%w: %s->%s", ErrMissingEdge, path[i], path[i+1])
		}
		w *= r
	}
	return w, nil
}
