package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFiltersAndEdges(t *testing.T) {
	table := map[string]map[string]float64{
		"btc": {"eth": 15.0, "btc": 1.0, "usd": 60000.0, "doge": -2.0},
		"eth": {"btc": 0.066, "sol": 0.0},
		"xrp": {"btc": math.NaN()},
	}
	g := Build(table, []string{"btc", "eth", "sol", "xrp"})

	assert.True(t, g.HasEdge("btc", "eth"))
	assert.True(t, g.HasEdge("eth", "btc"))
	assert.False(t, g.HasEdge("btc", "btc"), "self-loops must be dropped")
	assert.False(t, g.HasEdge("btc", "usd"), "usd is not on the allow-list")
	assert.False(t, g.HasEdge("eth", "sol"), "zero rate is not an edge")
	assert.False(t, g.HasEdge("xrp", "btc"), "NaN rate is not an edge")

	r, ok := g.Rate("btc", "eth")
	require.True(t, ok)
	assert.Equal(t, 15.0, r)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestBuildPrunesIsolatedNodes(t *testing.T) {
	table := map[string]map[string]float64{
		"btc": {"eth": 15.0},
	}
	g := Build(table, []string{"btc", "eth", "ada"})
	assert.Equal(t, []string{"btc", "eth"}, g.Nodes())
	assert.False(t, g.HasNode("ada"), "ada has no usable rate and must be pruned")

	for _, n := range g.Nodes() {
		degree := len(g.Neighbors(n))
		for _, m := range g.Nodes() {
			if g.HasEdge(m, n) {
				degree++
			}
		}
		assert.Greater(t, degree, 0, "node %s has no incident edges", n)
	}
}

func TestBuildEmptyTable(t *testing.T) {
	g := Build(nil, []string{"btc", "eth"})
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestBuildDuplicateOverwrites(t *testing.T) {
	// a second quote for the same pair replaces the first
	table := map[string]map[string]float64{
		"btc": {"eth": 15.0},
	}
	table["btc"]["eth"] = 16.0
	g := Build(table, []string{"btc", "eth"})
	r, ok := g.Rate("btc", "eth")
	require.True(t, ok)
	assert.Equal(t, 16.0, r)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestNodesSortedAndCopied(t *testing.T) {
	table := map[string]map[string]float64{
		"eth": {"btc": 1.0},
		"ada": {"eth": 1.0},
	}
	g := Build(table, []string{"ada", "btc", "eth"})
	nodes := g.Nodes()
	assert.Equal(t, []string{"ada", "btc", "eth"}, nodes)
	nodes[0] = "zzz"
	assert.Equal(t, []string{"ada", "btc", "eth"}, g.Nodes(), "Nodes must return a copy")
}
