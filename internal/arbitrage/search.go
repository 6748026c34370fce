// Package arbitrage implements the round-trip cycle search: for every
// ordered pair of graph nodes it crosses all bounded simple paths in both
// directions and tracks the worst and best round-trip factors.
package arbitrage

import (
	"errors"

	"github.com/rs/zerolog"

	"cyclarb/internal/graph"
	"cyclarb/internal/infra/metrics"
)

const (
	// DefaultMaxHops bounds enumerated path length; path counts grow
	// combinatorially with graph density.
	DefaultMaxHops = 5

	// GainTolerance is the band above 1.0 a factor must clear before it
	// counts as arbitrage rather than floating-point noise from chained
	// multiplication.
	GainTolerance = 1.00001

	// LossTolerance is the mirror convention below 1.0: a minimum factor
	// under it is a meaningful loss cycle.
	LossTolerance = 0.99999
)

// Result describes one round-trip cycle: a forward conversion path and an
// independent reverse path, with their composed weights and factor.
type Result struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	ForwardPath   []string `json:"forward_path"`
	ForwardWeight float64  `json:"forward_weight"`
	ReversePath   []string `json:"reverse_path"`
	ReverseWeight float64  `json:"reverse_weight"`
	Factor        float64  `json:"factor"`
}

// ProgressFunc receives completed/total ordered pair counts after each pair.
// It is a pure observer and must not influence the outcome.
type ProgressFunc func(done, total int)

// Searcher runs the exhaustive pair scan. Zero value is usable; MaxHops
// defaults to DefaultMaxHops.
type Searcher struct {
	MaxHops  int
	Progress ProgressFunc
	Logger   zerolog.Logger
}

// Search walks all N*(N-1) ordered node pairs of g and returns the cycle
// with the globally smallest factor and the cycle with the largest factor
// above GainTolerance. Either may be nil. Fewer than two nodes yields
// (nil, nil). Ties keep the first candidate in enumeration order, so
// repeated runs on an unchanged graph return identical results.
func (s *Searcher) Search(g *graph.Graph) (min *Result, max *Result) {
	nodes := g.Nodes()
	if len(nodes) < 2 {
		return nil, nil
	}

	maxHops := s.MaxHops
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	total := len(nodes) * (len(nodes) - 1)
	done := 0

	for _, from := range nodes {
		for _, to := range nodes {
			if from == to {
				continue
			}
			s.scanPair(g, from, to, maxHops, &min, &max)
			done++
			metrics.PairsScannedTotal.Inc()
			if s.Progress != nil {
				s.Progress(done, total)
			}
		}
	}
	return min, max
}

func (s *Searcher) scanPair(g *graph.Graph, from, to string, maxHops int, min, max **Result) {
	forward := g.SimplePaths(from, to, maxHops)
	if len(forward) == 0 {
		return
	}
	reverse := g.SimplePaths(to, from, maxHops)
	if len(reverse) == 0 {
		return
	}

	for _, fp := range forward {
		fw, err := g.PathWeight(fp)
		if err != nil {
			s.faultPath(err, fp)
			continue
		}
		if fw <= 0 {
			continue
		}
		for _, rp := range reverse {
			rw, err := g.PathWeight(rp)
			if err != nil {
				s.faultPath(err, rp)
				continue
			}
			if rw <= 0 {
				continue
			}
			factor := fw * rw
			metrics.CycleCandidatesTotal.Inc()

			if *min == nil || factor < (*min).Factor {
				*min = &Result{
					From: from, To: to,
					ForwardPath: fp, ForwardWeight: fw,
					ReversePath: rp, ReverseWeight: rw,
					Factor: factor,
				}
			}
			if factor > GainTolerance && (*max == nil || factor > (*max).Factor) {
				*max = &Result{
					From: from, To: to,
					ForwardPath: fp, ForwardWeight: fw,
					ReversePath: rp, ReverseWeight: rw,
					Factor: factor,
				}
			}
		}
	}
}

// faultPath records an enumerator/graph mismatch. It indicates a bug in
// graph construction, not bad market data, hence error level.
func (s *Searcher) faultPath(err error, path []string) {
	metrics.PathWeightFaultsTotal.Inc()
	if errors.Is(err, graph.ErrMissingEdge) {
		s.Logger.Error().Err(err).Strs("path", path).Msg("path references an edge the graph does not hold")
		return
	}
	s.Logger.Error().Err(err).Strs("path", path).Msg("path weighting failed")
}
