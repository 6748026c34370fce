package arbitrage

import (
	"context"
	"sort"
	"strings"
	"time"

	"cyclarb/internal/analysis"
	"cyclarb/internal/config"
	"cyclarb/internal/currency"
	"cyclarb/internal/graph"
	"cyclarb/internal/infra/health"
	"cyclarb/internal/infra/log"
	"cyclarb/internal/infra/metrics"
	"cyclarb/internal/rates"
)

// RateSource hands back quoted rates for API ids against vs currencies.
// nil table means no usable data this round.
type RateSource interface {
	SimplePrice(ctx context.Context, ids, vs []string) (rates.Table, error)
}

// Engine runs the scan pipeline on a schedule: resolve tickers, fetch
// rates, build the graph, search all pairs, publish the result.
type Engine struct {
	cfg      config.Config
	source   RateSource
	registry *currency.Registry
	store    *Store
	logger   log.Logger
}

func NewEngine(cfg config.Config, source RateSource, registry *currency.Registry, logger log.Logger) *Engine {
	return &Engine{cfg: cfg, source: source, registry: registry, store: NewStore(), logger: logger}
}

func (e *Engine) Store() *Store { return e.store }

// Run scans immediately and then on every interval tick until ctx ends.
// With scan.once set it performs a single scan and returns.
func (e *Engine) Run(ctx context.Context) error {
	if e.cfg.Scan.Once {
		return e.ScanOnce(ctx)
	}
	if err := e.ScanOnce(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("initial scan failed")
	}
	interval := time.Duration(e.cfg.Scan.IntervalSeconds) * time.Second
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := e.ScanOnce(ctx); err != nil {
				e.logger.Warn().Err(err).Msg("scan failed")
			}
		}
	}
}

// ScanOnce performs one full fetch-build-search pass. "No data" outcomes
// (unknown tickers, empty rate table, too few connected nodes) are not
// errors: the scan is recorded as empty and the next tick retries.
func (e *Engine) ScanOnce(ctx context.Context) error {
	started := time.Now()

	res := e.registry.Resolve(e.cfg.Scan.Tickers)
	if len(res.NotFound) > 0 {
		e.logger.Warn().Strs("tickers", res.NotFound).Msg("tickers missing from currency registry, skipped")
	}
	if len(res.Tickers) < 2 {
		e.logger.Warn().Int("resolved", len(res.Tickers)).Msg("need at least two known tickers to scan")
		e.publish(Scan{At: started, Excluded: res.NotFound})
		return nil
	}

	// quote against the selected tickers plus usd for impact math
	vs := append([]string(nil), res.Tickers...)
	if !contains(vs, "usd") {
		vs = append(vs, "usd")
	}
	sort.Strings(vs)

	table, err := e.source.SimplePrice(ctx, res.IDs, vs)
	if err != nil {
		return err
	}

	usdRates := rates.USDRates(table, res.TickerByID)
	g := graph.Build(rates.Retick(table, res.TickerByID), res.Tickers)

	metrics.GraphNodes.Set(float64(g.NodeCount()))
	metrics.GraphEdges.Set(float64(g.EdgeCount()))

	excluded := res.NotFound
	for _, t := range res.Tickers {
		if !g.HasNode(t) {
			excluded = append(excluded, t)
		}
	}

	if g.NodeCount() < 2 || g.EdgeCount() == 0 {
		e.logger.Warn().Int("nodes", g.NodeCount()).Int("edges", g.EdgeCount()).
			Msg("insufficient exchange data between selected currencies")
		e.publish(Scan{At: started, Nodes: g.NodeCount(), Edges: g.EdgeCount(), Excluded: excluded})
		return nil
	}

	searcher := &Searcher{MaxHops: e.cfg.Scan.MaxHops, Logger: e.logger}
	min, max := searcher.Search(g)

	e.report(min, max, usdRates)
	e.publish(Scan{At: started, Nodes: g.NodeCount(), Edges: g.EdgeCount(), Min: min, Max: max, Excluded: excluded})

	metrics.ScansTotal.Inc()
	metrics.ScanDurationSeconds.Observe(time.Since(started).Seconds())
	return nil
}

func (e *Engine) publish(s Scan) {
	e.store.Set(s)
	health.MarkScan(time.Now())
}

func (e *Engine) report(min, max *Result, usdRates map[string]float64) {
	invest := e.cfg.Scan.InvestmentAmount
	if max != nil {
		metrics.ArbCyclesFoundTotal.Inc()
		metrics.BestCycleFactor.Set(max.Factor)
		imp := analysis.Compute(max.From, max.Factor, invest, usdRates)
		ev := e.logger.Info().
			Str("from", max.From).Str("to", max.To).
			Str("forward", strings.Join(max.ForwardPath, "->")).
			Str("reverse", strings.Join(max.ReversePath, "->")).
			Float64("factor", max.Factor).
			Str("profit_units", imp.DeltaUnits.String())
		if imp.DeltaUSD != nil {
			ev = ev.Str("profit_usd", imp.DeltaUSD.StringFixed(2))
		}
		ev.Msg("arbitrage opportunity found")
	} else {
		e.logger.Info().Msg("no qualifying arbitrage cycle this scan")
	}

	if min != nil {
		metrics.WorstCycleFactor.Set(min.Factor)
		if min.Factor < LossTolerance {
			metrics.LossCyclesFoundTotal.Inc()
			imp := analysis.Compute(min.From, min.Factor, invest, usdRates)
			ev := e.logger.Info().
				Str("from", min.From).Str("to", min.To).
				Str("forward", strings.Join(min.ForwardPath, "->")).
				Str("reverse", strings.Join(min.ReversePath, "->")).
				Float64("factor", min.Factor).
				Str("loss_units", imp.DeltaUnits.Neg().String())
			if imp.DeltaUSD != nil {
				ev = ev.Str("loss_usd", imp.DeltaUSD.Neg().StringFixed(2))
			}
			ev.Msg("largest loss cycle")
		}
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
