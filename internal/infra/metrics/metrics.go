package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScansTotal          = prometheus.NewCounter(prometheus.CounterOpts{Name: "scans_total", Help: "Completed arbitrage scans"})
	ScanDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scan_duration_seconds", Help: "Wall time of a full scan", Buckets: prometheus.ExponentialBuckets(0.001, 2, 16)})
	PairsScannedTotal   = prometheus.NewCounter(prometheus.CounterOpts{Name: "pairs_scanned_total", Help: "Ordered node pairs examined"})
	CycleCandidatesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "cycle_candidates_total", Help: "Forward/reverse path combinations evaluated"})
	ArbCyclesFoundTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "arbitrage_cycles_found_total", Help: "Scans that surfaced a qualifying gain cycle"})
	LossCyclesFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "loss_cycles_found_total", Help: "Scans whose minimum factor was meaningfully below 1"})
	BestCycleFactor      = prometheus.NewGauge(prometheus.GaugeOpts{Name: "best_cycle_factor", Help: "Round-trip factor of the best gain cycle in the last scan"})
	WorstCycleFactor     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "worst_cycle_factor", Help: "Round-trip factor of the worst cycle in the last scan"})
	GraphNodes           = prometheus.NewGauge(prometheus.GaugeOpts{Name: "graph_nodes", Help: "Nodes in the last built rate graph"})
	GraphEdges           = prometheus.NewGauge(prometheus.GaugeOpts{Name: "graph_edges", Help: "Edges in the last built rate graph"})
	PathWeightFaultsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "path_weight_faults_total", Help: "Weighting steps that hit a missing edge (internal inconsistency)"})

	RateFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "rate_fetch_errors_total", Help: "Rate source failures by reason"}, []string{"reason"})
	RateRequestSeconds   = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "rate_request_seconds", Help: "Latency of rate source HTTP requests", Buckets: prometheus.ExponentialBuckets(0.01, 2, 12)})
	RateCacheHitsTotal   = prometheus.NewCounter(prometheus.CounterOpts{Name: "rate_cache_hits_total", Help: "Rate lookups served from cache"})
	RateCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "rate_cache_misses_total", Help: "Rate lookups that went to the source"})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		ScansTotal, ScanDurationSeconds, PairsScannedTotal, CycleCandidatesTotal,
		ArbCyclesFoundTotal, LossCyclesFoundTotal, BestCycleFactor, WorstCycleFactor,
		GraphNodes, GraphEdges, PathWeightFaultsTotal,
		RateFetchErrorsTotal, RateRequestSeconds, RateCacheHitsTotal, RateCacheMissesTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
