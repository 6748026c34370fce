package tests

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cyclarb/internal/api/rest"
	"cyclarb/internal/arbitrage"
	"cyclarb/internal/config"
	"cyclarb/internal/infra/health"
	ilog "cyclarb/internal/infra/log"
	"cyclarb/internal/infra/metrics"
	"cyclarb/internal/infra/version"
)

// buildMux mirrors the HTTP setup in cmd/cyclarb/main.go
func buildMux(t *testing.T, store *arbitrage.Store) http.Handler {
	t.Helper()
	cfg := config.Load()
	logger := ilog.NewLogger(cfg)
	reg := metrics.Init(logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", health.Healthz)
	health.SetReady(true)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	api := rest.New(store)
	mux.Handle("/status", api.Handler())
	mux.Handle("/opportunities", api.Handler())
	return mux
}

func TestReadyzAndVersion(t *testing.T) {
	srv := httptest.NewServer(buildMux(t, arbitrage.NewStore()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz expected 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version error: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/version expected application/json, got %s", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(buildMux(t, arbitrage.NewStore()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	if body == "" || !(strings.Contains(body, "scans_total") || strings.Contains(body, "pairs_scanned_total")) {
		t.Fatalf("metrics output did not contain expected metrics, got: %q", body)
	}
}

func TestOpportunitiesBeforeFirstScan(t *testing.T) {
	srv := httptest.NewServer(buildMux(t, arbitrage.NewStore()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/opportunities")
	if err != nil {
		t.Fatalf("GET /opportunities error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 before any scan, got %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := httptest.NewServer(buildMux(t, arbitrage.NewStore()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
