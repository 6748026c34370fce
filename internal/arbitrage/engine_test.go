package arbitrage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclarb/internal/config"
	"cyclarb/internal/currency"
	"cyclarb/internal/infra/log"
	"cyclarb/internal/rates"
)

type fakeSource struct {
	table rates.Table
	err   error
	calls int
}

func (f *fakeSource) SimplePrice(ctx context.Context, ids, vs []string) (rates.Table, error) {
	f.calls++
	return f.table, f.err
}

func writeRegistry(t *testing.T) *currency.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "currencies.json")
	data := `[{"ticker":"btc","id":"bitcoin"},{"ticker":"eth","id":"ethereum"},{"ticker":"ada","id":"cardano"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	reg, err := currency.Load(path)
	require.NoError(t, err)
	return reg
}

func testConfig(tickers ...string) config.Config {
	cfg := config.Load()
	cfg.Scan.Tickers = tickers
	cfg.Scan.MaxHops = 5
	cfg.Scan.InvestmentAmount = 1000
	return cfg
}

func TestScanOncePublishesResults(t *testing.T) {
	cfg := testConfig("btc", "eth")
	src := &fakeSource{table: rates.Table{
		"bitcoin":  {"eth": 2.0, "usd": 100.0},
		"ethereum": {"btc": 0.6, "usd": 50.0},
	}}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	require.NoError(t, eng.ScanOnce(context.Background()))

	scan := eng.Store().Last()
	require.NotNil(t, scan)
	assert.Equal(t, 2, scan.Nodes)
	assert.Equal(t, 2, scan.Edges)
	require.NotNil(t, scan.Max)
	assert.InDelta(t, 1.2, scan.Max.Factor, 1e-12)
	require.NotNil(t, scan.Min)
	assert.InDelta(t, 1.2, scan.Min.Factor, 1e-12)
}

func TestScanOnceUnknownTickersExcluded(t *testing.T) {
	cfg := testConfig("btc", "eth", "notacoin")
	src := &fakeSource{table: rates.Table{
		"bitcoin":  {"eth": 2.0},
		"ethereum": {"btc": 0.4},
	}}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	require.NoError(t, eng.ScanOnce(context.Background()))
	scan := eng.Store().Last()
	require.NotNil(t, scan)
	assert.Contains(t, scan.Excluded, "notacoin")
	require.NotNil(t, scan.Min)
	assert.InDelta(t, 0.8, scan.Min.Factor, 1e-12)
	assert.Nil(t, scan.Max)
}

func TestScanOnceQuotedButDisconnectedTickerExcluded(t *testing.T) {
	cfg := testConfig("btc", "eth", "ada")
	src := &fakeSource{table: rates.Table{
		"bitcoin":  {"eth": 2.0},
		"ethereum": {"btc": 0.4},
		// cardano answered nothing usable
	}}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	require.NoError(t, eng.ScanOnce(context.Background()))
	scan := eng.Store().Last()
	require.NotNil(t, scan)
	assert.Equal(t, 2, scan.Nodes)
	assert.Contains(t, scan.Excluded, "ada")
}

func TestScanOnceEmptyTableIsNotAnError(t *testing.T) {
	cfg := testConfig("btc", "eth")
	src := &fakeSource{table: nil}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	require.NoError(t, eng.ScanOnce(context.Background()))
	scan := eng.Store().Last()
	require.NotNil(t, scan)
	assert.Zero(t, scan.Nodes)
	assert.Nil(t, scan.Min)
	assert.Nil(t, scan.Max)
}

func TestScanOnceFetchErrorPropagates(t *testing.T) {
	cfg := testConfig("btc", "eth")
	src := &fakeSource{err: errors.New("boom")}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	err := eng.ScanOnce(context.Background())
	require.Error(t, err)
	assert.Nil(t, eng.Store().Last(), "failed fetch must not publish a scan")
}

func TestScanOnceTooFewResolvedTickers(t *testing.T) {
	cfg := testConfig("btc", "nope")
	src := &fakeSource{}
	eng := NewEngine(cfg, src, writeRegistry(t), log.NewLogger(cfg))

	require.NoError(t, eng.ScanOnce(context.Background()))
	assert.Zero(t, src.calls, "no fetch when fewer than two tickers resolve")
	scan := eng.Store().Last()
	require.NotNil(t, scan)
	assert.Contains(t, scan.Excluded, "nope")
}
