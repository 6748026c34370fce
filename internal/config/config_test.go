package config

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	_ = os.Unsetenv("CYCLARB_CONFIG")
	_ = os.Unsetenv("CYCLARB_LOG_LEVEL")
	_ = os.Unsetenv("CYCLARB_TICKERS")

	c := Load()
	if c.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %s", c.Logging.Level)
	}
	if c.Scan.MaxHops != 5 {
		t.Fatalf("expected default max hops 5, got %d", c.Scan.MaxHops)
	}
	if c.Rates.CacheTTLSeconds != 60 {
		t.Fatalf("expected default cache ttl 60, got %d", c.Rates.CacheTTLSeconds)
	}
	if len(c.Scan.Tickers) < 2 {
		t.Fatalf("expected at least two default tickers, got %v", c.Scan.Tickers)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CYCLARB_LOG_LEVEL", "debug")
	t.Setenv("CYCLARB_TICKERS", "btc,eth,doge")
	t.Setenv("CYCLARB_MAX_HOPS", "3")
	t.Setenv("CYCLARB_SCAN_ONCE", "true")
	c := Load()
	if c.Logging.Level != "debug" {
		t.Fatalf("env override failed for log level, got %s", c.Logging.Level)
	}
	if len(c.Scan.Tickers) != 3 || c.Scan.Tickers[2] != "doge" {
		t.Fatalf("env override failed for tickers, got %v", c.Scan.Tickers)
	}
	if c.Scan.MaxHops != 3 {
		t.Fatalf("env override failed for max hops, got %d", c.Scan.MaxHops)
	}
	if !c.Scan.Once {
		t.Fatalf("env override failed for scan once")
	}
}
