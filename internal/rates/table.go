// Package rates fetches pairwise exchange rates from the CoinGecko
// simple/price endpoint, with short-TTL response caching, request pacing
// and a circuit breaker in front of the network.
package rates

// Table maps a source asset to its quoted conversion rates: one unit of
// the source buys rate units of the counter asset. Keys are whatever the
// producer quotes in (API ids from the client, tickers after remapping).
// Partial and asymmetric tables are normal.
type Table map[string]map[string]float64

// Retick rekeys a table quoted per API id into one quoted per ticker,
// dropping sources with no known ticker.
func Retick(t Table, tickerByID map[string]string) Table {
	out := make(Table, len(t))
	for id, quotes := range t {
		ticker, ok := tickerByID[id]
		if !ok {
			continue
		}
		out[ticker] = quotes
	}
	return out
}

// USDRates extracts the "usd" quote per source, keyed by ticker.
func USDRates(t Table, tickerByID map[string]string) map[string]float64 {
	out := make(map[string]float64)
	for id, quotes := range t {
		ticker, ok := tickerByID[id]
		if !ok {
			continue
		}
		if usd, ok := quotes["usd"]; ok && usd > 0 {
			out[ticker] = usd
		}
	}
	return out
}
