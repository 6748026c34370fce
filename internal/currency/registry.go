// Package currency loads the static ticker-to-API-id table and resolves
// user-supplied tickers against it.
package currency

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

type Currency struct {
	Ticker string `json:"ticker"`
	ID     string `json:"id"`
}

type Registry struct {
	currencies []Currency
	idByTicker map[string]string
}

// Load reads the currency definitions file. Tickers are case-normalized;
// a later duplicate ticker overrides an earlier one.
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currency registry: %w", err)
	}
	var currencies []Currency
	if err := json.Unmarshal(b, &currencies); err != nil {
		return nil, fmt.Errorf("decode currency registry: %w", err)
	}
	idByTicker := make(map[string]string, len(currencies))
	for _, c := range currencies {
		idByTicker[strings.ToLower(strings.TrimSpace(c.Ticker))] = c.ID
	}
	return &Registry{currencies: currencies, idByTicker: idByTicker}, nil
}

// Currencies returns all known definitions.
func (r *Registry) Currencies() []Currency {
	return append([]Currency(nil), r.currencies...)
}

// Resolution maps a requested ticker set onto API ids. Tickers without a
// known id land in NotFound instead of failing the run.
type Resolution struct {
	IDs        []string // sorted, for stable cache keys
	Tickers    []string // sorted, normalized, resolved only
	TickerByID map[string]string
	IDByTicker map[string]string
	NotFound   []string
}

// Resolve normalizes and deduplicates tickers and looks up their ids.
func (r *Registry) Resolve(tickers []string) Resolution {
	res := Resolution{
		TickerByID: make(map[string]string),
		IDByTicker: make(map[string]string),
	}
	seen := make(map[string]struct{})
	for _, t := range tickers {
		ticker := strings.ToLower(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}

		id, ok := r.idByTicker[ticker]
		if !ok {
			res.NotFound = append(res.NotFound, ticker)
			continue
		}
		res.Tickers = append(res.Tickers, ticker)
		res.IDs = append(res.IDs, id)
		res.TickerByID[id] = ticker
		res.IDByTicker[ticker] = id
	}
	sort.Strings(res.IDs)
	sort.Strings(res.Tickers)
	sort.Strings(res.NotFound)
	return res
}
