package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"cyclarb/internal/arbitrage"
	"cyclarb/internal/config"
	"cyclarb/internal/graph"
	"cyclarb/internal/infra/log"
	"cyclarb/internal/rates"
)

// RunCSV replays historical rate snapshots through the same build+search
// pipeline the live engine uses.
// CSV format: ts,from,to,rate — rows sharing a ts form one snapshot.
func RunCSV(cfg config.Config, logger log.Logger) error {
	path := cfg.Backtest.CSVPath
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var (
		snapshots int
		gains     int
		losses    int
		curTS     string
		table     rates.Table
	)
	flush := func() {
		if len(table) == 0 {
			return
		}
		snapshots++
		min, max := scanSnapshot(cfg, logger, table)
		if max != nil {
			gains++
			logger.Debug().Str("ts", curTS).Float64("factor", max.Factor).Msg("backtest gain cycle")
		}
		if min != nil && min.Factor < arbitrage.LossTolerance {
			losses++
		}
		table = nil
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(rec) < 4 {
			continue
		}
		ts, from, to := rec[0], rec[1], rec[2]
		rate, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			continue
		}
		if ts != curTS {
			flush()
			curTS = ts
		}
		if table == nil {
			table = make(rates.Table)
		}
		if table[from] == nil {
			table[from] = make(map[string]float64)
		}
		table[from][to] = rate
	}
	flush()

	if snapshots == 0 {
		return fmt.Errorf("backtest: no snapshots in %s", path)
	}
	logger.Info().
		Int("snapshots", snapshots).
		Int("gain_cycles", gains).
		Int("loss_cycles", losses).
		Float64("gain_ratio", float64(gains)/float64(snapshots)).
		Msg("backtest complete")
	return nil
}

func scanSnapshot(cfg config.Config, logger log.Logger, table rates.Table) (*arbitrage.Result, *arbitrage.Result) {
	tickers := make([]string, 0, len(table))
	seen := map[string]struct{}{}
	add := func(t string) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			tickers = append(tickers, t)
		}
	}
	for from, quotes := range table {
		add(from)
		for to := range quotes {
			add(to)
		}
	}
	g := graph.Build(table, tickers)
	s := &arbitrage.Searcher{MaxHops: cfg.Scan.MaxHops, Logger: logger}
	return s.Search(g)
}
