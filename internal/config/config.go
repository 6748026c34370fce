package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr                string   `yaml:"addr"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs"`
	} `yaml:"server"`
	Scan struct {
		Tickers          []string `yaml:"tickers"`
		RegistryPath     string   `yaml:"registry_path"`
		IntervalSeconds  int      `yaml:"interval_seconds"`
		Once             bool     `yaml:"once"`
		MaxHops          int      `yaml:"max_hops"`
		InvestmentAmount float64  `yaml:"investment_amount"`
	} `yaml:"scan"`
	Rates struct {
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		CacheTTLSeconds   int     `yaml:"cache_ttl_seconds"`
		RedisAddr         string  `yaml:"redis_addr"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rates"`
	Backtest struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"backtest"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}
	c.Scan.Tickers = []string{"btc", "eth", "usdt", "bnb", "sol", "xrp", "ada"}
	c.Scan.RegistryPath = "configs/currencies.json"
	c.Scan.IntervalSeconds = 300
	c.Scan.Once = false
	c.Scan.MaxHops = 5
	c.Scan.InvestmentAmount = 1000.0
	c.Rates.BaseURL = "https://api.coingecko.com/api/v3"
	c.Rates.CacheTTLSeconds = 60
	c.Rates.RequestsPerSecond = 0.5
	c.Rates.Burst = 2
	return c
}

func Load() Config {
	c := defaultConfig()
	if path := os.Getenv("CYCLARB_CONFIG"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	if v := os.Getenv("CYCLARB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CYCLARB_LOG_PRETTY"); v == "1" || v == "true" {
		c.Logging.Pretty = true
	}
	if v := os.Getenv("CYCLARB_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CYCLARB_PPROF"); v == "1" || v == "true" {
		c.Server.Pprof = true
	}
	if v := os.Getenv("CYCLARB_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	if v := os.Getenv("CYCLARB_TICKERS"); v != "" {
		c.Scan.Tickers = splitCSV(v)
	}
	if v := os.Getenv("CYCLARB_REGISTRY_PATH"); v != "" {
		c.Scan.RegistryPath = v
	}
	if v := os.Getenv("CYCLARB_SCAN_INTERVAL_SECONDS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n > 0 {
			c.Scan.IntervalSeconds = n
		}
	}
	if v := os.Getenv("CYCLARB_SCAN_ONCE"); v == "1" || v == "true" {
		c.Scan.Once = true
	}
	if v := os.Getenv("CYCLARB_MAX_HOPS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n > 0 {
			c.Scan.MaxHops = n
		}
	}
	if v := os.Getenv("CYCLARB_INVESTMENT_AMOUNT"); v != "" {
		var f float64
		_, _ = fmt.Sscan(v, &f)
		if f > 0 {
			c.Scan.InvestmentAmount = f
		}
	}
	if v := os.Getenv("CYCLARB_RATES_BASE_URL"); v != "" {
		c.Rates.BaseURL = v
	}
	if v := os.Getenv("CYCLARB_RATES_CACHE_TTL_SECONDS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n >= 0 {
			c.Rates.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("CYCLARB_REDIS_ADDR"); v != "" {
		c.Rates.RedisAddr = v
	}
	if v := os.Getenv("CYCLARB_BACKTEST_CSV"); v != "" {
		c.Backtest.CSVPath = v
	}
	// API key only from env
	if v := os.Getenv("CYCLARB_RATES_API_KEY"); v != "" {
		c.Rates.APIKey = v
	}
	return c
}

func splitCSV(s string) []string {
	var out []string
	buf := []rune{}
	for _, r := range s {
		if r == ',' {
			if len(buf) > 0 {
				out = append(out, string(buf))
				buf = buf[:0]
			}
			continue
		}
		buf = append(buf, r)
	}
	if len(buf) > 0 {
		out = append(out, string(buf))
	}
	return out
}
