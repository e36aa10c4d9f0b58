package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"DCADashboard/internal/logger"
	"DCADashboard/internal/model"
	"DCADashboard/internal/strategy"
)

// Asset is one tracked ETF or index.
type Asset struct {
	Name   string `yaml:"name" validate:"required"`
	Symbol string `yaml:"symbol" validate:"required"`
	// Target is an optional allocation in percent of total capital.
	Target float64 `yaml:"target" validate:"gte=0,lte=100"`
}

// MacroIndicator is one macroeconomic series shown next to the assets.
type MacroIndicator struct {
	Label string `yaml:"label" validate:"required"`
	Code  string `yaml:"code" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	Assets   []Asset          `yaml:"assets" validate:"required,min=1,dive"`
	Windows  []model.Window   `yaml:"windows" validate:"required,min=1,dive"`
	Macro    []MacroIndicator `yaml:"macro" validate:"dive"`
	Strategy struct {
		DeviationThresholdPct  float64   `yaml:"deviation_threshold_pct" default:"10" validate:"gt=0,lte=100"`
		AllocationCeilingPct   float64   `yaml:"allocation_ceiling_pct" default:"50" validate:"gt=0,lte=100"`
		ArbitrageThresholdsPct []float64 `yaml:"arbitrage_thresholds_pct" validate:"required,dive,gt=0"`
		RebalanceThresholdPct  float64   `yaml:"rebalance_threshold_pct" default:"15" validate:"gt=0,lte=100"`
		HistoryDays            int       `yaml:"history_days" default:"1825" validate:"gt=0"`
	} `yaml:"strategy"`
	DataSource struct {
		Provider          string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo mock"`
		FREDAPIKey        string        `yaml:"fred_api_key"`
		RequestsPerSecond float64       `yaml:"requests_per_second" default:"2" validate:"gt=0"`
		Timeout           time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" default:"0 0 22 * * 1-5"`
		ReportCron  string `yaml:"report_cron" default:"0 0 8 * * 1"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/dca_dashboard.db"`
	} `yaml:"database"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl" default:"1h"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	Server struct {
		Addr string `yaml:"addr" default:":8080"`
	} `yaml:"server"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// DefaultAssets is the stock ETF universe.
var DefaultAssets = []Asset{
	{Name: "S&P500", Symbol: "SPY"},
	{Name: "NASDAQ100", Symbol: "QQQ"},
	{Name: "CAC40", Symbol: "CAC.PA"},
	{Name: "EURO STOXX50", Symbol: "FEZ"},
	{Name: "EURO STOXX600 TECH", Symbol: "EXV3.DE"},
	{Name: "NIKKEI 225", Symbol: "^N225"},
	{Name: "WORLD", Symbol: "VT"},
	{Name: "EMERGING", Symbol: "EEM"},
}

// DefaultMacro is the stock set of FRED indicators.
var DefaultMacro = []MacroIndicator{
	{Label: "CAPE10", Code: "CAPE"},
	{Label: "FedFunds", Code: "FEDFUNDS"},
	{Label: "CPI YoY", Code: "CPIAUCSL"},
	{Label: "ECY", Code: "DGS10"},
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Assets) == 0 {
		cfg.Assets = append([]Asset(nil), DefaultAssets...)
	}
	if len(cfg.Windows) == 0 {
		cfg.Windows = append([]model.Window(nil), strategy.DefaultWindows...)
	}
	if cfg.Macro == nil {
		cfg.Macro = append([]MacroIndicator(nil), DefaultMacro...)
	}
	if len(cfg.Strategy.ArbitrageThresholdsPct) == 0 {
		cfg.Strategy.ArbitrageThresholdsPct = append([]float64(nil), strategy.DefaultArbitrageThresholds...)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.DataSource.FREDAPIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("DEVIATION_THRESHOLD"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.DeviationThresholdPct = pct
		}
	}
}

var validate = validator.New()

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	names := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if names[a.Name] {
			return fmt.Errorf("duplicate asset name %q", a.Name)
		}
		names[a.Name] = true
	}
	labels := make(map[string]bool, len(c.Windows))
	for _, w := range c.Windows {
		if labels[w.Label] {
			return fmt.Errorf("duplicate window label %q", w.Label)
		}
		labels[w.Label] = true
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notifications can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Params converts the strategy section into evaluation parameters.
// Percentages become fractions here and nowhere else.
func (c *Config) Params() strategy.Params {
	p := strategy.Params{
		Windows:             append([]model.Window(nil), c.Windows...),
		Threshold:           strategy.ThresholdFromPercent(c.Strategy.DeviationThresholdPct),
		Ceiling:             c.Strategy.AllocationCeilingPct,
		ArbitrageThresholds: append([]float64(nil), c.Strategy.ArbitrageThresholdsPct...),
		RebalanceThreshold:  c.Strategy.RebalanceThresholdPct,
	}
	for _, a := range c.Assets {
		if a.Target > 0 {
			if p.Targets == nil {
				p.Targets = make(map[string]float64)
			}
			p.Targets[a.Name] = a.Target
		}
	}
	return p
}
