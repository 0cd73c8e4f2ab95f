package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportingConfig carries the financial modeling policy used by the report
// engine. The expense ratio is a modeling placeholder, not real cost
// accounting; trend window sizes are fixed presentation policy.
type ReportingConfig struct {
	ExpenseRatio    float64 `mapstructure:"expenseRatio"`
	TrendWeeks      int     `mapstructure:"trendWeeks"`
	TrendMonths     int     `mapstructure:"trendMonths"`
	TrendYears      int     `mapstructure:"trendYears"`
	CacheTTLSeconds int     `mapstructure:"cacheTtlSeconds"`
}

func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		ExpenseRatio:    0.30,
		TrendWeeks:      12,
		TrendMonths:     5,
		TrendYears:      3,
		CacheTTLSeconds: 60,
	}
}

// ReportingConfigHolder exposes the current reporting policy and hot-reloads
// it when the mounted config file changes.
type ReportingConfigHolder struct {
	current atomic.Value // holds ReportingConfig
}

func NewReportingConfigHolder() (*ReportingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reporting")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/propfolio/config")
	v.AddConfigPath("/etc/propfolio")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PROPFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportingConfig()
	v.SetDefault("reporting.expenseRatio", defaults.ExpenseRatio)
	v.SetDefault("reporting.trendWeeks", defaults.TrendWeeks)
	v.SetDefault("reporting.trendMonths", defaults.TrendMonths)
	v.SetDefault("reporting.trendYears", defaults.TrendYears)
	v.SetDefault("reporting.cacheTtlSeconds", defaults.CacheTTLSeconds)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ReportingConfig
	if err := v.UnmarshalKey("reporting", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportingConfig
		if err := v.UnmarshalKey("reporting", &updated); err != nil {
			log.Printf("[reporting-config] reload failed: %v", err)
			return
		}
		if err := validateReportingConfig(updated); err != nil {
			log.Printf("[reporting-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

// Current returns the active reporting policy.
func (h *ReportingConfigHolder) Current() ReportingConfig {
	if h == nil {
		return DefaultReportingConfig()
	}
	if cfg, ok := h.current.Load().(ReportingConfig); ok {
		return cfg
	}
	return DefaultReportingConfig()
}

func validateReportingConfig(cfg ReportingConfig) error {
	if cfg.ExpenseRatio < 0 || cfg.ExpenseRatio >= 1 {
		return errors.New("reporting.expenseRatio must be in [0, 1)")
	}
	if cfg.TrendWeeks <= 0 || cfg.TrendMonths <= 0 || cfg.TrendYears <= 0 {
		return errors.New("reporting trend window sizes must be positive")
	}
	if cfg.CacheTTLSeconds < 0 {
		return errors.New("reporting.cacheTtlSeconds must not be negative")
	}
	return nil
}
