package engine

import (
	"github.com/propfolio/propfolio/internal/config"
	"github.com/propfolio/propfolio/internal/report/domain"
)

// Policy holds the reporting constants: the modeled expense share of revenue
// and the fixed trend window per granularity.
type Policy struct {
	ExpenseRatio float64
	TrendWeeks   int
	TrendMonths  int
	TrendYears   int
}

func DefaultPolicy() Policy {
	return PolicyFromConfig(config.DefaultReportingConfig())
}

func PolicyFromConfig(cfg config.ReportingConfig) Policy {
	return Policy{
		ExpenseRatio: cfg.ExpenseRatio,
		TrendWeeks:   cfg.TrendWeeks,
		TrendMonths:  cfg.TrendMonths,
		TrendYears:   cfg.TrendYears,
	}
}

func (p Policy) ProfitRatio() float64 {
	return 1 - p.ExpenseRatio
}

// GroupMarginPct is the constant margin applied to every group row. The
// summary margin is computed from actual totals instead; the two diverge on
// purpose.
func (p Policy) GroupMarginPct() float64 {
	return p.ProfitRatio() * 100
}

// TrendPeriodCount returns the fixed number of enumerated periods for the
// granularity.
func (p Policy) TrendPeriodCount(g domain.Granularity) int {
	switch g {
	case domain.GranularityWeek:
		return p.TrendWeeks
	case domain.GranularityMonth:
		return p.TrendMonths
	case domain.GranularityYear:
		return p.TrendYears
	}
	return 0
}
