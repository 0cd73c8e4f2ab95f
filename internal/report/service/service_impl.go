package service

import (
	"context"
	"time"

	"github.com/propfolio/propfolio/internal/clock"
	"github.com/propfolio/propfolio/internal/config"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/observability/metrics"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/report/cache"
	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/propfolio/propfolio/internal/report/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	allPropertiesLabel = "All Properties"
	allProvidersLabel  = "All Providers"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Holder     *config.ReportingConfigHolder
	Cache      *cache.ReportCache `optional:"true"`
	Invoices   domain.InvoiceSource
	Properties domain.PropertySource
	Providers  domain.ProviderSource
}

// Service is the report facade: it fetches the snapshots, runs the engine
// and assembles the response shapes.
type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	metrics    *metrics.Metrics
	holder     *config.ReportingConfigHolder
	cache      *cache.ReportCache
	invoices   domain.InvoiceSource
	properties domain.PropertySource
	providers  domain.ProviderSource
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("report.service"),
		clock:      p.Clock,
		metrics:    p.Metrics,
		holder:     p.Holder,
		cache:      p.Cache,
		invoices:   p.Invoices,
		properties: p.Properties,
		providers:  p.Providers,
	}
}

type snapshot struct {
	invoices   []invoicedomain.Invoice
	properties []propertydomain.Property
	providers  []providerdomain.Provider
}

// fetchSnapshot pulls the three collaborator snapshots concurrently. A
// failure of any source fails the whole report.
func (s *Service) fetchSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.invoices.ListInvoices(ctx)
		if err != nil {
			return err
		}
		snap.invoices = invoices
		return nil
	})
	g.Go(func() error {
		properties, err := s.properties.ListProperties(ctx)
		if err != nil {
			return err
		}
		snap.properties = properties
		return nil
	})
	g.Go(func() error {
		providers, err := s.providers.ListProviders(ctx)
		if err != nil {
			return err
		}
		snap.providers = providers
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

func normalize(q domain.Query) (domain.Query, error) {
	if q.Granularity == "" {
		q.Granularity = domain.GranularityMonth
	}
	if !q.Granularity.Valid() {
		return q, domain.ErrInvalidGranularity
	}
	if q.TrendMode == "" {
		q.TrendMode = domain.TrendModeHistorical
	}
	if q.TrendMode != domain.TrendModeHistorical && q.TrendMode != domain.TrendModeWindowed {
		return q, domain.ErrInvalidQuery
	}
	return q, nil
}

// trendSource picks the invoice set feeding the trend series: the windowed
// mode reuses the date-filtered set, while historical re-filters by entity
// only so the series shows full history regardless of the report window.
func trendSource(snap snapshot, q domain.Query, filtered []invoicedomain.Invoice) ([]invoicedomain.Invoice, error) {
	if q.TrendMode == domain.TrendModeWindowed {
		return filtered, nil
	}
	historical := q
	historical.From = ""
	historical.To = ""
	return engine.Filter(snap.invoices, historical)
}

func (s *Service) PropertyReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	return s.cached(ctx, "property", q, func(ctx context.Context, q domain.Query) (domain.Report, error) {
		snap, err := s.fetchSnapshot(ctx)
		if err != nil {
			return domain.Report{}, err
		}

		filtered, err := engine.Filter(snap.invoices, q)
		if err != nil {
			return domain.Report{}, err
		}
		policy := engine.PolicyFromConfig(s.holder.Current())

		report := domain.EmptyReport()
		report.Summary = engine.Summarize(filtered, policy)
		report.ByProperty = engine.GroupByProperty(filtered, snap.properties, policy)
		engine.RankByRevenue(report.ByProperty)

		series, err := s.buildPropertySeries(ctx, snap, q, filtered, policy)
		if err != nil {
			return domain.Report{}, err
		}
		report.Series = series

		return report, nil
	})
}

func (s *Service) ProviderReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	return s.cached(ctx, "provider", q, func(ctx context.Context, q domain.Query) (domain.Report, error) {
		snap, err := s.fetchSnapshot(ctx)
		if err != nil {
			return domain.Report{}, err
		}

		filtered, err := engine.Filter(snap.invoices, q)
		if err != nil {
			return domain.Report{}, err
		}
		policy := engine.PolicyFromConfig(s.holder.Current())

		report := domain.EmptyReport()
		report.Summary = engine.Summarize(filtered, policy)
		report.ByProvider = engine.GroupByProvider(filtered, snap.providers, policy)
		engine.RankByRevenue(report.ByProvider)

		series, err := s.buildProviderSeries(ctx, snap, q, filtered, policy)
		if err != nil {
			return domain.Report{}, err
		}
		report.Series = series

		return report, nil
	})
}

func (s *Service) CombinedReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	return s.cached(ctx, "combined", q, func(ctx context.Context, q domain.Query) (domain.Report, error) {
		snap, err := s.fetchSnapshot(ctx)
		if err != nil {
			return domain.Report{}, err
		}

		filtered, err := engine.Filter(snap.invoices, q)
		if err != nil {
			return domain.Report{}, err
		}
		policy := engine.PolicyFromConfig(s.holder.Current())

		report := domain.EmptyReport()
		report.Summary = engine.Summarize(filtered, policy)
		report.CombinedData = engine.GroupByPair(filtered, snap.properties, snap.providers, policy)
		engine.RankCombined(report.CombinedData)

		return report, nil
	})
}

func (s *Service) OverviewReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	return s.cached(ctx, "overview", q, func(ctx context.Context, q domain.Query) (domain.Report, error) {
		snap, err := s.fetchSnapshot(ctx)
		if err != nil {
			return domain.Report{}, err
		}

		filtered, err := engine.Filter(snap.invoices, q)
		if err != nil {
			return domain.Report{}, err
		}
		policy := engine.PolicyFromConfig(s.holder.Current())

		report := domain.EmptyReport()
		report.Summary = engine.Summarize(filtered, policy)
		report.ByProperty = engine.GroupByProperty(filtered, snap.properties, policy)
		engine.RankByRevenue(report.ByProperty)
		report.ByProvider = engine.GroupByProvider(filtered, snap.providers, policy)
		engine.RankByRevenue(report.ByProvider)
		report.CombinedData = engine.GroupByPair(filtered, snap.properties, snap.providers, policy)
		engine.RankCombined(report.CombinedData)

		trend, err := trendSource(snap, q, filtered)
		if err != nil {
			return domain.Report{}, err
		}
		periods := s.enumerate(q.Granularity, policy)

		entry := domain.SeriesEntry{GroupMetrics: engine.GroupAll(filtered, allPropertiesLabel, policy)}
		points, _ := engine.TrendPoints(trend, nil, periods, q.Granularity, policy)
		entry.Trend = points
		report.Series = []domain.SeriesEntry{entry}

		s.reportDropped(ctx, trend)
		return report, nil
	})
}

func (s *Service) buildPropertySeries(ctx context.Context, snap snapshot, q domain.Query, filtered []invoicedomain.Invoice, policy engine.Policy) ([]domain.SeriesEntry, error) {
	trend, err := trendSource(snap, q, filtered)
	if err != nil {
		return nil, err
	}
	periods := s.enumerate(q.Granularity, policy)

	metricsByID := make(map[string]domain.GroupMetrics)
	for _, row := range engine.GroupByProperty(filtered, snap.properties, policy) {
		metricsByID[row.PropertyID] = row
	}

	series := make([]domain.SeriesEntry, 0, len(snap.properties)+1)
	for _, property := range snap.properties {
		if q.PropertyID != nil && property.ID != *q.PropertyID {
			continue
		}
		if q.PropertyID == nil && !property.IsActive() {
			continue
		}

		id := property.ID
		entry := domain.SeriesEntry{}
		if row, ok := metricsByID[id.String()]; ok {
			entry.GroupMetrics = row
		} else {
			entry.GroupMetrics = domain.GroupMetrics{
				PropertyID: id.String(),
				Name:       property.Name,
				MarginPct:  policy.GroupMarginPct(),
			}
		}
		points, _ := engine.TrendPoints(trend, func(inv invoicedomain.Invoice) bool {
			return inv.PropertyID == id
		}, periods, q.Granularity, policy)
		entry.Trend = points
		series = append(series, entry)
	}

	if q.PropertyID == nil {
		entry := domain.SeriesEntry{GroupMetrics: engine.GroupAll(filtered, allPropertiesLabel, policy)}
		points, _ := engine.TrendPoints(trend, nil, periods, q.Granularity, policy)
		entry.Trend = points
		series = append(series, entry)
	}

	s.reportDropped(ctx, trend)
	return series, nil
}

func (s *Service) buildProviderSeries(ctx context.Context, snap snapshot, q domain.Query, filtered []invoicedomain.Invoice, policy engine.Policy) ([]domain.SeriesEntry, error) {
	trend, err := trendSource(snap, q, filtered)
	if err != nil {
		return nil, err
	}
	periods := s.enumerate(q.Granularity, policy)

	metricsByID := make(map[string]domain.GroupMetrics)
	for _, row := range engine.GroupByProvider(filtered, snap.providers, policy) {
		metricsByID[row.ProviderID] = row
	}

	series := make([]domain.SeriesEntry, 0, len(snap.providers)+1)
	for _, provider := range snap.providers {
		if q.ProviderID != nil && provider.ID != *q.ProviderID {
			continue
		}
		if q.ProviderID == nil && !provider.IsActive() {
			continue
		}

		id := provider.ID
		entry := domain.SeriesEntry{}
		if row, ok := metricsByID[id.String()]; ok {
			entry.GroupMetrics = row
		} else {
			entry.GroupMetrics = domain.GroupMetrics{
				ProviderID: id.String(),
				Name:       provider.Name,
				MarginPct:  policy.GroupMarginPct(),
			}
		}
		points, _ := engine.TrendPoints(trend, func(inv invoicedomain.Invoice) bool {
			return inv.ProviderID == id
		}, periods, q.Granularity, policy)
		entry.Trend = points
		series = append(series, entry)
	}

	if q.ProviderID == nil {
		entry := domain.SeriesEntry{GroupMetrics: engine.GroupAll(filtered, allProvidersLabel, policy)}
		points, _ := engine.TrendPoints(trend, nil, periods, q.Granularity, policy)
		entry.Trend = points
		series = append(series, entry)
	}

	s.reportDropped(ctx, trend)
	return series, nil
}

func (s *Service) enumerate(g domain.Granularity, policy engine.Policy) []string {
	return engine.EnumeratePeriods(s.clock.Now(), g, policy.TrendPeriodCount(g))
}

// reportDropped logs and counts invoices excluded from period bucketing
// because of malformed issue dates.
func (s *Service) reportDropped(ctx context.Context, invoices []invoicedomain.Invoice) {
	dropped := engine.CountMalformed(invoices)
	if dropped == 0 {
		return
	}
	s.log.Warn("invoices dropped from period bucketing",
		zap.Int("count", dropped),
		zap.String("reason", "malformed_issue_date"),
	)
	s.metrics.RecordRecordsDropped(ctx, "malformed_issue_date", int64(dropped))
}

// cached wraps a report computation with normalization, the cache-aside
// layer and generation metrics.
func (s *Service) cached(ctx context.Context, shape string, q domain.Query, compute func(context.Context, domain.Query) (domain.Report, error)) (domain.Report, error) {
	q, err := normalize(q)
	if err != nil {
		return domain.Report{}, err
	}

	key := cache.Key(shape, q)
	if report, ok := s.cache.Get(ctx, key); ok {
		s.metrics.RecordReportCacheHit(ctx, shape)
		return report, nil
	}
	s.metrics.RecordReportCacheMiss(ctx, shape)

	report, err := compute(ctx, q)
	if err != nil {
		return domain.Report{}, err
	}

	ttl := time.Duration(s.holder.Current().CacheTTLSeconds) * time.Second
	s.cache.Set(ctx, key, report, ttl)
	s.metrics.RecordReportGenerated(ctx, shape)
	return report, nil
}
