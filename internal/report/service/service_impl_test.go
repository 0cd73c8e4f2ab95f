package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/propfolio/propfolio/internal/clock"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/observability/metrics"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
	reportservice "github.com/propfolio/propfolio/internal/report/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

var (
	propertyOne = snowflake.ID(1001)
	propertyTwo = snowflake.ID(1002)
	providerOne = snowflake.ID(2001)
	providerTwo = snowflake.ID(2002)
)

type stubSources struct {
	invoices   []invoicedomain.Invoice
	properties []propertydomain.Property
	providers  []providerdomain.Provider
	err        error
}

func (s *stubSources) ListInvoices(ctx context.Context) ([]invoicedomain.Invoice, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.invoices, nil
}

func (s *stubSources) ListProperties(ctx context.Context) ([]propertydomain.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.properties, nil
}

func (s *stubSources) ListProviders(ctx context.Context) ([]providerdomain.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.providers, nil
}

func newReportService(t *testing.T, sources *stubSources) domain.Service {
	t.Helper()

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	return reportservice.New(reportservice.Params{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)),
		Metrics:    m,
		Holder:     nil, // nil holder falls back to the default policy
		Cache:      nil,
		Invoices:   sources,
		Properties: sources,
		Providers:  sources,
	})
}

func fixtureSources() *stubSources {
	return &stubSources{
		invoices: []invoicedomain.Invoice{
			{PropertyID: propertyOne, ProviderID: providerOne, IssueDate: "2024-05-10", Status: invoicedomain.InvoiceStatusPaid, Total: 1000},
			{PropertyID: propertyOne, ProviderID: providerTwo, IssueDate: "2024-04-02", Status: invoicedomain.InvoiceStatusSent, Total: 400},
			{PropertyID: propertyTwo, ProviderID: providerOne, IssueDate: "2024-03-15", Status: invoicedomain.InvoiceStatusPaid, Total: 600},
		},
		properties: []propertydomain.Property{
			{ID: propertyOne, Name: "Harborview Apartments", Status: propertydomain.StatusActive},
			{ID: propertyTwo, Name: "Maple Court", Status: propertydomain.StatusActive},
		},
		providers: []providerdomain.Provider{
			{ID: providerOne, Name: "Acme Plumbing", Status: providerdomain.StatusActive},
			{ID: providerTwo, Name: "Brightspark Electrical", Status: providerdomain.StatusActive},
		},
	}
}

func TestPropertyReportAssemblesAllSections(t *testing.T) {
	svc := newReportService(t, fixtureSources())

	report, err := svc.PropertyReport(context.Background(), domain.Query{})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, report.Summary.Revenue)
	require.Len(t, report.ByProperty, 2)
	assert.Equal(t, propertyOne.String(), report.ByProperty[0].PropertyID)
	assert.Equal(t, 1400.0, report.ByProperty[0].Revenue)

	// one entry per active property plus the aggregate row
	require.Len(t, report.Series, 3)
	assert.Equal(t, "All Properties", report.Series[2].Name)
	assert.NotEmpty(t, report.Series[2].Trend)

	assert.Empty(t, report.ByProvider)
	assert.Empty(t, report.CombinedData)
}

func TestPropertyReportWindowedTrendRespectsDateFilter(t *testing.T) {
	svc := newReportService(t, fixtureSources())

	windowed, err := svc.PropertyReport(context.Background(), domain.Query{
		From:      "2024-05-01",
		To:        "2024-05-31",
		TrendMode: domain.TrendModeWindowed,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, windowed.Summary.Revenue)

	// aggregate series row only covers the window
	aggregate := windowed.Series[len(windowed.Series)-1]
	require.Len(t, aggregate.Trend, 1)
	assert.Equal(t, "2024-05", aggregate.Trend[0].PeriodKey)

	historical, err := svc.PropertyReport(context.Background(), domain.Query{
		From: "2024-05-01",
		To:   "2024-05-31",
	})
	require.NoError(t, err)
	// summary still windowed, but the default historical trend sees all months
	assert.Equal(t, 1000.0, historical.Summary.Revenue)
	aggregate = historical.Series[len(historical.Series)-1]
	assert.Len(t, aggregate.Trend, 3)
}

func TestProviderReportFiltersToOneProvider(t *testing.T) {
	svc := newReportService(t, fixtureSources())

	report, err := svc.ProviderReport(context.Background(), domain.Query{ProviderID: &providerOne})
	require.NoError(t, err)

	assert.Equal(t, 1600.0, report.Summary.Revenue)
	require.Len(t, report.ByProvider, 1)
	assert.Equal(t, "Acme Plumbing", report.ByProvider[0].Name)
	assert.Equal(t, 100.0, report.ByProvider[0].InvoicesPaidPct)

	// no aggregate row when a single provider is selected
	require.Len(t, report.Series, 1)
	assert.Equal(t, providerOne.String(), report.Series[0].ProviderID)
}

func TestCombinedReportPairSelection(t *testing.T) {
	svc := newReportService(t, fixtureSources())

	report, err := svc.CombinedReport(context.Background(), domain.Query{
		PropertyID: &propertyOne,
		ProviderID: &providerOne,
	})
	require.NoError(t, err)

	require.Len(t, report.CombinedData, 1)
	assert.Equal(t, propertyOne.String(), report.CombinedData[0].PropertyID)
	assert.Equal(t, providerOne.String(), report.CombinedData[0].ProviderID)
	assert.Equal(t, 1000.0, report.CombinedData[0].Revenue)
	assert.Equal(t, 1000.0, report.Summary.Revenue)
}

func TestCombinedReportNoMatchesStaysWellFormed(t *testing.T) {
	sources := fixtureSources()
	sources.invoices = nil
	svc := newReportService(t, sources)

	report, err := svc.CombinedReport(context.Background(), domain.Query{
		PropertyID: &propertyOne,
		ProviderID: &providerOne,
	})
	require.NoError(t, err)

	assert.Empty(t, report.CombinedData)
	assert.Equal(t, 0.0, report.Summary.Revenue)
	assert.Nil(t, report.Summary.MarginPct)
}

func TestReportPropagatesSourceFailure(t *testing.T) {
	svc := newReportService(t, &stubSources{err: domain.ErrSourceUnavailable})

	_, err := svc.PropertyReport(context.Background(), domain.Query{})
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestReportRejectsUnknownGranularity(t *testing.T) {
	svc := newReportService(t, fixtureSources())

	_, err := svc.PropertyReport(context.Background(), domain.Query{Granularity: "DECADE"})
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestInactivePropertyKeptInBreakdownButNotSeries(t *testing.T) {
	sources := fixtureSources()
	sources.properties[1].Status = propertydomain.StatusInactive
	svc := newReportService(t, sources)

	report, err := svc.PropertyReport(context.Background(), domain.Query{})
	require.NoError(t, err)

	// invoiced inactive property still shows up in the ranked breakdown
	require.Len(t, report.ByProperty, 2)

	// but the series only enumerates active properties (plus the aggregate)
	require.Len(t, report.Series, 2)
	assert.Equal(t, propertyOne.String(), report.Series[0].PropertyID)
	assert.Equal(t, "All Properties", report.Series[1].Name)
}
