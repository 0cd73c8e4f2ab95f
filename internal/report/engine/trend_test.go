package engine_test

import (
	"testing"

	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/propfolio/propfolio/internal/report/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendOmitsZeroRevenuePeriods(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-05-10", 100),
		paidInvoice(propertyOne, providerOne, "2024-02-02", 250),
	}
	periods := engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityMonth, 5)
	require.Len(t, periods, 5)

	points, dropped := engine.TrendPoints(invoices, nil, periods, domain.GranularityMonth, engine.DefaultPolicy())
	assert.Zero(t, dropped)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-05", points[0].PeriodKey)
	assert.Equal(t, 100.0, points[0].Revenue)
	assert.Equal(t, 70.0, points[0].Profit)
	assert.Equal(t, "2024-02", points[1].PeriodKey)
}

func TestTrendCountsDroppedMalformedDates(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-05-10", 100),
		{PropertyID: propertyOne, ProviderID: providerOne, IssueDate: "not-a-date", Status: invoicedomain.InvoiceStatusPaid, Total: 999},
	}
	periods := engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityMonth, 5)

	points, dropped := engine.TrendPoints(invoices, nil, periods, domain.GranularityMonth, engine.DefaultPolicy())
	assert.Equal(t, 1, dropped)
	require.Len(t, points, 1)
	assert.Equal(t, 100.0, points[0].Revenue)
}

func TestTrendFiltersPerEntity(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-05-10", 100),
		paidInvoice(propertyTwo, providerOne, "2024-05-11", 400),
	}
	periods := engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityMonth, 5)
	policy := engine.DefaultPolicy()

	mine, dropped := engine.TrendPoints(invoices, func(inv invoicedomain.Invoice) bool {
		return inv.PropertyID == propertyOne
	}, periods, domain.GranularityMonth, policy)
	assert.Zero(t, dropped)
	require.Len(t, mine, 1)
	assert.Equal(t, 100.0, mine[0].Revenue)

	all, _ := engine.TrendPoints(invoices, nil, periods, domain.GranularityMonth, policy)
	require.Len(t, all, 1)
	assert.Equal(t, 500.0, all[0].Revenue)
}
