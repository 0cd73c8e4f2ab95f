package engine_test

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/propfolio/propfolio/internal/report/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	propertyOne = snowflake.ID(1001)
	propertyTwo = snowflake.ID(1002)
	providerOne = snowflake.ID(2001)
	providerTwo = snowflake.ID(2002)
)

func fixtureProperties() []propertydomain.Property {
	return []propertydomain.Property{
		{ID: propertyOne, Name: "Harborview Apartments", Status: propertydomain.StatusActive},
		{ID: propertyTwo, Name: "Maple Court", Status: propertydomain.StatusActive},
	}
}

func fixtureProviders() []providerdomain.Provider {
	return []providerdomain.Provider{
		{ID: providerOne, Name: "Acme Plumbing", Status: providerdomain.StatusActive},
		{ID: providerTwo, Name: "Brightspark Electrical", Status: providerdomain.StatusActive},
	}
}

func paidInvoice(property, provider snowflake.ID, issueDate string, total float64) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		PropertyID: property,
		ProviderID: provider,
		IssueDate:  issueDate,
		Status:     invoicedomain.InvoiceStatusPaid,
		Total:      total,
	}
}

func sentInvoice(property, provider snowflake.ID, issueDate string, total float64) invoicedomain.Invoice {
	inv := paidInvoice(property, provider, issueDate, total)
	inv.Status = invoicedomain.InvoiceStatusSent
	return inv
}

func TestSummaryReconcilesWithBreakdowns(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-10", 1000),
		sentInvoice(propertyOne, providerTwo, "2024-02-11", 250),
		paidInvoice(propertyTwo, providerOne, "2024-02-20", 620),
		sentInvoice(propertyTwo, providerTwo, "2024-03-05", 130),
	}
	policy := engine.DefaultPolicy()

	summary := engine.Summarize(invoices, policy)
	byProperty := engine.GroupByProperty(invoices, fixtureProperties(), policy)
	byProvider := engine.GroupByProvider(invoices, fixtureProviders(), policy)

	var propertyTotal, providerTotal float64
	for _, row := range byProperty {
		propertyTotal += row.Revenue
	}
	for _, row := range byProvider {
		providerTotal += row.Revenue
	}

	assert.Equal(t, 2000.0, summary.Revenue)
	assert.Equal(t, summary.Revenue, propertyTotal)
	assert.Equal(t, summary.Revenue, providerTotal)
}

func TestSingleInvoiceScenario(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-10", 1000),
	}
	policy := engine.DefaultPolicy()

	summary := engine.Summarize(invoices, policy)
	assert.Equal(t, 1000.0, summary.Revenue)
	assert.Equal(t, 300.0, summary.Expenses)
	assert.Equal(t, 700.0, summary.Profit)
	assert.Equal(t, 100.0, summary.InvoicesPaidPct)
	require.NotNil(t, summary.MarginPct)
	assert.InDelta(t, 70.0, *summary.MarginPct, 1e-9)

	byProperty := engine.GroupByProperty(invoices, fixtureProperties(), policy)
	require.Len(t, byProperty, 1)
	assert.Equal(t, propertyOne.String(), byProperty[0].PropertyID)
	assert.Equal(t, 1000.0, byProperty[0].Revenue)
	assert.Equal(t, 70.0, byProperty[0].MarginPct)
	assert.Equal(t, 100.0, byProperty[0].InvoicesPaidPct)
}

func TestEmptyInvoiceSet(t *testing.T) {
	policy := engine.DefaultPolicy()

	summary := engine.Summarize(nil, policy)
	assert.Equal(t, 0.0, summary.Revenue)
	assert.Equal(t, 0.0, summary.InvoicesPaidPct)
	assert.Nil(t, summary.MarginPct)

	assert.Empty(t, engine.GroupByProperty(nil, fixtureProperties(), policy))
	assert.Empty(t, engine.GroupByProvider(nil, fixtureProviders(), policy))
	assert.Empty(t, engine.GroupByPair(nil, fixtureProperties(), fixtureProviders(), policy))
}

func TestUnknownReferencesGetLiteralLabels(t *testing.T) {
	ghostProperty := snowflake.ID(9999)
	ghostProvider := snowflake.ID(8888)
	invoices := []invoicedomain.Invoice{
		paidInvoice(ghostProperty, ghostProvider, "2024-01-10", 500),
	}
	policy := engine.DefaultPolicy()

	byProperty := engine.GroupByProperty(invoices, fixtureProperties(), policy)
	require.Len(t, byProperty, 1)
	assert.Equal(t, "Unknown Property", byProperty[0].Name)

	byProvider := engine.GroupByProvider(invoices, fixtureProviders(), policy)
	require.Len(t, byProvider, 1)
	assert.Equal(t, "Unknown Provider", byProvider[0].Name)
}

func TestPaidPctGuardedAtZeroRevenue(t *testing.T) {
	// cancelled invoice with zero total still forms a group
	invoices := []invoicedomain.Invoice{
		{PropertyID: propertyOne, ProviderID: providerOne, IssueDate: "2024-01-10", Status: invoicedomain.InvoiceStatusCancelled, Total: 0},
	}
	policy := engine.DefaultPolicy()

	byProperty := engine.GroupByProperty(invoices, fixtureProperties(), policy)
	require.Len(t, byProperty, 1)
	assert.Equal(t, 0.0, byProperty[0].InvoicesPaidPct)
	assert.False(t, byProperty[0].InvoicesPaidPct < 0 || byProperty[0].InvoicesPaidPct > 100)
}

func TestRankByRevenueIsStableOnTies(t *testing.T) {
	rows := []domain.GroupMetrics{
		{PropertyID: "a", Revenue: 100},
		{PropertyID: "b", Revenue: 300},
		{PropertyID: "c", Revenue: 100},
		{PropertyID: "d", Revenue: 200},
	}

	engine.RankByRevenue(rows)

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PropertyID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestGroupByPairCrossTab(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-10", 400),
		sentInvoice(propertyOne, providerTwo, "2024-01-15", 100),
		paidInvoice(propertyOne, providerOne, "2024-02-10", 600),
		paidInvoice(propertyTwo, providerTwo, "2024-02-12", 50),
	}
	policy := engine.DefaultPolicy()

	rows := engine.GroupByPair(invoices, fixtureProperties(), fixtureProviders(), policy)
	require.Len(t, rows, 3)

	engine.RankCombined(rows)
	assert.Equal(t, propertyOne.String(), rows[0].PropertyID)
	assert.Equal(t, providerOne.String(), rows[0].ProviderID)
	assert.Equal(t, 1000.0, rows[0].Revenue)
	assert.Equal(t, 700.0, rows[0].Profit)
	assert.Equal(t, 100.0, rows[0].InvoicesPaidPct)
	assert.Equal(t, 2, rows[0].InvoiceCount)
}
