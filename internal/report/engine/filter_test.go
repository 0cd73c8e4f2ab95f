package engine_test

import (
	"testing"

	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/propfolio/propfolio/internal/report/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterInclusiveWindow(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-01", 100),
		paidInvoice(propertyOne, providerOne, "2024-01-31", 200),
		paidInvoice(propertyOne, providerOne, "2024-02-01", 400),
	}

	filtered, err := engine.Filter(invoices, domain.Query{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, 100.0, filtered[0].Total)
	assert.Equal(t, 200.0, filtered[1].Total)
}

func TestFilterEmptyBoundDisablesDateFiltering(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2019-06-01", 100),
		{PropertyID: propertyOne, ProviderID: providerOne, IssueDate: "garbage", Status: invoicedomain.InvoiceStatusPaid, Total: 50},
	}

	// default-to-all-time: a malformed issue date still counts toward totals
	filtered, err := engine.Filter(invoices, domain.Query{From: "2024-01-01"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestFilterExcludesMalformedDatesInsideWindow(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-15", 100),
		{PropertyID: propertyOne, ProviderID: providerOne, IssueDate: "garbage", Status: invoicedomain.InvoiceStatusPaid, Total: 50},
	}

	filtered, err := engine.Filter(invoices, domain.Query{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 100.0, filtered[0].Total)
}

func TestFilterComposesWithAND(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paidInvoice(propertyOne, providerOne, "2024-01-10", 100),
		paidInvoice(propertyOne, providerTwo, "2024-01-11", 200),
		paidInvoice(propertyTwo, providerOne, "2024-01-12", 400),
	}

	filtered, err := engine.Filter(invoices, domain.Query{
		PropertyID: &propertyOne,
		ProviderID: &providerTwo,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 200.0, filtered[0].Total)

	// source slice untouched
	assert.Len(t, invoices, 3)
}

func TestFilterRejectsMalformedBounds(t *testing.T) {
	_, err := engine.Filter(nil, domain.Query{From: "bogus", To: "2024-01-31"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}
