package engine

import (
	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
)

const (
	unknownPropertyLabel = "Unknown Property"
	unknownProviderLabel = "Unknown Provider"
)

type accumulator struct {
	revenue      float64
	paidRevenue  float64
	paidCount    int
	invoiceCount int
}

func (a *accumulator) add(invoice invoicedomain.Invoice) {
	a.revenue += invoice.Total
	a.invoiceCount++
	if invoice.Status == invoicedomain.InvoiceStatusPaid {
		a.paidRevenue += invoice.Total
		a.paidCount++
	}
}

// paidPct is the paid share of revenue, guarded to 0 when there is none.
func (a accumulator) paidPct() float64 {
	if a.revenue == 0 {
		return 0
	}
	return a.paidRevenue / a.revenue * 100
}

// GroupByProperty sums invoices into one row per referenced property.
// Rows come out in first-seen invoice order; properties without invoices are
// omitted entirely. An invoice pointing at a property missing from the
// reference list still aggregates, under a literal "Unknown Property" label.
func GroupByProperty(invoices []invoicedomain.Invoice, properties []propertydomain.Property, policy Policy) []domain.GroupMetrics {
	names := make(map[snowflake.ID]string, len(properties))
	for _, property := range properties {
		names[property.ID] = property.Name
	}

	order := make([]snowflake.ID, 0)
	groups := make(map[snowflake.ID]*accumulator)
	for _, invoice := range invoices {
		acc, ok := groups[invoice.PropertyID]
		if !ok {
			acc = &accumulator{}
			groups[invoice.PropertyID] = acc
			order = append(order, invoice.PropertyID)
		}
		acc.add(invoice)
	}

	out := make([]domain.GroupMetrics, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		name, ok := names[id]
		if !ok {
			name = unknownPropertyLabel
		}
		out = append(out, domain.GroupMetrics{
			PropertyID:      id.String(),
			Name:            name,
			Revenue:         acc.revenue,
			Expenses:        acc.revenue * policy.ExpenseRatio,
			Profit:          acc.revenue * policy.ProfitRatio(),
			MarginPct:       policy.GroupMarginPct(),
			InvoicesPaidPct: acc.paidPct(),
			PaidCount:       acc.paidCount,
			InvoiceCount:    acc.invoiceCount,
		})
	}
	return out
}

// GroupByProvider is the provider-keyed counterpart of GroupByProperty.
func GroupByProvider(invoices []invoicedomain.Invoice, providers []providerdomain.Provider, policy Policy) []domain.GroupMetrics {
	names := make(map[snowflake.ID]string, len(providers))
	for _, provider := range providers {
		names[provider.ID] = provider.Name
	}

	order := make([]snowflake.ID, 0)
	groups := make(map[snowflake.ID]*accumulator)
	for _, invoice := range invoices {
		acc, ok := groups[invoice.ProviderID]
		if !ok {
			acc = &accumulator{}
			groups[invoice.ProviderID] = acc
			order = append(order, invoice.ProviderID)
		}
		acc.add(invoice)
	}

	out := make([]domain.GroupMetrics, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		name, ok := names[id]
		if !ok {
			name = unknownProviderLabel
		}
		out = append(out, domain.GroupMetrics{
			ProviderID:      id.String(),
			Name:            name,
			Revenue:         acc.revenue,
			Expenses:        acc.revenue * policy.ExpenseRatio,
			Profit:          acc.revenue * policy.ProfitRatio(),
			MarginPct:       policy.GroupMarginPct(),
			InvoicesPaidPct: acc.paidPct(),
			PaidCount:       acc.paidCount,
			InvoiceCount:    acc.invoiceCount,
		})
	}
	return out
}

// GroupAll collapses the whole set into a single synthetic group row, used
// for the "all entities" aggregate series entry.
func GroupAll(invoices []invoicedomain.Invoice, name string, policy Policy) domain.GroupMetrics {
	var acc accumulator
	for _, invoice := range invoices {
		acc.add(invoice)
	}
	return domain.GroupMetrics{
		Name:            name,
		Revenue:         acc.revenue,
		Expenses:        acc.revenue * policy.ExpenseRatio,
		Profit:          acc.revenue * policy.ProfitRatio(),
		MarginPct:       policy.GroupMarginPct(),
		InvoicesPaidPct: acc.paidPct(),
		PaidCount:       acc.paidCount,
		InvoiceCount:    acc.invoiceCount,
	}
}

type pairKey struct {
	propertyID snowflake.ID
	providerID snowflake.ID
}

// GroupByPair cross-tabulates invoices into one row per property x provider
// combination that actually has invoices. Each cell computes its own metrics
// independently.
func GroupByPair(invoices []invoicedomain.Invoice, properties []propertydomain.Property, providers []providerdomain.Provider, policy Policy) []domain.CombinedRow {
	propertyNames := make(map[snowflake.ID]string, len(properties))
	for _, property := range properties {
		propertyNames[property.ID] = property.Name
	}
	providerNames := make(map[snowflake.ID]string, len(providers))
	for _, provider := range providers {
		providerNames[provider.ID] = provider.Name
	}

	order := make([]pairKey, 0)
	groups := make(map[pairKey]*accumulator)
	for _, invoice := range invoices {
		key := pairKey{propertyID: invoice.PropertyID, providerID: invoice.ProviderID}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
			order = append(order, key)
		}
		acc.add(invoice)
	}

	out := make([]domain.CombinedRow, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		propertyName, ok := propertyNames[key.propertyID]
		if !ok {
			propertyName = unknownPropertyLabel
		}
		providerName, ok := providerNames[key.providerID]
		if !ok {
			providerName = unknownProviderLabel
		}
		out = append(out, domain.CombinedRow{
			PropertyID:      key.propertyID.String(),
			ProviderID:      key.providerID.String(),
			PropertyName:    propertyName,
			ProviderName:    providerName,
			Revenue:         acc.revenue,
			Expenses:        acc.revenue * policy.ExpenseRatio,
			Profit:          acc.revenue * policy.ProfitRatio(),
			MarginPct:       policy.GroupMarginPct(),
			InvoicesPaidPct: acc.paidPct(),
			PaidCount:       acc.paidCount,
			InvoiceCount:    acc.invoiceCount,
		})
	}
	return out
}
