package engine

import (
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
)

// Summarize collapses the filtered invoice set into the whole-query totals.
// Unlike group rows, the summary margin is computed from the actual totals
// and left nil when there is no revenue at all.
func Summarize(invoices []invoicedomain.Invoice, policy Policy) domain.Summary {
	var acc accumulator
	for _, invoice := range invoices {
		acc.add(invoice)
	}

	summary := domain.Summary{
		Revenue:         acc.revenue,
		Expenses:        acc.revenue * policy.ExpenseRatio,
		Profit:          acc.revenue * policy.ProfitRatio(),
		InvoicesPaidPct: acc.paidPct(),
		PaidCount:       acc.paidCount,
		InvoiceCount:    acc.invoiceCount,
	}
	if acc.revenue != 0 {
		margin := summary.Profit / summary.Revenue * 100
		summary.MarginPct = &margin
	}
	return summary
}
