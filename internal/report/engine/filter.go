package engine

import (
	"time"

	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
)

// Filter narrows an invoice snapshot by the query's property, provider and
// inclusive date window. Filters compose with AND; the source slice is never
// mutated.
//
// If either window bound is empty no date filtering happens and the whole
// history stays in scope. When a window is active, invoices whose issue date
// cannot be parsed cannot be placed inside it and are excluded.
func Filter(invoices []invoicedomain.Invoice, q domain.Query) ([]invoicedomain.Invoice, error) {
	var from, to time.Time
	windowed := q.Windowed()
	if windowed {
		var err error
		from, err = ParseTimestamp(q.From)
		if err != nil {
			return nil, domain.ErrInvalidQuery
		}
		to, err = ParseTimestamp(q.To)
		if err != nil {
			return nil, domain.ErrInvalidQuery
		}
	}

	out := make([]invoicedomain.Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		if q.PropertyID != nil && invoice.PropertyID != *q.PropertyID {
			continue
		}
		if q.ProviderID != nil && invoice.ProviderID != *q.ProviderID {
			continue
		}
		if windowed {
			issued, err := ParseTimestamp(invoice.IssueDate)
			if err != nil {
				continue
			}
			if issued.Before(from) || issued.After(to) {
				continue
			}
		}
		out = append(out, invoice)
	}
	return out, nil
}
