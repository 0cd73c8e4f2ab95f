package engine

import (
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
)

// CountMalformed returns how many invoices carry an unparseable issue date.
// Such records are excluded from period bucketing but still count toward
// unwindowed totals.
func CountMalformed(invoices []invoicedomain.Invoice) int {
	count := 0
	for _, invoice := range invoices {
		if _, err := ParseTimestamp(invoice.IssueDate); err != nil {
			count++
		}
	}
	return count
}

// TrendPoints buckets the given invoices by period key and emits one point
// per enumerated period with revenue, newest first. Zero-revenue periods are
// dropped, not zero-filled, so the series is not necessarily contiguous.
//
// belongs selects the entity's invoices; pass nil for an all-entities
// aggregate. The second return value counts records dropped because their
// issue date would not parse; those invoices still count toward report
// totals, only the series skips them.
func TrendPoints(invoices []invoicedomain.Invoice, belongs func(invoicedomain.Invoice) bool, periods []string, g domain.Granularity, policy Policy) ([]domain.TrendPoint, int) {
	revenueByPeriod := make(map[string]float64, len(periods))
	dropped := 0
	for _, invoice := range invoices {
		if belongs != nil && !belongs(invoice) {
			continue
		}
		issued, err := ParseTimestamp(invoice.IssueDate)
		if err != nil {
			dropped++
			continue
		}
		key, err := PeriodKey(issued, g)
		if err != nil {
			dropped++
			continue
		}
		revenueByPeriod[key] += invoice.Total
	}

	points := make([]domain.TrendPoint, 0, len(periods))
	for _, period := range periods {
		revenue := revenueByPeriod[period]
		if revenue <= 0 {
			continue
		}
		points = append(points, domain.TrendPoint{
			PeriodKey: period,
			Revenue:   revenue,
			Profit:    revenue * policy.ProfitRatio(),
		})
	}
	return points, dropped
}
