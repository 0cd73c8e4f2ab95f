package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
)

// InvoiceSource supplies the invoice snapshot a report is computed over.
type InvoiceSource interface {
	ListInvoices(ctx context.Context) ([]invoicedomain.Invoice, error)
}

// PropertySource supplies the property reference list for name enrichment.
type PropertySource interface {
	ListProperties(ctx context.Context) ([]propertydomain.Property, error)
}

// ProviderSource supplies the provider reference list, including the
// property assignment relation.
type ProviderSource interface {
	ListProviders(ctx context.Context) ([]providerdomain.Provider, error)
}

type Service interface {
	PropertyReport(ctx context.Context, q Query) (Report, error)
	ProviderReport(ctx context.Context, q Query) (Report, error)
	CombinedReport(ctx context.Context, q Query) (Report, error)
	OverviewReport(ctx context.Context, q Query) (Report, error)
}

var (
	// ErrMalformedTimestamp marks an invoice date that cannot be parsed.
	// Records carrying one are dropped from period bucketing, not fatal.
	ErrMalformedTimestamp = errors.New("malformed_timestamp")

	// ErrSourceUnavailable is the only hard failure a report surfaces:
	// the snapshot sources could not be reached.
	ErrSourceUnavailable = errors.New("source_unavailable")

	ErrInvalidGranularity = errors.New("invalid_granularity")
	ErrInvalidQuery       = errors.New("invalid_query")
)
