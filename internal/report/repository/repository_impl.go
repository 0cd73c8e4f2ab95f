package repository

import (
	"context"
	"fmt"

	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/report/domain"
	"gorm.io/gorm"
)

// sources reads whole-table snapshots for report computation. Any database
// failure surfaces as ErrSourceUnavailable so callers can distinguish
// "report unavailable" from "report legitimately empty".
type sources struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) (domain.InvoiceSource, domain.PropertySource, domain.ProviderSource) {
	s := &sources{db: db}
	return s, s, s
}

func (s *sources) ListInvoices(ctx context.Context) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, number, property_id, provider_id, issue_date, due_date, status, subtotal, tax, total, currency, notes, created_at, updated_at
		 FROM invoices`,
	).Scan(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %v", domain.ErrSourceUnavailable, err)
	}
	return invoices, nil
}

func (s *sources) ListProperties(ctx context.Context) ([]propertydomain.Property, error) {
	var properties []propertydomain.Property
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, code, name, address, status, created_at, updated_at
		 FROM properties`,
	).Scan(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list properties: %v", domain.ErrSourceUnavailable, err)
	}
	return properties, nil
}

func (s *sources) ListProviders(ctx context.Context) ([]providerdomain.Provider, error) {
	var providers []providerdomain.Provider
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, code, name, service, status, property_ids, created_at, updated_at
		 FROM providers`,
	).Scan(&providers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list providers: %v", domain.ErrSourceUnavailable, err)
	}
	return providers, nil
}
