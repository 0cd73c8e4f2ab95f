// Package seed bootstraps a demo portfolio for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type demoProperty struct {
	name    string
	address string
}

type demoProvider struct {
	name    string
	service string
}

type demoInvoice struct {
	property  string
	provider  string
	issueDate string
	status    invoicedomain.InvoiceStatus
	subtotal  float64
	tax       float64
}

var demoProperties = []demoProperty{
	{name: "Harborview Apartments", address: "12 Quay St"},
	{name: "Maple Court", address: "88 Maple Ave"},
	{name: "Stone Gate Offices", address: "401 Granite Rd"},
}

var demoProviders = []demoProvider{
	{name: "Acme Plumbing", service: "plumbing"},
	{name: "Brightspark Electrical", service: "electrical"},
	{name: "GreenLeaf Landscaping", service: "landscaping"},
}

var demoInvoices = []demoInvoice{
	{property: "Harborview Apartments", provider: "Acme Plumbing", issueDate: "2024-01-08", status: invoicedomain.InvoiceStatusPaid, subtotal: 1250, tax: 100},
	{property: "Harborview Apartments", provider: "Brightspark Electrical", issueDate: "2024-01-22", status: invoicedomain.InvoiceStatusPaid, subtotal: 880, tax: 70.4},
	{property: "Harborview Apartments", provider: "Acme Plumbing", issueDate: "2024-02-05", status: invoicedomain.InvoiceStatusSent, subtotal: 430, tax: 34.4},
	{property: "Maple Court", provider: "GreenLeaf Landscaping", issueDate: "2024-02-14", status: invoicedomain.InvoiceStatusPaid, subtotal: 2100, tax: 168},
	{property: "Maple Court", provider: "Acme Plumbing", issueDate: "2024-03-01", status: invoicedomain.InvoiceStatusOverdue, subtotal: 315, tax: 25.2},
	{property: "Stone Gate Offices", provider: "Brightspark Electrical", issueDate: "2024-03-18", status: invoicedomain.InvoiceStatusSent, subtotal: 5400, tax: 432},
	{property: "Stone Gate Offices", provider: "GreenLeaf Landscaping", issueDate: "2024-04-02", status: invoicedomain.InvoiceStatusDraft, subtotal: 760, tax: 60.8},
}

// EnsureDemoPortfolio seeds a small portfolio of properties, providers and
// invoices. Safe to run on every startup; existing rows are left untouched.
func EnsureDemoPortfolio(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties, err := ensureProperties(ctx, tx, node)
		if err != nil {
			return err
		}
		providers, err := ensureProviders(ctx, tx, node, properties)
		if err != nil {
			return err
		}
		return ensureInvoices(ctx, tx, node, properties, providers)
	})
}

func ensureProperties(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]propertydomain.Property, error) {
	out := make(map[string]propertydomain.Property, len(demoProperties))
	now := time.Now().UTC()
	for _, seed := range demoProperties {
		code := slug.Make(seed.name)

		var existing propertydomain.Property
		err := tx.WithContext(ctx).
			Where("code = ?", code).
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return nil, err
		}
		if existing.ID != 0 {
			out[seed.name] = existing
			continue
		}

		property := propertydomain.Property{
			ID:        node.Generate(),
			Code:      code,
			Name:      seed.name,
			Address:   seed.address,
			Status:    propertydomain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&property).Error; err != nil {
			return nil, err
		}
		out[seed.name] = property
	}
	return out, nil
}

func ensureProviders(ctx context.Context, tx *gorm.DB, node *snowflake.Node, properties map[string]propertydomain.Property) (map[string]providerdomain.Provider, error) {
	assignments := make(datatypes.JSONSlice[string], 0, len(properties))
	for _, property := range properties {
		assignments = append(assignments, property.ID.String())
	}

	out := make(map[string]providerdomain.Provider, len(demoProviders))
	now := time.Now().UTC()
	for _, seed := range demoProviders {
		code := slug.Make(seed.name)

		var existing providerdomain.Provider
		err := tx.WithContext(ctx).
			Where("code = ?", code).
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return nil, err
		}
		if existing.ID != 0 {
			out[seed.name] = existing
			continue
		}

		provider := providerdomain.Provider{
			ID:          node.Generate(),
			Code:        code,
			Name:        seed.name,
			Service:     seed.service,
			Status:      providerdomain.StatusActive,
			PropertyIDs: assignments,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&provider).Error; err != nil {
			return nil, err
		}
		out[seed.name] = provider
	}
	return out, nil
}

func ensureInvoices(ctx context.Context, tx *gorm.DB, node *snowflake.Node, properties map[string]propertydomain.Property, providers map[string]providerdomain.Provider) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&invoicedomain.Invoice{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, seed := range demoInvoices {
		property, ok := properties[seed.property]
		if !ok {
			return fmt.Errorf("seed invoice references unknown property %q", seed.property)
		}
		provider, ok := providers[seed.provider]
		if !ok {
			return fmt.Errorf("seed invoice references unknown provider %q", seed.provider)
		}

		invoice := invoicedomain.Invoice{
			ID:         node.Generate(),
			Number:     fmt.Sprintf("INV-%s", ulid.Make()),
			PropertyID: property.ID,
			ProviderID: provider.ID,
			IssueDate:  seed.issueDate,
			Status:     seed.status,
			Subtotal:   seed.subtotal,
			Tax:        seed.tax,
			Total:      seed.subtotal + seed.tax,
			Currency:   "USD",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
	}
	return nil
}
