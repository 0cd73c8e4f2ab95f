package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	invoicerepo "github.com/propfolio/propfolio/internal/invoice/repository"
	invoiceservice "github.com/propfolio/propfolio/internal/invoice/service"
	"github.com/propfolio/propfolio/internal/observability/metrics"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	propertyrepo "github.com/propfolio/propfolio/internal/property/repository"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	providerrepo "github.com/propfolio/propfolio/internal/provider/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&propertydomain.Property{},
		&providerdomain.Provider{},
		&invoicedomain.Invoice{},
	))

	return db
}

func newService(t *testing.T, db *gorm.DB) (invoicedomain.Service, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	svc := invoiceservice.New(invoiceservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Metrics:    m,
		Repo:       invoicerepo.Provide(),
		Properties: propertyrepo.Provide(),
		Providers:  providerrepo.Provide(),
	})
	return svc, node
}

func seedPortfolio(t *testing.T, db *gorm.DB, node *snowflake.Node) (propertydomain.Property, providerdomain.Provider) {
	t.Helper()

	now := time.Now().UTC()
	property := propertydomain.Property{
		ID:        node.Generate(),
		Code:      fmt.Sprintf("harborview-%d", now.UnixNano()),
		Name:      "Harborview Apartments",
		Status:    propertydomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&property).Error)

	provider := providerdomain.Provider{
		ID:          node.Generate(),
		Code:        fmt.Sprintf("acme-plumbing-%d", now.UnixNano()),
		Name:        "Acme Plumbing",
		Service:     "plumbing",
		Status:      providerdomain.StatusActive,
		PropertyIDs: datatypes.JSONSlice[string]{property.ID.String()},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(&provider).Error)

	return property, provider
}

func TestCreateInvoiceComputesTotal(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, node := newService(t, db)
	property, provider := seedPortfolio(t, db, node)

	invoice, err := svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: property.ID.String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "2024-03-15",
		DueDate:    "2024-04-14",
		Subtotal:   1200,
		Tax:        96,
	})
	require.NoError(t, err)

	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, 1296.0, invoice.Total)
	assert.Equal(t, "USD", invoice.Currency)
	assert.NotEmpty(t, invoice.Number)
}

func TestCreateInvoiceRejectsUnknownProperty(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, node := newService(t, db)
	_, provider := seedPortfolio(t, db, node)

	_, err := svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: node.Generate().String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "2024-03-15",
		Subtotal:   100,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidProperty)
}

func TestCreateInvoiceRejectsBadIssueDate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, node := newService(t, db)
	property, provider := seedPortfolio(t, db, node)

	_, err := svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: property.ID.String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "03/15/2024",
		Subtotal:   100,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidIssueDate)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, node := newService(t, db)
	property, provider := seedPortfolio(t, db, node)

	invoice, err := svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: property.ID.String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "2024-03-15",
		Subtotal:   500,
	})
	require.NoError(t, err)

	// draft cannot jump straight to paid
	_, err = svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     invoice.ID.String(),
		Status: "paid",
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)

	sent, err := svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     invoice.ID.String(),
		Status: "sent",
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, sent.Status)

	overdue, err := svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     invoice.ID.String(),
		Status: "overdue",
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusOverdue, overdue.Status)

	paid, err := svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     invoice.ID.String(),
		Status: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, paid.Status)

	// paid is terminal
	_, err = svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     invoice.ID.String(),
		Status: "cancelled",
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)
}

func TestListInvoicesFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc, node := newService(t, db)
	property, provider := seedPortfolio(t, db, node)

	first, err := svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: property.ID.String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "2024-03-01",
		Subtotal:   100,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, invoicedomain.CreateInvoiceRequest{
		PropertyID: property.ID.String(),
		ProviderID: provider.ID.String(),
		IssueDate:  "2024-03-02",
		Subtotal:   200,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, invoicedomain.UpdateInvoiceStatusRequest{
		ID:     first.ID.String(),
		Status: "sent",
	})
	require.NoError(t, err)

	resp, err := svc.List(ctx, invoicedomain.ListInvoiceRequest{Status: "sent"})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, first.ID, resp.Invoices[0].ID)
}
