package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/observability/metrics"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Metrics    *metrics.Metrics
	Repo       domain.Repository
	Properties propertydomain.Repository
	Providers  providerdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	metrics    *metrics.Metrics
	repo       domain.Repository
	properties propertydomain.Repository
	providers  providerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		metrics:    p.Metrics,
		repo:       p.Repo,
		properties: p.Properties,
		providers:  p.Providers,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	propertyID, err := parseID(req.PropertyID)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidProperty
	}
	providerID, err := parseID(req.ProviderID)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidProvider
	}

	property, err := s.properties.FindByID(ctx, s.db, propertyID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if property == nil {
		return domain.Invoice{}, domain.ErrInvalidProperty
	}

	provider, err := s.providers.FindByID(ctx, s.db, providerID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if provider == nil {
		return domain.Invoice{}, domain.ErrInvalidProvider
	}
	if len(provider.PropertyIDs) > 0 && !provider.ServesProperty(propertyID) {
		s.log.Warn("invoice references unassigned property",
			zap.String("provider_id", providerID.String()),
			zap.String("property_id", propertyID.String()),
		)
	}

	issueDate := strings.TrimSpace(req.IssueDate)
	if _, err := time.Parse("2006-01-02", issueDate); err != nil {
		return domain.Invoice{}, domain.ErrInvalidIssueDate
	}
	dueDate := strings.TrimSpace(req.DueDate)
	if dueDate != "" {
		if _, err := time.Parse("2006-01-02", dueDate); err != nil {
			return domain.Invoice{}, domain.ErrInvalidIssueDate
		}
	}

	if req.Subtotal < 0 || req.Tax < 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		ID:         s.genID.Generate(),
		Number:     fmt.Sprintf("INV-%s", ulid.Make()),
		PropertyID: propertyID,
		ProviderID: providerID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     domain.InvoiceStatusDraft,
		Subtotal:   req.Subtotal,
		Tax:        req.Tax,
		Total:      req.Subtotal + req.Tax,
		Currency:   currency,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceIssued(ctx, string(invoice.Status))
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListInvoiceFilter{
		IssuedFrom: strings.TrimSpace(req.IssuedFrom),
		IssuedTo:   strings.TrimSpace(req.IssuedTo),
	}
	if raw := strings.TrimSpace(req.PropertyID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidProperty
		}
		filter.PropertyID = &id
	}
	if raw := strings.TrimSpace(req.ProviderID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidProvider
		}
		filter.ProviderID = &id
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.InvoiceStatus(raw)
		switch status {
		case domain.InvoiceStatusDraft, domain.InvoiceStatusSent, domain.InvoiceStatusPaid,
			domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled:
			filter.Status = status
		default:
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	return *invoice, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateInvoiceStatusRequest) (domain.Invoice, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	next := domain.InvoiceStatus(strings.TrimSpace(req.Status))
	switch next {
	case domain.InvoiceStatusSent, domain.InvoiceStatusPaid,
		domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled:
	default:
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	if invoice.Status == next {
		return *invoice, nil
	}
	if !invoice.CanTransitionTo(next) {
		return domain.Invoice{}, domain.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, s.db, id, next); err != nil {
		return domain.Invoice{}, err
	}

	invoice.Status = next
	invoice.UpdatedAt = time.Now().UTC()
	return *invoice, nil
}

func parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	return snowflake.ParseString(raw)
}
