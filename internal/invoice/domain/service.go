package domain

import (
	"context"
	"errors"

	"github.com/propfolio/propfolio/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	PropertyID string
	ProviderID string
	IssueDate  string
	DueDate    string
	Subtotal   float64
	Tax        float64
	Currency   string
	Notes      string
}

type ListInvoiceRequest struct {
	PageToken  string
	PageSize   int
	PropertyID string
	ProviderID string
	Status     string
	IssuedFrom string
	IssuedTo   string
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type GetInvoiceRequest struct {
	ID string
}

type UpdateInvoiceStatusRequest struct {
	ID     string
	Status string
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	UpdateStatus(context.Context, UpdateInvoiceStatusRequest) (Invoice, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidProperty   = errors.New("invalid_property")
	ErrInvalidProvider   = errors.New("invalid_provider")
	ErrInvalidIssueDate  = errors.New("invalid_issue_date")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)
