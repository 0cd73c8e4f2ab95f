package domain

import (
	"context"
	"errors"

	"github.com/propfolio/propfolio/pkg/db/pagination"
)

type CreateProviderRequest struct {
	Name        string
	Service     string
	PropertyIDs []string
}

type ListProviderRequest struct {
	PageToken string
	PageSize  int
	Status    string
	Service   string
	Name      string
}

type ListProviderResponse struct {
	pagination.PageInfo
	Providers []Provider `json:"providers"`
}

type GetProviderRequest struct {
	ID string
}

type UpdateProviderStatusRequest struct {
	ID     string
	Status string
}

type AssignPropertiesRequest struct {
	ID          string
	PropertyIDs []string
}

type Service interface {
	Create(context.Context, CreateProviderRequest) (Provider, error)
	List(context.Context, ListProviderRequest) (ListProviderResponse, error)
	GetByID(context.Context, GetProviderRequest) (Provider, error)
	UpdateStatus(context.Context, UpdateProviderStatusRequest) (Provider, error)
	AssignProperties(context.Context, AssignPropertiesRequest) (Provider, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidProperty = errors.New("invalid_property")
	ErrNotFound        = errors.New("not_found")
)
