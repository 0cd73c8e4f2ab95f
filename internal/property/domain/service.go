package domain

import (
	"context"
	"errors"

	"github.com/propfolio/propfolio/pkg/db/pagination"
)

type CreatePropertyRequest struct {
	Name    string
	Address string
}

type ListPropertyRequest struct {
	PageToken string
	PageSize  int
	Status    string
	Name      string
}

type ListPropertyResponse struct {
	pagination.PageInfo
	Properties []Property `json:"properties"`
}

type GetPropertyRequest struct {
	ID string
}

type UpdatePropertyStatusRequest struct {
	ID     string
	Status string
}

type Service interface {
	Create(context.Context, CreatePropertyRequest) (Property, error)
	List(context.Context, ListPropertyRequest) (ListPropertyResponse, error)
	GetByID(context.Context, GetPropertyRequest) (Property, error)
	UpdateStatus(context.Context, UpdatePropertyStatusRequest) (Property, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
)
