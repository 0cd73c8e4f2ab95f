package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	PropertyID *snowflake.ID
	ProviderID *snowflake.ID
	Status     InvoiceStatus
	IssuedFrom string
	IssuedTo   string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status InvoiceStatus) error
}
