package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListProviderFilter struct {
	Status  string
	Service string
	Name    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, provider *Provider) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Provider, error)
	List(ctx context.Context, db *gorm.DB, filter ListProviderFilter, page pagination.Pagination) ([]*Provider, error)
	Update(ctx context.Context, db *gorm.DB, provider *Provider) error
}
