package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, provider *domain.Provider) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO providers (id, code, name, service, status, property_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		provider.ID,
		provider.Code,
		provider.Name,
		provider.Service,
		provider.Status,
		provider.PropertyIDs,
		provider.CreatedAt,
		provider.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Provider, error) {
	var provider domain.Provider
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, service, status, property_ids, created_at, updated_at
		 FROM providers WHERE id = ?`,
		id,
	).Scan(&provider).Error
	if err != nil {
		return nil, err
	}
	if provider.ID == 0 {
		return nil, nil
	}
	return &provider, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListProviderFilter, page pagination.Pagination) ([]*domain.Provider, error) {
	var providers []*domain.Provider
	stmt := db.WithContext(ctx).Model(&domain.Provider{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Service != "" {
		stmt = stmt.Where("service = ?", filter.Service)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, provider *domain.Provider) error {
	return db.WithContext(ctx).Exec(
		`UPDATE providers
		 SET name = ?, service = ?, status = ?, property_ids = ?, updated_at = ?
		 WHERE id = ?`,
		provider.Name,
		provider.Service,
		provider.Status,
		provider.PropertyIDs,
		provider.UpdatedAt,
		provider.ID,
	).Error
}
