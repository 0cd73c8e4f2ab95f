package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/propfolio/propfolio/internal/property/domain"
	"github.com/propfolio/propfolio/pkg/db"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("property.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePropertyRequest) (domain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Property{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	property := domain.Property{
		ID:        s.genID.Generate(),
		Name:      name,
		Address:   strings.TrimSpace(req.Address),
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	property.Code = slug.Make(name)

	if err := s.repo.Insert(ctx, s.db, &property); err != nil {
		if db.IsDuplicateKeyErr(err) {
			property.Code = fmt.Sprintf("%s-%s", slug.Make(name), property.ID.String())
			if err := s.repo.Insert(ctx, s.db, &property); err != nil {
				return domain.Property{}, err
			}
			return property, nil
		}
		return domain.Property{}, err
	}

	return property, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPropertyRequest) (domain.ListPropertyResponse, error) {
	filter := domain.ListPropertyFilter{
		Status: strings.TrimSpace(req.Status),
		Name:   strings.TrimSpace(req.Name),
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
		return domain.ListPropertyResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(property *domain.Property) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        property.ID.String(),
			CreatedAt: property.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	properties := make([]domain.Property, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		properties = append(properties, *item)
	}

	resp := domain.ListPropertyResponse{Properties: properties}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPropertyRequest) (domain.Property, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Property{}, err
	}

	property, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Property{}, err
	}
	if property == nil {
		return domain.Property{}, domain.ErrNotFound
	}

	return *property, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdatePropertyStatusRequest) (domain.Property, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Property{}, err
	}

	status := strings.TrimSpace(req.Status)
	if status != domain.StatusActive && status != domain.StatusInactive {
		return domain.Property{}, domain.ErrInvalidStatus
	}

	property, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Property{}, err
	}
	if property == nil {
		return domain.Property{}, domain.ErrNotFound
	}

	if property.Status == status {
		return *property, nil
	}

	if err := s.repo.UpdateStatus(ctx, s.db, id, status); err != nil {
		return domain.Property{}, err
	}

	property.Status = status
	property.UpdatedAt = time.Now().UTC()
	return *property, nil
}

func (s *Service) parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
