package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	"github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/pkg/db"
	"github.com/propfolio/propfolio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Properties propertydomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	properties propertydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("provider.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		properties: p.Properties,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProviderRequest) (domain.Provider, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Provider{}, domain.ErrInvalidName
	}

	propertyIDs, err := s.resolvePropertyIDs(ctx, req.PropertyIDs)
	if err != nil {
		return domain.Provider{}, err
	}

	now := time.Now().UTC()
	provider := domain.Provider{
		ID:          s.genID.Generate(),
		Name:        name,
		Service:     strings.TrimSpace(req.Service),
		Status:      domain.StatusActive,
		PropertyIDs: propertyIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	provider.Code = slug.Make(name)

	if err := s.repo.Insert(ctx, s.db, &provider); err != nil {
		if db.IsDuplicateKeyErr(err) {
			provider.Code = fmt.Sprintf("%s-%s", slug.Make(name), provider.ID.String())
			if err := s.repo.Insert(ctx, s.db, &provider); err != nil {
				return domain.Provider{}, err
			}
			return provider, nil
		}
		return domain.Provider{}, err
	}

	return provider, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProviderRequest) (domain.ListProviderResponse, error) {
	filter := domain.ListProviderFilter{
		Status:  strings.TrimSpace(req.Status),
		Service: strings.TrimSpace(req.Service),
		Name:    strings.TrimSpace(req.Name),
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
		return domain.ListProviderResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(provider *domain.Provider) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        provider.ID.String(),
			CreatedAt: provider.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	providers := make([]domain.Provider, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		providers = append(providers, *item)
	}

	resp := domain.ListProviderResponse{Providers: providers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProviderRequest) (domain.Provider, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Provider{}, err
	}

	provider, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Provider{}, err
	}
	if provider == nil {
		return domain.Provider{}, domain.ErrNotFound
	}

	return *provider, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateProviderStatusRequest) (domain.Provider, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Provider{}, err
	}

	status := strings.TrimSpace(req.Status)
	if status != domain.StatusActive && status != domain.StatusInactive {
		return domain.Provider{}, domain.ErrInvalidStatus
	}

	provider, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Provider{}, err
	}
	if provider == nil {
		return domain.Provider{}, domain.ErrNotFound
	}

	if provider.Status == status {
		return *provider, nil
	}

	provider.Status = status
	provider.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, provider); err != nil {
		return domain.Provider{}, err
	}

	return *provider, nil
}

func (s *Service) AssignProperties(ctx context.Context, req domain.AssignPropertiesRequest) (domain.Provider, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Provider{}, err
	}

	provider, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Provider{}, err
	}
	if provider == nil {
		return domain.Provider{}, domain.ErrNotFound
	}

	propertyIDs, err := s.resolvePropertyIDs(ctx, req.PropertyIDs)
	if err != nil {
		return domain.Provider{}, err
	}

	provider.PropertyIDs = propertyIDs
	provider.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, provider); err != nil {
		return domain.Provider{}, err
	}

	return *provider, nil
}

// resolvePropertyIDs validates that every referenced property exists and
// returns the deduplicated assignment list.
func (s *Service) resolvePropertyIDs(ctx context.Context, raw []string) (datatypes.JSONSlice[string], error) {
	ids := make(datatypes.JSONSlice[string], 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		id, err := snowflake.ParseString(value)
		if err != nil {
			return nil, domain.ErrInvalidProperty
		}
		property, err := s.properties.FindByID(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if property == nil {
			return nil, domain.ErrInvalidProperty
		}
		seen[value] = struct{}{}
		ids = append(ids, value)
	}
	return ids, nil
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
