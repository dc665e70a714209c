package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/volunteerhub/pkg/cache"
	"github.com/ghuser/volunteerhub/pkg/logger"
	"github.com/ghuser/volunteerhub/services/resource/domain"
	"github.com/ghuser/volunteerhub/services/resource/domain/models"
	"github.com/ghuser/volunteerhub/services/resource/domain/repositories"
	domainsvcs "github.com/ghuser/volunteerhub/services/resource/domain/services"
)

// ResourceCache is the read-through cache of resources. *cache.ResourceCache
// implements it; Get returns redis.Nil on a miss.
type ResourceCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedResource, error)
	Set(ctx context.Context, r *pkgcache.CachedResource) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResourceService manages the resource catalogue.
// Reads are served from Redis cache when available.
type ResourceService struct {
	store repositories.Store
	cache ResourceCache
	log   logger.Logger
}

// NewResourceService returns a ResourceService. rc may be nil.
func NewResourceService(store repositories.Store, rc ResourceCache, log logger.Logger) *ResourceService {
	return &ResourceService{store: store, cache: rc, log: log}
}

// CreateResourceInput describes a new resource.
type CreateResourceInput struct {
	OrganizationID    uuid.UUID
	Name              string
	Category          string
	Description       string
	QuantityTotal     int
	QuantityAvailable *int
	SerialNumber      string
	IsReturnable      bool
	Status            models.ResourceStatus
	Location          string
}

// Create validates and persists a resource. Creation is not a custody event;
// the first custody entry starts from the created state.
func (s *ResourceService) Create(ctx context.Context, actor models.Actor, in CreateResourceInput) (*models.Resource, error) {
	if !actor.CanLend(in.OrganizationID) {
		return nil, fmt.Errorf("create resource: %w", domain.ErrUnauthorized)
	}

	name, err := models.NewResourceName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResource, err)
	}

	res := models.NewResource(models.NewResourceParams{
		OrganizationID:    in.OrganizationID,
		Name:              name,
		Category:          in.Category,
		Description:       in.Description,
		QuantityTotal:     in.QuantityTotal,
		QuantityAvailable: in.QuantityAvailable,
		SerialNumber:      in.SerialNumber,
		IsReturnable:      in.IsReturnable,
		Status:            in.Status,
		Location:          in.Location,
	})
	if err := domainsvcs.ValidateResourceForCreation(res); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResource, err)
	}

	if err := s.store.Repositories().Resources.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}

	s.log.InfoContext(ctx, "resource created",
		"resource_id", res.ID,
		"organization_id", res.OrganizationID,
		"serialized", res.IsSerialized(),
	)
	return res, nil
}

// Get retrieves a resource using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the database.
//  3. Asynchronously warm the cache with the database result.
//
// Visibility is checked on the returned row either way.
func (s *ResourceService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Resource, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(res.OrganizationID) {
		return nil, fmt.Errorf("get resource: %w", domain.ErrUnauthorized)
	}
	return res, nil
}

func (s *ResourceService) load(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCached(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "resource cache read failed", "resource_id", id, "error", err)
		}
	}

	res, err := s.store.Repositories().Resources.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}

	if s.cache != nil {
		warm := toCached(res)
		go func() {
			wctx := context.WithoutCancel(ctx)
			if err := s.cache.Set(wctx, warm); err != nil {
				s.log.WarnContext(wctx, "resource cache warm failed", "resource_id", warm.ID, "error", err)
			}
		}()
	}
	return res, nil
}

// Refresh reloads a resource into the cache. Used by the worker when a
// custody change is recorded.
func (s *ResourceService) Refresh(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	res, err := s.store.Repositories().Resources.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh resource: %w", err)
	}
	if err := s.cache.Set(ctx, toCached(res)); err != nil {
		return fmt.Errorf("refresh resource: %w", err)
	}
	return nil
}

// List returns a page of resources plus the total count. Non-admins only see
// their own organization.
func (s *ResourceService) List(ctx context.Context, actor models.Actor, filter repositories.ResourceFilter) ([]*models.Resource, int, error) {
	if !actor.IsAdmin() {
		if actor.OrganizationID == uuid.Nil {
			return nil, 0, fmt.Errorf("list resources: %w", domain.ErrUnauthorized)
		}
		filter.OrganizationID = actor.OrganizationID
	}
	items, total, err := s.store.Repositories().Resources.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources: %w", err)
	}
	return items, total, nil
}

// Assignments lists every assignment of a resource, newest first.
func (s *ResourceService) Assignments(ctx context.Context, actor models.Actor, id uuid.UUID) ([]*models.Assignment, error) {
	repos := s.store.Repositories()
	res, err := repos.Resources.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if !actor.CanView(res.OrganizationID) {
		return nil, fmt.Errorf("list assignments: %w", domain.ErrUnauthorized)
	}
	out, err := repos.Assignments.ListByResource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

func toCached(r *models.Resource) *pkgcache.CachedResource {
	return &pkgcache.CachedResource{
		ID:                r.ID,
		OrganizationID:    r.OrganizationID,
		Name:              r.Name.String(),
		Category:          r.Category,
		Description:       r.Description,
		QuantityTotal:     r.QuantityTotal,
		QuantityAvailable: r.QuantityAvailable,
		SerialNumber:      r.SerialNumber,
		IsReturnable:      r.IsReturnable,
		Status:            string(r.Status),
		Location:          r.Location,
		CustodySeq:        r.CustodySeq,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func fromCached(c *pkgcache.CachedResource) *models.Resource {
	return &models.Resource{
		ID:                c.ID,
		OrganizationID:    c.OrganizationID,
		Name:              models.ResourceName(c.Name),
		Category:          c.Category,
		Description:       c.Description,
		QuantityTotal:     c.QuantityTotal,
		QuantityAvailable: c.QuantityAvailable,
		SerialNumber:      c.SerialNumber,
		IsReturnable:      c.IsReturnable,
		Status:            models.ResourceStatus(c.Status),
		Location:          c.Location,
		CustodySeq:        c.CustodySeq,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
