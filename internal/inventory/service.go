package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/cache"
	"github.com/barstock/revisor/internal/models"
	"github.com/barstock/revisor/internal/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultPageSize = 25

// Input is the writable part of an inventory item.
type Input struct {
	Name          string          `json:"name" validate:"required,min=2,max=100"`
	Category      string          `json:"category" validate:"required,min=2,max=100"`
	InStock       float64         `json:"inStock" validate:"gte=0"`
	MinStock      float64         `json:"minStock" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

type Service struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

func NewService(store Store, c cache.Cache, log *zap.Logger) *Service {
	return &Service{store: store, cache: c, log: log}
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, p pagination.Params) (pagination.Page[models.InventoryItem], error) {
	if owner == uuid.Nil {
		return pagination.Page[models.InventoryItem]{}, apperr.ErrUnauthorized
	}
	p = p.Normalize(DefaultPageSize)

	items, total, err := s.store.List(ctx, owner, p)
	if err != nil {
		return pagination.Page[models.InventoryItem]{}, s.fail(err, "Failed to fetch inventory")
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	item, err := s.store.Find(ctx, owner, id)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch inventory item")
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, owner uuid.UUID, in Input) (*models.InventoryItem, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if err := checkPrice(in); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{ID: uuid.New(), UserID: owner}
	apply(item, in)
	if err := s.store.Create(ctx, item); err != nil {
		return nil, s.fail(err, "Failed to create inventory item")
	}

	s.invalidate(ctx, owner)
	return item, nil
}

func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, in Input) (*models.InventoryItem, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if err := checkPrice(in); err != nil {
		return nil, err
	}

	item, err := s.store.Find(ctx, owner, id)
	if err != nil {
		return nil, s.fail(err, "Failed to update inventory item")
	}
	apply(item, in)
	if err := s.store.Update(ctx, item); err != nil {
		return nil, s.fail(err, "Failed to update inventory item")
	}

	s.invalidate(ctx, owner)
	return item, nil
}

// Delete removes an item. Revisions that snapshotted it keep their lines.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return apperr.ErrUnauthorized
	}
	if err := s.store.Delete(ctx, owner, id); err != nil {
		return s.fail(err, "Failed to delete inventory item")
	}

	s.invalidate(ctx, owner)
	return nil
}

func apply(item *models.InventoryItem, in Input) {
	item.Name = strings.TrimSpace(in.Name)
	item.Category = strings.TrimSpace(in.Category)
	item.InStock = in.InStock
	item.MinStock = in.MinStock
	item.PurchasePrice = in.PurchasePrice
	item.Status = models.StockStatus(in.InStock, in.MinStock)
}

func checkPrice(in Input) error {
	if in.PurchasePrice.IsNegative() {
		return apperr.Validation("purchasePrice must be greater than or equal to 0")
	}
	return nil
}

func (s *Service) fail(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Inventory item not found")
	}
	s.log.Error(message, zap.Error(err))
	return apperr.Persistence(message, err)
}

func (s *Service) invalidate(ctx context.Context, owner uuid.UUID) {
	if err := s.cache.Invalidate(ctx, cache.DashboardNamespace(owner)); err != nil {
		s.log.Warn("cache invalidation failed", zap.Stringer("owner", owner), zap.Error(err))
	}
}
