package inventory

import (
	"context"

	"github.com/barstock/revisor/internal/models"
	"github.com/barstock/revisor/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists inventory items. Every call is scoped to the owner and misses
// return gorm.ErrRecordNotFound.
type Store interface {
	List(ctx context.Context, owner uuid.UUID, p pagination.Params) ([]models.InventoryItem, int64, error)
	Find(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, owner uuid.UUID, p pagination.Params) ([]models.InventoryItem, int64, error) {
	var (
		items []models.InventoryItem
		total int64
	)

	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("user_id = ?", owner)
		if p.Search != "" {
			like := "%" + p.Search + "%"
			query = query.Where("(name ILIKE ? OR category ILIKE ?)", like, like)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := scoped().
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *GormStore) Find(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) Create(ctx context.Context, item *models.InventoryItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) Update(ctx context.Context, item *models.InventoryItem) error {
	res := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(map[string]any{
			"name":           item.Name,
			"category":       item.Category,
			"in_stock":       item.InStock,
			"min_stock":      item.MinStock,
			"purchase_price": item.PurchasePrice,
			"status":         item.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, owner, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
