package revision

import (
	"context"

	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) ListInventory(ctx context.Context, owner uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) FindInventoryItem(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) UpdateInventoryStock(ctx context.Context, owner, id uuid.UUID, inStock float64, status models.InventoryStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(map[string]any{
			"in_stock": inStock,
			"status":   status,
		}).Error
}

func (r *GormRepository) CreateRevision(ctx context.Context, rev *models.Revision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *GormRepository) FindRevision(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error) {
	var rev models.Revision
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		First(&rev).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *GormRepository) FindRevisionWithItems(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error) {
	var rev models.Revision
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_name ASC")
		}).
		Where("id = ? AND user_id = ?", id, owner).
		First(&rev).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *GormRepository) ListRevisions(ctx context.Context, owner uuid.UUID, q ListQuery) ([]models.Revision, int64, error) {
	var (
		revs  []models.Revision
		total int64
	)

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Revision{}).Where("user_id = ?", owner)
		if q.Status != "" {
			query = query.Where("status = ?", q.Status)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := scoped().
		Order("date DESC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&revs).Error; err != nil {
		return nil, 0, err
	}
	return revs, total, nil
}

func (r *GormRepository) UpdateRevisionTotals(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal, itemsCounted int) error {
	return r.db.WithContext(ctx).
		Model(&models.Revision{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_loss":    totalLoss,
			"items_counted": itemsCounted,
		}).Error
}

func (r *GormRepository) MarkCompleted(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Revision{}).
		Where("id = ? AND status = ?", id, models.RevisionStatusDraft).
		Updates(map[string]any{
			"status":     models.RevisionStatusCompleted,
			"total_loss": totalLoss,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepository) DeleteRevision(ctx context.Context, owner, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("revision_id = ?", id).Delete(&models.RevisionItem{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ? AND user_id = ?", id, owner).Delete(&models.Revision{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepository) FindItem(ctx context.Context, owner, itemID uuid.UUID) (*models.RevisionItem, error) {
	var item models.RevisionItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN revisions ON revisions.id = revision_items.revision_id").
		Where("revision_items.id = ? AND revisions.user_id = ?", itemID, owner).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) UpdateItemCount(ctx context.Context, itemID uuid.UUID, counted *float64) error {
	return r.db.WithContext(ctx).
		Model(&models.RevisionItem{}).
		Where("id = ?", itemID).
		Update("counted_quantity", counted).Error
}

func (r *GormRepository) ListItems(ctx context.Context, revisionID uuid.UUID) ([]models.RevisionItem, error) {
	var items []models.RevisionItem
	if err := r.db.WithContext(ctx).
		Where("revision_id = ?", revisionID).
		Order("item_name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
