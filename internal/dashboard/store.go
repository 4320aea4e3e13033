package dashboard

import (
	"context"
	"time"

	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryTotals struct {
	CostValue decimal.Decimal `gorm:"column:cost_value"`
	LowStock  int64           `gorm:"column:low_stock"`
	Items     int64           `gorm:"column:items"`
}

// LossBucket is the completed-revision loss of one calendar day.
type LossBucket struct {
	Day   time.Time       `gorm:"column:day"`
	Total decimal.Decimal `gorm:"column:total"`
}

type Store interface {
	InventoryTotals(ctx context.Context, owner uuid.UUID) (InventoryTotals, error)
	// CompletedLossSince sums totalLoss of COMPLETED revisions dated at or after since.
	CompletedLossSince(ctx context.Context, owner uuid.UUID, since time.Time) (decimal.Decimal, error)
	CompletedLossByDay(ctx context.Context, owner uuid.UUID, since time.Time) ([]LossBucket, error)
	RecentRevisions(ctx context.Context, owner uuid.UUID, limit int) ([]models.Revision, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InventoryTotals(ctx context.Context, owner uuid.UUID) (InventoryTotals, error) {
	var out InventoryTotals
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(in_stock * purchase_price), 0) AS cost_value,
		       COUNT(*) FILTER (WHERE in_stock < min_stock) AS low_stock,
		       COUNT(*) AS items
		FROM inventory_items
		WHERE user_id = ?`, owner).
		Scan(&out).Error
	return out, err
}

func (s *GormStore) CompletedLossSince(ctx context.Context, owner uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_loss), 0) AS total
		FROM revisions
		WHERE user_id = ? AND status = ? AND date >= ?`,
		owner, models.RevisionStatusCompleted, since).
		Scan(&row).Error
	return row.Total, err
}

func (s *GormStore) CompletedLossByDay(ctx context.Context, owner uuid.UUID, since time.Time) ([]LossBucket, error) {
	var rows []LossBucket
	err := s.db.WithContext(ctx).Raw(`
		SELECT date_trunc('day', date) AS day,
		       SUM(total_loss) AS total
		FROM revisions
		WHERE user_id = ? AND status = ? AND date >= ?
		GROUP BY day
		ORDER BY day ASC`,
		owner, models.RevisionStatusCompleted, since).
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) RecentRevisions(ctx context.Context, owner uuid.UUID, limit int) ([]models.Revision, error) {
	var revs []models.Revision
	err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("date DESC").
		Limit(limit).
		Find(&revs).Error
	return revs, err
}
