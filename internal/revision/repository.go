package revision

import (
	"context"

	"github.com/barstock/revisor/internal/models"
	"github.com/barstock/revisor/internal/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListQuery filters a revision listing. An empty Status lists every revision.
type ListQuery struct {
	pagination.Params
	Status models.RevisionStatus
}

// Repository is the persistence the engine runs on. Lookups that miss return
// gorm.ErrRecordNotFound. Every row that has an owner is looked up by owner.
type Repository interface {
	// Transaction runs fn on a Repository bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	ListInventory(ctx context.Context, owner uuid.UUID) ([]models.InventoryItem, error)
	FindInventoryItem(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error)
	UpdateInventoryStock(ctx context.Context, owner, id uuid.UUID, inStock float64, status models.InventoryStatus) error

	CreateRevision(ctx context.Context, rev *models.Revision) error
	FindRevision(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error)
	// FindRevisionWithItems loads the items ordered by item name.
	FindRevisionWithItems(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error)
	ListRevisions(ctx context.Context, owner uuid.UUID, q ListQuery) ([]models.Revision, int64, error)
	UpdateRevisionTotals(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal, itemsCounted int) error
	// MarkCompleted moves a DRAFT revision to COMPLETED and reports false when
	// the revision was no longer DRAFT.
	MarkCompleted(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal) (bool, error)
	DeleteRevision(ctx context.Context, owner, id uuid.UUID) error

	// FindItem resolves an item through its parent revision's owner.
	FindItem(ctx context.Context, owner, itemID uuid.UUID) (*models.RevisionItem, error)
	UpdateItemCount(ctx context.Context, itemID uuid.UUID, counted *float64) error
	ListItems(ctx context.Context, revisionID uuid.UUID) ([]models.RevisionItem, error)
}
