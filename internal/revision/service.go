package revision

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/cache"
	"github.com/barstock/revisor/internal/models"
	"github.com/barstock/revisor/internal/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultPageSize = 5

// Summary is one row of the revision listing.
type Summary struct {
	ID           uuid.UUID             `json:"id"`
	Date         time.Time             `json:"date"`
	Status       models.RevisionStatus `json:"status"`
	TotalLoss    decimal.Decimal       `json:"totalLoss"`
	ItemsCounted int                   `json:"itemsCounted"`
}

// ItemLine is a revision item with its live difference and loss.
type ItemLine struct {
	models.RevisionItem
	Difference float64         `json:"difference"`
	LossValue  decimal.Decimal `json:"lossValue"`
}

type Detail struct {
	ID           uuid.UUID             `json:"id"`
	Date         time.Time             `json:"date"`
	Status       models.RevisionStatus `json:"status"`
	TotalLoss    decimal.Decimal       `json:"totalLoss"`
	ItemsCounted int                   `json:"itemsCounted"`
	Items        []ItemLine            `json:"items"`
}

type CompletionResult struct {
	RevisionID      uuid.UUID       `json:"revisionId"`
	TotalLoss       decimal.Decimal `json:"totalLoss"`
	ItemsReconciled int             `json:"itemsReconciled"`
	// ItemsSkipped counts lines whose inventory item was deleted after the snapshot.
	ItemsSkipped int `json:"itemsSkipped"`
}

type Service struct {
	repo  Repository
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, c cache.Cache, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log, now: time.Now}
}

// Create snapshots the owner's inventory into a new DRAFT revision.
func (s *Service) Create(ctx context.Context, owner uuid.UUID) (uuid.UUID, error) {
	if owner == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}

	var rev *models.Revision
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		inventory, err := tx.ListInventory(ctx, owner)
		if err != nil {
			return err
		}
		if len(inventory) == 0 {
			return apperr.ErrNoInventory
		}
		rev = Snapshot(owner, inventory, s.now())
		return tx.CreateRevision(ctx, rev)
	})
	if err != nil {
		return uuid.Nil, s.fail(err, "Failed to create revision", zap.Stringer("owner", owner))
	}

	s.invalidate(ctx, cache.RevisionsNamespace(owner), cache.DashboardNamespace(owner))
	s.log.Info("revision created",
		zap.Stringer("owner", owner),
		zap.Stringer("revision", rev.ID),
		zap.Int("items", len(rev.Items)),
	)
	return rev.ID, nil
}

// Get returns a revision with its items ordered by name.
func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*Detail, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}

	rev, err := s.repo.FindRevisionWithItems(ctx, owner, id)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch revision details", zap.Stringer("revision", id))
	}

	detail := &Detail{
		ID:           rev.ID,
		Date:         rev.Date,
		Status:       rev.Status,
		TotalLoss:    rev.TotalLoss,
		ItemsCounted: rev.ItemsCounted,
		Items:        make([]ItemLine, 0, len(rev.Items)),
	}
	for _, item := range rev.Items {
		detail.Items = append(detail.Items, ItemLine{
			RevisionItem: item,
			Difference:   Difference(item),
			LossValue:    LossValue(item),
		})
	}
	return detail, nil
}

// List pages through the owner's revisions, newest first. A non-empty search
// is upper-cased and must name a status exactly; anything else matches nothing.
func (s *Service) List(ctx context.Context, owner uuid.UUID, params pagination.Params) (pagination.Page[Summary], error) {
	if owner == uuid.Nil {
		return pagination.Page[Summary]{}, apperr.ErrUnauthorized
	}
	params = params.Normalize(DefaultPageSize)

	q := ListQuery{Params: params}
	if params.Search != "" {
		status, ok := models.ParseRevisionStatus(params.Search)
		if !ok {
			return pagination.NewPage[Summary](nil, 0, params), nil
		}
		q.Status = status
	}

	key := fmt.Sprintf("list:%d:%d:%s", params.Page, params.PageSize, q.Status)
	page, err := cache.Fetch(ctx, s.cache, cache.RevisionsNamespace(owner), key, func() (pagination.Page[Summary], error) {
		revs, total, err := s.repo.ListRevisions(ctx, owner, q)
		if err != nil {
			return pagination.Page[Summary]{}, err
		}
		rows := make([]Summary, 0, len(revs))
		for _, rev := range revs {
			rows = append(rows, Summary{
				ID:           rev.ID,
				Date:         rev.Date,
				Status:       rev.Status,
				TotalLoss:    rev.TotalLoss,
				ItemsCounted: rev.ItemsCounted,
			})
		}
		return pagination.NewPage(rows, total, params), nil
	})
	if err != nil {
		return pagination.Page[Summary]{}, s.fail(err, "Failed to fetch revisions", zap.Stringer("owner", owner))
	}
	return page, nil
}

// UpdateItemCount stores a new counted quantity and recomputes the parent's
// totalLoss and itemsCounted from every sibling item in the same transaction.
// A nil count marks the item as not counted.
func (s *Service) UpdateItemCount(ctx context.Context, owner, itemID uuid.UUID, counted *float64) (*models.RevisionItem, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if counted != nil && (*counted < 0 || math.IsNaN(*counted) || math.IsInf(*counted, 0)) {
		return nil, apperr.Validation("Counted quantity must be a non-negative number")
	}

	var updated *models.RevisionItem
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.FindItem(ctx, owner, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Revision item not found")
		}
		if err != nil {
			return err
		}
		rev, err := tx.FindRevision(ctx, owner, item.RevisionID)
		if err != nil {
			return err
		}
		if rev.Status != models.RevisionStatusDraft {
			return apperr.ErrAlreadyCompleted
		}

		if err := tx.UpdateItemCount(ctx, itemID, counted); err != nil {
			return err
		}

		siblings, err := tx.ListItems(ctx, rev.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateRevisionTotals(ctx, rev.ID, TotalLoss(siblings), CountedItems(siblings)); err != nil {
			return err
		}

		item.CountedQuantity = counted
		updated = item
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "Failed to update count", zap.Stringer("item", itemID))
	}

	s.invalidate(ctx, cache.RevisionsNamespace(owner), cache.DashboardNamespace(owner))
	return updated, nil
}

// Complete reconciles inventory to the counted quantities and closes the
// revision. Lines whose inventory item no longer exists are skipped.
func (s *Service) Complete(ctx context.Context, owner, id uuid.UUID) (*CompletionResult, error) {
	if owner == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}

	result := &CompletionResult{RevisionID: id}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		rev, err := tx.FindRevisionWithItems(ctx, owner, id)
		if err != nil {
			return err
		}
		if rev.Status != models.RevisionStatusDraft {
			return apperr.ErrAlreadyCompleted
		}

		runningTotalLoss := decimal.Zero
		for _, item := range rev.Items {
			counted := EffectiveCounted(item)
			runningTotalLoss = runningTotalLoss.Add(LossValue(item))

			inv, err := tx.FindInventoryItem(ctx, owner, item.InventoryID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.ItemsSkipped++
				continue
			}
			if err != nil {
				return err
			}

			status := models.StockStatus(counted, inv.MinStock)
			if err := tx.UpdateInventoryStock(ctx, owner, inv.ID, counted, status); err != nil {
				return err
			}
			result.ItemsReconciled++
		}

		ok, err := tx.MarkCompleted(ctx, rev.ID, runningTotalLoss)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrAlreadyCompleted
		}
		result.TotalLoss = runningTotalLoss
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "Failed to complete revision", zap.Stringer("revision", id))
	}

	s.invalidate(ctx, cache.RevisionsNamespace(owner), cache.DashboardNamespace(owner))
	s.log.Info("revision completed",
		zap.Stringer("owner", owner),
		zap.Stringer("revision", id),
		zap.String("total_loss", result.TotalLoss.String()),
		zap.Int("reconciled", result.ItemsReconciled),
		zap.Int("skipped", result.ItemsSkipped),
	)
	return result, nil
}

// Delete removes a revision and its items. Inventory is left as it is.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return apperr.ErrUnauthorized
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.FindRevision(ctx, owner, id); err != nil {
			return err
		}
		return tx.DeleteRevision(ctx, owner, id)
	})
	if err != nil {
		return s.fail(err, "Failed to delete revision", zap.Stringer("revision", id))
	}

	s.invalidate(ctx, cache.RevisionsNamespace(owner), cache.DashboardNamespace(owner))
	return nil
}

// fail turns a repository or engine error into an apperr. Domain errors pass
// through, a missing row becomes NotFound, anything else is logged and
// wrapped as a persistence failure.
func (s *Service) fail(err error, message string, fields ...zap.Field) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Revision not found")
	}
	s.log.Error(message, append(fields, zap.Error(err))...)
	return apperr.Persistence(message, err)
}

func (s *Service) invalidate(ctx context.Context, namespaces ...string) {
	if err := s.cache.Invalidate(ctx, namespaces...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("namespaces", namespaces), zap.Error(err))
	}
}
