package revision

import (
	"context"
	"sort"

	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type memState struct {
	inventory map[uuid.UUID]models.InventoryItem
	revisions map[uuid.UUID]models.Revision
	items     map[uuid.UUID]models.RevisionItem
}

func (s *memState) clone() *memState {
	c := &memState{
		inventory: make(map[uuid.UUID]models.InventoryItem, len(s.inventory)),
		revisions: make(map[uuid.UUID]models.Revision, len(s.revisions)),
		items:     make(map[uuid.UUID]models.RevisionItem, len(s.items)),
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.revisions {
		c.revisions[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

// memRepo keeps rows in maps. Transaction works on a copy of the state and
// swaps it in only when fn succeeds.
type memRepo struct {
	state *memState

	failInventoryWrite error
	markCompletedLost  bool
}

func newMemRepo() *memRepo {
	return &memRepo{state: &memState{
		inventory: map[uuid.UUID]models.InventoryItem{},
		revisions: map[uuid.UUID]models.Revision{},
		items:     map[uuid.UUID]models.RevisionItem{},
	}}
}

func (r *memRepo) addInventory(owner uuid.UUID, name string, inStock, minStock float64, price string) models.InventoryItem {
	item := models.InventoryItem{
		ID:            uuid.New(),
		UserID:        owner,
		Name:          name,
		Category:      "Spirits",
		InStock:       inStock,
		MinStock:      minStock,
		PurchasePrice: decimal.RequireFromString(price),
		Status:        models.StockStatus(inStock, minStock),
	}
	r.state.inventory[item.ID] = item
	return item
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	tx := &memRepo{
		state:              r.state.clone(),
		failInventoryWrite: r.failInventoryWrite,
		markCompletedLost:  r.markCompletedLost,
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.state = tx.state
	return nil
}

func (r *memRepo) ListInventory(ctx context.Context, owner uuid.UUID) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, inv := range r.state.inventory {
		if inv.UserID == owner {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) FindInventoryItem(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	inv, ok := r.state.inventory[id]
	if !ok || inv.UserID != owner {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (r *memRepo) UpdateInventoryStock(ctx context.Context, owner, id uuid.UUID, inStock float64, status models.InventoryStatus) error {
	if r.failInventoryWrite != nil {
		return r.failInventoryWrite
	}
	inv, ok := r.state.inventory[id]
	if !ok || inv.UserID != owner {
		return nil
	}
	inv.InStock = inStock
	inv.Status = status
	r.state.inventory[id] = inv
	return nil
}

func (r *memRepo) CreateRevision(ctx context.Context, rev *models.Revision) error {
	head := *rev
	head.Items = nil
	r.state.revisions[rev.ID] = head
	for _, it := range rev.Items {
		r.state.items[it.ID] = it
	}
	return nil
}

func (r *memRepo) FindRevision(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error) {
	rev, ok := r.state.revisions[id]
	if !ok || rev.UserID != owner {
		return nil, gorm.ErrRecordNotFound
	}
	return &rev, nil
}

func (r *memRepo) FindRevisionWithItems(ctx context.Context, owner, id uuid.UUID) (*models.Revision, error) {
	rev, err := r.FindRevision(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	rev.Items, _ = r.ListItems(ctx, id)
	return rev, nil
}

func (r *memRepo) ListRevisions(ctx context.Context, owner uuid.UUID, q ListQuery) ([]models.Revision, int64, error) {
	var all []models.Revision
	for _, rev := range r.state.revisions {
		if rev.UserID != owner {
			continue
		}
		if q.Status != "" && rev.Status != q.Status {
			continue
		}
		all = append(all, rev)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	total := int64(len(all))
	start := q.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memRepo) UpdateRevisionTotals(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal, itemsCounted int) error {
	rev := r.state.revisions[id]
	rev.TotalLoss = totalLoss
	rev.ItemsCounted = itemsCounted
	r.state.revisions[id] = rev
	return nil
}

func (r *memRepo) MarkCompleted(ctx context.Context, id uuid.UUID, totalLoss decimal.Decimal) (bool, error) {
	rev, ok := r.state.revisions[id]
	if !ok || rev.Status != models.RevisionStatusDraft || r.markCompletedLost {
		return false, nil
	}
	rev.Status = models.RevisionStatusCompleted
	rev.TotalLoss = totalLoss
	r.state.revisions[id] = rev
	return true, nil
}

func (r *memRepo) DeleteRevision(ctx context.Context, owner, id uuid.UUID) error {
	rev, ok := r.state.revisions[id]
	if !ok || rev.UserID != owner {
		return gorm.ErrRecordNotFound
	}
	for itemID, it := range r.state.items {
		if it.RevisionID == id {
			delete(r.state.items, itemID)
		}
	}
	delete(r.state.revisions, id)
	return nil
}

func (r *memRepo) FindItem(ctx context.Context, owner, itemID uuid.UUID) (*models.RevisionItem, error) {
	it, ok := r.state.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	rev, ok := r.state.revisions[it.RevisionID]
	if !ok || rev.UserID != owner {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r *memRepo) UpdateItemCount(ctx context.Context, itemID uuid.UUID, counted *float64) error {
	it := r.state.items[itemID]
	it.CountedQuantity = counted
	r.state.items[itemID] = it
	return nil
}

func (r *memRepo) ListItems(ctx context.Context, revisionID uuid.UUID) ([]models.RevisionItem, error) {
	var out []models.RevisionItem
	for _, it := range r.state.items {
		if it.RevisionID == revisionID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

// recordingCache counts invalidations per namespace and otherwise stores nothing.
type recordingCache struct {
	invalidated map[string]int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{invalidated: map[string]int{}}
}

func (c *recordingCache) Version(context.Context, string) (int64, error) { return 0, nil }

func (c *recordingCache) Get(context.Context, string, int64, string, any) (bool, error) {
	return false, nil
}

func (c *recordingCache) Set(context.Context, string, int64, string, any) error { return nil }

func (c *recordingCache) Invalidate(_ context.Context, namespaces ...string) error {
	for _, ns := range namespaces {
		c.invalidated[ns]++
	}
	return nil
}
