package revision

import (
	"time"

	"github.com/barstock/revisor/internal/models"

	"github.com/google/uuid"
)

// Snapshot builds a DRAFT revision holding one line per inventory item. Each
// line copies the name, the stock on hand and the purchase price, and starts
// counted at the stock on hand.
func Snapshot(owner uuid.UUID, inventory []models.InventoryItem, at time.Time) *models.Revision {
	rev := &models.Revision{
		ID:     uuid.New(),
		UserID: owner,
		Date:   at,
		Status: models.RevisionStatusDraft,
		Items:  make([]models.RevisionItem, 0, len(inventory)),
	}

	for _, inv := range inventory {
		counted := inv.InStock
		rev.Items = append(rev.Items, models.RevisionItem{
			ID:               uuid.New(),
			RevisionID:       rev.ID,
			InventoryID:      inv.ID,
			ItemName:         inv.Name,
			ExpectedQuantity: inv.InStock,
			CostPrice:        inv.PurchasePrice,
			CountedQuantity:  &counted,
		})
	}

	rev.ItemsCounted = len(rev.Items)
	rev.TotalLoss = TotalLoss(rev.Items)
	return rev
}
