package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevisionStatus string

const (
	RevisionStatusDraft     RevisionStatus = "DRAFT"
	RevisionStatusCompleted RevisionStatus = "COMPLETED"
)

// ParseRevisionStatus upper-cases s and reports whether it names a status.
func ParseRevisionStatus(s string) (RevisionStatus, bool) {
	switch st := RevisionStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case RevisionStatusDraft, RevisionStatusCompleted:
		return st, true
	default:
		return st, false
	}
}

// Revision is one stock count. Items are the snapshot taken at creation.
type Revision struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"userId"`
	Date         time.Time       `gorm:"index;not null" json:"date"`
	Status       RevisionStatus  `gorm:"size:20;not null;index" json:"status"`
	ItemsCounted int             `gorm:"not null;default:0" json:"itemsCounted"`
	TotalLoss    decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"totalLoss"`
	Items        []RevisionItem  `gorm:"foreignKey:RevisionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RevisionItem points at its InventoryItem by id only. There is no foreign
// key: the inventory row may be edited or deleted after the snapshot.
type RevisionItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RevisionID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"revisionId"`
	InventoryID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"inventoryId"`
	ItemName         string          `gorm:"size:100;not null" json:"itemName"`
	ExpectedQuantity float64         `gorm:"not null" json:"expectedQuantity"`
	CostPrice        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"costPrice"`
	CountedQuantity  *float64        `json:"countedQuantity"`
}
