package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryStatus string

const (
	InventoryStatusOK  InventoryStatus = "OK"
	InventoryStatusLow InventoryStatus = "LOW"
)

// StockStatus is the one place the LOW threshold is decided. Direct edits and
// revision completion both go through it.
func StockStatus(inStock, minStock float64) InventoryStatus {
	if inStock < minStock {
		return InventoryStatusLow
	}
	return InventoryStatusOK
}

type InventoryItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"userId"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Category      string          `gorm:"size:100;not null" json:"category"`
	InStock       float64         `gorm:"not null;default:0" json:"inStock"`
	MinStock      float64         `gorm:"not null;default:0" json:"minStock"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"purchasePrice"`
	Status        InventoryStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
