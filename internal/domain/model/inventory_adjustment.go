package model

import "time"

// Stock movement history. One row per ledger mutation.
type InventoryAdjustment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Delta     int64  `gorm:"not null" json:"delta"`
	Reason    string `gorm:"type:varchar(255);not null" json:"reason"`

	// Who or what caused the movement: "manual", "webhook:Shopify",
	// "channel:MercadoLibre", "seed".
	Source string `gorm:"type:varchar(64);not null" json:"source"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
