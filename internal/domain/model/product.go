package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Channel names with a registered integration.
const (
	ChannelMercadoLibre = "MercadoLibre"
	ChannelTiendaNube   = "TiendaNube"
	ChannelShopify      = "Shopify"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string `gorm:"type:varchar(64);not null;uniqueIndex" json:"sku"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Stock       int64  `gorm:"not null" json:"stock"`

	// Channels the product is listed on, e.g. ["MercadoLibre","Shopify"].
	Channels []string `gorm:"serializer:json;type:jsonb" json:"channels"`

	ImageURL string `gorm:"type:varchar(512)" json:"image_url"`

	// Advanced by every stock mutation and by every sync attempt,
	// successful or not.
	LastSyncedAt time.Time `gorm:"not null" json:"last_synced_at"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NormalizeSKU maps any SKU spelling to its canonical identity.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// ListedOn reports whether the product is listed on the given channel.
func (p Product) ListedOn(channel string) bool {
	for _, c := range p.Channels {
		if c == channel {
			return true
		}
	}
	return false
}
