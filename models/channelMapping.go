package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
	SyncStatusPending = "pending"
)

// ChannelMapping links one product to one listing on one external store.
// current_synced_price only advances on a successful adapter call; a failed
// sync keeps the last successfully synced price and records the error.
type ChannelMapping struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	UserId    string `gorm:"index;size:36;not null" json:"user_id"`
	ProductId uint   `gorm:"index;not null" json:"product_id"`
	ChannelId uint   `gorm:"index;not null" json:"channel_id"`
	Platform  string `gorm:"size:30;not null" json:"platform"`

	ExternalProductId string `gorm:"size:128;not null" json:"external_product_id"`
	ExternalVariantId string `gorm:"size:128" json:"external_variant_id"`

	CurrentSyncedPrice *decimal.Decimal `gorm:"type:decimal(20,4)" json:"current_synced_price"`
	LastSyncedAt       *time.Time       `json:"last_synced_at"`
	SyncStatus         string           `gorm:"size:20;not null;default:pending" json:"sync_status"`
	SyncError          string           `gorm:"type:text" json:"sync_error"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func MarkMappingSynced(ctx context.Context, db *gorm.DB, mappingId uint, price decimal.Decimal, at time.Time) error {
	return db.WithContext(ctx).Model(&ChannelMapping{}).
		Where("id = ?", mappingId).
		Updates(map[string]interface{}{
			"current_synced_price": price,
			"last_synced_at":       at,
			"sync_status":          SyncStatusSynced,
			"sync_error":           "",
		}).Error
}

func MarkMappingError(ctx context.Context, db *gorm.DB, mappingId uint, syncErr string) error {
	return db.WithContext(ctx).Model(&ChannelMapping{}).
		Where("id = ?", mappingId).
		Updates(map[string]interface{}{
			"sync_status": SyncStatusError,
			"sync_error":  syncErr,
		}).Error
}
