package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SyncLogStatusSuccess = "success"
	SyncLogStatusError   = "error"
)

// PriceSyncLogEntry is one immutable row per attempted adapter call: one
// entry per (price change x channel mapping). Skipped mappings make no call
// and therefore get no log row.
type PriceSyncLogEntry struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	UserId    string `gorm:"index;size:36;not null" json:"user_id"`
	MappingId uint   `gorm:"index;not null" json:"mapping_id"`
	Platform  string `gorm:"size:30;not null" json:"platform"`

	OldPrice *decimal.Decimal `gorm:"type:decimal(20,4)" json:"old_price"`
	NewPrice decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"new_price"`

	Status      string `gorm:"size:20;not null" json:"status"`
	Error       string `gorm:"type:text" json:"error"`
	ApiResponse string `gorm:"type:text" json:"api_response"`
	DurationMs  int64  `gorm:"not null;default:0" json:"duration_ms"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
