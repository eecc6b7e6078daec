package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	QueueStatusQueued     = "queued"
	QueueStatusProcessing = "processing"
	QueueStatusDone       = "done"
	QueueStatusFailed     = "failed"
)

// SyncQueueEntry is a queued price-change event waiting to be fanned out to
// the owner's channels. The Pub/Sub push endpoint processes entries; an
// explicit sync call carrying queue_id marks its entry terminal.
type SyncQueueEntry struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	UserId    string `gorm:"index;size:36;not null" json:"user_id"`
	ProductId uint   `gorm:"index;not null" json:"product_id"`

	NewPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"new_price"`
	Status   string          `gorm:"size:20;not null;default:queued" json:"status"`
	Attempts int             `gorm:"not null;default:0" json:"attempts"`
	LastErr  string          `gorm:"type:text" json:"last_error"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func MarkQueueEntry(ctx context.Context, db *gorm.DB, userId string, queueId uint, status string, lastErr string) error {
	return db.WithContext(ctx).Model(&SyncQueueEntry{}).
		Where("id = ? AND user_id = ?", queueId, userId).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_err":   lastErr,
			"updated_at": time.Now(),
		}).Error
}
