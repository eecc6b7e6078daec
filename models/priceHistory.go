package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PriceChangeReasonRuleApplied = "rule_applied"
)

// PriceHistoryEntry is a pure audit log: one immutable row per successful
// price change. Never updated or deleted.
type PriceHistoryEntry struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	UserId    string `gorm:"index;size:36;not null" json:"user_id"`
	ProductId uint   `gorm:"index;not null" json:"product_id"`
	RuleId    *uint  `gorm:"index" json:"rule_id"`

	PreviousPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"previous_price"`
	NewPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"new_price"`
	ChangePercent  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"change_percent"`
	PreviousMargin decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"previous_margin"`
	NewMargin      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"new_margin"`
	Reason         string          `gorm:"size:50;not null" json:"reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// MarginPercent returns ((price - cost) / price) * 100, or zero when the
// product carries no cost price or the price is zero.
func MarginPercent(price decimal.Decimal, cost *decimal.Decimal) decimal.Decimal {
	if cost == nil || price.IsZero() {
		return decimal.Zero
	}
	return price.Sub(*cost).Div(price).Mul(decimal.NewFromInt(100)).Round(2)
}

// PriceChangePercent returns ((new - old) / old) * 100, or zero for a zero
// previous price.
func PriceChangePercent(oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if oldPrice.IsZero() {
		return decimal.Zero
	}
	return newPrice.Sub(oldPrice).Div(oldPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// RecordPriceChange appends the audit row for one repriced product. Always
// written before control returns to the caller.
func RecordPriceChange(ctx context.Context, db *gorm.DB, product *Product, previousPrice, newPrice decimal.Decimal, ruleId *uint) error {
	entry := PriceHistoryEntry{
		UserId:         product.UserId,
		ProductId:      product.ID,
		RuleId:         ruleId,
		PreviousPrice:  previousPrice,
		NewPrice:       newPrice,
		ChangePercent:  PriceChangePercent(previousPrice, newPrice),
		PreviousMargin: MarginPercent(previousPrice, product.CostPrice),
		NewMargin:      MarginPercent(newPrice, product.CostPrice),
		Reason:         PriceChangeReasonRuleApplied,
	}
	return db.WithContext(ctx).Create(&entry).Error
}
