package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

type Product struct {
	ID            uint             `gorm:"primary_key" json:"id"`
	UserId        string           `gorm:"index;size:36;not null" json:"user_id"`
	Name          string           `gorm:"size:255;not null" json:"name" binding:"required"`
	Sku           string           `gorm:"index;size:100" json:"sku"`
	Category      string           `gorm:"index;size:100" json:"category"`
	SupplierId    string           `gorm:"index;size:100" json:"supplier_id"`
	Price         decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"price"`
	CostPrice     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost_price"`
	StockQuantity int              `gorm:"default:0" json:"stock_quantity"`
	Status        string           `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetProductById(ctx context.Context, userId string, id uint) (*Product, error) {
	var result Product
	db := config.GetDB()
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// UpdateProductPrice persists a repriced product. Scoped by owner so a stale
// in-memory product can never update another tenant's row.
func UpdateProductPrice(ctx context.Context, db *gorm.DB, userId string, productId uint, newPrice decimal.Decimal) error {
	res := db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND user_id = ?", productId, userId).
		Updates(map[string]interface{}{
			"price":      newPrice,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
