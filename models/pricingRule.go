package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StrategyFixedMargin  = "fixed_margin"
	StrategyTargetMargin = "target_margin"
	StrategyCompetitive  = "competitive"
	StrategyDynamic      = "dynamic"
)

const (
	AppliesToAll      = "all"
	AppliesToCategory = "category"
	AppliesToSupplier = "supplier"
	AppliesToProducts = "products"
)

type PricingRule struct {
	ID       uint   `gorm:"primary_key" json:"id"`
	UserId   string `gorm:"index;size:36;not null" json:"user_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Strategy string `gorm:"size:30;not null" json:"strategy"`

	AppliesTo      string      `gorm:"size:20;not null;default:all" json:"applies_to"`
	CategoryFilter string      `gorm:"size:100" json:"category_filter"`
	SupplierFilter string      `gorm:"size:100" json:"supplier_filter"`
	ProductIdsJSON []byte      `gorm:"type:json" json:"product_ids"`

	FixedMarginPercent           *decimal.Decimal `gorm:"type:decimal(20,4)" json:"fixed_margin_percent"`
	TargetMarginPercent          *decimal.Decimal `gorm:"type:decimal(20,4)" json:"target_margin_percent"`
	MinPrice                     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"min_price"`
	MaxPrice                     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"max_price"`
	CompetitorPriceOffset        *decimal.Decimal `gorm:"type:decimal(20,4)" json:"competitor_price_offset"`
	CompetitorPriceOffsetPercent *decimal.Decimal `gorm:"type:decimal(20,4)" json:"competitor_price_offset_percent"`
	MinMarginPercent             *decimal.Decimal `gorm:"type:decimal(20,4)" json:"min_margin_percent"`
	RoundTo                      string           `gorm:"size:10" json:"round_to"`

	Priority int   `gorm:"not null;default:0;index" json:"priority"`
	IsActive *bool `gorm:"not null;default:true" json:"is_active"`

	TotalApplications int        `gorm:"not null;default:0" json:"total_applications"`
	ProductsAffected  int        `gorm:"not null;default:0" json:"products_affected"`
	LastAppliedAt     *time.Time `json:"last_applied_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPricingRule struct {
	Name     string `json:"name" validate:"required"`
	Strategy string `json:"strategy" validate:"required,oneof=fixed_margin target_margin competitive dynamic"`

	AppliesTo      string `json:"applies_to" validate:"omitempty,oneof=all category supplier products"`
	CategoryFilter string `json:"category_filter"`
	SupplierFilter string `json:"supplier_filter"`
	ProductIds     []uint `json:"product_ids"`

	FixedMarginPercent           *decimal.Decimal `json:"fixed_margin_percent"`
	TargetMarginPercent          *decimal.Decimal `json:"target_margin_percent"`
	MinPrice                     *decimal.Decimal `json:"min_price"`
	MaxPrice                     *decimal.Decimal `json:"max_price"`
	CompetitorPriceOffset        *decimal.Decimal `json:"competitor_price_offset"`
	CompetitorPriceOffsetPercent *decimal.Decimal `json:"competitor_price_offset_percent"`
	MinMarginPercent             *decimal.Decimal `json:"min_margin_percent"`
	RoundTo                      string           `json:"round_to"`
	Priority                     int              `json:"priority"`
}

var validate = validator.New()

func CreatePricingRule(ctx context.Context, userId string, input *NewPricingRule) (*PricingRule, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	appliesTo := input.AppliesTo
	if appliesTo == "" {
		appliesTo = AppliesToAll
	}

	active := true
	rule := PricingRule{
		UserId:                       userId,
		Name:                         input.Name,
		Strategy:                     input.Strategy,
		AppliesTo:                    appliesTo,
		CategoryFilter:               input.CategoryFilter,
		SupplierFilter:               input.SupplierFilter,
		ProductIdsJSON:               EncodeProductIds(input.ProductIds),
		FixedMarginPercent:           input.FixedMarginPercent,
		TargetMarginPercent:          input.TargetMarginPercent,
		MinPrice:                     input.MinPrice,
		MaxPrice:                     input.MaxPrice,
		CompetitorPriceOffset:        input.CompetitorPriceOffset,
		CompetitorPriceOffsetPercent: input.CompetitorPriceOffsetPercent,
		MinMarginPercent:             input.MinMarginPercent,
		RoundTo:                      input.RoundTo,
		Priority:                     input.Priority,
		IsActive:                     &active,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func GetPricingRuleById(ctx context.Context, userId string, id uint) (*PricingRule, error) {
	var result PricingRule
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

// GetActivePricingRules returns the owner's active rules ordered for
// apply-all: lower priority value first.
func GetActivePricingRules(ctx context.Context, userId string) ([]PricingRule, error) {
	var rules []PricingRule
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userId, true).
		Order("priority asc, id asc").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func GetPricingRulesByUser(ctx context.Context, userId string) ([]PricingRule, error) {
	var rules []PricingRule
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("priority asc, id asc").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func EncodeProductIds(ids []uint) []byte {
	if len(ids) == 0 {
		return nil
	}
	b, _ := json.Marshal(ids)
	return b
}

func DecodeProductIds(raw []byte) []uint {
	if len(raw) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

// BumpRuleStats records a completed apply run on the rule. Counter columns
// are incremented in SQL so concurrent apply calls against the same rule
// cannot lose updates.
func BumpRuleStats(ctx context.Context, db *gorm.DB, userId string, ruleId uint, productsAffected int, appliedAt time.Time) error {
	return db.WithContext(ctx).Model(&PricingRule{}).
		Where("id = ? AND user_id = ?", ruleId, userId).
		Updates(map[string]interface{}{
			"total_applications": gorm.Expr("total_applications + 1"),
			"products_affected":  gorm.Expr("products_affected + ?", productsAffected),
			"last_applied_at":    appliedAt,
		}).Error
}
