package repricing

import (
	"context"

	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
)

// ResolveProducts returns the candidate products a rule applies to. Explicit
// product ids take precedence over the rule's own scope. Every branch is
// scoped to the owner: a rule can never select another tenant's products.
func ResolveProducts(ctx context.Context, userId string, rule *models.PricingRule, explicitIds []uint, applyToAll bool) ([]models.Product, error) {
	db := config.GetDB().WithContext(ctx)
	query := db.Where("user_id = ?", userId)

	if len(explicitIds) > 0 && !applyToAll {
		query = query.Where("id IN ?", explicitIds)
	} else {
		switch rule.AppliesTo {
		case models.AppliesToCategory:
			if rule.CategoryFilter != "" {
				query = query.Where("category = ?", rule.CategoryFilter)
			}
		case models.AppliesToSupplier:
			if rule.SupplierFilter != "" {
				query = query.Where("supplier_id = ?", rule.SupplierFilter)
			}
		case models.AppliesToProducts:
			ids := models.DecodeProductIds(rule.ProductIdsJSON)
			if len(ids) == 0 {
				return nil, nil
			}
			query = query.Where("id IN ?", ids)
		default:
			// "all" and anything unrecognized fall through to the owner's
			// full catalog.
		}
	}

	var products []models.Product
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
