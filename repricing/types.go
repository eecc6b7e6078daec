package repricing

import "github.com/shopspring/decimal"

const (
	ActionApplyRule        = "apply_rule"
	ActionCalculatePreview = "calculate_preview"
	ActionApplyAllRules    = "apply_all_rules"
)

// PreviewLimit bounds calculate_preview so it stays responsive on large
// catalogs.
const PreviewLimit = 50

type EngineRequest struct {
	Action     string `json:"action" binding:"required"`
	RuleId     uint   `json:"rule_id"`
	ProductIds []uint `json:"product_ids"`
	ApplyToAll bool   `json:"apply_to_all"`
}

type PreviewEntry struct {
	ProductId          uint            `json:"product_id"`
	ProductName        string          `json:"product_name"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	NewPrice           decimal.Decimal `json:"new_price"`
	PriceChange        decimal.Decimal `json:"price_change"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
	CurrentMargin      decimal.Decimal `json:"current_margin"`
	NewMargin          decimal.Decimal `json:"new_margin"`
}

type PreviewResponse struct {
	Success       bool           `json:"success"`
	TotalProducts int            `json:"total_products"`
	PreviewCount  int            `json:"preview_count"`
	Preview       []PreviewEntry `json:"preview"`
}

type ApplyResult struct {
	ProductId     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	PriceChange   decimal.Decimal `json:"price_change"`
	NewMargin     decimal.Decimal `json:"new_margin"`
}

type ApplyResponse struct {
	Success           bool          `json:"success"`
	JobId             uint          `json:"job_id"`
	ProductsProcessed int           `json:"products_processed"`
	ProductsUpdated   int           `json:"products_updated"`
	ProductsFailed    int           `json:"products_failed"`
	Results           []ApplyResult `json:"results"`
}

type ApplyAllResponse struct {
	Success         bool `json:"success"`
	RulesApplied    int  `json:"rules_applied"`
	ProductsUpdated int  `json:"products_updated"`
}
