package repricing

import (
	"strings"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

var (
	decHundred = decimal.NewFromInt(100)

	// cost fallback when a product carries no cost price: assume 50% of the
	// current selling price.
	assumedCostFactor = decimal.NewFromFloat(0.5)

	// dynamic strategy parameters.
	dynamicBaseMarkup     = decimal.NewFromFloat(1.3)
	overstockDiscount     = decimal.NewFromFloat(0.9)
	scarcityPremium       = decimal.NewFromFloat(1.1)
	overstockThreshold    = 100
	scarcityThreshold     = 10
	defaultCompeteFactor  = decimal.NewFromFloat(0.95)
	defaultMinMarginPct   = decimal.NewFromInt(15)
)

// CompetitorPriceSource provides the competitor price for the competitive
// strategy. Injected so tests stay deterministic; production uses the
// simulated source until a live feed exists.
type CompetitorPriceSource interface {
	CompetitorPrice(p *models.Product) (decimal.Decimal, error)
}

// SimulatedCompetitorSource derives a stable pseudo-competitor price from
// the product itself: same input, same output, so preview matches apply.
type SimulatedCompetitorSource struct{}

func (SimulatedCompetitorSource) CompetitorPrice(p *models.Product) (decimal.Decimal, error) {
	// 0.90x .. 1.10x of the current price, keyed off the product id.
	offset := decimal.NewFromInt(int64(p.ID % 21)).Div(decHundred)
	factor := decimal.NewFromFloat(0.90).Add(offset)
	return p.Price.Mul(factor), nil
}

// Calculator computes a product's new price under a pricing rule. It is
// side-effect free: all persistence belongs to the orchestrator.
type Calculator struct {
	Competitor CompetitorPriceSource
}

func NewCalculator(source CompetitorPriceSource) *Calculator {
	if source == nil {
		source = SimulatedCompetitorSource{}
	}
	return &Calculator{Competitor: source}
}

// Calculate returns the new price for product under rule. ok=false means
// "no change" (unrecognized strategy). A non-nil error means this product
// could not be priced; callers count it as a failure without aborting the
// batch.
func (c *Calculator) Calculate(p *models.Product, rule *models.PricingRule) (decimal.Decimal, bool, error) {
	cost := effectiveCost(p)

	var price decimal.Decimal
	switch rule.Strategy {
	case models.StrategyFixedMargin:
		pct := decimalOrZero(rule.FixedMarginPercent)
		price = cost.Mul(decimal.NewFromInt(1).Add(pct.Div(decHundred)))

	case models.StrategyTargetMargin:
		pct := decimalOrZero(rule.TargetMarginPercent)
		denom := decimal.NewFromInt(1).Sub(pct.Div(decHundred))
		if !denom.IsPositive() {
			// A target margin of 100%+ has no finite price.
			return decimal.Zero, false, nil
		}
		price = cost.Div(denom)
		if rule.MinPrice != nil && price.LessThan(*rule.MinPrice) {
			price = *rule.MinPrice
		}
		if rule.MaxPrice != nil && price.GreaterThan(*rule.MaxPrice) {
			price = *rule.MaxPrice
		}

	case models.StrategyCompetitive:
		competitor, err := c.Competitor.CompetitorPrice(p)
		if err != nil {
			return decimal.Zero, false, err
		}
		switch {
		case rule.CompetitorPriceOffset != nil:
			price = competitor.Add(*rule.CompetitorPriceOffset)
		case rule.CompetitorPriceOffsetPercent != nil:
			price = competitor.Mul(decimal.NewFromInt(1).Add(rule.CompetitorPriceOffsetPercent.Div(decHundred)))
		default:
			price = competitor.Mul(defaultCompeteFactor)
		}

	case models.StrategyDynamic:
		price = cost.Mul(dynamicBaseMarkup)
		if p.StockQuantity > overstockThreshold {
			price = price.Mul(overstockDiscount)
		} else if p.StockQuantity < scarcityThreshold {
			price = price.Mul(scarcityPremium)
		}

	default:
		return decimal.Zero, false, nil
	}

	// Margin floor applies to every strategy.
	minMargin := defaultMinMarginPct
	if rule.MinMarginPercent != nil {
		minMargin = *rule.MinMarginPercent
	}
	floor := cost.Mul(decimal.NewFromInt(1).Add(minMargin.Div(decHundred)))
	if price.LessThan(floor) {
		price = floor
	}

	if ending, ok := parseRoundTo(rule.RoundTo); ok {
		price = price.Floor().Add(ending)
	}

	return price.Round(2), true, nil
}

func effectiveCost(p *models.Product) decimal.Decimal {
	if p.CostPrice != nil {
		return *p.CostPrice
	}
	return p.Price.Mul(assumedCostFactor)
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// parseRoundTo turns a price-ending spec like ".99" into its decimal value.
func parseRoundTo(roundTo string) (decimal.Decimal, bool) {
	roundTo = strings.TrimSpace(roundTo)
	if roundTo == "" {
		return decimal.Zero, false
	}
	if strings.HasPrefix(roundTo, ".") {
		roundTo = "0" + roundTo
	}
	d, err := decimal.NewFromString(roundTo)
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, false
	}
	return d, true
}
