package repricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopopti/pricing_backend/models"
)

// NOTE: These tests are intentionally DB-free. The calculator is pure; all
// persistence lives in the orchestrator and is covered by the integration
// tests.

type fixedCompetitorSource struct {
	price decimal.Decimal
	err   error
}

func (s fixedCompetitorSource) CompetitorPrice(p *models.Product) (decimal.Decimal, error) {
	return s.price, s.err
}

func dptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func product(price, costPrice string, stock int) *models.Product {
	p := &models.Product{
		ID:            42,
		UserId:        "user-1",
		Name:          "widget",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Status:        "active",
	}
	if costPrice != "" {
		p.CostPrice = dptr(costPrice)
	}
	return p
}

func mustCalculate(t *testing.T, calc *Calculator, p *models.Product, rule *models.PricingRule) decimal.Decimal {
	t.Helper()
	got, ok, err := calc.Calculate(p, rule)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !ok {
		t.Fatalf("Calculate returned no-change for strategy %q", rule.Strategy)
	}
	return got
}

func TestCalculate_FixedMarginWithRounding(t *testing.T) {
	calc := NewCalculator(nil)
	rule := &models.PricingRule{
		Strategy:           models.StrategyFixedMargin,
		FixedMarginPercent: dptr("30"),
		RoundTo:            ".99",
	}

	// cost 10 * 1.30 = 13, rounded to the .99 ending.
	got := mustCalculate(t, calc, product("25.00", "10.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("13.99")) {
		t.Errorf("got %s, want 13.99", got)
	}
}

func TestCalculate_FixedMarginCostFallback(t *testing.T) {
	calc := NewCalculator(nil)
	rule := &models.PricingRule{
		Strategy:           models.StrategyFixedMargin,
		FixedMarginPercent: dptr("30"),
	}

	// No cost price: assume cost = 50% of the current price (40 -> 20).
	got := mustCalculate(t, calc, product("40.00", "", 50), rule)
	if !got.Equal(decimal.RequireFromString("26")) {
		t.Errorf("got %s, want 26", got)
	}
}

func TestCalculate_TargetMargin(t *testing.T) {
	calc := NewCalculator(nil)

	// cost 10 at a 60% target margin: 10 / (1 - 0.60) = 25.
	rule := &models.PricingRule{
		Strategy:            models.StrategyTargetMargin,
		TargetMarginPercent: dptr("60"),
	}
	got := mustCalculate(t, calc, product("18.00", "10.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("25")) {
		t.Errorf("got %s, want 25", got)
	}

	// MaxPrice clamps the computed price.
	rule.MaxPrice = dptr("20")
	got = mustCalculate(t, calc, product("18.00", "10.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("20")) {
		t.Errorf("clamped: got %s, want 20", got)
	}
}

func TestCalculate_TargetMarginHundredPercentIsNoChange(t *testing.T) {
	calc := NewCalculator(nil)
	rule := &models.PricingRule{
		Strategy:            models.StrategyTargetMargin,
		TargetMarginPercent: dptr("100"),
	}
	_, ok, err := calc.Calculate(product("18.00", "10.00", 50), rule)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if ok {
		t.Error("expected no-change for a 100% target margin")
	}
}

func TestCalculate_MarginFloor(t *testing.T) {
	calc := NewCalculator(nil)

	// 5% fixed margin on cost 10 is 10.50, below the default 15% floor (11.50).
	rule := &models.PricingRule{
		Strategy:           models.StrategyFixedMargin,
		FixedMarginPercent: dptr("5"),
	}
	got := mustCalculate(t, calc, product("12.00", "10.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("11.5")) {
		t.Errorf("default floor: got %s, want 11.5", got)
	}

	// An explicit min margin overrides the default.
	rule.MinMarginPercent = dptr("50")
	got = mustCalculate(t, calc, product("12.00", "10.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("15")) {
		t.Errorf("explicit floor: got %s, want 15", got)
	}
}

func TestCalculate_Dynamic(t *testing.T) {
	calc := NewCalculator(nil)
	rule := &models.PricingRule{Strategy: models.StrategyDynamic}

	cases := []struct {
		name  string
		stock int
		want  string
	}{
		// cost 20 * 1.3 = 26, then the stock modifier.
		{"overstock", 150, "23.4"},
		{"normal", 50, "26"},
		{"scarce", 5, "28.6"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustCalculate(t, calc, product("30.00", "20.00", tc.stock), rule)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("stock %d: got %s, want %s", tc.stock, got, tc.want)
			}
		})
	}
}

func TestCalculate_Competitive(t *testing.T) {
	source := fixedCompetitorSource{price: decimal.RequireFromString("100")}
	calc := NewCalculator(source)
	p := product("90.00", "50.00", 50)

	// Absolute offset wins over percentage.
	rule := &models.PricingRule{
		Strategy:                     models.StrategyCompetitive,
		CompetitorPriceOffset:        dptr("-5"),
		CompetitorPriceOffsetPercent: dptr("-10"),
	}
	got := mustCalculate(t, calc, p, rule)
	if !got.Equal(decimal.RequireFromString("95")) {
		t.Errorf("offset: got %s, want 95", got)
	}

	rule.CompetitorPriceOffset = nil
	got = mustCalculate(t, calc, p, rule)
	if !got.Equal(decimal.RequireFromString("90")) {
		t.Errorf("offset percent: got %s, want 90", got)
	}

	// No offsets configured: undercut by 5%.
	rule.CompetitorPriceOffsetPercent = nil
	got = mustCalculate(t, calc, p, rule)
	if !got.Equal(decimal.RequireFromString("95")) {
		t.Errorf("default undercut: got %s, want 95", got)
	}
}

func TestCalculate_CompetitiveRespectsMarginFloor(t *testing.T) {
	// Competitor price so low that undercutting would sell below cost.
	source := fixedCompetitorSource{price: decimal.RequireFromString("10")}
	calc := NewCalculator(source)
	rule := &models.PricingRule{Strategy: models.StrategyCompetitive}

	got := mustCalculate(t, calc, product("90.00", "50.00", 50), rule)
	if !got.Equal(decimal.RequireFromString("57.5")) {
		t.Errorf("got %s, want 57.5 (cost 50 + 15%% floor)", got)
	}
}

func TestCalculate_UnknownStrategyIsNoChange(t *testing.T) {
	calc := NewCalculator(nil)
	rule := &models.PricingRule{Strategy: "seasonal"}
	_, ok, err := calc.Calculate(product("12.00", "10.00", 50), rule)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if ok {
		t.Error("expected no-change for an unknown strategy")
	}
}

func TestSimulatedCompetitorSource_Deterministic(t *testing.T) {
	source := SimulatedCompetitorSource{}
	p := product("50.00", "", 10)

	first, err := source.CompetitorPrice(p)
	if err != nil {
		t.Fatalf("CompetitorPrice: %v", err)
	}
	second, err := source.CompetitorPrice(p)
	if err != nil {
		t.Fatalf("CompetitorPrice: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("competitor price not stable: %s vs %s", first, second)
	}

	// Stays inside the 0.90x..1.10x band.
	lo := p.Price.Mul(decimal.RequireFromString("0.90"))
	hi := p.Price.Mul(decimal.RequireFromString("1.10"))
	if first.LessThan(lo) || first.GreaterThan(hi) {
		t.Errorf("competitor price %s outside [%s, %s]", first, lo, hi)
	}
}

func TestParseRoundTo(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{".99", "0.99", true},
		{"0.95", "0.95", true},
		{"", "", false},
		{"1.50", "", false},
		{"-.5", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got, ok := parseRoundTo(tc.in)
		if ok != tc.ok {
			t.Errorf("parseRoundTo(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("parseRoundTo(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
