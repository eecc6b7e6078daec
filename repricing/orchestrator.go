package repricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopopti/pricing_backend/utils"
)

var (
	ErrRuleNotFound = errors.New("pricing rule not found")
	ErrRuleInactive = errors.New("pricing rule is not active")
)

// Orchestrator drives preview / apply-rule / apply-all-rules runs. All
// calculation goes through the injected Calculator so preview and apply can
// never drift apart.
type Orchestrator struct {
	calc *Calculator
}

func NewOrchestrator(calc *Calculator) *Orchestrator {
	if calc == nil {
		calc = NewCalculator(nil)
	}
	return &Orchestrator{calc: calc}
}

// Preview computes what apply_rule would do, capped at PreviewLimit
// products, persisting nothing. The rule does not need to be active.
func (o *Orchestrator) Preview(ctx context.Context, userId string, ruleId uint, productIds []uint, applyToAll bool) (*PreviewResponse, error) {
	rule, err := models.GetPricingRuleById(ctx, userId, ruleId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	products, err := ResolveProducts(ctx, userId, rule, productIds, applyToAll)
	if err != nil {
		return nil, err
	}

	preview := make([]PreviewEntry, 0, min(len(products), PreviewLimit))
	for i := range products {
		if i >= PreviewLimit {
			break
		}
		p := &products[i]
		newPrice, ok, calcErr := o.calc.Calculate(p, rule)
		if calcErr != nil || !ok || newPrice.Equal(p.Price) {
			continue
		}
		preview = append(preview, PreviewEntry{
			ProductId:          p.ID,
			ProductName:        p.Name,
			CurrentPrice:       p.Price,
			NewPrice:           newPrice,
			PriceChange:        newPrice.Sub(p.Price),
			PriceChangePercent: models.PriceChangePercent(p.Price, newPrice),
			CurrentMargin:      models.MarginPercent(p.Price, p.CostPrice),
			NewMargin:          models.MarginPercent(newPrice, p.CostPrice),
		})
	}

	return &PreviewResponse{
		Success:       true,
		TotalProducts: len(products),
		PreviewCount:  len(preview),
		Preview:       preview,
	}, nil
}

// ApplyRule reprices the rule's full candidate set inside a RepricingJob.
// Per-product failures are tallied, never fatal: the job completes with
// partial results.
func (o *Orchestrator) ApplyRule(ctx context.Context, userId string, ruleId uint, productIds []uint, applyToAll bool) (*ApplyResponse, error) {
	rule, err := models.GetPricingRuleById(ctx, userId, ruleId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	if rule.IsActive == nil || !*rule.IsActive {
		return nil, ErrRuleInactive
	}

	db := config.GetDB()
	job, err := models.CreateRepricingJob(ctx, db, userId, &rule.ID, 0)
	if err != nil {
		return nil, err
	}

	products, err := ResolveProducts(ctx, userId, rule, productIds, applyToAll)
	if err != nil {
		_ = models.CompleteRepricingJob(ctx, db, job, models.JobStatusFailed, 0, 0, 0, nil)
		return nil, err
	}

	updated, failed, results := o.applyRuleToProducts(ctx, userId, rule, products)

	resultsJSON, _ := json.Marshal(results)
	if err := models.CompleteRepricingJob(ctx, db, job, models.JobStatusCompleted, len(products), updated, failed, resultsJSON); err != nil {
		return nil, err
	}

	if err := models.BumpRuleStats(ctx, db, userId, rule.ID, updated, time.Now()); err != nil {
		config.LogError(config.GetLogger(), "repricing", "ApplyRule", "BumpRuleStats", rule.ID, err)
	}

	return &ApplyResponse{
		Success:           true,
		JobId:             job.ID,
		ProductsProcessed: len(products),
		ProductsUpdated:   updated,
		ProductsFailed:    failed,
		Results:           results,
	}, nil
}

// ApplyAllRules runs every active rule in ascending priority order against
// its own scope. A later rule overwriting an earlier rule's price for the
// same product is accepted: last applied wins.
func (o *Orchestrator) ApplyAllRules(ctx context.Context, userId string) (*ApplyAllResponse, error) {
	// Best-effort guard against overlapping apply-all runs for one owner.
	// Correctness does not depend on it: counters use SQL increments.
	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, "repricing:apply_all:"+userId, 5*time.Minute, nil)
		if lockErr == nil {
			defer lock.Release(context.Background())
		} else if !errors.Is(lockErr, redislock.ErrNotObtained) {
			config.LogError(config.GetLogger(), "repricing", "ApplyAllRules", "Obtain", userId, lockErr)
		}
	}

	rules, err := models.GetActivePricingRules(ctx, userId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	totalUpdated := 0
	for i := range rules {
		rule := &rules[i]

		// Apply-all always uses the rule's own scope; explicit product-id
		// filters only apply to single-rule runs.
		products, err := ResolveProducts(ctx, userId, rule, nil, true)
		if err != nil {
			config.LogError(config.GetLogger(), "repricing", "ApplyAllRules", "ResolveProducts", rule.ID, err)
			continue
		}

		updated, _, _ := o.applyRuleToProducts(ctx, userId, rule, products)
		totalUpdated += updated

		if updated > 0 {
			if err := models.BumpRuleStats(ctx, db, userId, rule.ID, updated, time.Now()); err != nil {
				config.LogError(config.GetLogger(), "repricing", "ApplyAllRules", "BumpRuleStats", rule.ID, err)
			}
		}
	}

	return &ApplyAllResponse{
		Success:         true,
		RulesApplied:    len(rules),
		ProductsUpdated: totalUpdated,
	}, nil
}

// applyRuleToProducts runs the calculator over one rule's candidates and
// persists accepted changes. One product's failure never aborts the batch.
func (o *Orchestrator) applyRuleToProducts(ctx context.Context, userId string, rule *models.PricingRule, products []models.Product) (updated, failed int, results []ApplyResult) {
	db := config.GetDB()
	logger := config.GetLogger()
	results = make([]ApplyResult, 0, len(products))

	for i := range products {
		p := &products[i]

		newPrice, ok, calcErr := o.calc.Calculate(p, rule)
		if calcErr != nil {
			failed++
			config.LogError(logger, "repricing", "applyRuleToProducts", "Calculate", p.ID, calcErr)
			continue
		}
		if !ok || newPrice.Equal(p.Price) {
			// No change: not updated, not failed, no history entry.
			continue
		}

		previousPrice := p.Price
		if err := models.UpdateProductPrice(ctx, db, userId, p.ID, newPrice); err != nil {
			failed++
			config.LogError(logger, "repricing", "applyRuleToProducts", "UpdateProductPrice", p.ID, err)
			continue
		}
		if err := models.RecordPriceChange(ctx, db, p, previousPrice, newPrice, &rule.ID); err != nil {
			failed++
			config.LogError(logger, "repricing", "applyRuleToProducts", "RecordPriceChange", p.ID, err)
			continue
		}

		p.Price = newPrice
		updated++
		results = append(results, ApplyResult{
			ProductId:     p.ID,
			ProductName:   p.Name,
			PreviousPrice: previousPrice,
			NewPrice:      newPrice,
			PriceChange:   newPrice.Sub(previousPrice),
			NewMargin:     models.MarginPercent(newPrice, p.CostPrice),
		})
	}
	return updated, failed, results
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
