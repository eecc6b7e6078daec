package channelsync

import (
	"context"
	"fmt"
	"time"

	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

// Coordinator fans one price change out to every eligible channel mapping
// of a product, independently per channel.
type Coordinator struct {
	registry *Registry
}

func NewCoordinator(registry *Registry) *Coordinator {
	if registry == nil {
		registry = NewRegistry(AdapterConfigFromEnv())
	}
	return &Coordinator{registry: registry}
}

// SyncPrice pushes newPrice to the product's channels. Each mapping is
// processed on its own: one channel's failure never blocks the others. Every
// attempted adapter call gets exactly one PriceSyncLogEntry; skipped
// mappings (disabled or missing integration) are reported but not logged,
// since no call was made.
func (co *Coordinator) SyncPrice(ctx context.Context, userId string, productId uint, newPrice decimal.Decimal, channelIds []uint) (*SyncResponse, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	mappings, err := ResolveMappings(ctx, userId, productId, channelIds)
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return &SyncResponse{
			Success: true,
			Synced:  0,
			Total:   0,
			Results: []MappingResult{},
			Message: "nothing to sync",
		}, nil
	}

	channelSet := make(map[uint]struct{}, len(mappings))
	channelList := make([]uint, 0, len(mappings))
	for i := range mappings {
		if _, seen := channelSet[mappings[i].ChannelId]; !seen {
			channelSet[mappings[i].ChannelId] = struct{}{}
			channelList = append(channelList, mappings[i].ChannelId)
		}
	}
	integrations, err := models.GetIntegrationsByIds(ctx, db, userId, channelList)
	if err != nil {
		return nil, err
	}

	synced := 0
	results := make([]MappingResult, 0, len(mappings))

	for i := range mappings {
		mapping := &mappings[i]

		integration, found := integrations[mapping.ChannelId]
		if !found {
			results = append(results, MappingResult{
				MappingId: mapping.ID,
				Platform:  mapping.Platform,
				Status:    ResultStatusSkipped,
				Error:     "integration not found",
			})
			continue
		}
		if !integration.IsEnabled() {
			results = append(results, MappingResult{
				MappingId: mapping.ID,
				Platform:  mapping.Platform,
				Status:    ResultStatusSkipped,
				Error:     "integration is disabled",
			})
			continue
		}

		adapter := co.registry.Get(mapping.Platform)

		var outcome SyncOutcome
		var durationMs int64
		if adapter == nil {
			outcome = SyncOutcome{
				Success: false,
				Error:   fmt.Sprintf("Platform %s not supported", mapping.Platform),
			}
		} else {
			started := time.Now()
			outcome = adapter.Sync(ctx, integration, mapping, newPrice)
			durationMs = time.Since(started).Milliseconds()
		}

		logStatus := models.SyncLogStatusSuccess
		if !outcome.Success {
			logStatus = models.SyncLogStatusError
		}
		logEntry := models.PriceSyncLogEntry{
			UserId:      userId,
			MappingId:   mapping.ID,
			Platform:    mapping.Platform,
			OldPrice:    mapping.CurrentSyncedPrice,
			NewPrice:    newPrice,
			Status:      logStatus,
			Error:       outcome.Error,
			ApiResponse: outcome.Response,
			DurationMs:  durationMs,
		}
		if err := db.WithContext(ctx).Create(&logEntry).Error; err != nil {
			config.LogError(logger, "channelsync", "SyncPrice", "create sync log", mapping.ID, err)
		}

		if outcome.Success {
			if err := models.MarkMappingSynced(ctx, db, mapping.ID, newPrice, time.Now()); err != nil {
				config.LogError(logger, "channelsync", "SyncPrice", "MarkMappingSynced", mapping.ID, err)
			}
			synced++
			results = append(results, MappingResult{
				MappingId: mapping.ID,
				Platform:  mapping.Platform,
				Status:    ResultStatusSuccess,
			})
		} else {
			if err := models.MarkMappingError(ctx, db, mapping.ID, outcome.Error); err != nil {
				config.LogError(logger, "channelsync", "SyncPrice", "MarkMappingError", mapping.ID, err)
			}
			results = append(results, MappingResult{
				MappingId: mapping.ID,
				Platform:  mapping.Platform,
				Status:    ResultStatusError,
				Error:     outcome.Error,
			})
		}
	}

	return &SyncResponse{
		Success: true,
		Synced:  synced,
		Total:   len(mappings),
		Results: results,
	}, nil
}
