package channelsync

import (
	"context"

	"github.com/shopopti/pricing_backend/models"
	"github.com/shopspring/decimal"
)

// amazonAdapter is a deliberate stub: Amazon price updates require the
// SP-API OAuth flow, which is not wired yet. Every call fails with a clear
// message so the gap is visible in sync results instead of silently dropped.
type amazonAdapter struct{}

func (amazonAdapter) Sync(ctx context.Context, integration *models.Integration, mapping *models.ChannelMapping, newPrice decimal.Decimal) SyncOutcome {
	return SyncOutcome{
		Success: false,
		Error:   "Amazon price sync is not implemented: SP-API OAuth is required",
	}
}
