package channelsync

import (
	"context"

	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
)

// ResolveMappings returns the channel mappings eligible for one price push.
// Mappings already in error status sit out the push; they rejoin once their
// status is reset (manual action or a mapping update). An optional channel
// filter narrows the push to specific integrations.
func ResolveMappings(ctx context.Context, userId string, productId uint, channelIds []uint) ([]models.ChannelMapping, error) {
	db := config.GetDB().WithContext(ctx)

	query := db.Where("user_id = ? AND product_id = ?", userId, productId).
		Where("sync_status <> ?", models.SyncStatusError)
	if len(channelIds) > 0 {
		query = query.Where("channel_id IN ?", channelIds)
	}

	var mappings []models.ChannelMapping
	if err := query.Order("id asc").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}
