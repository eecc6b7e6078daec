package channelsync

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopopti/pricing_backend/utils"
	"github.com/shopspring/decimal"
)

// EnqueueSync persists a queue entry for a price change and publishes it for
// asynchronous fan-out.
func EnqueueSync(ctx context.Context, userId string, productId uint, newPrice decimal.Decimal) (*models.SyncQueueEntry, error) {
	db := config.GetDB()
	entry := models.SyncQueueEntry{
		UserId:    userId,
		ProductId: productId,
		NewPrice:  newPrice,
		Status:    models.QueueStatusQueued,
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	if err := PublishQueuedSync(ctx, &entry); err != nil {
		// The entry stays queued; a cron-like caller can re-publish it.
		config.LogError(config.GetLogger(), "channelsync", "EnqueueSync", "publish", entry.ID, err)
	}
	return &entry, nil
}

func PublishQueuedSync(ctx context.Context, entry *models.SyncQueueEntry) error {
	topicName := strings.TrimSpace(os.Getenv("PRICE_SYNC_TOPIC"))
	if topicName == "" {
		topicName = "price-sync"
	}

	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}

	topic := client.Topic(topicName)
	if envBoolDefault("PRICE_SYNC_CREATE_TOPIC", false) {
		topic, err = config.CreateTopicIfNotExists(client, topicName)
		if err != nil {
			return err
		}
	}

	payload := QueuePubSubPayload{
		QueueId:   entry.ID,
		UserId:    entry.UserId,
		ProductId: entry.ProductId,
		NewPrice:  entry.NewPrice,
	}
	data, _ := json.Marshal(payload)
	res := topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err = res.Get(ctx)
	return err
}

// PubSubPushHandler processes queued price changes delivered by a Pub/Sub
// push subscription. Malformed envelopes are acked and dropped to avoid
// infinite redelivery.
func PubSubPushHandler(co *Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !envBoolDefault("ENABLE_PRICE_SYNC_PUSH_ENDPOINT", true) {
			c.Status(204)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(204)
			return
		}

		var envelope PubSubPushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.Status(204)
			return
		}

		var payload QueuePubSubPayload
		if err := json.Unmarshal(envelope.Message.Data, &payload); err != nil {
			c.Status(204)
			return
		}
		if payload.QueueId == 0 || payload.UserId == "" {
			c.Status(204)
			return
		}

		ctx := utils.SetUserIdInContext(c.Request.Context(), payload.UserId)
		db := config.GetDB()

		if err := models.MarkQueueEntry(ctx, db, payload.UserId, payload.QueueId, models.QueueStatusProcessing, ""); err != nil {
			config.LogError(config.GetLogger(), "channelsync", "PubSubPushHandler", "mark queue processing", payload.QueueId, err)
		}

		if _, err := co.SyncPrice(ctx, payload.UserId, payload.ProductId, payload.NewPrice, nil); err != nil {
			_ = models.MarkQueueEntry(ctx, db, payload.UserId, payload.QueueId, models.QueueStatusFailed, err.Error())
			c.Status(204)
			return
		}

		_ = models.MarkQueueEntry(ctx, db, payload.UserId, payload.QueueId, models.QueueStatusDone, "")
		c.Status(204)
	}
}

func envBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}
