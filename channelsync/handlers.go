package channelsync

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopopti/pricing_backend/utils"
	"github.com/shopspring/decimal"
)

// SyncHandler is the channel sync operation endpoint: push one price change
// to the owner's external listings, optionally narrowed to specific
// channels, optionally tied to a sync queue entry.
func SyncHandler(co *Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || callerId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req SyncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		userId, err := resolveTargetOwner(c, callerId, req.UserId)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := c.Request.Context()
		db := config.GetDB()

		if req.QueueId != 0 {
			if err := models.MarkQueueEntry(ctx, db, userId, req.QueueId, models.QueueStatusProcessing, ""); err != nil {
				config.LogError(config.GetLogger(), "channelsync", "SyncHandler", "mark queue processing", req.QueueId, err)
			}
		}

		resp, err := co.SyncPrice(ctx, userId, req.ProductId, req.NewPrice, req.ChannelIds)
		if err != nil {
			if req.QueueId != 0 {
				_ = models.MarkQueueEntry(ctx, db, userId, req.QueueId, models.QueueStatusFailed, err.Error())
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if req.QueueId != 0 {
			_ = models.MarkQueueEntry(ctx, db, userId, req.QueueId, models.QueueStatusDone, "")
		}

		c.JSON(http.StatusOK, resp)
	}
}

type enqueueRequest struct {
	ProductId uint            `json:"product_id" binding:"required"`
	NewPrice  decimal.Decimal `json:"new_price" binding:"required"`
}

// EnqueueHandler accepts a price change for asynchronous fan-out: it records
// a queue entry and publishes it, then returns immediately. The Pub/Sub push
// endpoint does the actual channel sync.
func EnqueueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req enqueueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		// Only the owner's own products can be queued.
		if _, err := models.GetProductById(c.Request.Context(), userId, req.ProductId); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		entry, err := EnqueueSync(c.Request.Context(), userId, req.ProductId, req.NewPrice)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"success":  true,
			"queue_id": entry.ID,
			"status":   entry.Status,
		})
	}
}

// resolveTargetOwner allows a request to act on another owner's records only
// when the caller is a platform admin (internal queue processing).
func resolveTargetOwner(c *gin.Context, callerId, requestedId string) (string, error) {
	requestedId = strings.TrimSpace(requestedId)
	if requestedId == "" || requestedId == callerId {
		return callerId, nil
	}
	isAdmin, _ := utils.GetIsAdminFromContext(c.Request.Context())
	if !isAdmin {
		return "", errors.New("unauthorized")
	}
	return requestedId, nil
}
