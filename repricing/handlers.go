package repricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopopti/pricing_backend/utils"
)

// EngineHandler is the repricing operation endpoint: one POST body carrying
// an action plus its parameters, mirroring the dashboard's invocation shape.
func EngineHandler(orch *Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req EngineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		ctx := c.Request.Context()
		switch req.Action {
		case ActionCalculatePreview:
			resp, err := orch.Preview(ctx, userId, req.RuleId, req.ProductIds, req.ApplyToAll)
			if err != nil {
				respondEngineError(c, err)
				return
			}
			c.JSON(http.StatusOK, resp)

		case ActionApplyRule:
			resp, err := orch.ApplyRule(ctx, userId, req.RuleId, req.ProductIds, req.ApplyToAll)
			if err != nil {
				respondEngineError(c, err)
				return
			}
			c.JSON(http.StatusOK, resp)

		case ActionApplyAllRules:
			resp, err := orch.ApplyAllRules(ctx, userId)
			if err != nil {
				respondEngineError(c, err)
				return
			}
			c.JSON(http.StatusOK, resp)

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		}
	}
}

func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
	case errors.Is(err, ErrRuleInactive):
		c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule is not active"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
